package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"casino/service"
)

const cashOutEmoji = "🛑"

// crashEditInterval throttles multiplier edits below Discord's message
// edit rate limit; the engine ticks far faster than that.
const crashEditInterval = time.Second

func (b *Bot) handleCrash(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, discordID int64, args []string) {
	if len(args) == 0 {
		b.startCrashRound(s, m.ChannelID)
		return
	}

	wager, err := parseAmount(args[0])
	if err != nil {
		b.reply(s, m.ChannelID, fmt.Sprintf("Usage: %scrash to start a round, %scrash <wager> to join one.", b.config.Prefix, b.config.Prefix))
		return
	}

	if err := b.crashService.Join(ctx, discordID, wager); err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}
	b.reply(s, m.ChannelID, fmt.Sprintf("🚀 **%s** is in with **%s tokens**. React %s on the round message to cash out!",
		m.Author.Username, FormatBalance(wager), cashOutEmoji))
}

func (b *Bot) startCrashRound(s *discordgo.Session, channelID string) {
	b.crashMu.Lock()
	alreadyRunning := b.crashMessageID != ""
	b.crashMu.Unlock()
	if alreadyRunning {
		b.reply(s, channelID, "A crash round is already running.")
		return
	}

	msg, err := s.ChannelMessageSend(channelID, fmt.Sprintf(
		"🚀 **Crash** is starting! Join with `%scrash <wager>`, cash out by reacting %s.", b.config.Prefix, cashOutEmoji))
	if err != nil {
		log.Errorf("Error sending crash message: %v", err)
		return
	}

	b.crashMu.Lock()
	b.crashChannelID = channelID
	b.crashMessageID = msg.ID
	b.crashMu.Unlock()

	broadcaster := &crashBroadcaster{
		bot:       b,
		session:   s,
		channelID: channelID,
		messageID: msg.ID,
	}

	go func() {
		err := b.crashService.Run(context.Background(), broadcaster)

		b.crashMu.Lock()
		if b.crashMessageID == msg.ID {
			b.crashChannelID = ""
			b.crashMessageID = ""
		}
		b.crashMu.Unlock()

		if err != nil && !errors.Is(err, context.Canceled) {
			if errors.Is(err, service.ErrSessionAlreadyActive) {
				b.reply(s, channelID, "A crash round is already running.")
				return
			}
			log.Errorf("Crash round failed: %v", err)
		}
	}()
}

// handleReaction routes 🛑 reactions on the live crash message to a
// cash-out.
func (b *Bot) handleReaction(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.Emoji.Name != cashOutEmoji {
		return
	}
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}

	b.crashMu.Lock()
	activeMessageID := b.crashMessageID
	b.crashMu.Unlock()
	if r.MessageID != activeMessageID {
		return
	}

	discordID, err := strconv.ParseInt(r.UserID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", r.UserID, err)
		return
	}

	result, err := b.crashService.CashOut(context.Background(), discordID)
	if err != nil {
		// Spectators react too; only real faults are worth logging
		if !errors.Is(err, service.ErrInvalidArgument) && !errors.Is(err, service.ErrNoActiveSession) {
			log.Errorf("Crash cash-out failed for user %d: %v", discordID, err)
		}
		return
	}

	b.reply(s, r.ChannelID, fmt.Sprintf("💰 <@%s> cashed out at **%.2fx** for **%s tokens**!",
		r.UserID, result.Multiplier, FormatBalance(result.Payout)))
}

// crashBroadcaster renders round progress by editing the round message.
type crashBroadcaster struct {
	bot       *Bot
	session   *discordgo.Session
	channelID string
	messageID string

	lastEdit time.Time
}

func (c *crashBroadcaster) Countdown(secondsLeft int) {
	if time.Since(c.lastEdit) < crashEditInterval && secondsLeft > 1 {
		return
	}
	c.edit(fmt.Sprintf("🚀 **Crash** launches in **%d**... Join with `%scrash <wager>`!",
		secondsLeft, c.bot.config.Prefix))
}

func (c *crashBroadcaster) Multiplier(multiplier float64) {
	if time.Since(c.lastEdit) < crashEditInterval {
		return
	}
	c.edit(fmt.Sprintf("🚀 **%.2fx** — react %s to cash out!", multiplier, cashOutEmoji))
}

func (c *crashBroadcaster) Crashed(multiplier float64, losses []service.CrashLoss) {
	c.edit(fmt.Sprintf("💥 **Crashed at %.2fx!**", multiplier))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💥 The rocket crashed at **%.2fx**.", multiplier))
	if len(losses) > 0 {
		sb.WriteString(" Going down with it:\n")
		for _, loss := range losses {
			sb.WriteString(fmt.Sprintf("• <@%d> — **%s tokens**\n", loss.DiscordID, FormatBalance(loss.Wager)))
		}
	} else {
		sb.WriteString(" Everyone got out in time!")
	}
	c.bot.reply(c.session, c.channelID, sb.String())
}

func (c *crashBroadcaster) edit(content string) {
	c.lastEdit = time.Now()
	if _, err := c.session.ChannelMessageEdit(c.channelID, c.messageID, content); err != nil {
		log.Errorf("Error editing crash message: %v", err)
	}
}
