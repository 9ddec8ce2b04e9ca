package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"casino/games/roulette"
	"casino/games/rps"
	"casino/service"
)

const rouletteFrameDelay = 500 * time.Millisecond

func (b *Bot) handleSlots(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, discordID int64, args []string) {
	if len(args) != 1 {
		b.reply(s, m.ChannelID, fmt.Sprintf("Usage: %sslots <wager>", b.config.Prefix))
		return
	}
	wager, err := parseAmount(args[0])
	if err != nil {
		b.reply(s, m.ChannelID, "The wager must be a positive number.")
		return
	}

	result, err := b.slotsService.Play(ctx, discordID, wager)
	if err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}

	var sb strings.Builder
	sb.WriteString("🎰 **Slots**\n")
	for row := 0; row < 3; row++ {
		if row == 1 {
			sb.WriteString("➡️ ")
		} else {
			sb.WriteString("      ")
		}
		sb.WriteString(strings.Join(result.Grid[row][:], " "))
		if row == 1 {
			sb.WriteString(" ⬅️")
		}
		sb.WriteString("\n")
	}
	if result.Payout > 0 {
		sb.WriteString(fmt.Sprintf("🎉 You won **%s tokens**! (odds %.4f%%) Balance: **%s**.",
			FormatBalance(result.Payout), result.Odds*100, FormatBalance(result.NewBalance)))
	} else {
		sb.WriteString(fmt.Sprintf("😔 No luck. You lost **%s tokens**. Balance: **%s**.",
			FormatBalance(wager), FormatBalance(result.NewBalance)))
	}
	b.reply(s, m.ChannelID, sb.String())
}

func (b *Bot) handleRoulette(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, discordID int64, args []string) {
	if len(args) == 0 || len(args)%2 != 0 {
		b.reply(s, m.ChannelID, fmt.Sprintf("Usage: %sroulette <amount> <red|black|green|1-36> (up to %d bets)", b.config.Prefix, service.MaxRouletteBets))
		return
	}

	var bets []roulette.Bet
	for i := 0; i < len(args); i += 2 {
		amount, err := parseAmount(args[i])
		if err != nil {
			b.reply(s, m.ChannelID, "Each bet amount must be a positive number.")
			return
		}
		bets = append(bets, roulette.Bet{Amount: amount, Selector: strings.ToLower(args[i+1])})
	}

	result, err := b.rouletteService.Play(ctx, discordID, bets)
	if err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}

	msg, err := s.ChannelMessageSend(m.ChannelID, "🎡 **Roulette** — spinning...")
	if err != nil {
		log.Errorf("Error sending roulette message: %v", err)
		return
	}
	for _, frame := range result.Frames {
		time.Sleep(rouletteFrameDelay)
		if _, err := s.ChannelMessageEdit(m.ChannelID, msg.ID, "🎡 **Roulette**\n"+renderFrame(frame)); err != nil {
			log.Errorf("Error editing roulette message: %v", err)
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("The ball landed on **%s** %s\n", result.Outcome, colorEmoji(result.Outcome)))
	var total int64
	for _, bet := range result.Bets {
		if bet.Payout > 0 {
			sb.WriteString(fmt.Sprintf("• %s on **%s** → won **%s**\n",
				FormatBalance(bet.Bet.Amount), bet.Bet.Selector, FormatBalance(bet.Payout)))
		} else {
			sb.WriteString(fmt.Sprintf("• %s on **%s** → lost\n",
				FormatBalance(bet.Bet.Amount), bet.Bet.Selector))
		}
		total += bet.Payout
	}
	if total > 0 {
		sb.WriteString(fmt.Sprintf("🎉 Total winnings: **%s tokens**. Balance: **%s**.",
			FormatBalance(total), FormatBalance(result.NewBalance)))
	} else {
		sb.WriteString(fmt.Sprintf("😔 The house wins. Balance: **%s**.", FormatBalance(result.NewBalance)))
	}
	b.reply(s, m.ChannelID, sb.String())
}

func (b *Bot) handleRPS(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, discordID int64, args []string) {
	if len(args) != 1 {
		b.reply(s, m.ChannelID, fmt.Sprintf("Usage: %srps <rock|paper|scissors>", b.config.Prefix))
		return
	}
	move, ok := rps.ParseMove(args[0])
	if !ok {
		b.reply(s, m.ChannelID, "Pick rock, paper or scissors.")
		return
	}

	result, err := b.rpsService.Play(ctx, discordID, move)
	if err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}

	line := fmt.Sprintf("%s %s vs %s %s — ", moveEmoji(result.PlayerMove), result.PlayerMove, moveEmoji(result.BotMove), result.BotMove)
	switch result.Outcome {
	case rps.Win:
		line += fmt.Sprintf("you win **%s tokens**! Balance: **%s**.",
			FormatBalance(result.Reward), FormatBalance(result.NewBalance))
	case rps.Draw:
		line += "it's a draw."
	default:
		line += "you lose."
	}
	b.reply(s, m.ChannelID, line)
}

func renderFrame(frame roulette.Frame) string {
	parts := make([]string, len(frame))
	for i, pocket := range frame {
		if i == len(frame)/2 {
			parts[i] = "[" + colorEmoji(pocket) + "]"
		} else {
			parts[i] = colorEmoji(pocket)
		}
	}
	return strings.Join(parts, " ")
}

func colorEmoji(c roulette.Color) string {
	switch c {
	case roulette.Red:
		return "🔴"
	case roulette.Black:
		return "⚫"
	default:
		return "🟢"
	}
}

func moveEmoji(m rps.Move) string {
	switch m {
	case rps.Rock:
		return "🪨"
	case rps.Paper:
		return "📄"
	default:
		return "✂️"
	}
}
