package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"casino/events"
	"casino/service"
)

// Config holds bot configuration
type Config struct {
	Token  string
	Prefix string
}

type Bot struct {
	config           Config
	session          *discordgo.Session
	userService      service.UserService
	slotsService     service.SlotsService
	rouletteService  service.RouletteService
	rpsService       service.RPSService
	rewardService    service.RewardService
	shopService      service.ShopService
	blackjackService service.BlackjackService
	crashService     service.CrashService
	eventBus         *events.Bus

	// Tracks the live crash round's status message so the reaction
	// listener can route 🛑 to a cash-out.
	crashMu        sync.Mutex
	crashChannelID string
	crashMessageID string
}

func New(config Config, userService service.UserService, slotsService service.SlotsService, rouletteService service.RouletteService, rpsService service.RPSService, rewardService service.RewardService, shopService service.ShopService, blackjackService service.BlackjackService, crashService service.CrashService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	bot := &Bot{
		config:           config,
		session:          dg,
		userService:      userService,
		slotsService:     slotsService,
		rouletteService:  rouletteService,
		rpsService:       rpsService,
		rewardService:    rewardService,
		shopService:      shopService,
		blackjackService: blackjackService,
		crashService:     crashService,
		eventBus:         eventBus,
	}

	dg.AddHandler(bot.handleMessage)
	dg.AddHandler(bot.handleReaction)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	bot.subscribeEvents()

	return bot, nil
}

// bigWinMultiple is the payout-to-wager ratio from which a game result
// is shown off in the bot's presence.
const bigWinMultiple = 10

func isBigWin(e events.GameResultEvent) bool {
	return e.Wager > 0 && e.Payout >= e.Wager*bigWinMultiple
}

// subscribeEvents wires the in-process event consumers: an audit log
// entry for every ledger change and a presence update on big wins.
func (b *Bot) subscribeEvents() {
	b.eventBus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"userID":          e.UserID,
			"transactionType": e.TransactionType,
			"changeAmount":    e.ChangeAmount,
			"newBalance":      e.NewBalance,
		}).Info("Balance changed")
	})

	b.eventBus.Subscribe(events.EventTypeGameResult, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.GameResultEvent)
		if !ok || !isBigWin(e) {
			return
		}
		status := fmt.Sprintf("💰 %d token %s win", e.Payout, e.Game)
		if err := b.session.UpdateGameStatus(0, status); err != nil {
			log.Errorf("Error updating status after big win: %v", err)
		}
	})
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, b.config.Prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, b.config.Prefix))
	if len(fields) == 0 {
		return
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]

	ctx := context.Background()

	discordID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", m.Author.ID, err)
		return
	}

	// Ensure the ledger row exists before any command touches it
	if _, err := b.userService.GetOrCreateUser(ctx, discordID, m.Author.Username); err != nil {
		log.Errorf("Error getting user %d: %v", discordID, err)
		b.reply(s, m.ChannelID, "Something went wrong. Please try again.")
		return
	}

	switch command {
	case "slots":
		b.handleSlots(ctx, s, m, discordID, args)
	case "roulette":
		b.handleRoulette(ctx, s, m, discordID, args)
	case "rps":
		b.handleRPS(ctx, s, m, discordID, args)
	case "crash":
		b.handleCrash(ctx, s, m, discordID, args)
	case "blackjack":
		b.handleBlackjackStart(ctx, s, m, discordID, args)
	case "hit":
		b.handleBlackjackMove(ctx, s, m, discordID, args, b.blackjackService.Hit)
	case "stand":
		b.handleBlackjackMove(ctx, s, m, discordID, args, b.blackjackService.Stand)
	case "double":
		b.handleBlackjackMove(ctx, s, m, discordID, args, b.blackjackService.Double)
	case "split":
		b.handleBlackjackSplit(ctx, s, m, discordID)
	case "bet1":
		b.handleBlackjackBet(ctx, s, m, discordID, 1, args)
	case "bet2":
		b.handleBlackjackBet(ctx, s, m, discordID, 2, args)
	case "daily":
		b.handleReward(ctx, s, m, discordID, "daily")
	case "hourly":
		b.handleReward(ctx, s, m, discordID, "hourly")
	case "monthly":
		b.handleReward(ctx, s, m, discordID, "monthly")
	case "pay":
		b.handlePay(ctx, s, m, discordID, args)
	case "shop":
		b.handleShop(s, m)
	case "buy":
		b.handleBuy(ctx, s, m, discordID, args)
	case "inventory", "inv":
		b.handleInventory(ctx, s, m, discordID)
	case "leaderboard":
		b.handleLeaderboard(ctx, s, m)
	case "balance", "bal":
		b.handleBalance(ctx, s, m, discordID)
	case "distribution", "dist":
		b.reply(s, m.ChannelID, distributionText())
	case "help":
		b.reply(s, m.ChannelID, helpText(b.config.Prefix))
	}
}

// reply sends a plain channel message, logging send failures.
func (b *Bot) reply(s *discordgo.Session, channelID, message string) {
	if _, err := s.ChannelMessageSend(channelID, message); err != nil {
		log.Errorf("Error sending message: %v", err)
	}
}

// replyServiceError renders a service error as a user-facing message.
// Unknown errors are logged and reported generically.
func (b *Bot) replyServiceError(s *discordgo.Session, channelID string, err error) {
	var rateLimited *service.RateLimitedError
	switch {
	case errors.As(err, &rateLimited):
		b.reply(s, channelID, fmt.Sprintf("⏳ Not so fast. Try again in **%s**.", FormatDuration(rateLimited.Remaining)))
	case errors.Is(err, service.ErrInsufficientFunds):
		b.reply(s, channelID, "💸 You don't have enough tokens for that.")
	case errors.Is(err, service.ErrNoActiveSession):
		b.reply(s, channelID, "There's no active game for that right now.")
	case errors.Is(err, service.ErrSessionAlreadyActive):
		b.reply(s, channelID, "You already have a game in progress. Finish it first.")
	case errors.Is(err, service.ErrInvalidArgument):
		b.reply(s, channelID, fmt.Sprintf("❌ %s", userMessage(err)))
	default:
		log.Errorf("Command failed: %v", err)
		b.reply(s, channelID, "Something went wrong. Please try again.")
	}
}

// userMessage strips the sentinel prefix from an invalid-argument error
// so the remaining detail reads naturally in chat.
func userMessage(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}
