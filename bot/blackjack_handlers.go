package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"casino/games/blackjack"
	"casino/service"
)

// blackjackMove is any of the per-hand session operations
type blackjackMove func(ctx context.Context, discordID int64, handIndex int) (*service.BlackjackView, error)

func (b *Bot) handleBlackjackStart(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, discordID int64, args []string) {
	if len(args) != 1 {
		b.reply(s, m.ChannelID, fmt.Sprintf("Usage: %sblackjack <bet>", b.config.Prefix))
		return
	}
	bet, err := parseAmount(args[0])
	if err != nil {
		b.reply(s, m.ChannelID, "The bet must be a positive number.")
		return
	}

	view, err := b.blackjackService.Start(ctx, discordID, bet)
	if err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}
	b.reply(s, m.ChannelID, renderBlackjack(b.config.Prefix, m.Author.Username, view))
}

func (b *Bot) handleBlackjackMove(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, discordID int64, args []string, move blackjackMove) {
	handIndex := 1
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			b.reply(s, m.ChannelID, "The hand number must be 1 or 2.")
			return
		}
		handIndex = parsed
	}

	view, err := move(ctx, discordID, handIndex)
	if err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}
	b.reply(s, m.ChannelID, renderBlackjack(b.config.Prefix, m.Author.Username, view))
}

func (b *Bot) handleBlackjackSplit(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, discordID int64) {
	view, err := b.blackjackService.Split(ctx, discordID)
	if err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}
	b.reply(s, m.ChannelID, renderBlackjack(b.config.Prefix, m.Author.Username, view))
}

func (b *Bot) handleBlackjackBet(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, discordID int64, handIndex int, args []string) {
	if len(args) != 1 {
		b.reply(s, m.ChannelID, fmt.Sprintf("Usage: %sbet%d <amount>", b.config.Prefix, handIndex))
		return
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		b.reply(s, m.ChannelID, "The amount must be a positive number.")
		return
	}

	view, err := b.blackjackService.SetHandBet(ctx, discordID, handIndex, amount)
	if err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}
	b.reply(s, m.ChannelID, renderBlackjack(b.config.Prefix, m.Author.Username, view))
}

func renderBlackjack(prefix, username string, view *service.BlackjackView) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🃏 **Blackjack** — %s\n", username))

	if view.Settlement != nil {
		return renderSettlement(&sb, view.Settlement)
	}

	sb.WriteString(fmt.Sprintf("Dealer shows: %s (?)\n", renderCards([]blackjack.Card{view.DealerUp})))
	for _, hand := range view.Hands {
		status := ""
		if !hand.Ongoing {
			status = " — standing"
		}
		sb.WriteString(fmt.Sprintf("Hand %d [%s tokens]: %s = **%d**%s\n",
			hand.Index, FormatBalance(hand.Bet), renderCards(hand.Cards), hand.Value, status))
	}

	actions := []string{prefix + "hit", prefix + "stand", prefix + "double"}
	if len(view.Hands) == 1 && view.Hands[0].CanSplit {
		actions = append(actions, prefix+"split")
	}
	if len(view.Hands) == 2 {
		actions = append(actions, prefix+"bet1", prefix+"bet2")
	}
	sb.WriteString("Moves: " + strings.Join(actions, ", "))
	return sb.String()
}

func renderSettlement(sb *strings.Builder, settlement *blackjack.Settlement) string {
	sb.WriteString(fmt.Sprintf("Dealer reveals: %s = **%d**\n",
		renderCards(settlement.DealerCards), settlement.DealerValue))

	for _, result := range settlement.Results {
		line := fmt.Sprintf("Hand %d: %s = **%d** — ", result.HandIndex, renderCards(result.Cards), result.Value)
		switch result.Outcome {
		case blackjack.OutcomeWin:
			line += fmt.Sprintf("🎉 won **%s tokens**", FormatBalance(result.Winnings))
		case blackjack.OutcomePush:
			line += fmt.Sprintf("🤝 push, **%s tokens** returned", FormatBalance(result.Winnings))
		default:
			if result.Value > 21 {
				line += "💥 bust"
			} else {
				line += "😔 lost"
			}
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func renderCards(cards []blackjack.Card) string {
	parts := make([]string, len(cards))
	for i, card := range cards {
		parts[i] = strconv.Itoa(int(card))
	}
	return strings.Join(parts, " ")
}
