package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"casino/models"
)

func (b *Bot) handleBalance(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, discordID int64) {
	user, err := b.userService.GetOrCreateUser(ctx, discordID, m.Author.Username)
	if err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}
	b.reply(s, m.ChannelID, fmt.Sprintf("%s, your balance is **%s tokens**.", m.Author.Username, FormatBalance(user.Balance)))
}

func (b *Bot) handlePay(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, discordID int64, args []string) {
	if len(args) != 2 {
		b.reply(s, m.ChannelID, fmt.Sprintf("Usage: %spay @user <amount>", b.config.Prefix))
		return
	}

	toDiscordID, ok := parseMention(args[0])
	if !ok {
		b.reply(s, m.ChannelID, "Mention the user you want to pay, like `@name`.")
		return
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		b.reply(s, m.ChannelID, "The amount must be a positive number.")
		return
	}

	// The recipient may never have talked to the bot
	recipientName := args[0]
	if len(m.Mentions) > 0 {
		recipientName = m.Mentions[0].Username
	}
	if _, err := b.userService.GetOrCreateUser(ctx, toDiscordID, recipientName); err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}

	result, err := b.userService.Transfer(ctx, discordID, toDiscordID, amount)
	if err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}

	b.reply(s, m.ChannelID, fmt.Sprintf("✅ **%s** paid **%s tokens** to **%s**. Your balance: **%s**.",
		m.Author.Username, FormatBalance(result.Amount), recipientName, FormatBalance(result.SenderBalance)))
}

func (b *Bot) handleReward(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, discordID int64, kind models.RewardKind) {
	result, err := b.rewardService.Claim(ctx, discordID, kind)
	if err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}
	b.reply(s, m.ChannelID, fmt.Sprintf("🎁 You claimed your %s reward of **%s tokens**! Balance: **%s**.",
		kind, FormatBalance(result.Amount), FormatBalance(result.NewBalance)))
}

func (b *Bot) handleLeaderboard(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	users, err := b.userService.Leaderboard(ctx, 10)
	if err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}
	if len(users) == 0 {
		b.reply(s, m.ChannelID, "Nobody has any tokens yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 **Leaderboard**\n")
	for i, user := range users {
		sb.WriteString(fmt.Sprintf("%d. **%s** — %s tokens\n", i+1, user.Username, FormatBalance(user.Balance)))
	}
	b.reply(s, m.ChannelID, sb.String())
}

func (b *Bot) handleShop(s *discordgo.Session, m *discordgo.MessageCreate) {
	var sb strings.Builder
	sb.WriteString("🏪 **Shop**\n")
	for _, item := range b.shopService.Catalog() {
		sb.WriteString(fmt.Sprintf("• **%s** — %s tokens\n", item.Name, FormatBalance(item.Price)))
	}
	sb.WriteString(fmt.Sprintf("Buy with `%sbuy <item>`.", b.config.Prefix))
	b.reply(s, m.ChannelID, sb.String())
}

func (b *Bot) handleBuy(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, discordID int64, args []string) {
	if len(args) != 1 {
		b.reply(s, m.ChannelID, fmt.Sprintf("Usage: %sbuy <item>", b.config.Prefix))
		return
	}

	result, err := b.shopService.Buy(ctx, discordID, strings.ToLower(args[0]))
	if err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}

	b.reply(s, m.ChannelID, fmt.Sprintf("🛍️ You bought a **%s** for **%s tokens**. Balance: **%s**.",
		result.ItemName, FormatBalance(result.Price), FormatBalance(result.NewBalance)))
}

func (b *Bot) handleInventory(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, discordID int64) {
	items, err := b.shopService.Inventory(ctx, discordID)
	if err != nil {
		b.replyServiceError(s, m.ChannelID, err)
		return
	}
	if len(items) == 0 {
		b.reply(s, m.ChannelID, "Your inventory is empty.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎒 **%s's inventory**\n", m.Author.Username))
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("• %s × %d\n", item.ItemName, item.Quantity))
	}
	b.reply(s, m.ChannelID, sb.String())
}
