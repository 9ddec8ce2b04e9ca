package bot

import (
	"fmt"
	"sort"
	"strings"

	"casino/games/slots"
)

func helpText(prefix string) string {
	var sb strings.Builder
	sb.WriteString("🎲 **Casino commands**\n")
	sb.WriteString(fmt.Sprintf("`%sslots <wager>` — spin the slot machine\n", prefix))
	sb.WriteString(fmt.Sprintf("`%sroulette <amount> <red|black|green|1-36>` — spin the wheel, up to 3 bets\n", prefix))
	sb.WriteString(fmt.Sprintf("`%srps <rock|paper|scissors>` — beat the bot for 100 tokens\n", prefix))
	sb.WriteString(fmt.Sprintf("`%scrash` / `%scrash <wager>` — start or join a crash round, react %s to cash out\n", prefix, prefix, cashOutEmoji))
	sb.WriteString(fmt.Sprintf("`%sblackjack <bet>` then `%shit` `%sstand` `%sdouble` `%ssplit` `%sbet1` `%sbet2`\n",
		prefix, prefix, prefix, prefix, prefix, prefix, prefix))
	sb.WriteString(fmt.Sprintf("`%sdaily` `%shourly` `%smonthly` — timed rewards\n", prefix, prefix, prefix))
	sb.WriteString(fmt.Sprintf("`%spay @user <amount>` — send tokens\n", prefix))
	sb.WriteString(fmt.Sprintf("`%sshop` `%sbuy <item>` `%sinventory` — spend your fortune\n", prefix, prefix, prefix))
	sb.WriteString(fmt.Sprintf("`%sbalance` `%sleaderboard` `%sdistribution` — the numbers\n", prefix, prefix, prefix))
	return sb.String()
}

func distributionText() string {
	triples, pairDollar := slots.Multipliers()

	var sb strings.Builder
	sb.WriteString("📊 **Slots payouts** (middle row)\n")

	sb.WriteString("Three of a kind:\n")
	for _, entry := range sortedMultipliers(triples) {
		sb.WriteString(fmt.Sprintf("• %s %s %s → ×%d\n", entry.symbol, entry.symbol, entry.symbol, entry.multiplier))
	}

	sb.WriteString(fmt.Sprintf("Pair + %s:\n", slots.Dollar))
	for _, entry := range sortedMultipliers(pairDollar) {
		sb.WriteString(fmt.Sprintf("• %s %s %s → ×%d\n", entry.symbol, entry.symbol, slots.Dollar, entry.multiplier))
	}

	sb.WriteString(fmt.Sprintf("• %s %s any → ×5\n", slots.Cherry, slots.Cherry))
	sb.WriteString(fmt.Sprintf("• %s + two different → ×2\n", slots.Cherry))
	return sb.String()
}

type multiplierEntry struct {
	symbol     slots.Symbol
	multiplier int64
}

func sortedMultipliers(table map[slots.Symbol]int64) []multiplierEntry {
	entries := make([]multiplierEntry, 0, len(table))
	for symbol, multiplier := range table {
		entries = append(entries, multiplierEntry{symbol, multiplier})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].multiplier != entries[j].multiplier {
			return entries[i].multiplier > entries[j].multiplier
		}
		return entries[i].symbol < entries[j].symbol
	})
	return entries
}
