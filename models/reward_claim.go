package models

import "time"

// RewardKind identifies a timed reward bucket
type RewardKind string

const (
	RewardKindDaily   RewardKind = "daily"
	RewardKindHourly  RewardKind = "hourly"
	RewardKindMonthly RewardKind = "monthly"
)

// RewardClaim records the most recent claim of a timed reward
type RewardClaim struct {
	DiscordID  int64      `db:"discord_id"`
	RewardKind RewardKind `db:"reward_kind"`
	ClaimedAt  time.Time  `db:"claimed_at"`
}
