package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SpinBand is one slice of the wheel: a draw in (prev.Threshold, Threshold]
// pays Tokens. Bands are ordered by ascending cumulative threshold and the
// last band must reach the draw ceiling.
type SpinBand struct {
	Threshold int
	Tokens    int64
}

// SpinDrawMax is the inclusive upper bound of the uniform draw.
const SpinDrawMax = 1000

// Config carries every tunable the engines consume. Values are data, not
// structure: tables can be swapped without touching engine code.
type Config struct {
	Host string
	Port string

	// Spin
	PremiumSpinCost  decimal.Decimal
	PremiumTable     []SpinBand
	FreeTable        []SpinBand
	PremiumDailyCap  int64
	BypassIdentities []string

	// Daily reward
	VIPWeeklyBonus  int64
	VIPDailyMin     int64
	VIPDailyMax     int64
	FreeWeeklyBonus int64
	FreeDailyReward int64
	TrialEarnCap    int64

	// Referral
	ReferralTier2Friends int64
	ReferralTier3Friends int64
	ReferralRates        [3]decimal.Decimal
	ReferralCap          decimal.Decimal
	MilestoneSpend       decimal.Decimal
	MilestoneBonus       decimal.Decimal
	MinCommissionOrder   decimal.Decimal

	// Abuse
	RateLimitPerHour   int64
	DeviceAccountLimit int64
	IPVelocityLimit    int64
	ScoreSuspicious    int
	ScoreBlocked       int

	// Top-up premium spin grants, largest threshold first.
	TopupSpinGrants []TopupGrant

	// Migration
	TokenMigrationRate int64
}

// TopupGrant awards Spins premium spins for top-ups of at least Amount.
type TopupGrant struct {
	Amount decimal.Decimal
	Spins  int64
}

// Load builds the config from the environment on top of the product
// defaults.
func Load() *Config {
	cfg := Default()

	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("RATE_LIMIT_PER_HOUR"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.RateLimitPerHour = n
		}
	}
	if v := os.Getenv("TRIAL_EARN_CAP"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.TrialEarnCap = n
		}
	}
	if v := os.Getenv("SPIN_BYPASS_IDENTITIES"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.BypassIdentities = append(cfg.BypassIdentities, id)
			}
		}
	}
	return cfg
}

// Default returns the production reward tables and limits.
func Default() *Config {
	return &Config{
		Host: "127.0.0.1",
		Port: "3000",

		PremiumSpinCost: decimal.NewFromInt(10),
		PremiumTable: []SpinBand{
			{Threshold: 350, Tokens: 20},
			{Threshold: 700, Tokens: 50},
			{Threshold: 900, Tokens: 100},
			{Threshold: 990, Tokens: 250},
			{Threshold: 1000, Tokens: 1000},
		},
		FreeTable: []SpinBand{
			{Threshold: 500, Tokens: 1},
			{Threshold: 850, Tokens: 5},
			{Threshold: 980, Tokens: 10},
			{Threshold: 1000, Tokens: 50},
		},
		PremiumDailyCap: 10,

		VIPWeeklyBonus:  50,
		VIPDailyMin:     5,
		VIPDailyMax:     15,
		FreeWeeklyBonus: 10,
		FreeDailyReward: 2,
		TrialEarnCap:    50,

		ReferralTier2Friends: 11,
		ReferralTier3Friends: 31,
		ReferralRates: [3]decimal.Decimal{
			decimal.NewFromFloat(0.005),
			decimal.NewFromFloat(0.010),
			decimal.NewFromFloat(0.015),
		},
		ReferralCap:        decimal.NewFromInt(50),
		MilestoneSpend:     decimal.NewFromInt(300),
		MilestoneBonus:     decimal.NewFromInt(15),
		MinCommissionOrder: decimal.NewFromInt(100),

		RateLimitPerHour:   10,
		DeviceAccountLimit: 3,
		IPVelocityLimit:    10,
		ScoreSuspicious:    40,
		ScoreBlocked:       80,

		TopupSpinGrants: []TopupGrant{
			{Amount: decimal.NewFromInt(10000), Spins: 3},
			{Amount: decimal.NewFromInt(5000), Spins: 2},
			{Amount: decimal.NewFromInt(1000), Spins: 1},
		},

		TokenMigrationRate: 10,
	}
}

// IsBypass reports whether the identity may exceed the premium daily cap.
func (c *Config) IsBypass(identity string) bool {
	for _, id := range c.BypassIdentities {
		if id == identity {
			return true
		}
	}
	return false
}
