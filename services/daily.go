package services

import (
	"context"
	"fmt"

	"majestic/config"
	"majestic/models"
	"majestic/store"
)

// ResolveDaily is the pure daily-reward function: tokens for this claim
// given VIP status and the streak the claim lands on. Every 7th claim pays
// the weekly bonus; VIP scale comes from the external purchase signal.
// roll supplies the VIP variable reward in [min, max].
func ResolveDaily(cfg *config.Config, isVIP bool, streak int64, roll func(min, max int64) int64) int64 {
	if isVIP {
		if streak%7 == 0 {
			return cfg.VIPWeeklyBonus
		}
		return roll(cfg.VIPDailyMin, cfg.VIPDailyMax)
	}
	if streak%7 == 0 {
		return cfg.FreeWeeklyBonus
	}
	return cfg.FreeDailyReward
}

type DailyResult struct {
	Tokens int64 `json:"tokens"`
	Streak int64 `json:"streak"`
	IsVIP  bool  `json:"is_vip"`
}

// ClaimDaily awards the streak-based daily tokens at UTC-day granularity.
func (w *Wallet) ClaimDaily(ctx context.Context, identity, deviceFP, ip string) (*DailyResult, error) {
	if err := w.abuse.Check(ctx, identity, deviceFP, ip, "daily"); err != nil {
		return nil, err
	}

	isVIP, err := w.vip.IsVIP(ctx, identity)
	if err != nil {
		return nil, storageErr("vip check", err)
	}

	var result DailyResult
	now := w.engine.Now()
	_, err = w.engine.Apply(ctx, identity, func(tx store.Store, acc *models.Account) ([]Draft, error) {
		if acc.LastDailyClaim != nil && sameUTCDay(*acc.LastDailyClaim, now) {
			return nil, ErrAlreadyClaimed
		}
		if !isVIP {
			earned, err := tx.SumTokenCredits(ctx, identity, []string{models.SourceDailyReward, models.SourceSpinReward})
			if err != nil {
				return nil, storageErr("trial cap", err)
			}
			if earned >= w.cfg.TrialEarnCap {
				return nil, ErrTrialCap
			}
		}

		streak := acc.Streak + 1
		tokens := ResolveDaily(w.cfg, isVIP, streak, w.rollRange)

		acc.Streak = streak
		acc.TokenBalance += tokens
		claimAt := now
		acc.LastDailyClaim = &claimAt

		result = DailyResult{Tokens: tokens, Streak: streak, IsVIP: isVIP}
		return []Draft{{
			Direction:   models.DirectionCredit,
			Source:      models.SourceDailyReward,
			Reference:   fmt.Sprintf("Daily reward: %d vault tokens (streak %d)", tokens, streak),
			TokenAmount: tokens,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
