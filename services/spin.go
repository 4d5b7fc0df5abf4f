package services

import (
	"context"
	"fmt"
	"time"

	"majestic/config"
	"majestic/models"
	"majestic/store"

	"github.com/shopspring/decimal"
)

// SpinOutcome is the pure result of resolving one spin before it is
// applied: what it costs and what it pays.
type SpinOutcome struct {
	Cost       decimal.Decimal
	UsedCredit bool
	Tokens     int64
}

// ResolveSpinCost determines the price of a spin. A premium spin costs the
// fixed fee unless a premium-spin credit is available, which is consumed
// instead of charging cash. Free-tier spins cost nothing.
func ResolveSpinCost(cfg *config.Config, isPremium bool, premiumSpins int64) (cost decimal.Decimal, usedCredit bool) {
	if !isPremium {
		return decimal.Zero, false
	}
	if premiumSpins > 0 {
		return decimal.Zero, true
	}
	return cfg.PremiumSpinCost, false
}

// ResolveSpinReward maps a uniform draw in [1, SpinDrawMax] onto the band
// table; the first band whose cumulative threshold is >= draw wins.
func ResolveSpinReward(table []config.SpinBand, draw int) int64 {
	for _, band := range table {
		if draw <= band.Threshold {
			return band.Tokens
		}
	}
	if len(table) == 0 {
		return 0
	}
	return table[len(table)-1].Tokens
}

type SpinResult struct {
	RewardTokens    int64           `json:"reward"`
	NewCashBalance  decimal.Decimal `json:"new_balance"`
	NewTokenBalance int64           `json:"vault_token_balance"`
	UsedCredit      bool            `json:"used_free_spin"`
}

// SubmitSpin runs the whole spin flow: abuse gate, eligibility and funds
// preconditions inside the lock, reward draw, and the atomic balance +
// ledger + spin-history commit.
func (w *Wallet) SubmitSpin(ctx context.Context, identity string, isPremium bool, deviceFP, ip string) (*SpinResult, error) {
	if err := w.abuse.Check(ctx, identity, deviceFP, ip, "spin"); err != nil {
		return nil, err
	}

	isVIP, err := w.vip.IsVIP(ctx, identity)
	if err != nil {
		return nil, storageErr("vip check", err)
	}

	// Draw before locking: the reward is independent of account state.
	reward := ResolveSpinReward(w.cfg.PremiumTable, w.draw())
	if !isPremium {
		reward = ResolveSpinReward(w.cfg.FreeTable, w.draw())
	}

	var result SpinResult
	now := w.engine.Now()
	_, err = w.engine.Apply(ctx, identity, func(tx store.Store, acc *models.Account) ([]Draft, error) {
		cost, usedCredit := ResolveSpinCost(w.cfg, isPremium, acc.PremiumSpins)

		if !isPremium {
			if acc.LastSpinDate != nil && sameUTCDay(*acc.LastSpinDate, now) && acc.SpinClaimedToday {
				return nil, ErrDailyLimit
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
		} else {
			if acc.Balance.LessThan(cost) {
				return nil, ErrInsufficientFunds
			}
			if !w.cfg.IsBypass(identity) {
				day := utcDayStart(now)
				n, err := tx.CountPremiumSpins(ctx, identity, day, day.Add(24*time.Hour))
				if err != nil {
					return nil, storageErr("premium cap", err)
				}
				if n >= w.cfg.PremiumDailyCap {
					return nil, ErrDailyLimit
				}
			}
		}

		acc.Balance = acc.Balance.Sub(cost)
		acc.TokenBalance += reward
		acc.SpinClaimedToday = true
		spinAt := now
		acc.LastSpinDate = &spinAt
		if usedCredit {
			acc.PremiumSpins--
		}

		if err := tx.CreateSpinRecord(ctx, &models.SpinRecord{
			Identity:     identity,
			SpinDate:     now,
			RewardTokens: reward,
			IsPremium:    isPremium,
			UsedCredit:   usedCredit,
		}); err != nil {
			return nil, storageErr("spin record", err)
		}

		var drafts []Draft
		if cost.IsPositive() {
			drafts = append(drafts, Draft{
				Direction:  models.DirectionDebit,
				Source:     models.SourceSpin,
				Reference:  "Premium spin cost",
				CashAmount: cost,
			})
		}
		drafts = append(drafts, Draft{
			Direction:   models.DirectionCredit,
			Source:      models.SourceSpinReward,
			Reference:   fmt.Sprintf("Won %d vault tokens", reward),
			TokenAmount: reward,
		})

		result = SpinResult{
			RewardTokens:    reward,
			NewCashBalance:  acc.Balance,
			NewTokenBalance: acc.TokenBalance,
			UsedCredit:      usedCredit,
		}
		return drafts, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
