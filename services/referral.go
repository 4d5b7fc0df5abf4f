package services

import (
	"context"
	"errors"
	"strings"

	"majestic/config"
	"majestic/helpers"
	"majestic/models"
	"majestic/store"

	"github.com/shopspring/decimal"
)

// ResolveCommission computes the referrer's cut of one completed order:
// the rate tier comes from how many friends the referrer has linked, the
// result is capped per order. Orders below the qualifying minimum pay
// nothing.
func ResolveCommission(cfg *config.Config, friendCount int64, orderTotal decimal.Decimal) decimal.Decimal {
	if orderTotal.LessThan(cfg.MinCommissionOrder) {
		return decimal.Zero
	}
	rate := cfg.ReferralRates[0]
	switch {
	case friendCount >= cfg.ReferralTier3Friends:
		rate = cfg.ReferralRates[2]
	case friendCount >= cfg.ReferralTier2Friends:
		rate = cfg.ReferralRates[1]
	}
	commission := orderTotal.Mul(rate).Round(2)
	if commission.GreaterThan(cfg.ReferralCap) {
		return cfg.ReferralCap
	}
	return commission
}

// MilestoneCrossed reports whether this order pushed the referee's
// lifetime spend over the one-time bonus threshold.
func MilestoneCrossed(cfg *config.Config, spentAfter, orderTotal decimal.Decimal) bool {
	return spentAfter.GreaterThanOrEqual(cfg.MilestoneSpend) &&
		spentAfter.Sub(orderTotal).LessThan(cfg.MilestoneSpend)
}

// ApplyReferral links the referee to the owner of code, one-directionally
// and permanently. The link is set under the referee's identity lock so
// two concurrent link attempts cannot both win.
func (w *Wallet) ApplyReferral(ctx context.Context, identity, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return validationErr("CODE_REQUIRED", "referral code is required")
	}

	referrer, err := w.store.FindAccountByReferralCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return storageErr("resolve referral code", err)
	}
	if strings.EqualFold(referrer.Identity, identity) {
		return ErrSelfReferral
	}

	_, err = w.engine.Apply(ctx, identity, func(tx store.Store, acc *models.Account) ([]Draft, error) {
		if acc.ReferredBy != "" {
			return nil, ErrAlreadyLinked
		}
		acc.ReferredBy = referrer.Identity
		return nil, nil
	})
	return err
}

// payReferralCommission credits the referrer for the referee's completed
// order, taken under the referrer's own lock after the referee's stats
// are already committed.
func (w *Wallet) payReferralCommission(ctx context.Context, referee string, orderTotal, spentAfter decimal.Decimal, orderRef string) error {
	acc, err := w.store.GetAccount(ctx, referee)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return storageErr("load referee", err)
	}
	if acc.ReferredBy == "" {
		return nil
	}
	referrerID := acc.ReferredBy

	friends, err := w.store.CountReferrals(ctx, referrerID)
	if err != nil {
		return storageErr("count referrals", err)
	}

	commission := ResolveCommission(w.cfg, friends, orderTotal)
	milestone := MilestoneCrossed(w.cfg, spentAfter, orderTotal)
	payout := commission
	if milestone {
		payout = payout.Add(w.cfg.MilestoneBonus)
	}
	if !payout.IsPositive() {
		return nil
	}

	note := "Passive commission"
	if milestone {
		note = "Milestone + commission"
	}
	_, err = w.engine.Apply(ctx, referrerID, func(tx store.Store, racc *models.Account) ([]Draft, error) {
		racc.Balance = racc.Balance.Add(payout)
		return []Draft{{
			Direction:  models.DirectionCredit,
			Source:     models.SourceReferral,
			Reference:  helpers.MaskIdentity(referee) + ": " + note,
			RefID:      orderRef,
			CashAmount: payout,
		}}, nil
	})
	if err != nil {
		return err
	}
	if milestone {
		w.notify(ctx, referrerID, models.NotifySuccess, "Milestone bonus",
			"A friend you invited crossed the spend milestone.")
	}
	return nil
}
