package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"majestic/helpers"
	"majestic/models"
	"majestic/store"

	"github.com/shopspring/decimal"
)

// Adjustable fields for AdminAdjust. Loyalty tier is deliberately absent:
// it is derived from lifetime spend and recomputed, never set.
const (
	AdjustBalance      = "balance"
	AdjustTokens       = "tokens"
	AdjustPremiumSpins = "premium_spins"
	AdjustFraudFlag    = "fraud_flag"
)

// AdminAdjust sets one account field to an absolute value. Balance and
// token changes are always ledger-logged as admin_adjustment with the
// delta; the fraud flag is the only place an escalation can be reversed.
func (w *Wallet) AdminAdjust(ctx context.Context, identity, field, value string) (*models.Account, error) {
	switch field {
	case AdjustBalance, AdjustTokens, AdjustPremiumSpins, AdjustFraudFlag:
	default:
		return nil, validationErr("UNSUPPORTED_FIELD", "field cannot be adjusted: "+field)
	}

	return w.engine.Apply(ctx, identity, func(tx store.Store, acc *models.Account) ([]Draft, error) {
		switch field {
		case AdjustBalance:
			target, err := decimal.NewFromString(value)
			if err != nil || target.IsNegative() {
				return nil, validationErr("INVALID_AMOUNT", "balance must be a non-negative decimal")
			}
			delta := target.Sub(acc.Balance)
			if delta.IsZero() {
				return nil, nil
			}
			acc.Balance = target
			direction := models.DirectionCredit
			if delta.IsNegative() {
				direction = models.DirectionDebit
				delta = delta.Neg()
			}
			return []Draft{{
				Direction:  direction,
				Source:     models.SourceAdminAdjust,
				Reference:  "Admin balance adjustment",
				CashAmount: delta,
			}}, nil

		case AdjustTokens:
			target, err := decimal.NewFromString(value)
			if err != nil || target.IsNegative() || !target.Equal(target.Truncate(0)) {
				return nil, validationErr("INVALID_AMOUNT", "tokens must be a non-negative integer")
			}
			delta := target.IntPart() - acc.TokenBalance
			if delta == 0 {
				return nil, nil
			}
			acc.TokenBalance = target.IntPart()
			direction := models.DirectionCredit
			if delta < 0 {
				direction = models.DirectionDebit
				delta = -delta
			}
			return []Draft{{
				Direction:   direction,
				Source:      models.SourceAdminAdjust,
				Reference:   "Admin token adjustment",
				TokenAmount: delta,
			}}, nil

		case AdjustPremiumSpins:
			target, err := decimal.NewFromString(value)
			if err != nil || target.IsNegative() || !target.Equal(target.Truncate(0)) {
				return nil, validationErr("INVALID_AMOUNT", "premium spins must be a non-negative integer")
			}
			acc.PremiumSpins = target.IntPart()
			return []Draft{{
				Direction: models.DirectionCredit,
				Source:    models.SourceAdminAdjust,
				Reference: fmt.Sprintf("Admin set premium spins to %d", acc.PremiumSpins),
			}}, nil

		default: // AdjustFraudFlag
			switch value {
			case models.FraudClean, models.FraudSuspicious, models.FraudBlocked:
			default:
				return nil, validationErr("INVALID_FLAG", "unknown fraud flag: "+value)
			}
			acc.FraudFlag = value
			if value == models.FraudClean {
				acc.FraudReasons = nil
			}
			return nil, nil
		}
	})
}

// BanTarget names identifiers across the three ban namespaces; any subset
// may be set.
type BanTarget struct {
	IP       string `json:"ip"`
	DeviceFP string `json:"device_fp"`
	Identity string `json:"identity"`
	Note     string `json:"note"`
}

func (w *Wallet) AdminBan(ctx context.Context, t BanTarget) error {
	if t.IP == "" && t.DeviceFP == "" && t.Identity == "" {
		return validationErr("TARGET_REQUIRED", "at least one identifier is required")
	}
	entries := []struct{ ns, value string }{
		{models.BanIP, t.IP},
		{models.BanDevice, t.DeviceFP},
		{models.BanIdentity, t.Identity},
	}
	for _, e := range entries {
		if e.value == "" {
			continue
		}
		if err := w.store.AddBan(ctx, &models.BanEntry{Namespace: e.ns, Value: e.value, Note: t.Note}); err != nil {
			return storageErr("add ban", err)
		}
	}
	return nil
}

func (w *Wallet) AdminUnban(ctx context.Context, t BanTarget) error {
	if t.IP == "" && t.DeviceFP == "" && t.Identity == "" {
		return validationErr("TARGET_REQUIRED", "at least one identifier is required")
	}
	entries := []struct{ ns, value string }{
		{models.BanIP, t.IP},
		{models.BanDevice, t.DeviceFP},
		{models.BanIdentity, t.Identity},
	}
	for _, e := range entries {
		if e.value == "" {
			continue
		}
		if err := w.store.RemoveBan(ctx, e.ns, e.value); err != nil {
			return storageErr("remove ban", err)
		}
	}
	return nil
}

// maxCodeDraws bounds re-draws per code when a random code collides with
// an existing row. Anything but a collision is a real storage failure.
const maxCodeDraws = 5

// GenerateCodes issues a batch of single-use codes sharing one campaign
// prefix. Unique-index collisions are redrawn a bounded number of times;
// any other insert failure aborts the batch.
func (w *Wallet) GenerateCodes(ctx context.Context, prefix, rewardType string, amount decimal.Decimal, count int) ([]string, error) {
	if count <= 0 || count > 1000 {
		return nil, validationErr("INVALID_COUNT", "count must be between 1 and 1000")
	}
	if rewardType != models.RewardCash && rewardType != models.RewardToken {
		return nil, validationErr("INVALID_REWARD_TYPE", "reward type must be cash or token")
	}
	if !amount.IsPositive() {
		return nil, validationErr("INVALID_AMOUNT", "amount must be positive")
	}
	if len(prefix) != models.CampaignPrefixLen {
		return nil, validationErr("INVALID_PREFIX", fmt.Sprintf("prefix must be exactly %d characters", models.CampaignPrefixLen))
	}

	codes := make([]string, 0, count)
	for len(codes) < count {
		issued := ""
		for draw := 0; draw < maxCodeDraws; draw++ {
			code := helpers.GenerateGiftCode(prefix)
			err := w.store.CreateCode(ctx, &models.GiftCode{
				Code:       code,
				RewardType: rewardType,
				Amount:     amount,
				Status:     models.CodeActive,
			})
			if err == nil {
				issued = code
				break
			}
			if errors.Is(err, store.ErrDuplicate) {
				continue
			}
			return nil, storageErr("create code", err)
		}
		if issued == "" {
			return nil, storageErr("create code", store.ErrDuplicate)
		}
		codes = append(codes, issued)
	}
	return codes, nil
}

func (w *Wallet) ListCodes(ctx context.Context, status string, limit, offset int) ([]models.GiftCode, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	codes, err := w.store.ListCodes(ctx, status, limit, offset)
	if err != nil {
		return nil, storageErr("list codes", err)
	}
	return codes, nil
}

// CleanupStaleCodes deletes never-redeemed codes older than maxAge.
func (w *Wallet) CleanupStaleCodes(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := w.store.DeleteStaleCodes(ctx, w.engine.Now().Add(-maxAge))
	if err != nil {
		return 0, storageErr("cleanup codes", err)
	}
	return n, nil
}

// MigrateFreeBalance converts promotional cash into vault tokens. Real
// cash is whatever topup credits exceed lifetime debits; anything above
// that in the balance is free money and converts at the configured rate.
func (w *Wallet) MigrateFreeBalance(ctx context.Context, identity string) (*models.Account, error) {
	if _, err := w.store.GetAccount(ctx, identity); errors.Is(err, store.ErrNotFound) {
		return nil, ErrAccountNotFound
	} else if err != nil {
		return nil, storageErr("load account", err)
	}
	return w.engine.Apply(ctx, identity, func(tx store.Store, acc *models.Account) ([]Draft, error) {
		realIn, err := tx.SumCash(ctx, identity, models.DirectionCredit, []string{models.SourceTopup})
		if err != nil {
			return nil, storageErr("sum credits", err)
		}
		debits, err := tx.SumCash(ctx, identity, models.DirectionDebit, nil)
		if err != nil {
			return nil, storageErr("sum debits", err)
		}

		realCash := decimal.Max(decimal.Zero, realIn.Sub(debits))
		freeMoney := decimal.Max(decimal.Zero, acc.Balance.Sub(realCash))
		if !freeMoney.IsPositive() {
			return nil, nil
		}

		tokens := freeMoney.Mul(decimal.NewFromInt(w.cfg.TokenMigrationRate)).Floor().IntPart()
		acc.Balance = acc.Balance.Sub(freeMoney)
		acc.TokenBalance += tokens

		return []Draft{{
			Direction:  models.DirectionDebit,
			Source:     models.SourceMigration,
			Reference:  fmt.Sprintf("Migrated %s free balance to %d tokens", freeMoney.StringFixed(2), tokens),
			CashAmount: freeMoney,
		}, {
			Direction:   models.DirectionCredit,
			Source:      models.SourceMigration,
			Reference:   "Token migration credit",
			TokenAmount: tokens,
		}}, nil
	})
}
