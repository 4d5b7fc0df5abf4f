package services

import (
	"context"
	"errors"
	"strings"

	"majestic/models"
	"majestic/store"

	"github.com/shopspring/decimal"
)

type RedeemResult struct {
	RewardType string          `json:"reward_type"`
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance"`
	NewTokens  int64           `json:"vault_token_balance"`
}

// RedeemCode consumes a gift or license code at most once. The campaign
// dedup and the code's own active->redeemed transition both happen inside
// the same critical section as the balance credit, so concurrent requests
// for one code end with exactly one winner. Fraud analysis runs after
// commit, never inside the lock.
func (w *Wallet) RedeemCode(ctx context.Context, identity, code, deviceFP, ip string) (*RedeemResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, validationErr("CODE_REQUIRED", "code is required")
	}
	if err := w.abuse.Check(ctx, identity, deviceFP, ip, "redeem"); err != nil {
		return nil, err
	}

	prefix := models.CodePrefix(code)

	// Fast pre-check outside the lock; re-validated atomically below via
	// the unique (prefix, identity) index on redemption records.
	used, err := w.store.HasCampaignRedemption(ctx, identity, prefix)
	if err != nil {
		return nil, storageErr("campaign check", err)
	}
	if used {
		return nil, ErrCampaignLimit
	}

	var result RedeemResult
	_, err = w.engine.Apply(ctx, identity, func(tx store.Store, acc *models.Account) ([]Draft, error) {
		used, err := tx.HasCampaignRedemption(ctx, identity, prefix)
		if err != nil {
			return nil, storageErr("campaign check", err)
		}
		if used {
			return nil, ErrCampaignLimit
		}

		gift, err := tx.GetCodeForUpdate(ctx, code)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		if err != nil {
			return nil, storageErr("load code", err)
		}
		if gift.Status == models.CodeRedeemed {
			return nil, ErrAlreadyRedeemed
		}
		if gift.Status != models.CodeActive {
			return nil, ErrInvalidCode
		}

		now := w.engine.Now()
		gift.Status = models.CodeRedeemed
		gift.RedeemedBy = identity
		gift.RedeemedAt = &now
		if err := tx.SaveCode(ctx, gift); err != nil {
			return nil, storageErr("mark code redeemed", err)
		}

		if err := tx.CreateRedemption(ctx, &models.RedemptionRecord{
			Code:       code,
			CodePrefix: prefix,
			Identity:   identity,
			DeviceFP:   deviceFP,
			IPAddress:  ip,
			Amount:     gift.Amount,
		}); err != nil {
			return nil, storageErr("record redemption", err)
		}

		var draft Draft
		if gift.RewardType == models.RewardToken {
			tokens := gift.Amount.IntPart()
			acc.TokenBalance += tokens
			draft = Draft{
				Direction:   models.DirectionCredit,
				Source:      models.SourceTokenGift,
				Reference:   "Code: " + code,
				TokenAmount: tokens,
			}
		} else {
			acc.Balance = acc.Balance.Add(gift.Amount)
			draft = Draft{
				Direction:  models.DirectionCredit,
				Source:     models.SourceRedeem,
				Reference:  "Code: " + code,
				CashAmount: gift.Amount,
			}
		}

		result = RedeemResult{
			RewardType: gift.RewardType,
			Amount:     gift.Amount,
			NewBalance: acc.Balance,
			NewTokens:  acc.TokenBalance,
		}
		return []Draft{draft}, nil
	})
	if err != nil {
		return nil, err
	}

	w.abuse.Analyze(ctx, identity, deviceFP, ip)
	return &result, nil
}
