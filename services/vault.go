package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"majestic/helpers"
	"majestic/models"
	"majestic/store"

	"github.com/shopspring/decimal"
)

// CouponIssuer is the external reward-issuance collaborator. It is only
// invoked after the token debit has committed; a failure here never rolls
// the wallet back.
type CouponIssuer interface {
	Issue(ctx context.Context, identity, code string, discount, minSpend decimal.Decimal) error
}

// LogIssuer is the default stand-in for environments without a shop
// integration.
type LogIssuer struct{}

func (LogIssuer) Issue(ctx context.Context, identity, code string, discount, minSpend decimal.Decimal) error {
	log.Printf("coupon %s issued to %s (discount %s, min spend %s)", code, identity, discount, minSpend)
	return nil
}

type VaultResult struct {
	CouponCode      string `json:"coupon_code"`
	RemainingTokens int64  `json:"remaining_tokens"`
}

// RedeemVault exchanges vault tokens for a catalog item's coupon. The
// debit commits first under the identity lock; the coupon call happens
// afterwards so a slow or failing issuer can neither hold the lock nor
// leave the ledger inconsistent.
func (w *Wallet) RedeemVault(ctx context.Context, identity string, itemID uint, deviceFP, ip string) (*VaultResult, error) {
	if err := w.abuse.Check(ctx, identity, deviceFP, ip, "vault"); err != nil {
		return nil, err
	}

	item, err := w.store.GetVaultItem(ctx, itemID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundErr("VAULT_ITEM_NOT_FOUND", "no such vault item")
	}
	if err != nil {
		return nil, storageErr("load vault item", err)
	}
	if !item.IsActive {
		return nil, notFoundErr("VAULT_ITEM_NOT_FOUND", "vault item is inactive")
	}

	couponCode := helpers.GenerateCouponCode()
	var remaining int64
	_, err = w.engine.Apply(ctx, identity, func(tx store.Store, acc *models.Account) ([]Draft, error) {
		if acc.TokenBalance < item.TokenCost {
			return nil, ErrInsufficientToken
		}
		acc.TokenBalance -= item.TokenCost
		remaining = acc.TokenBalance
		return []Draft{{
			Direction:   models.DirectionDebit,
			Source:      models.SourceVault,
			Reference:   fmt.Sprintf("Redeemed %q for %d tokens", item.Name, item.TokenCost),
			TokenAmount: item.TokenCost,
		}}, nil
	})
	if err != nil {
		return nil, err
	}

	if err := w.issuer.Issue(ctx, identity, couponCode, item.DiscountAmount, item.MinSpend); err != nil {
		// Tokens are spent and the ledger is truth; surface the coupon
		// problem through a notification instead of unwinding the debit.
		log.Printf("coupon issuance for %s failed: %v", identity, err)
		w.notify(ctx, identity, models.NotifyError, "Coupon delayed",
			"Your vault redemption went through but the coupon could not be issued yet. Support has been notified.")
		return &VaultResult{CouponCode: "", RemainingTokens: remaining}, nil
	}

	w.notify(ctx, identity, models.NotifySuccess, "Vault unlocked",
		fmt.Sprintf("Coupon %s is ready to use.", couponCode))
	return &VaultResult{CouponCode: couponCode, RemainingTokens: remaining}, nil
}
