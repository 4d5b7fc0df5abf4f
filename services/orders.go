package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"majestic/models"
	"majestic/store"

	"github.com/shopspring/decimal"
)

// OrderEvent is the external order-completion signal. OrderID doubles as
// the idempotency key: webhook retries never credit twice.
type OrderEvent struct {
	OrderID  string
	Identity string
	Total    decimal.Decimal
	IsTopup  bool
}

// ProcessOrderCompleted consumes one completed-order event: it updates
// lifetime statistics and the derived tier, credits top-up orders with
// cash plus premium-spin grants, and pays the referrer's commission.
// The commission runs under the referrer's own lock, strictly after the
// referee's mutation committed.
func (w *Wallet) ProcessOrderCompleted(ctx context.Context, ev OrderEvent) error {
	if ev.OrderID == "" || ev.Identity == "" {
		return validationErr("ORDER_FIELDS_REQUIRED", "order id and identity are required")
	}
	if !ev.Total.IsPositive() {
		return validationErr("INVALID_TOTAL", "order total must be positive")
	}

	refID := "order:" + ev.OrderID
	seen, err := w.store.HasLedgerRef(ctx, ev.Identity, refID)
	if err != nil {
		return storageErr("order dedup", err)
	}
	if seen {
		return nil
	}

	spentAfter := decimal.Zero
	_, err = w.engine.Apply(ctx, ev.Identity, func(tx store.Store, acc *models.Account) ([]Draft, error) {
		// Re-check the idempotency key under the lock.
		seen, err := tx.HasLedgerRef(ctx, ev.Identity, refID)
		if err != nil {
			return nil, storageErr("order dedup", err)
		}
		if seen {
			return nil, nil
		}

		st, err := tx.GetStats(ctx, ev.Identity)
		if errors.Is(err, store.ErrNotFound) {
			st = &models.UserStatistics{Identity: ev.Identity, TotalSpent: decimal.Zero}
		} else if err != nil {
			return nil, storageErr("load stats", err)
		}
		st.TotalSpent = st.TotalSpent.Add(ev.Total)
		st.TotalOrders++
		orderAt := w.engine.Now()
		st.LastOrderDate = &orderAt
		if err := tx.SaveStats(ctx, st); err != nil {
			return nil, storageErr("save stats", err)
		}
		spentAfter = st.TotalSpent

		// The stored tier is a display cache of the derived value.
		acc.LoyaltyTier = models.TierForSpend(st.TotalSpent)

		if !ev.IsTopup {
			return []Draft{{
				Direction: models.DirectionCredit,
				Source:    models.SourceOrder,
				Reference: fmt.Sprintf("Order %s completed", ev.OrderID),
				RefID:     refID,
			}}, nil
		}

		acc.Balance = acc.Balance.Add(ev.Total)
		var spins int64
		for _, grant := range w.cfg.TopupSpinGrants {
			if ev.Total.GreaterThanOrEqual(grant.Amount) {
				spins = grant.Spins
				break
			}
		}
		acc.PremiumSpins += spins

		drafts := []Draft{{
			Direction:  models.DirectionCredit,
			Source:     models.SourceTopup,
			Reference:  fmt.Sprintf("Top-up order %s", ev.OrderID),
			RefID:      refID,
			CashAmount: ev.Total,
		}}
		if spins > 0 {
			drafts = append(drafts, Draft{
				Direction: models.DirectionCredit,
				Source:    models.SourceTopup,
				Reference: fmt.Sprintf("Recharge bonus: %d premium spins", spins),
			})
		}
		return drafts, nil
	})
	if err != nil {
		return err
	}

	if err := w.payReferralCommission(ctx, ev.Identity, ev.Total, spentAfter, refID); err != nil {
		// The order itself is committed; a commission failure must not
		// fail the webhook, the retry would double-credit the order.
		log.Printf("referral commission for order %s failed: %v", ev.OrderID, err)
	}
	return nil
}

type ChargeResult struct {
	Charged    decimal.Decimal `json:"charged"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// ChargeOrder finalizes a pending wallet payment once the processor
// confirms the money: it debits up to amount, clamped at the current
// balance in case the user spent it elsewhere while the order was open.
func (w *Wallet) ChargeOrder(ctx context.Context, identity, orderID string, amount decimal.Decimal) (*ChargeResult, error) {
	if orderID == "" {
		return nil, validationErr("ORDER_ID_REQUIRED", "order id is required")
	}
	if !amount.IsPositive() {
		return nil, validationErr("INVALID_AMOUNT", "charge amount must be positive")
	}

	refID := "charge:" + orderID
	var result ChargeResult
	_, err := w.engine.Apply(ctx, identity, func(tx store.Store, acc *models.Account) ([]Draft, error) {
		seen, err := tx.HasLedgerRef(ctx, identity, refID)
		if err != nil {
			return nil, storageErr("charge dedup", err)
		}
		if seen {
			result = ChargeResult{Charged: decimal.Zero, NewBalance: acc.Balance}
			return nil, nil
		}

		charged := decimal.Min(acc.Balance, amount)
		acc.Balance = acc.Balance.Sub(charged)
		result = ChargeResult{Charged: charged, NewBalance: acc.Balance}
		return []Draft{{
			Direction:  models.DirectionDebit,
			Source:     models.SourceOrder,
			Reference:  fmt.Sprintf("Order %s finalized", orderID),
			RefID:      refID,
			CashAmount: charged,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
