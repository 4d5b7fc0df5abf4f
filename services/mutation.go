package services

import (
	"context"
	"errors"
	"time"

	"majestic/helpers"
	"majestic/models"
	"majestic/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Draft describes one ledger row the mutator wants appended. The engine
// stamps RefID and the resulting balance snapshots before persisting.
type Draft struct {
	Direction   string
	Source      string
	Reference   string
	RefID       string
	CashAmount  decimal.Decimal
	TokenAmount int64
}

// Mutator runs inside the identity lock and the storage transaction. It
// re-reads whatever it needs through tx, checks preconditions, mutates acc
// in place and returns the ledger drafts describing the movement. Returning
// an error aborts the whole mutation with no visible state change.
type Mutator func(tx store.Store, acc *models.Account) ([]Draft, error)

// Engine is the single choke point for every balance, token, streak or
// flag change. Reward engines and redemption logic never write to the
// account store directly.
type Engine struct {
	store  store.Store
	locker *Locker
	now    func() time.Time
}

func NewEngine(s store.Store, locker *Locker, now func() time.Time) *Engine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{store: s, locker: locker, now: now}
}

func (e *Engine) Now() time.Time { return e.now() }

// Apply locks the identity, re-reads current state, runs fn, enforces the
// non-negative invariants and commits the new account state together with
// its ledger entries as one unit. The account is created lazily on the
// first monetary event.
func (e *Engine) Apply(ctx context.Context, identity string, fn Mutator) (*models.Account, error) {
	if identity == "" {
		return nil, validationErr("IDENTITY_REQUIRED", "identity is required")
	}

	if err := e.locker.Acquire(ctx, identity); err != nil {
		return nil, err
	}
	defer e.locker.Release(identity)

	var result *models.Account
	err := e.store.Atomic(ctx, func(tx store.Store) error {
		acc, err := tx.GetAccountForUpdate(ctx, identity)
		if errors.Is(err, store.ErrNotFound) {
			acc = e.newAccount(identity)
			if err := tx.CreateAccount(ctx, acc); err != nil {
				return storageErr("create account", err)
			}
		} else if err != nil {
			return storageErr("load account", err)
		}

		drafts, err := fn(tx, acc)
		if err != nil {
			return err
		}

		if acc.Balance.IsNegative() || acc.TokenBalance < 0 || acc.PremiumSpins < 0 {
			return ErrNegativeBalance
		}

		if err := tx.SaveAccount(ctx, acc); err != nil {
			return storageErr("save account", err)
		}
		for _, d := range drafts {
			refID := d.RefID
			if refID == "" {
				refID = uuid.New().String()
			}
			entry := models.LedgerEntry{
				Identity:          identity,
				Direction:         d.Direction,
				CashAmount:        d.CashAmount,
				TokenAmount:       d.TokenAmount,
				Source:            d.Source,
				Reference:         d.Reference,
				RefID:             refID,
				BalanceAfter:      acc.Balance,
				TokenBalanceAfter: acc.TokenBalance,
			}
			if err := tx.AppendLedger(ctx, &entry); err != nil {
				return storageErr("append ledger", err)
			}
		}
		result = acc
		return nil
	})
	if err != nil {
		var typed *Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, storageErr("mutation failed", err)
	}
	return result, nil
}

func (e *Engine) newAccount(identity string) *models.Account {
	return &models.Account{
		Identity:     identity,
		Balance:      decimal.Zero,
		LoyaltyTier:  models.TierBronze,
		FraudFlag:    models.FraudClean,
		ReferralCode: helpers.GenerateReferralCode(identity),
	}
}
