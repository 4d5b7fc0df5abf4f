package store

import (
	"context"
	"errors"
	"time"

	"majestic/models"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned for any missing row, regardless of backend.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned when an insert loses to a unique index.
var ErrDuplicate = errors.New("store: duplicate")

// Store is the only way any component touches persistence. Atomic runs fn
// against a transactional view: either every write inside fn becomes
// visible together, or none do. GetAccountForUpdate and GetCodeForUpdate
// are only meaningful inside Atomic.
type Store interface {
	Atomic(ctx context.Context, fn func(tx Store) error) error

	// Accounts
	GetAccount(ctx context.Context, identity string) (*models.Account, error)
	GetAccountForUpdate(ctx context.Context, identity string) (*models.Account, error)
	CreateAccount(ctx context.Context, acc *models.Account) error
	SaveAccount(ctx context.Context, acc *models.Account) error
	FindAccountByReferralCode(ctx context.Context, code string) (*models.Account, error)
	CountReferrals(ctx context.Context, referrer string) (int64, error)
	TopAccountsByBalance(ctx context.Context, limit int) ([]models.Account, error)

	// Ledger (append-only)
	AppendLedger(ctx context.Context, entry *models.LedgerEntry) error
	LedgerEntries(ctx context.Context, identity string, limit, offset int) ([]models.LedgerEntry, error)
	SumTokenCredits(ctx context.Context, identity string, sources []string) (int64, error)
	SumCash(ctx context.Context, identity, direction string, sources []string) (decimal.Decimal, error)
	HasLedgerRef(ctx context.Context, identity, refID string) (bool, error)

	// Gift / license codes
	GetCodeForUpdate(ctx context.Context, code string) (*models.GiftCode, error)
	CreateCode(ctx context.Context, gc *models.GiftCode) error
	SaveCode(ctx context.Context, gc *models.GiftCode) error
	ListCodes(ctx context.Context, status string, limit, offset int) ([]models.GiftCode, error)
	DeleteStaleCodes(ctx context.Context, cutoff time.Time) (int64, error)

	// Redemption registry
	HasCampaignRedemption(ctx context.Context, identity, prefix string) (bool, error)
	CreateRedemption(ctx context.Context, rec *models.RedemptionRecord) error
	CountRedemptionsByIPSince(ctx context.Context, ip string, since time.Time) (int64, error)
	CountAccountsByDevice(ctx context.Context, deviceFP string) (int64, error)

	// Ban sets
	IsBanned(ctx context.Context, namespace, value string) (bool, error)
	AddBan(ctx context.Context, entry *models.BanEntry) error
	RemoveBan(ctx context.Context, namespace, value string) error

	// Rate-limit events
	RecordEvent(ctx context.Context, ev *models.ActionEvent) error
	CountEventsSince(ctx context.Context, identity, ip string, since time.Time) (int64, error)

	// Spin history
	CreateSpinRecord(ctx context.Context, rec *models.SpinRecord) error
	CountPremiumSpins(ctx context.Context, identity string, from, to time.Time) (int64, error)

	// Statistics
	GetStats(ctx context.Context, identity string) (*models.UserStatistics, error)
	SaveStats(ctx context.Context, st *models.UserStatistics) error

	// Vault catalog
	GetVaultItem(ctx context.Context, id uint) (*models.VaultItem, error)

	// Notifications
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, identity string, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id uint, identity string) error
}
