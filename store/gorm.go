package store

import (
	"context"
	"errors"
	"time"

	"majestic/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm is the production Store backed by gorm. Atomic maps to a database
// transaction and the for-update reads take row locks, so two processes
// mutating the same identity serialize at the database even without the
// in-process identity lock.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

// ---- accounts ----

func (s *Gorm) GetAccount(ctx context.Context, identity string) (*models.Account, error) {
	var acc models.Account
	err := s.db.WithContext(ctx).Where("identity = ?", identity).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *Gorm) GetAccountForUpdate(ctx context.Context, identity string) (*models.Account, error) {
	var acc models.Account
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("identity = ?", identity).
		First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *Gorm) CreateAccount(ctx context.Context, acc *models.Account) error {
	return s.db.WithContext(ctx).Create(acc).Error
}

func (s *Gorm) SaveAccount(ctx context.Context, acc *models.Account) error {
	return s.db.WithContext(ctx).Save(acc).Error
}

func (s *Gorm) FindAccountByReferralCode(ctx context.Context, code string) (*models.Account, error) {
	var acc models.Account
	err := s.db.WithContext(ctx).Where("referral_code = ?", code).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *Gorm) CountReferrals(ctx context.Context, referrer string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("referred_by = ?", referrer).Count(&n).Error
	return n, err
}

func (s *Gorm) TopAccountsByBalance(ctx context.Context, limit int) ([]models.Account, error) {
	var accs []models.Account
	err := s.db.WithContext(ctx).Order("balance DESC").Limit(limit).Find(&accs).Error
	return accs, err
}

// ---- ledger ----

func (s *Gorm) AppendLedger(ctx context.Context, entry *models.LedgerEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *Gorm) LedgerEntries(ctx context.Context, identity string, limit, offset int) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := s.db.WithContext(ctx).
		Where("identity = ?", identity).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	return entries, err
}

func (s *Gorm) SumTokenCredits(ctx context.Context, identity string, sources []string) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("identity = ? AND direction = ? AND source IN ?", identity, models.DirectionCredit, sources).
		Select("COALESCE(SUM(token_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (s *Gorm) SumCash(ctx context.Context, identity, direction string, sources []string) (decimal.Decimal, error) {
	q := s.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("identity = ? AND direction = ?", identity, direction)
	if len(sources) > 0 {
		q = q.Where("source IN ?", sources)
	}
	var total decimal.Decimal
	err := q.Select("COALESCE(SUM(cash_amount), 0)").Scan(&total).Error
	return total, err
}

func (s *Gorm) HasLedgerRef(ctx context.Context, identity, refID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("identity = ? AND ref_id = ?", identity, refID).Count(&n).Error
	return n > 0, err
}

// ---- codes ----

func (s *Gorm) GetCodeForUpdate(ctx context.Context, code string) (*models.GiftCode, error) {
	var gc models.GiftCode
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&gc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &gc, nil
}

// CreateCode reports a unique-index collision as ErrDuplicate so callers
// can re-draw instead of treating it as a storage fault. Requires the
// connection to be opened with TranslateError.
func (s *Gorm) CreateCode(ctx context.Context, gc *models.GiftCode) error {
	err := s.db.WithContext(ctx).Create(gc).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (s *Gorm) SaveCode(ctx context.Context, gc *models.GiftCode) error {
	return s.db.WithContext(ctx).Save(gc).Error
}

func (s *Gorm) ListCodes(ctx context.Context, status string, limit, offset int) ([]models.GiftCode, error) {
	q := s.db.WithContext(ctx).Model(&models.GiftCode{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var codes []models.GiftCode
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&codes).Error
	return codes, err
}

func (s *Gorm) DeleteStaleCodes(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.CodeActive, cutoff).
		Delete(&models.GiftCode{})
	return res.RowsAffected, res.Error
}

// ---- redemptions ----

func (s *Gorm) HasCampaignRedemption(ctx context.Context, identity, prefix string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.RedemptionRecord{}).
		Where("identity = ? AND code_prefix = ?", identity, prefix).Count(&n).Error
	return n > 0, err
}

func (s *Gorm) CreateRedemption(ctx context.Context, rec *models.RedemptionRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *Gorm) CountRedemptionsByIPSince(ctx context.Context, ip string, since time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.RedemptionRecord{}).
		Where("ip_address = ? AND created_at > ?", ip, since).Count(&n).Error
	return n, err
}

func (s *Gorm) CountAccountsByDevice(ctx context.Context, deviceFP string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.RedemptionRecord{}).
		Where("device_fp = ?", deviceFP).
		Distinct("identity").Count(&n).Error
	return n, err
}

// ---- bans ----

func (s *Gorm) IsBanned(ctx context.Context, namespace, value string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.BanEntry{}).
		Where("namespace = ? AND value = ?", namespace, value).Count(&n).Error
	return n > 0, err
}

func (s *Gorm) AddBan(ctx context.Context, entry *models.BanEntry) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry).Error
}

func (s *Gorm) RemoveBan(ctx context.Context, namespace, value string) error {
	return s.db.WithContext(ctx).
		Where("namespace = ? AND value = ?", namespace, value).
		Delete(&models.BanEntry{}).Error
}

// ---- events ----

func (s *Gorm) RecordEvent(ctx context.Context, ev *models.ActionEvent) error {
	return s.db.WithContext(ctx).Create(ev).Error
}

func (s *Gorm) CountEventsSince(ctx context.Context, identity, ip string, since time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.ActionEvent{}).
		Where("(identity = ? OR ip_address = ?) AND created_at > ?", identity, ip, since).
		Count(&n).Error
	return n, err
}

// ---- spins ----

func (s *Gorm) CreateSpinRecord(ctx context.Context, rec *models.SpinRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *Gorm) CountPremiumSpins(ctx context.Context, identity string, from, to time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.SpinRecord{}).
		Where("identity = ? AND is_premium = true AND spin_date >= ? AND spin_date < ?", identity, from, to).
		Count(&n).Error
	return n, err
}

// ---- statistics ----

func (s *Gorm) GetStats(ctx context.Context, identity string) (*models.UserStatistics, error) {
	var st models.UserStatistics
	err := s.db.WithContext(ctx).Where("identity = ?", identity).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Gorm) SaveStats(ctx context.Context, st *models.UserStatistics) error {
	return s.db.WithContext(ctx).Save(st).Error
}

// ---- vault ----

func (s *Gorm) GetVaultItem(ctx context.Context, id uint) (*models.VaultItem, error) {
	var item models.VaultItem
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ---- notifications ----

func (s *Gorm) CreateNotification(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *Gorm) ListNotifications(ctx context.Context, identity string, limit int) ([]models.Notification, error) {
	var list []models.Notification
	err := s.db.WithContext(ctx).
		Where("identity = ?", identity).
		Order("created_at DESC").Limit(limit).
		Find(&list).Error
	return list, err
}

func (s *Gorm) MarkNotificationRead(ctx context.Context, id uint, identity string) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND identity = ?", id, identity).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
