package services

import (
	"context"
	"errors"
	"time"

	"majestic/config"
	"majestic/helpers"
	"majestic/models"
	"majestic/store"

	"github.com/shopspring/decimal"
)

// VIPChecker is the external signal for "has this identity at least one
// qualifying completed purchase". The wallet never derives it itself.
type VIPChecker interface {
	IsVIP(ctx context.Context, identity string) (bool, error)
}

// StatsVIP answers the VIP question from the order statistics fed in by
// the shop's order-completed events.
type StatsVIP struct {
	Store store.Store
}

func (v *StatsVIP) IsVIP(ctx context.Context, identity string) (bool, error) {
	st, err := v.Store.GetStats(ctx, identity)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return st.TotalOrders > 0, nil
}

// Wallet is the operation surface collaborators call. Every mutating path
// runs Abuse Guard first and commits through the mutation engine.
type Wallet struct {
	store  store.Store
	engine *Engine
	abuse  *Abuse
	cfg    *config.Config
	vip    VIPChecker
	issuer CouponIssuer

	// draw returns a uniform value in [1, config.SpinDrawMax]; rollRange
	// returns a uniform value in [min, max]. Both injectable for tests.
	draw      func() int
	rollRange func(min, max int64) int64
}

func NewWallet(s store.Store, cfg *config.Config, opts ...Option) *Wallet {
	w := &Wallet{
		store: s,
		cfg:   cfg,
		draw:  func() int { return helpers.RandomInt(config.SpinDrawMax) },
		rollRange: func(min, max int64) int64 {
			return min + int64(helpers.RandomInt(int(max-min+1))) - 1
		},
		issuer: &LogIssuer{},
	}
	w.engine = NewEngine(s, NewLocker(), nil)
	w.abuse = NewAbuse(s, cfg, w.engine.Now)
	w.vip = &StatsVIP{Store: s}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Option tweaks a Wallet at construction; used by main and tests.
type Option func(*Wallet)

func WithClock(now func() time.Time) Option {
	return func(w *Wallet) {
		w.engine = NewEngine(w.store, NewLocker(), now)
		w.abuse = NewAbuse(w.store, w.cfg, now)
	}
}

func WithDraw(draw func() int) Option {
	return func(w *Wallet) { w.draw = draw }
}

func WithRollRange(roll func(min, max int64) int64) Option {
	return func(w *Wallet) { w.rollRange = roll }
}

func WithVIPChecker(v VIPChecker) Option {
	return func(w *Wallet) { w.vip = v }
}

func WithCouponIssuer(i CouponIssuer) Option {
	return func(w *Wallet) { w.issuer = i }
}

// ---- read surface (lock-free; never used for mutation decisions) ----

type BalanceResult struct {
	Cash   decimal.Decimal `json:"cash"`
	Tokens int64           `json:"tokens"`
}

func (w *Wallet) GetBalance(ctx context.Context, identity string) (*BalanceResult, error) {
	acc, err := w.store.GetAccount(ctx, identity)
	if errors.Is(err, store.ErrNotFound) {
		return &BalanceResult{Cash: decimal.Zero}, nil
	}
	if err != nil {
		return nil, storageErr("get balance", err)
	}
	return &BalanceResult{Cash: acc.Balance, Tokens: acc.TokenBalance}, nil
}

func (w *Wallet) GetHistory(ctx context.Context, identity string, limit, offset int) ([]models.LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := w.store.LedgerEntries(ctx, identity, limit, offset)
	if err != nil {
		return nil, storageErr("get history", err)
	}
	return entries, nil
}

type LeaderboardRow struct {
	Identity string          `json:"identity"`
	Balance  decimal.Decimal `json:"balance"`
}

func (w *Wallet) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	accs, err := w.store.TopAccountsByBalance(ctx, 50)
	if err != nil {
		return nil, storageErr("leaderboard", err)
	}
	rows := make([]LeaderboardRow, 0, len(accs))
	for _, acc := range accs {
		rows = append(rows, LeaderboardRow{
			Identity: helpers.MaskIdentity(acc.Identity),
			Balance:  acc.Balance,
		})
	}
	return rows, nil
}

type DashboardResult struct {
	Balance       decimal.Decimal `json:"balance"`
	TokenBalance  int64           `json:"vault_token_balance"`
	Streak        int64           `json:"streak"`
	Tier          string          `json:"tier"`
	SpinAvailable bool            `json:"spin_available"`
	PremiumSpins  int64           `json:"premium_spins_balance"`
	ReferralCode  string          `json:"referral_code"`
	FriendsCount  int64           `json:"friends_invited"`
	TotalReferral decimal.Decimal `json:"referral_earned"`
}

func (w *Wallet) Dashboard(ctx context.Context, identity string) (*DashboardResult, error) {
	acc, err := w.store.GetAccount(ctx, identity)
	if errors.Is(err, store.ErrNotFound) {
		return &DashboardResult{Balance: decimal.Zero, Tier: models.TierBronze, SpinAvailable: true, TotalReferral: decimal.Zero}, nil
	}
	if err != nil {
		return nil, storageErr("dashboard", err)
	}

	tier := models.TierBronze
	if st, err := w.store.GetStats(ctx, identity); err == nil {
		tier = models.TierForSpend(st.TotalSpent)
	}

	friends, err := w.store.CountReferrals(ctx, identity)
	if err != nil {
		return nil, storageErr("dashboard", err)
	}
	earned, err := w.store.SumCash(ctx, identity, models.DirectionCredit, []string{models.SourceReferral})
	if err != nil {
		return nil, storageErr("dashboard", err)
	}

	now := w.engine.Now()
	spinAvailable := acc.LastSpinDate == nil || !sameUTCDay(*acc.LastSpinDate, now)

	return &DashboardResult{
		Balance:       acc.Balance,
		TokenBalance:  acc.TokenBalance,
		Streak:        acc.Streak,
		Tier:          tier,
		SpinAvailable: spinAvailable,
		PremiumSpins:  acc.PremiumSpins,
		ReferralCode:  acc.ReferralCode,
		FriendsCount:  friends,
		TotalReferral: earned,
	}, nil
}

func (w *Wallet) Notifications(ctx context.Context, identity string) ([]models.Notification, error) {
	list, err := w.store.ListNotifications(ctx, identity, 50)
	if err != nil {
		return nil, storageErr("notifications", err)
	}
	return list, nil
}

func (w *Wallet) MarkNotificationRead(ctx context.Context, id uint, identity string) error {
	err := w.store.MarkNotificationRead(ctx, id, identity)
	if errors.Is(err, store.ErrNotFound) {
		return notFoundErr("NOTIFICATION_NOT_FOUND", "no such notification for this identity")
	}
	if err != nil {
		return storageErr("mark read", err)
	}
	return nil
}

func (w *Wallet) notify(ctx context.Context, identity, typ, title, msg string) {
	_ = w.store.CreateNotification(ctx, &models.Notification{
		Identity: identity,
		Type:     typ,
		Title:    title,
		Message:  msg,
	})
}

// ---- day helpers ----

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func utcDayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
