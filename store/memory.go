package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"majestic/models"

	"github.com/shopspring/decimal"
)

// Memory is an in-memory Store used by unit tests and local development.
// Atomic clones the state, runs fn against the clone, and swaps it in only
// on success, so partial writes are never visible.
type Memory struct {
	mu sync.RWMutex
	st *memState
	tx bool
}

type memState struct {
	nextID        uint
	accounts      map[string]models.Account
	ledger        []models.LedgerEntry
	codes         map[string]models.GiftCode
	redemptions   []models.RedemptionRecord
	bans          map[string]struct{}
	events        []models.ActionEvent
	spins         []models.SpinRecord
	stats         map[string]models.UserStatistics
	vault         map[uint]models.VaultItem
	notifications []models.Notification
}

func NewMemory() *Memory {
	return &Memory{st: newMemState()}
}

func newMemState() *memState {
	return &memState{
		nextID:   1,
		accounts: make(map[string]models.Account),
		codes:    make(map[string]models.GiftCode),
		bans:     make(map[string]struct{}),
		stats:    make(map[string]models.UserStatistics),
		vault:    make(map[uint]models.VaultItem),
	}
}

func (s *memState) clone() *memState {
	c := &memState{
		nextID:        s.nextID,
		accounts:      make(map[string]models.Account, len(s.accounts)),
		ledger:        append([]models.LedgerEntry(nil), s.ledger...),
		codes:         make(map[string]models.GiftCode, len(s.codes)),
		redemptions:   append([]models.RedemptionRecord(nil), s.redemptions...),
		bans:          make(map[string]struct{}, len(s.bans)),
		events:        append([]models.ActionEvent(nil), s.events...),
		spins:         append([]models.SpinRecord(nil), s.spins...),
		stats:         make(map[string]models.UserStatistics, len(s.stats)),
		vault:         make(map[uint]models.VaultItem, len(s.vault)),
		notifications: append([]models.Notification(nil), s.notifications...),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.codes {
		c.codes[k] = v
	}
	for k := range s.bans {
		c.bans[k] = struct{}{}
	}
	for k, v := range s.stats {
		c.stats[k] = v
	}
	for k, v := range s.vault {
		c.vault[k] = v
	}
	return c
}

func (s *memState) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

func banKey(namespace, value string) string {
	return namespace + "\x00" + value
}

func (m *Memory) Atomic(ctx context.Context, fn func(tx Store) error) error {
	if m.tx {
		return fn(m)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	work := m.st.clone()
	if err := fn(&Memory{st: work, tx: true}); err != nil {
		return err
	}
	m.st = work
	return nil
}

func (m *Memory) rlock() func() {
	if m.tx {
		return func() {}
	}
	m.mu.RLock()
	return m.mu.RUnlock
}

func (m *Memory) wlock() func() {
	if m.tx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

// ---- accounts ----

func (m *Memory) GetAccount(ctx context.Context, identity string) (*models.Account, error) {
	defer m.rlock()()
	acc, ok := m.st.accounts[identity]
	if !ok {
		return nil, ErrNotFound
	}
	out := acc
	return &out, nil
}

// GetAccountForUpdate is plain read here; exclusivity comes from the
// engine's identity lock plus the Atomic state swap.
func (m *Memory) GetAccountForUpdate(ctx context.Context, identity string) (*models.Account, error) {
	return m.GetAccount(ctx, identity)
}

func (m *Memory) CreateAccount(ctx context.Context, acc *models.Account) error {
	defer m.wlock()()
	acc.ID = m.st.id()
	acc.CreatedAt = time.Now().UTC()
	m.st.accounts[acc.Identity] = *acc
	return nil
}

func (m *Memory) SaveAccount(ctx context.Context, acc *models.Account) error {
	defer m.wlock()()
	if acc.ID == 0 {
		acc.ID = m.st.id()
	}
	m.st.accounts[acc.Identity] = *acc
	return nil
}

func (m *Memory) FindAccountByReferralCode(ctx context.Context, code string) (*models.Account, error) {
	defer m.rlock()()
	for _, acc := range m.st.accounts {
		if acc.ReferralCode == code && code != "" {
			out := acc
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CountReferrals(ctx context.Context, referrer string) (int64, error) {
	defer m.rlock()()
	var n int64
	for _, acc := range m.st.accounts {
		if acc.ReferredBy == referrer {
			n++
		}
	}
	return n, nil
}

func (m *Memory) TopAccountsByBalance(ctx context.Context, limit int) ([]models.Account, error) {
	defer m.rlock()()
	accs := make([]models.Account, 0, len(m.st.accounts))
	for _, acc := range m.st.accounts {
		accs = append(accs, acc)
	}
	sort.Slice(accs, func(i, j int) bool {
		return accs[i].Balance.GreaterThan(accs[j].Balance)
	})
	if len(accs) > limit {
		accs = accs[:limit]
	}
	return accs, nil
}

// ---- ledger ----

func (m *Memory) AppendLedger(ctx context.Context, entry *models.LedgerEntry) error {
	defer m.wlock()()
	entry.ID = m.st.id()
	entry.CreatedAt = time.Now().UTC()
	m.st.ledger = append(m.st.ledger, *entry)
	return nil
}

func (m *Memory) LedgerEntries(ctx context.Context, identity string, limit, offset int) ([]models.LedgerEntry, error) {
	defer m.rlock()()
	var matched []models.LedgerEntry
	for i := len(m.st.ledger) - 1; i >= 0; i-- {
		if m.st.ledger[i].Identity == identity {
			matched = append(matched, m.st.ledger[i])
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *Memory) SumTokenCredits(ctx context.Context, identity string, sources []string) (int64, error) {
	defer m.rlock()()
	var total int64
	for _, e := range m.st.ledger {
		if e.Identity == identity && e.Direction == models.DirectionCredit && contains(sources, e.Source) {
			total += e.TokenAmount
		}
	}
	return total, nil
}

func (m *Memory) SumCash(ctx context.Context, identity, direction string, sources []string) (decimal.Decimal, error) {
	defer m.rlock()()
	total := decimal.Zero
	for _, e := range m.st.ledger {
		if e.Identity != identity || e.Direction != direction {
			continue
		}
		if len(sources) > 0 && !contains(sources, e.Source) {
			continue
		}
		total = total.Add(e.CashAmount)
	}
	return total, nil
}

func (m *Memory) HasLedgerRef(ctx context.Context, identity, refID string) (bool, error) {
	defer m.rlock()()
	for _, e := range m.st.ledger {
		if e.Identity == identity && e.RefID == refID {
			return true, nil
		}
	}
	return false, nil
}

// ---- codes ----

func (m *Memory) GetCodeForUpdate(ctx context.Context, code string) (*models.GiftCode, error) {
	defer m.rlock()()
	gc, ok := m.st.codes[code]
	if !ok {
		return nil, ErrNotFound
	}
	out := gc
	return &out, nil
}

func (m *Memory) CreateCode(ctx context.Context, gc *models.GiftCode) error {
	defer m.wlock()()
	if _, ok := m.st.codes[gc.Code]; ok {
		return ErrDuplicate
	}
	gc.ID = m.st.id()
	gc.CreatedAt = time.Now().UTC()
	m.st.codes[gc.Code] = *gc
	return nil
}

func (m *Memory) SaveCode(ctx context.Context, gc *models.GiftCode) error {
	defer m.wlock()()
	m.st.codes[gc.Code] = *gc
	return nil
}

func (m *Memory) ListCodes(ctx context.Context, status string, limit, offset int) ([]models.GiftCode, error) {
	defer m.rlock()()
	var codes []models.GiftCode
	for _, gc := range m.st.codes {
		if status == "" || gc.Status == status {
			codes = append(codes, gc)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].ID > codes[j].ID })
	if offset >= len(codes) {
		return nil, nil
	}
	codes = codes[offset:]
	if len(codes) > limit {
		codes = codes[:limit]
	}
	return codes, nil
}

func (m *Memory) DeleteStaleCodes(ctx context.Context, cutoff time.Time) (int64, error) {
	defer m.wlock()()
	var deleted int64
	for code, gc := range m.st.codes {
		if gc.Status == models.CodeActive && gc.CreatedAt.Before(cutoff) {
			delete(m.st.codes, code)
			deleted++
		}
	}
	return deleted, nil
}

// ---- redemptions ----

func (m *Memory) HasCampaignRedemption(ctx context.Context, identity, prefix string) (bool, error) {
	defer m.rlock()()
	for _, r := range m.st.redemptions {
		if r.Identity == identity && r.CodePrefix == prefix {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) CreateRedemption(ctx context.Context, rec *models.RedemptionRecord) error {
	defer m.wlock()()
	rec.ID = m.st.id()
	rec.CreatedAt = time.Now().UTC()
	m.st.redemptions = append(m.st.redemptions, *rec)
	return nil
}

func (m *Memory) CountRedemptionsByIPSince(ctx context.Context, ip string, since time.Time) (int64, error) {
	defer m.rlock()()
	var n int64
	for _, r := range m.st.redemptions {
		if r.IPAddress == ip && r.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountAccountsByDevice(ctx context.Context, deviceFP string) (int64, error) {
	defer m.rlock()()
	seen := make(map[string]struct{})
	for _, r := range m.st.redemptions {
		if r.DeviceFP == deviceFP && deviceFP != "" {
			seen[r.Identity] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

// ---- bans ----

func (m *Memory) IsBanned(ctx context.Context, namespace, value string) (bool, error) {
	defer m.rlock()()
	_, ok := m.st.bans[banKey(namespace, value)]
	return ok, nil
}

func (m *Memory) AddBan(ctx context.Context, entry *models.BanEntry) error {
	defer m.wlock()()
	m.st.bans[banKey(entry.Namespace, entry.Value)] = struct{}{}
	return nil
}

func (m *Memory) RemoveBan(ctx context.Context, namespace, value string) error {
	defer m.wlock()()
	delete(m.st.bans, banKey(namespace, value))
	return nil
}

// ---- events ----

func (m *Memory) RecordEvent(ctx context.Context, ev *models.ActionEvent) error {
	defer m.wlock()()
	ev.ID = m.st.id()
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	m.st.events = append(m.st.events, *ev)
	return nil
}

func (m *Memory) CountEventsSince(ctx context.Context, identity, ip string, since time.Time) (int64, error) {
	defer m.rlock()()
	var n int64
	for _, ev := range m.st.events {
		if !ev.CreatedAt.After(since) {
			continue
		}
		if (identity != "" && ev.Identity == identity) || (ip != "" && ev.IPAddress == ip) {
			n++
		}
	}
	return n, nil
}

// ---- spins ----

func (m *Memory) CreateSpinRecord(ctx context.Context, rec *models.SpinRecord) error {
	defer m.wlock()()
	rec.ID = m.st.id()
	rec.CreatedAt = time.Now().UTC()
	m.st.spins = append(m.st.spins, *rec)
	return nil
}

func (m *Memory) CountPremiumSpins(ctx context.Context, identity string, from, to time.Time) (int64, error) {
	defer m.rlock()()
	var n int64
	for _, s := range m.st.spins {
		if s.Identity == identity && s.IsPremium && !s.SpinDate.Before(from) && s.SpinDate.Before(to) {
			n++
		}
	}
	return n, nil
}

// ---- statistics ----

func (m *Memory) GetStats(ctx context.Context, identity string) (*models.UserStatistics, error) {
	defer m.rlock()()
	st, ok := m.st.stats[identity]
	if !ok {
		return nil, ErrNotFound
	}
	out := st
	return &out, nil
}

func (m *Memory) SaveStats(ctx context.Context, st *models.UserStatistics) error {
	defer m.wlock()()
	if st.ID == 0 {
		st.ID = m.st.id()
	}
	m.st.stats[st.Identity] = *st
	return nil
}

// ---- vault ----

func (m *Memory) GetVaultItem(ctx context.Context, id uint) (*models.VaultItem, error) {
	defer m.rlock()()
	item, ok := m.st.vault[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := item
	return &out, nil
}

// PutVaultItem seeds the catalog; used by tests and local setup.
func (m *Memory) PutVaultItem(item models.VaultItem) {
	defer m.wlock()()
	if item.ID == 0 {
		item.ID = m.st.id()
	}
	m.st.vault[item.ID] = item
}

// ---- notifications ----

func (m *Memory) CreateNotification(ctx context.Context, n *models.Notification) error {
	defer m.wlock()()
	n.ID = m.st.id()
	n.CreatedAt = time.Now().UTC()
	m.st.notifications = append(m.st.notifications, *n)
	return nil
}

func (m *Memory) ListNotifications(ctx context.Context, identity string, limit int) ([]models.Notification, error) {
	defer m.rlock()()
	var list []models.Notification
	for i := len(m.st.notifications) - 1; i >= 0 && len(list) < limit; i-- {
		if m.st.notifications[i].Identity == identity {
			list = append(list, m.st.notifications[i])
		}
	}
	return list, nil
}

func (m *Memory) MarkNotificationRead(ctx context.Context, id uint, identity string) error {
	defer m.wlock()()
	for i := range m.st.notifications {
		if m.st.notifications[i].ID == id && m.st.notifications[i].Identity == identity {
			m.st.notifications[i].IsRead = true
			return nil
		}
	}
	return ErrNotFound
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
