package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"majestic/config"
	"majestic/models"
	"majestic/store"

	"github.com/shopspring/decimal"
)

func TestAdminAdjustBalance(t *testing.T) {
	w, mem := newTestWallet(t)
	creditCash(t, w, "alice@example.com", 100)

	acc, err := w.AdminAdjust(context.Background(), "alice@example.com", AdjustBalance, "25")
	if err != nil {
		t.Fatal(err)
	}
	if !acc.Balance.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("want balance 25, got %s", acc.Balance)
	}

	// The delta is logged, not the absolute value.
	debits, err := mem.SumCash(context.Background(), "alice@example.com", models.DirectionDebit, []string{models.SourceAdminAdjust})
	if err != nil {
		t.Fatal(err)
	}
	if !debits.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("want logged debit delta 75, got %s", debits)
	}
}

func TestAdminAdjustTokens(t *testing.T) {
	w, mem := newTestWallet(t)
	acc, err := w.AdminAdjust(context.Background(), "alice@example.com", AdjustTokens, "120")
	if err != nil {
		t.Fatal(err)
	}
	if acc.TokenBalance != 120 {
		t.Fatalf("want 120 tokens, got %d", acc.TokenBalance)
	}
	credits, err := mem.SumTokenCredits(context.Background(), "alice@example.com", []string{models.SourceAdminAdjust})
	if err != nil {
		t.Fatal(err)
	}
	if credits != 120 {
		t.Fatalf("want logged credit delta 120, got %d", credits)
	}
}

func TestAdminAdjustValidation(t *testing.T) {
	w, _ := newTestWallet(t)
	ctx := context.Background()

	_, err := w.AdminAdjust(ctx, "alice@example.com", "tier", "gold")
	wantCode(t, err, "UNSUPPORTED_FIELD")

	_, err = w.AdminAdjust(ctx, "alice@example.com", AdjustBalance, "-5")
	wantCode(t, err, "INVALID_AMOUNT")

	_, err = w.AdminAdjust(ctx, "alice@example.com", AdjustTokens, "1.5")
	wantCode(t, err, "INVALID_AMOUNT")

	_, err = w.AdminAdjust(ctx, "alice@example.com", AdjustFraudFlag, "banished")
	wantCode(t, err, "INVALID_FLAG")
}

func TestAdminAdjustFraudReset(t *testing.T) {
	w, mem := newTestWallet(t)
	if err := mem.SaveAccount(context.Background(), &models.Account{
		Identity:     "flagged@example.com",
		FraudFlag:    models.FraudBlocked,
		FraudReasons: []byte(`["device fingerprint reused across accounts"]`),
		ReferralCode: "FLA-BBBBB",
	}); err != nil {
		t.Fatal(err)
	}

	acc, err := w.AdminAdjust(context.Background(), "flagged@example.com", AdjustFraudFlag, models.FraudClean)
	if err != nil {
		t.Fatal(err)
	}
	if acc.FraudFlag != models.FraudClean {
		t.Fatalf("want clean flag, got %s", acc.FraudFlag)
	}
	if acc.FraudReasons != nil {
		t.Fatal("reset must clear the recorded reasons")
	}
}

func TestAdminBanAndUnban(t *testing.T) {
	w, mem := newTestWallet(t)
	ctx := context.Background()

	err := w.AdminBan(ctx, BanTarget{})
	wantCode(t, err, "TARGET_REQUIRED")

	if err := w.AdminBan(ctx, BanTarget{IP: "10.0.0.1", Identity: "bad@example.com", Note: "abuse"}); err != nil {
		t.Fatal(err)
	}
	for _, probe := range []struct{ ns, v string }{
		{models.BanIP, "10.0.0.1"},
		{models.BanIdentity, "bad@example.com"},
	} {
		banned, err := mem.IsBanned(ctx, probe.ns, probe.v)
		if err != nil || !banned {
			t.Fatalf("%s/%s should be banned, got %v %v", probe.ns, probe.v, banned, err)
		}
	}

	if err := w.AdminUnban(ctx, BanTarget{IP: "10.0.0.1"}); err != nil {
		t.Fatal(err)
	}
	banned, _ := mem.IsBanned(ctx, models.BanIP, "10.0.0.1")
	if banned {
		t.Fatal("ip ban should be lifted")
	}
	banned, _ = mem.IsBanned(ctx, models.BanIdentity, "bad@example.com")
	if !banned {
		t.Fatal("identity ban must survive an ip-only unban")
	}
}

func TestGenerateCodes(t *testing.T) {
	w, _ := newTestWallet(t)
	ctx := context.Background()

	_, err := w.GenerateCodes(ctx, "PROMO1", models.RewardCash, decimal.NewFromInt(10), 0)
	wantCode(t, err, "INVALID_COUNT")

	_, err = w.GenerateCodes(ctx, "SHORT", models.RewardCash, decimal.NewFromInt(10), 5)
	wantCode(t, err, "INVALID_PREFIX")

	_, err = w.GenerateCodes(ctx, "PROMO1", "points", decimal.NewFromInt(10), 5)
	wantCode(t, err, "INVALID_REWARD_TYPE")

	codes, err := w.GenerateCodes(ctx, "PROMO1", models.RewardToken, decimal.NewFromInt(10), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != 5 {
		t.Fatalf("want 5 codes, got %d", len(codes))
	}
	for _, code := range codes {
		if !strings.HasPrefix(code, "PROMO1-") {
			t.Fatalf("code %s missing campaign prefix", code)
		}
	}

	listed, err := w.ListCodes(ctx, models.CodeActive, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 5 {
		t.Fatalf("want 5 listed codes, got %d", len(listed))
	}
}

type refusingCodeStore struct{ *store.Memory }

func (s *refusingCodeStore) CreateCode(ctx context.Context, gc *models.GiftCode) error {
	return errors.New("connection refused")
}

type collidingCodeStore struct {
	*store.Memory
	collisions int
}

func (s *collidingCodeStore) CreateCode(ctx context.Context, gc *models.GiftCode) error {
	if s.collisions > 0 {
		s.collisions--
		return store.ErrDuplicate
	}
	return s.Memory.CreateCode(ctx, gc)
}

func TestGenerateCodesStorageFailureAborts(t *testing.T) {
	w := NewWallet(&refusingCodeStore{store.NewMemory()}, config.Default())
	_, err := w.GenerateCodes(context.Background(), "PROMO1", models.RewardCash, decimal.NewFromInt(10), 10)
	wantCode(t, err, "STORAGE_ERROR")
}

func TestGenerateCodesRedrawsOnCollision(t *testing.T) {
	st := &collidingCodeStore{Memory: store.NewMemory(), collisions: 2}
	w := NewWallet(st, config.Default())

	codes, err := w.GenerateCodes(context.Background(), "PROMO1", models.RewardCash, decimal.NewFromInt(10), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != 3 {
		t.Fatalf("want 3 codes despite collisions, got %d", len(codes))
	}
	if st.collisions != 0 {
		t.Fatalf("both collisions should have been consumed, %d left", st.collisions)
	}
}

func TestGenerateCodesGivesUpOnEndlessCollisions(t *testing.T) {
	st := &collidingCodeStore{Memory: store.NewMemory(), collisions: 1 << 30}
	w := NewWallet(st, config.Default())

	_, err := w.GenerateCodes(context.Background(), "PROMO1", models.RewardCash, decimal.NewFromInt(10), 1)
	wantCode(t, err, "STORAGE_ERROR")
}

func TestMigrateFreeBalanceUnknownAccount(t *testing.T) {
	w, _ := newTestWallet(t)
	_, err := w.MigrateFreeBalance(context.Background(), "ghost@example.com")
	wantCode(t, err, "ACCOUNT_NOT_FOUND")
}

func TestMigrateFreeBalance(t *testing.T) {
	w, mem := newTestWallet(t)
	ctx := context.Background()

	// 100 of real top-up money plus 50 of promotional credit.
	if err := w.ProcessOrderCompleted(ctx, OrderEvent{
		OrderID: "M1", Identity: "alice@example.com",
		Total: decimal.NewFromInt(100), IsTopup: true,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := w.AdminAdjust(ctx, "alice@example.com", AdjustBalance, "150"); err != nil {
		t.Fatal(err)
	}

	acc, err := w.MigrateFreeBalance(ctx, "alice@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !acc.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("real cash must survive migration, got %s", acc.Balance)
	}
	if acc.TokenBalance != 500 {
		t.Fatalf("50 free money at x10 is 500 tokens, got %d", acc.TokenBalance)
	}

	// Second run finds nothing left to convert.
	acc, err = w.MigrateFreeBalance(ctx, "alice@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !acc.Balance.Equal(decimal.NewFromInt(100)) || acc.TokenBalance != 500 {
		t.Fatalf("repeat migration must be a no-op, got %s / %d", acc.Balance, acc.TokenBalance)
	}

	migrated, err := mem.SumCash(ctx, "alice@example.com", models.DirectionDebit, []string{models.SourceMigration})
	if err != nil {
		t.Fatal(err)
	}
	if !migrated.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("want 50 migrated in the ledger, got %s", migrated)
	}
}
