package services

import (
	"context"
	"testing"
	"time"

	"majestic/config"
	"majestic/models"
	"majestic/store"

	"github.com/shopspring/decimal"
)

func TestResolveSpinRewardBands(t *testing.T) {
	cfg := config.Default()
	premium := []struct {
		draw int
		want int64
	}{
		{1, 20}, {350, 20},
		{351, 50}, {700, 50},
		{701, 100}, {900, 100},
		{901, 250}, {990, 250},
		{991, 1000}, {1000, 1000},
	}
	for _, tc := range premium {
		if got := ResolveSpinReward(cfg.PremiumTable, tc.draw); got != tc.want {
			t.Errorf("premium draw %d: want %d, got %d", tc.draw, tc.want, got)
		}
	}

	free := []struct {
		draw int
		want int64
	}{
		{1, 1}, {500, 1},
		{501, 5}, {850, 5},
		{851, 10}, {980, 10},
		{981, 50}, {1000, 50},
	}
	for _, tc := range free {
		if got := ResolveSpinReward(cfg.FreeTable, tc.draw); got != tc.want {
			t.Errorf("free draw %d: want %d, got %d", tc.draw, tc.want, got)
		}
	}
}

func TestResolveSpinCost(t *testing.T) {
	cfg := config.Default()

	cost, used := ResolveSpinCost(cfg, false, 5)
	if !cost.IsZero() || used {
		t.Fatalf("free spin must be free, got %s used=%v", cost, used)
	}
	cost, used = ResolveSpinCost(cfg, true, 2)
	if !cost.IsZero() || !used {
		t.Fatalf("premium spin with credits must consume a credit, got %s used=%v", cost, used)
	}
	cost, used = ResolveSpinCost(cfg, true, 0)
	if !cost.Equal(decimal.NewFromInt(10)) || used {
		t.Fatalf("premium spin without credits must cost 10, got %s used=%v", cost, used)
	}
}

func TestFreeSpinOncePerDay(t *testing.T) {
	w, _ := newTestWallet(t)

	res, err := w.SubmitSpin(context.Background(), "alice@example.com", false, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if res.RewardTokens != 1 {
		t.Fatalf("draw 1 on free table pays 1, got %d", res.RewardTokens)
	}

	_, err = w.SubmitSpin(context.Background(), "alice@example.com", false, "", "")
	wantCode(t, err, "DAILY_LIMIT_REACHED")
}

func TestFreeSpinAvailableNextDay(t *testing.T) {
	now := testNow
	w, _ := newTestWallet(t, WithClock(func() time.Time { return now }))

	if _, err := w.SubmitSpin(context.Background(), "alice@example.com", false, "", ""); err != nil {
		t.Fatal(err)
	}
	now = now.Add(24 * time.Hour)
	if _, err := w.SubmitSpin(context.Background(), "alice@example.com", false, "", ""); err != nil {
		t.Fatalf("next UTC day must allow a fresh spin: %v", err)
	}
}

func TestFreeSpinTrialCap(t *testing.T) {
	w, mem := newTestWallet(t)
	if err := mem.AppendLedger(context.Background(), &models.LedgerEntry{
		Identity:    "trial@example.com",
		Direction:   models.DirectionCredit,
		Source:      models.SourceSpinReward,
		TokenAmount: 50,
	}); err != nil {
		t.Fatal(err)
	}

	_, err := w.SubmitSpin(context.Background(), "trial@example.com", false, "", "")
	wantCode(t, err, "TRIAL_CAP_REACHED")
}

func TestVIPIgnoresTrialCap(t *testing.T) {
	w, mem := newTestWallet(t, WithVIPChecker(fixedVIP{vip: true}))
	if err := mem.AppendLedger(context.Background(), &models.LedgerEntry{
		Identity:    "vip@example.com",
		Direction:   models.DirectionCredit,
		Source:      models.SourceDailyReward,
		TokenAmount: 500,
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := w.SubmitSpin(context.Background(), "vip@example.com", false, "", ""); err != nil {
		t.Fatalf("VIP has no earn cap: %v", err)
	}
}

func TestPremiumSpinChargesCost(t *testing.T) {
	w, _ := newTestWallet(t, WithDraw(func() int { return 400 }))
	creditCash(t, w, "alice@example.com", 100)

	res, err := w.SubmitSpin(context.Background(), "alice@example.com", true, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.NewCashBalance.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("want balance 90 after 10 cost, got %s", res.NewCashBalance)
	}
	if res.RewardTokens != 50 {
		t.Fatalf("draw 400 on premium table pays 50, got %d", res.RewardTokens)
	}
	if res.UsedCredit {
		t.Fatal("no credit was available to use")
	}
}

func TestPremiumSpinInsufficientFunds(t *testing.T) {
	w, _ := newTestWallet(t)
	_, err := w.SubmitSpin(context.Background(), "broke@example.com", true, "", "")
	wantCode(t, err, "INSUFFICIENT_FUNDS")
}

func TestPremiumSpinConsumesCredit(t *testing.T) {
	w, mem := newTestWallet(t)
	if err := mem.SaveAccount(context.Background(), &models.Account{
		Identity:     "credit@example.com",
		Balance:      decimal.Zero,
		PremiumSpins: 2,
		FraudFlag:    models.FraudClean,
		ReferralCode: "CRE-AAAAA",
	}); err != nil {
		t.Fatal(err)
	}

	res, err := w.SubmitSpin(context.Background(), "credit@example.com", true, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.UsedCredit {
		t.Fatal("credit should have been consumed instead of cash")
	}
	acc, _ := mem.GetAccount(context.Background(), "credit@example.com")
	if acc.PremiumSpins != 1 {
		t.Fatalf("want 1 credit left, got %d", acc.PremiumSpins)
	}
	if !acc.Balance.IsZero() {
		t.Fatalf("credit spin must not touch cash, got %s", acc.Balance)
	}
}

func TestPremiumDailyCap(t *testing.T) {
	w, mem := newTestWallet(t)
	creditCash(t, w, "heavy@example.com", 1000)
	for i := 0; i < 10; i++ {
		if err := mem.CreateSpinRecord(context.Background(), &models.SpinRecord{
			Identity:  "heavy@example.com",
			SpinDate:  testNow,
			IsPremium: true,
		}); err != nil {
			t.Fatal(err)
		}
	}

	_, err := w.SubmitSpin(context.Background(), "heavy@example.com", true, "", "")
	wantCode(t, err, "DAILY_LIMIT_REACHED")
}

func TestPremiumDailyCapBypass(t *testing.T) {
	cfg := config.Default()
	cfg.BypassIdentities = []string{"whale@example.com"}
	cfg.RateLimitPerHour = 100

	w := NewWallet(store.NewMemory(), cfg,
		WithClock(func() time.Time { return testNow }),
		WithDraw(func() int { return 1 }),
		WithRollRange(func(min, max int64) int64 { return min }),
		WithVIPChecker(fixedVIP{}),
	)
	creditCash(t, w, "whale@example.com", 1000)
	for i := 0; i < 15; i++ {
		if _, err := w.SubmitSpin(context.Background(), "whale@example.com", true, "", ""); err != nil {
			t.Fatalf("bypass identity hit the cap on spin %d: %v", i+1, err)
		}
	}
}
