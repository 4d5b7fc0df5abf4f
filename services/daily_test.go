package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"majestic/config"
	"majestic/models"
)

func TestResolveDaily(t *testing.T) {
	cfg := config.Default()
	roll := func(min, max int64) int64 { return min }

	cases := []struct {
		name   string
		vip    bool
		streak int64
		want   int64
	}{
		{"free regular", false, 1, 2},
		{"free weekly", false, 7, 10},
		{"free second week", false, 14, 10},
		{"vip regular", true, 3, 5},
		{"vip weekly", true, 7, 50},
	}
	for _, tc := range cases {
		if got := ResolveDaily(cfg, tc.vip, tc.streak, roll); got != tc.want {
			t.Errorf("%s: want %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestResolveDailyVIPRange(t *testing.T) {
	cfg := config.Default()
	var gotMin, gotMax int64
	ResolveDaily(cfg, true, 1, func(min, max int64) int64 {
		gotMin, gotMax = min, max
		return min
	})
	if gotMin != 5 || gotMax != 15 {
		t.Fatalf("vip variable reward must roll [5,15], got [%d,%d]", gotMin, gotMax)
	}
}

func TestClaimDailyOncePerDay(t *testing.T) {
	w, mem := newTestWallet(t)

	res, err := w.ClaimDaily(context.Background(), "alice@example.com", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Tokens != 2 || res.Streak != 1 {
		t.Fatalf("first free claim pays 2 at streak 1, got %d / %d", res.Tokens, res.Streak)
	}

	_, err = w.ClaimDaily(context.Background(), "alice@example.com", "", "")
	wantCode(t, err, "ALREADY_CLAIMED")

	entries, _ := mem.LedgerEntries(context.Background(), "alice@example.com", 10, 0)
	if len(entries) != 1 {
		t.Fatalf("rejected claim must not write ledger rows, got %d", len(entries))
	}
	if entries[0].Source != models.SourceDailyReward {
		t.Fatalf("want daily_reward source, got %s", entries[0].Source)
	}
}

func TestClaimDailyConcurrentSingleWinner(t *testing.T) {
	w, mem := newTestWallet(t)

	const claimers = 8
	var wg sync.WaitGroup
	errs := make([]error, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = w.ClaimDaily(context.Background(), "racer@example.com", "", "")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		wantCode(t, err, "ALREADY_CLAIMED")
	}
	if winners != 1 {
		t.Fatalf("exactly one concurrent claim may win, got %d winners", winners)
	}

	acc, err := mem.GetAccount(context.Background(), "racer@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if acc.Streak != 1 || acc.TokenBalance != 2 {
		t.Fatalf("want streak 1 and 2 tokens after the race, got %d / %d", acc.Streak, acc.TokenBalance)
	}
	entries, _ := mem.LedgerEntries(context.Background(), "racer@example.com", 20, 0)
	if len(entries) != 1 {
		t.Fatalf("want exactly one daily_reward ledger row, got %d", len(entries))
	}
}

func TestClaimDailyStreakAdvances(t *testing.T) {
	now := testNow
	w, _ := newTestWallet(t, WithClock(func() time.Time { return now }))

	for day := 1; day <= 7; day++ {
		res, err := w.ClaimDaily(context.Background(), "streak@example.com", "", "")
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
		if res.Streak != int64(day) {
			t.Fatalf("day %d: want streak %d, got %d", day, day, res.Streak)
		}
		if day == 7 && res.Tokens != 10 {
			t.Fatalf("7th free claim pays the weekly bonus 10, got %d", res.Tokens)
		}
		now = now.Add(24 * time.Hour)
	}
}

func TestClaimDailyTrialCap(t *testing.T) {
	w, mem := newTestWallet(t)
	if err := mem.AppendLedger(context.Background(), &models.LedgerEntry{
		Identity:    "capped@example.com",
		Direction:   models.DirectionCredit,
		Source:      models.SourceDailyReward,
		TokenAmount: 50,
	}); err != nil {
		t.Fatal(err)
	}

	_, err := w.ClaimDaily(context.Background(), "capped@example.com", "", "")
	wantCode(t, err, "TRIAL_CAP_REACHED")
}

func TestClaimDailyVIPWeeklyBonus(t *testing.T) {
	w, mem := newTestWallet(t, WithVIPChecker(fixedVIP{vip: true}))
	if err := mem.SaveAccount(context.Background(), &models.Account{
		Identity:     "vip@example.com",
		Streak:       6,
		FraudFlag:    models.FraudClean,
		ReferralCode: "VIP-AAAAA",
	}); err != nil {
		t.Fatal(err)
	}

	res, err := w.ClaimDaily(context.Background(), "vip@example.com", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Streak != 7 || res.Tokens != 50 {
		t.Fatalf("vip 7th claim pays 50, got %d at streak %d", res.Tokens, res.Streak)
	}
}
