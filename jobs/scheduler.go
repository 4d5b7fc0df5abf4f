package jobs

import (
	"context"
	"log"
	"time"

	"majestic/database"
	"majestic/models"
	"majestic/services"

	"github.com/robfig/cron/v3"
)

// StartScheduler wires the recurring maintenance jobs. All schedules run
// in UTC because every daily limit in the ledger is a UTC-day limit.
func StartScheduler(svc *services.Wallet) *cron.Cron {
	c := cron.New(cron.WithLocation(time.UTC))

	// Midnight rollover: clear the per-day spin markers.
	c.AddFunc("0 0 * * *", func() {
		res := database.DB.Model(&models.Account{}).
			Where("spin_claimed_today = ?", true).
			Update("spin_claimed_today", false)
		if res.Error != nil {
			log.Printf("❌ error resetting spin flags: %v", res.Error)
			return
		}
		log.Printf("✅ spin flags reset for %d accounts", res.RowsAffected)
	})

	// Weekly sweep of codes that were issued but never redeemed.
	c.AddFunc("0 3 * * 1", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := svc.CleanupStaleCodes(ctx, 90*24*time.Hour)
		if err != nil {
			log.Printf("❌ error cleaning stale codes: %v", err)
			return
		}
		log.Printf("✅ removed %d stale codes", n)
	})

	c.Start()
	return c
}
