package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"majestic/config"
	"majestic/models"
	"majestic/store"
)

// Abuse gatekeeps every mutating operation: ban-set membership across the
// ip / device / identity namespaces, a trailing one-hour rate limit, and
// post-redemption fraud scoring.
type Abuse struct {
	store store.Store
	cfg   *config.Config
	now   func() time.Time
}

func NewAbuse(s store.Store, cfg *config.Config, now func() time.Time) *Abuse {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Abuse{store: s, cfg: cfg, now: now}
}

// Check rejects banned or rate-limited callers before any lock is taken.
// Allowed requests are recorded as events for the trailing window.
func (a *Abuse) Check(ctx context.Context, identity, deviceFP, ip, kind string) error {
	checks := []struct{ ns, value string }{
		{models.BanIP, ip},
		{models.BanDevice, deviceFP},
		{models.BanIdentity, identity},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		banned, err := a.store.IsBanned(ctx, c.ns, c.value)
		if err != nil {
			return storageErr("ban check", err)
		}
		if banned {
			return ErrBanned
		}
	}

	// A blocked fraud flag bans the account as hard as a ban entry does.
	acc, err := a.store.GetAccount(ctx, identity)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return storageErr("fraud flag check", err)
	}
	if acc != nil && acc.FraudFlag == models.FraudBlocked {
		return ErrBanned
	}

	since := a.now().Add(-time.Hour)
	n, err := a.store.CountEventsSince(ctx, identity, ip, since)
	if err != nil {
		return storageErr("rate limit check", err)
	}
	if n >= a.cfg.RateLimitPerHour {
		return ErrRateLimited
	}

	if err := a.store.RecordEvent(ctx, &models.ActionEvent{
		Identity:  identity,
		IPAddress: ip,
		DeviceFP:  deviceFP,
		Kind:      kind,
	}); err != nil {
		return storageErr("record event", err)
	}
	return nil
}

// Analyze runs the fraud heuristics after a redemption commits. Scoring:
// device fingerprint shared by more than DeviceAccountLimit accounts +50,
// redemption velocity from the IP above IPVelocityLimit in the last hour
// +40. Crossing a band escalates the flag; escalation is monotonic.
func (a *Abuse) Analyze(ctx context.Context, identity, deviceFP, ip string) {
	score := 0
	var reasons []string

	if deviceFP != "" {
		n, err := a.store.CountAccountsByDevice(ctx, deviceFP)
		if err == nil && n > a.cfg.DeviceAccountLimit {
			score += 50
			reasons = append(reasons, "device fingerprint reused across accounts")
		}
	}
	if ip != "" {
		n, err := a.store.CountRedemptionsByIPSince(ctx, ip, a.now().Add(-time.Hour))
		if err == nil && n > a.cfg.IPVelocityLimit {
			score += 40
			reasons = append(reasons, "high redemption velocity from IP")
		}
	}

	flag := models.FraudClean
	switch {
	case score >= a.cfg.ScoreBlocked:
		flag = models.FraudBlocked
	case score >= a.cfg.ScoreSuspicious:
		flag = models.FraudSuspicious
	}
	if flag == models.FraudClean {
		return
	}

	err := a.store.Atomic(ctx, func(tx store.Store) error {
		acc, err := tx.GetAccountForUpdate(ctx, identity)
		if err != nil {
			return err
		}
		// Never de-escalate here; only admin reset goes backwards.
		if models.FraudRank(flag) <= models.FraudRank(acc.FraudFlag) {
			return nil
		}
		acc.FraudFlag = flag
		if raw, err := json.Marshal(reasons); err == nil {
			acc.FraudReasons = raw
		}
		if err := tx.SaveAccount(ctx, acc); err != nil {
			return err
		}
		return tx.CreateNotification(ctx, &models.Notification{
			Identity: identity,
			Type:     models.NotifyWarning,
			Title:    "Account flagged",
			Message:  "Fraud review: " + strings.Join(reasons, ", "),
		})
	})
	if err != nil {
		log.Printf("fraud analysis for %s failed: %v", identity, err)
	}
}
