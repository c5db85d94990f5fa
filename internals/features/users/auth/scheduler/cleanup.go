package scheduler

import (
	"context"
	"log"
	"time"

	"dormku_backend/internals/features/users/auth/service"

	"github.com/robfig/cron/v3"
)

const cleanupSpec = "@daily"

// RegisterBlacklistCleanup purges blacklist rows once a day, keeping ttlDays of expired history.
func RegisterBlacklistCleanup(c *cron.Cron, svc *service.AuthService, ttlDays int) (cron.EntryID, error) {
	if ttlDays < 0 {
		ttlDays = 0
	}
	keep := time.Duration(ttlDays) * 24 * time.Hour
	return c.AddFunc(cleanupSpec, func() {
		RunBlacklistCleanup(context.Background(), svc, keep)
	})
}

func RunBlacklistCleanup(ctx context.Context, svc *service.AuthService, keep time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	log.Println("[CLEANUP] purging token_blacklist")
	n, err := svc.PurgeBlacklist(ctx, keep)
	if err != nil {
		log.Printf("[CLEANUP ERROR] purge token_blacklist: %v", err)
		return
	}
	log.Printf("[CLEANUP] %d expired tokens removed", n)
}
