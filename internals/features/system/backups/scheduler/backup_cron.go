package scheduler

import (
	"context"
	"log"
	"strings"
	"time"

	"dormku_backend/internals/features/system/backups/service"

	"github.com/robfig/cron/v3"
)

// RegisterScheduledBackups adds the BACKUP_CRON job. An empty spec disables it and returns ok=false.
func RegisterScheduledBackups(c *cron.Cron, svc *service.BackupService, spec string) (id cron.EntryID, ok bool, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		log.Println("[BACKUP] BACKUP_CRON empty, scheduled backups disabled")
		return 0, false, nil
	}
	id, err = c.AddFunc(spec, func() {
		RunScheduledBackup(context.Background(), svc)
	})
	if err != nil {
		return 0, false, err
	}
	log.Printf("[BACKUP] scheduled backups enabled (spec=%q, retention=%d)", spec, svc.Retention)
	return id, true, nil
}

func RunScheduledBackup(ctx context.Context, svc *service.BackupService) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	out, err := svc.Run(ctx)
	if err != nil {
		log.Printf("[BACKUP ERROR] scheduled backup: %v", err)
		return
	}
	log.Printf("[BACKUP] scheduled backup %s done", out.Name)
}
