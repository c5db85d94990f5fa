package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"dormku_backend/internals/features/system/backups/dto"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"
)

const nameLayout = "20060102-150405"

var namePattern = regexp.MustCompile(`^backup-(\d{8}-\d{6})\.(sql|sqlite)$`)

// Remote is the off-site copy target; nil disables it.
type Remote interface {
	UploadFile(ctx context.Context, name, localPath string) error
	KeepNewest(ctx context.Context, keep int, match func(key string) bool) (int, error)
}

type BackupService struct {
	Dir       string
	Retention int
	Dumper    Dumper
	Remote    Remote
	Now       func() time.Time

	mu sync.Mutex
}

func NewBackupService(dir string, retention int, dumper Dumper, remote Remote) *BackupService {
	return &BackupService{Dir: dir, Retention: retention, Dumper: dumper, Remote: remote, Now: time.Now}
}

func (s *BackupService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// ValidName rejects anything that is not a generated backup file name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

func parseName(name string) (time.Time, bool) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(nameLayout, m[1], time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (s *BackupService) lock() error {
	if !s.mu.TryLock() {
		return apperror.Conflict("another backup or restore is running")
	}
	return nil
}

/* =========================
   Create
   ========================= */

func (s *BackupService) Create(ctx context.Context, p helperAuth.Principal) (*dto.BackupFile, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

// Run takes a backup, copies it off-site and applies retention. Used by the API, cron and dormctl.
func (s *BackupService) Run(ctx context.Context) (*dto.BackupFile, error) {
	if s.Dumper == nil {
		return nil, apperror.Validation("backups are not configured for this database", nil)
	}
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return nil, apperror.Infra("create backup dir", err)
	}

	createdAt := s.now().Truncate(time.Second)
	name := fmt.Sprintf("backup-%s.%s", createdAt.Format(nameLayout), s.Dumper.Ext())
	final := filepath.Join(s.Dir, name)
	if _, err := os.Stat(final); err == nil {
		return nil, apperror.Conflict("a backup with this timestamp already exists")
	}

	partial := final + ".partial"
	_ = os.Remove(partial)
	if err := s.Dumper.Dump(ctx, partial); err != nil {
		_ = os.Remove(partial)
		return nil, apperror.Infra("dump database", err)
	}
	if err := os.Rename(partial, final); err != nil {
		_ = os.Remove(partial)
		return nil, apperror.Infra("finalize backup", err)
	}

	info, err := os.Stat(final)
	if err != nil {
		return nil, apperror.Infra("stat backup", err)
	}
	out := &dto.BackupFile{Name: name, Size: info.Size(), CreatedAt: createdAt}
	log.Printf("[BACKUP] created %s (%d bytes)", name, out.Size)

	if s.Remote != nil {
		uploaded := true
		if err := s.Remote.UploadFile(ctx, name, final); err != nil {
			uploaded = false
			log.Printf("[WARN] backup %s off-site upload failed: %v", name, err)
		}
		out.Uploaded = &uploaded
	}

	if _, err := s.prune(ctx); err != nil {
		log.Printf("[WARN] backup retention: %v", err)
	}
	return out, nil
}

// prune keeps the newest Retention local files (and off-site objects). Retention <= 0 keeps everything.
func (s *BackupService) prune(ctx context.Context) (int, error) {
	if s.Retention <= 0 {
		return 0, nil
	}
	files, err := s.list()
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := s.Retention; i < len(files); i++ {
		if err := os.Remove(filepath.Join(s.Dir, files[i].Name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		log.Printf("[BACKUP] pruned %d local backups (retention=%d)", removed, s.Retention)
	}

	if s.Remote != nil {
		if _, err := s.Remote.KeepNewest(ctx, s.Retention, func(key string) bool {
			return ValidName(path.Base(key))
		}); err != nil {
			log.Printf("[WARN] off-site retention: %v", err)
		}
	}
	return removed, nil
}

/* =========================
   List / Path / Delete
   ========================= */

func (s *BackupService) List(ctx context.Context, p helperAuth.Principal) ([]dto.BackupFile, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	files, err := s.list()
	if err != nil {
		return nil, apperror.Infra("list backups", err)
	}
	return files, nil
}

// list returns generated backup files, newest first.
func (s *BackupService) list() ([]dto.BackupFile, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []dto.BackupFile{}, nil
		}
		return nil, err
	}
	out := make([]dto.BackupFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		createdAt, ok := parseName(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, dto.BackupFile{Name: e.Name(), Size: info.Size(), CreatedAt: createdAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

// Path resolves a backup name to its file, for download.
func (s *BackupService) Path(p helperAuth.Principal, name string) (string, error) {
	if err := p.RequireAdmin(); err != nil {
		return "", err
	}
	return s.resolve(name)
}

func (s *BackupService) resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if !ValidName(name) {
		return "", apperror.Field("name", "invalid backup file name")
	}
	full := filepath.Join(s.Dir, name)
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperror.NotFound("backup not found")
		}
		return "", apperror.Infra("stat backup", err)
	}
	if !info.Mode().IsRegular() {
		return "", apperror.NotFound("backup not found")
	}
	return full, nil
}

func (s *BackupService) Delete(ctx context.Context, p helperAuth.Principal, name string) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	full, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		return apperror.Infra("delete backup", err)
	}
	log.Printf("[BACKUP] deleted %s", name)
	return nil
}

/* =========================
   Restore
   ========================= */

func (s *BackupService) Restore(ctx context.Context, p helperAuth.Principal, name string) (*dto.RestoreResponse, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.RestoreFile(ctx, name)
}

// RestoreFile replays a backup into the configured database.
func (s *BackupService) RestoreFile(ctx context.Context, name string) (*dto.RestoreResponse, error) {
	if s.Dumper == nil {
		return nil, apperror.Validation("backups are not configured for this database", nil)
	}
	full, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(name, "."+s.Dumper.Ext()) {
		return nil, apperror.Field("name", "backup was taken from a different database driver")
	}
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if err := s.Dumper.Restore(ctx, full); err != nil {
		return nil, apperror.Infra("restore database", err)
	}
	log.Printf("[BACKUP] restored %s", name)

	out := &dto.RestoreResponse{Name: name, RestoredAt: s.now()}
	if !s.Dumper.LiveRestore() {
		out.Note = "restart the server to load the restored database"
	}
	return out, nil
}
