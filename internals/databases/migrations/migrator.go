package migrations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Migration is one versioned schema step.
type Migration struct {
	Version string // sortable, e.g. 20250101000001
	Name    string
	Up      func(*gorm.DB) error
	Down    func(*gorm.DB) error
}

// MigrationRecord is a row in schema_migrations.
type MigrationRecord struct {
	Version   string    `gorm:"type:varchar(32);primaryKey"`
	Name      string    `gorm:"type:varchar(150);not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (MigrationRecord) TableName() string { return "schema_migrations" }

type Status struct {
	Version   string
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

var ErrNothingToRollback = errors.New("no applied migrations")

type Migrator struct {
	db         *gorm.DB
	migrations []*Migration
	now        func() time.Time
}

// NewMigrator returns a migrator preloaded with the application's migrations.
func NewMigrator(db *gorm.DB) *Migrator {
	m := &Migrator{db: db, now: time.Now}
	for _, mg := range All() {
		m.Register(mg)
	}
	return m
}

func (m *Migrator) Register(migration *Migration) {
	m.migrations = append(m.migrations, migration)
	sort.SliceStable(m.migrations, func(i, j int) bool {
		return m.migrations[i].Version < m.migrations[j].Version
	})
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	return m.db.WithContext(ctx).AutoMigrate(&MigrationRecord{})
}

func (m *Migrator) appliedRecords(ctx context.Context) (map[string]MigrationRecord, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return nil, err
	}
	var records []MigrationRecord
	if err := m.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	out := make(map[string]MigrationRecord, len(records))
	for _, r := range records {
		out[r.Version] = r
	}
	return out, nil
}

// Up applies every pending migration in version order. Each step and its record share one transaction.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	applied, err := m.appliedRecords(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mg := range m.migrations {
		if _, ok := applied[mg.Version]; ok {
			continue
		}
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mg.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{
				Version:   mg.Version,
				Name:      mg.Name,
				AppliedAt: m.now().UTC(),
			}).Error
		})
		if err != nil {
			return count, fmt.Errorf("migration %s_%s: %w", mg.Version, mg.Name, err)
		}
		count++
	}
	return count, nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) (*Migration, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return nil, err
	}
	var last MigrationRecord
	err := m.db.WithContext(ctx).Order("version DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNothingToRollback
	}
	if err != nil {
		return nil, err
	}

	var target *Migration
	for _, mg := range m.migrations {
		if mg.Version == last.Version {
			target = mg
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("migration %s is applied but not registered", last.Version)
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx); err != nil {
			return err
		}
		return tx.Delete(&last).Error
	})
	if err != nil {
		return nil, fmt.Errorf("rollback %s_%s: %w", target.Version, target.Name, err)
	}
	return target, nil
}

func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	applied, err := m.appliedRecords(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(m.migrations))
	for _, mg := range m.migrations {
		st := Status{Version: mg.Version, Name: mg.Name}
		if r, ok := applied[mg.Version]; ok {
			at := r.AppliedAt
			st.Applied = true
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}
