package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"dormku_backend/internals/configs"

	"gorm.io/gorm"
)

// Dumper writes and reads database snapshots for one driver.
type Dumper interface {
	Ext() string
	Dump(ctx context.Context, dest string) error
	Restore(ctx context.Context, src string) error
	// LiveRestore is false when the running process must restart to see restored data.
	LiveRestore() bool
}

// NewDumper picks the dumper for DB_CONNECTION.
func NewDumper(cfg configs.DatabaseConfig, db *gorm.DB) (Dumper, error) {
	switch cfg.Connection {
	case "pgsql", "postgres", "postgresql":
		return &PGDumper{Cfg: cfg}, nil
	case "mysql":
		return &MySQLDumper{Cfg: cfg}, nil
	case "sqlite":
		return &SQLiteDumper{DB: db, Path: cfg.Path}, nil
	}
	return nil, fmt.Errorf("backups not supported for DB_CONNECTION %q", cfg.Connection)
}

func run(cmd *exec.Cmd) error {
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", filepath.Base(cmd.Path), err, truncate(string(out), 500))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

/* ===== postgres ===== */

type PGDumper struct {
	Cfg configs.DatabaseConfig
}

func (d *PGDumper) Ext() string       { return "sql" }
func (d *PGDumper) LiveRestore() bool { return true }

func (d *PGDumper) env() []string {
	return append(os.Environ(), "PGPASSWORD="+d.Cfg.Password, "PGSSLMODE="+d.Cfg.SSLMode)
}

func (d *PGDumper) DumpCmd(ctx context.Context, dest string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "pg_dump",
		"-h", d.Cfg.Host, "-p", d.Cfg.Port, "-U", d.Cfg.User, "-d", d.Cfg.Name,
		"--no-owner", "--clean", "--if-exists", "-F", "p", "-f", dest,
	)
	cmd.Env = d.env()
	return cmd
}

func (d *PGDumper) RestoreCmd(ctx context.Context, src string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "psql",
		"-h", d.Cfg.Host, "-p", d.Cfg.Port, "-U", d.Cfg.User, "-d", d.Cfg.Name,
		"-v", "ON_ERROR_STOP=1", "-q", "-f", src,
	)
	cmd.Env = d.env()
	return cmd
}

func (d *PGDumper) Dump(ctx context.Context, dest string) error {
	return run(d.DumpCmd(ctx, dest))
}

func (d *PGDumper) Restore(ctx context.Context, src string) error {
	return run(d.RestoreCmd(ctx, src))
}

/* ===== mysql ===== */

type MySQLDumper struct {
	Cfg configs.DatabaseConfig
}

func (d *MySQLDumper) Ext() string       { return "sql" }
func (d *MySQLDumper) LiveRestore() bool { return true }

func (d *MySQLDumper) env() []string {
	return append(os.Environ(), "MYSQL_PWD="+d.Cfg.Password)
}

func (d *MySQLDumper) DumpCmd(ctx context.Context, dest string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "mysqldump",
		"-h", d.Cfg.Host, "-P", d.Cfg.Port, "-u", d.Cfg.User,
		"--single-transaction", "--routines", "--add-drop-table",
		"--result-file="+dest, d.Cfg.Name,
	)
	cmd.Env = d.env()
	return cmd
}

func (d *MySQLDumper) RestoreCmd(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "mysql",
		"-h", d.Cfg.Host, "-P", d.Cfg.Port, "-u", d.Cfg.User, d.Cfg.Name,
	)
	cmd.Env = d.env()
	return cmd
}

func (d *MySQLDumper) Dump(ctx context.Context, dest string) error {
	return run(d.DumpCmd(ctx, dest))
}

func (d *MySQLDumper) Restore(ctx context.Context, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	cmd := d.RestoreCmd(ctx)
	cmd.Stdin = f
	return run(cmd)
}

/* ===== sqlite ===== */

// SQLiteDumper snapshots through the open connection (VACUUM INTO) and restores by file copy.
type SQLiteDumper struct {
	DB   *gorm.DB
	Path string
}

func (d *SQLiteDumper) Ext() string       { return "sqlite" }
func (d *SQLiteDumper) LiveRestore() bool { return false }

func (d *SQLiteDumper) Dump(ctx context.Context, dest string) error {
	return d.DB.WithContext(ctx).Exec("VACUUM INTO ?", dest).Error
}

func (d *SQLiteDumper) Restore(ctx context.Context, src string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp := d.Path + ".restoring"
	if err := copyFile(src, tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, d.Path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
