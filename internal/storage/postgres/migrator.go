package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	migrationsDir = "sql/migrations"
	// migrationLockKey: ключ pg_advisory_lock, чтобы миграции не шли параллельно с двух реплик.
	migrationLockKey  = int64(20260115)
	migrationTableDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
)

var (
	//go:embed sql/migrations/*.sql
	embeddedMigrations embed.FS

	migrationFileRe = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)
)

// Migration: пара up/down скриптов одной версии схемы.
type Migration struct {
	Version int64
	Name    string
	Up      string
	Down    string
}

// MigrationStatus: состояние схемы.
type MigrationStatus struct {
	Current int64
	Applied int
	Pending []Migration
}

// Migrations возвращает встроенные миграции по возрастанию версии.
func Migrations() ([]Migration, error) {
	return parseMigrations(embeddedMigrations)
}

// MigrateUp применяет до steps ещё не применённых миграций; steps<=0: все.
func (s *Store) MigrateUp(ctx context.Context, steps int) (int, error) {
	var applied int
	err := s.withMigrationLock(ctx, func(conn *sql.Conn, all []Migration) error {
		done, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}
		for _, m := range all {
			if done[m.Version] {
				continue
			}
			if err := runStep(ctx, conn, m.Up, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name); err != nil {
				return fmt.Errorf("migration %d_%s up: %w", m.Version, m.Name, err)
			}
			applied++
			if steps > 0 && applied >= steps {
				break
			}
		}
		return nil
	})
	return applied, err
}

// MigrateDown откатывает steps последних миграций; steps<=0 трактуется как один шаг.
func (s *Store) MigrateDown(ctx context.Context, steps int) (int, error) {
	if steps <= 0 {
		steps = 1
	}
	var reverted int
	err := s.withMigrationLock(ctx, func(conn *sql.Conn, all []Migration) error {
		byVersion := make(map[int64]Migration, len(all))
		for _, m := range all {
			byVersion[m.Version] = m
		}

		done, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}
		versions := make([]int64, 0, len(done))
		for v := range done {
			versions = append(versions, v)
		}
		sort.Slice(versions, func(i, j int) bool { return versions[i] > versions[j] })

		for _, v := range versions {
			if reverted >= steps {
				break
			}
			m, ok := byVersion[v]
			if !ok {
				return fmt.Errorf("cannot roll back unknown migration version %d", v)
			}
			if err := runStep(ctx, conn, m.Down, `DELETE FROM schema_migrations WHERE version = $1 AND name = $2`, m.Version, m.Name); err != nil {
				return fmt.Errorf("migration %d_%s down: %w", m.Version, m.Name, err)
			}
			reverted++
		}
		return nil
	})
	return reverted, err
}

// Status сообщает текущую версию схемы и список неприменённых миграций.
func (s *Store) Status(ctx context.Context) (MigrationStatus, error) {
	if s == nil || s.db == nil {
		return MigrationStatus{}, errors.New("postgres store is not initialized")
	}
	all, err := Migrations()
	if err != nil {
		return MigrationStatus{}, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	conn, err := s.db.Conn(queryCtx)
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(queryCtx, migrationTableDDL); err != nil {
		return MigrationStatus{}, fmt.Errorf("ensure migration table: %w", err)
	}
	done, err := appliedVersions(queryCtx, conn)
	if err != nil {
		return MigrationStatus{}, err
	}

	status := MigrationStatus{Applied: len(done)}
	for _, m := range all {
		if done[m.Version] {
			if m.Version > status.Current {
				status.Current = m.Version
			}
			continue
		}
		status.Pending = append(status.Pending, m)
	}
	return status, nil
}

func (s *Store) withMigrationLock(ctx context.Context, fn func(conn *sql.Conn, all []Migration) error) error {
	if s == nil || s.db == nil {
		return errors.New("postgres store is not initialized")
	}
	all, err := Migrations()
	if err != nil {
		return err
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	lockCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := conn.ExecContext(lockCtx, `SELECT pg_advisory_lock($1)`, migrationLockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, migrationLockKey)
	}()

	if _, err := conn.ExecContext(ctx, migrationTableDDL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return fn(conn, all)
}

// runStep выполняет скрипт и запись в schema_migrations одной транзакцией.
func runStep(ctx context.Context, conn *sql.Conn, script, bookkeeping string, version int64, name string) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if _, err := tx.ExecContext(ctx, script); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("execute: %w", err)
	}
	if _, err := tx.ExecContext(ctx, bookkeeping, version, name); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit()
}

func appliedVersions(ctx context.Context, conn *sql.Conn) (map[int64]bool, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	done := make(map[int64]bool)
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		done[v] = true
	}
	return done, rows.Err()
}

func parseMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := make(map[int64]*Migration)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		parts := migrationFileRe.FindStringSubmatch(entry.Name())
		if parts == nil {
			return nil, fmt.Errorf("invalid migration file name %q", entry.Name())
		}
		version, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse version of %q: %w", entry.Name(), err)
		}

		body, err := fs.ReadFile(fsys, path.Join(migrationsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", entry.Name(), err)
		}
		script := strings.TrimSpace(string(body))
		if script == "" {
			return nil, fmt.Errorf("migration %q is empty", entry.Name())
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version, Name: parts[2]}
			byVersion[version] = m
		}
		if m.Name != parts[2] {
			return nil, fmt.Errorf("migration %d has conflicting names %q and %q", version, m.Name, parts[2])
		}

		target := &m.Up
		if parts[3] == "down" {
			target = &m.Down
		}
		if *target != "" {
			return nil, fmt.Errorf("duplicate %s migration for version %d", parts[3], version)
		}
		*target = script
	}

	if len(byVersion) == 0 {
		return nil, errors.New("no migrations found")
	}

	result := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" || m.Down == "" {
			return nil, fmt.Errorf("migration %d_%s needs both up and down scripts", m.Version, m.Name)
		}
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Version < result[j].Version })
	return result, nil
}
