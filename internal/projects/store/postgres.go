package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/domain"
)

var tableNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresStore keeps records in a table named after the collection.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

type PostgresOptions struct {
	DSN        string
	Collection string
	ConnectTO  time.Duration
	PingTO     time.Duration
}

// OpenPostgres connects, pings and creates the table if it is missing.
func OpenPostgres(ctx context.Context, opt PostgresOptions) (*PostgresStore, error) {
	if opt.DSN == "" {
		return nil, fmt.Errorf("%w: DB_DSN is not set", ErrStoreUnavailable)
	}
	if opt.Collection == "" {
		opt.Collection = DefaultCollection
	}
	if !tableNameRe.MatchString(opt.Collection) {
		return nil, fmt.Errorf("invalid table name %q", opt.Collection)
	}
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	pool, err := pgxpool.New(cctx, opt.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: db connect: %v", ErrStoreUnavailable, err)
	}

	pctx, pcancel := context.WithTimeout(ctx, opt.PingTO)
	defer pcancel()

	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: db ping: %v", ErrStoreUnavailable, err)
	}

	s := &PostgresStore{pool: pool, table: opt.Collection}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	q := fmt.Sprintf(`
create table if not exists %s (
	id          text primary key,
	type_projet text not null,
	surface_m2  double precision not null,
	cout_total  double precision not null
);`, s.table)
	if _, err := s.pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore) FetchAll(ctx context.Context) ([]domain.ProjectRecord, error) {
	q := fmt.Sprintf(`select id, type_projet, surface_m2, cout_total from %s order by id;`, s.table)
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ProjectRecord, 0, 64)
	for rows.Next() {
		var r domain.ProjectRecord
		if err := rows.Scan(&r.ID, &r.Type, &r.SurfaceM2, &r.TotalCost); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FetchOne(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	q := fmt.Sprintf(`select id, type_projet, surface_m2, cout_total from %s where id = $1;`, s.table)

	var r domain.ProjectRecord
	err := s.pool.QueryRow(ctx, q, id).Scan(&r.ID, &r.Type, &r.SurfaceM2, &r.TotalCost)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) Insert(ctx context.Context, rec domain.ProjectRecord) error {
	q := fmt.Sprintf(`
insert into %s (id, type_projet, surface_m2, cout_total)
values ($1, $2, $3, $4)
on conflict (id) do update
set type_projet = excluded.type_projet,
    surface_m2  = excluded.surface_m2,
    cout_total  = excluded.cout_total;`, s.table)

	if _, err := s.pool.Exec(ctx, q, rec.ID, rec.Type, rec.SurfaceM2, rec.TotalCost); err != nil {
		return fmt.Errorf("failed to insert project %s: %w", rec.ID, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
