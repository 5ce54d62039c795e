package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/l1jgo/entityforge/internal/data"
	"github.com/l1jgo/entityforge/internal/template"
	"github.com/l1jgo/entityforge/internal/types"
	"go.uber.org/zap"
)

// TemplateRepo reads templates stored as YAML documents, one row per
// template. It never writes: templates are authored and loaded elsewhere.
type TemplateRepo struct {
	db  *DB
	reg *types.Registry
}

func NewTemplateRepo(db *DB, reg *types.Registry) *TemplateRepo {
	return &TemplateRepo{db: db, reg: reg}
}

// LoadComponent returns the component template stored under name, or nil
// if there is no such row.
func (r *TemplateRepo) LoadComponent(ctx context.Context, name string) (*template.Component, error) {
	body, err := r.body(ctx, `SELECT body FROM component_templates WHERE name = $1`, name)
	if err != nil || body == nil {
		return nil, err
	}
	c, err := data.DecodeComponent(body, r.reg)
	if err != nil {
		return nil, fmt.Errorf("component template %s: %w", name, err)
	}
	if c.Name == "" {
		c.Name = name
	}
	return c, nil
}

// LoadEntity returns the entity template stored under name, or nil if there
// is no such row. Component references are loaded from component_templates.
func (r *TemplateRepo) LoadEntity(ctx context.Context, name string) (*template.Entity, error) {
	body, err := r.body(ctx, `SELECT body FROM entity_templates WHERE name = $1`, name)
	if err != nil || body == nil {
		return nil, err
	}
	var refErr error
	refs := func(ref string) (*template.Component, bool) {
		c, err := r.LoadComponent(ctx, ref)
		if err != nil {
			refErr = errors.Join(refErr, err)
		}
		return c, c != nil
	}
	e, err := data.DecodeEntity(body, r.reg, refs)
	if err != nil {
		return nil, fmt.Errorf("entity template %s: %w", name, errors.Join(err, refErr))
	}
	if e.Name == "" {
		e.Name = name
	}
	return e, nil
}

// EntityNames lists the stored entity template names.
func (r *TemplateRepo) EntityNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT name FROM entity_templates ORDER BY name`)
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list entity templates: %w", err)
	}
	return names, nil
}

func (r *TemplateRepo) body(ctx context.Context, query, name string) ([]byte, error) {
	var body string
	err := r.db.Pool.QueryRow(ctx, query, name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query template %s: %w", name, err)
	}
	return []byte(body), nil
}

// Store adapts the repo to template.Store. Each lookup runs under its own
// timeout; database errors are logged and reported as misses.
func (r *TemplateRepo) Store(timeout time.Duration, log *zap.Logger) template.Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &repoStore{repo: r, timeout: timeout, log: log}
}

type repoStore struct {
	repo    *TemplateRepo
	timeout time.Duration
	log     *zap.Logger
}

func (s *repoStore) ResolveComponent(name string) (*template.Component, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	c, err := s.repo.LoadComponent(ctx, name)
	if err != nil {
		s.log.Warn("component template lookup failed", zap.String("name", name), zap.Error(err))
		return nil, false
	}
	return c, c != nil
}

func (s *repoStore) ResolveEntity(name string) (*template.Entity, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	e, err := s.repo.LoadEntity(ctx, name)
	if err != nil {
		s.log.Warn("entity template lookup failed", zap.String("name", name), zap.Error(err))
		return nil, false
	}
	return e, e != nil
}
