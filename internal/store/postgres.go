package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v4/stdlib" // registers the "pgx" sql driver
	"github.com/jmoiron/sqlx"

	"github.com/scim-go/scimcore/internal/codec"
	"github.com/scim-go/scimcore/internal/schema"
)

// Postgres is a Store backed by a single table of JSONB documents:
//
//	CREATE TABLE scim_resources (
//	    id             text PRIMARY KEY,
//	    resource_type  text NOT NULL,
//	    version        text NOT NULL,
//	    document       jsonb NOT NULL
//	);
//	CREATE INDEX ON scim_resources (resource_type);
//
// A Postgres store is schema-bound: it needs a Registry per resource type
// to rebuild typed leaves out of the JSONB document on read.
type Postgres struct {
	db       *sqlx.DB
	registry func(resourceType string) (*schema.Registry, error)
}

// OpenPostgres connects to dsn using the pgx driver and wraps it as a
// Store. registry resolves the schema.Registry to decode a given resource
// type's documents with.
func OpenPostgres(dsn string, registry func(resourceType string) (*schema.Registry, error)) (*Postgres, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}
	return &Postgres{db: db, registry: registry}, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

type resourceRow struct {
	ID           string `db:"id"`
	ResourceType string `db:"resource_type"`
	Version      string `db:"version"`
	Document     []byte `db:"document"`
}

func (p *Postgres) Get(ctx context.Context, resourceType, id string) (*Record, error) {
	var row resourceRow
	err := p.db.GetContext(ctx, &row,
		`SELECT id, resource_type, version, document FROM scim_resources WHERE resource_type = $1 AND id = $2`,
		resourceType, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s/%s: %w", resourceType, id, err)
	}
	return p.rowToRecord(&row)
}

func (p *Postgres) Put(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	body, err := codec.EncodeResource(rec.Document)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", rec.ResourceType, rec.ID, err)
	}

	_, err = p.db.ExecContext(ctx, `
INSERT INTO scim_resources (id, resource_type, version, document)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET version = EXCLUDED.version, document = EXCLUDED.document`,
		rec.ID, rec.ResourceType, rec.Version, body)
	if err != nil {
		return fmt.Errorf("store: put %s/%s: %w", rec.ResourceType, rec.ID, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, resourceType, id string) error {
	result, err := p.db.ExecContext(ctx,
		`DELETE FROM scim_resources WHERE resource_type = $1 AND id = $2`, resourceType, id)
	if err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", resourceType, id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", resourceType, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, resourceType string) ([]*Record, error) {
	var rows []resourceRow
	err := p.db.SelectContext(ctx, &rows,
		`SELECT id, resource_type, version, document FROM scim_resources WHERE resource_type = $1 ORDER BY id`,
		resourceType)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", resourceType, err)
	}

	out := make([]*Record, 0, len(rows))
	for i := range rows {
		rec, err := p.rowToRecord(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (p *Postgres) rowToRecord(row *resourceRow) (*Record, error) {
	reg, err := p.registry(row.ResourceType)
	if err != nil {
		return nil, fmt.Errorf("store: resolve schema for %s/%s: %w", row.ResourceType, row.ID, err)
	}

	doc, err := codec.DecodeDocument(reg, row.Document)
	if err != nil {
		return nil, fmt.Errorf("store: decode %s/%s: %w", row.ResourceType, row.ID, err)
	}
	return &Record{ID: row.ID, ResourceType: row.ResourceType, Version: row.Version, Document: doc}, nil
}
