// Package store persists SCIM resources behind a small interface so the
// patch engine and its callers stay storage-agnostic. Two adapters are
// provided: an in-memory map for tests and single-node deployments, and a
// Postgres-backed adapter for production use.
package store

import (
	"context"
	"errors"

	"github.com/scim-go/scimcore/internal/resource"
)

// ErrNotFound is returned when a resource ID has no record in the store.
var ErrNotFound = errors.New("store: resource not found")

// ErrConflict reports a create that collides with an existing ID. Neither
// adapter in this package returns it: both Put methods upsert.
var ErrConflict = errors.New("store: resource already exists")

// Record pairs a stored resource document with the metadata the store
// tracks outside of the document body.
type Record struct {
	ID           string
	ResourceType string
	Version      string
	Document     *resource.Node
}

// Store persists resource documents keyed by resource type and ID.
//
// Implementations must treat Document as owned by the caller on Put and
// return a copy (not an alias) on Get/List, so mutations by one caller
// never leak into another's view.
type Store interface {
	Get(ctx context.Context, resourceType, id string) (*Record, error)
	Put(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, resourceType, id string) error
	List(ctx context.Context, resourceType string) ([]*Record, error)
}
