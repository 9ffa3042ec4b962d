// Package scim is the public API for applying SCIM PATCH operations and
// evaluating SCIM filters and paths against resource documents. It wraps
// the schema registry, filter parser/evaluator, path resolver, and patch
// engine behind a small set of functions so callers never need to import
// the internal packages directly.
package scim

import (
	"github.com/scim-go/scimcore/internal/codec"
	"github.com/scim-go/scimcore/internal/filter"
	"github.com/scim-go/scimcore/internal/patch"
	"github.com/scim-go/scimcore/internal/resource"
	"github.com/scim-go/scimcore/internal/schema"
)

// Registry resolves attribute names against a resource type's schema and
// its registered extensions. Build one with NewUserRegistry or
// schema.NewRegistry for a custom resource type.
type Registry = schema.Registry

// NewUserRegistry returns a Registry for the core User resource type with
// the Enterprise User extension registered, per RFC 7643 §4.1 and §4.3.
func NewUserRegistry() *Registry {
	return schema.LoadDefaultUserRegistry()
}

// Document is a SCIM resource: an ordered, case-insensitively addressed
// tree of attributes, schema-bound at the leaves.
type Document = resource.Node

// NewDocument returns an empty resource document ready to be populated via
// ApplyPatch, typically starting from a previously stored or decoded one.
func NewDocument() *Document {
	return resource.NewObject()
}

// Op is a PATCH operation kind: add, replace, or remove.
type Op = patch.Op

const (
	OpAdd     = patch.OpAdd
	OpReplace = patch.OpReplace
	OpRemove  = patch.OpRemove
)

// PatchOp is one operation out of a PatchOp request body, in already
// JSON-decoded form (Value as produced by encoding/json.Unmarshal into
// interface{}).
type PatchOp = patch.Request

// PatchResult reports whether a single operation actually changed the
// resource it was applied to.
type PatchResult = patch.Result

// ApplyPatch applies a single PATCH operation to doc and returns the
// resulting document. doc is never mutated; on success or failure the
// caller's doc is untouched.
func ApplyPatch(doc *Document, reg *Registry, op PatchOp) (*Document, PatchResult, error) {
	return patch.Apply(doc, reg, op)
}

// ApplyPatches applies a sequence of PATCH operations atomically: if any
// operation fails, doc is returned unchanged and no partial results are
// reported, per RFC 7644 §3.5.2.
func ApplyPatches(doc *Document, reg *Registry, ops []PatchOp) (*Document, []PatchResult, error) {
	return patch.ApplyAll(doc, reg, ops)
}

// DecodePatchRequest unmarshals a PatchOp request body (RFC 7644 §3.5.2)
// into a slice of PatchOp values ready for ApplyPatches.
func DecodePatchRequest(body []byte) ([]PatchOp, error) {
	return codec.DecodePatchRequest(body)
}

// EncodeDocument marshals doc to its JSON wire representation.
func EncodeDocument(doc *Document) ([]byte, error) {
	return codec.EncodeResource(doc)
}

// DecodeDocument parses a full resource document's JSON body into doc,
// resolving every attribute against reg.
func DecodeDocument(reg *Registry, body []byte) (*Document, error) {
	return codec.DecodeDocument(reg, body)
}

// Filter is a parsed SCIM filter expression (RFC 7644 §3.4.2.2).
type Filter = filter.AST

// ParseFilter parses a SCIM filter expression.
func ParseFilter(expr string) (*Filter, error) {
	return filter.ParseFilter(expr)
}

// Path is a parsed SCIM attribute path, as used in PATCH operations and
// filter-qualified paths.
type Path = filter.PathExpr

// ParsePath parses a SCIM attribute path expression.
func ParsePath(expr string) (*Path, error) {
	return filter.ParsePath(expr)
}

// EvaluateFilter reports whether candidate (resolved against ctxDef's
// sub-attributes) matches the parsed filter f.
func EvaluateFilter(f *Filter, candidate *Document, ctxDef *schema.AttributeDef) (bool, error) {
	return filter.Evaluate(f, candidate, ctxDef)
}

// MatchingIndices returns the indices of array's elements that match f,
// in ascending order. Used to select specific elements of a multi-valued
// attribute for a filtered PATCH path.
func MatchingIndices(f *Filter, array *Document, elemDef *schema.AttributeDef) ([]int, error) {
	return filter.EvaluateIndices(f, array, elemDef)
}
