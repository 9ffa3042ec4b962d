// Package coerce parses textual patch values into typed resource.Leaf
// values according to a resolved schema.AttributeDef, implementing C2 of
// the core (spec §4.2).
package coerce

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scim-go/scimcore/internal/resource"
	"github.com/scim-go/scimcore/internal/scimerr"
	"github.com/scim-go/scimcore/internal/schema"
)

// Value parses raw against def's SimpleType and returns a bound leaf node.
// def must not be COMPLEX; callers resolve complex values with JSON
// object/array parsing instead (see internal/patch).
func Value(def *schema.AttributeDef, raw string) (*resource.Node, error) {
	if def.Type == schema.Complex {
		return nil, scimerr.InvalidValue(def.FullName(), "cannot coerce a scalar value for a complex attribute")
	}

	switch def.Type {
	case schema.String, schema.DateTime, schema.Reference, schema.Binary:
		return resource.NewLeaf(def, resource.Leaf{Str: raw}), nil

	case schema.Boolean:
		b, err := parseBool(raw)
		if err != nil {
			return nil, scimerr.InvalidValue(def.FullName(), err.Error())
		}
		return resource.NewLeaf(def, resource.Leaf{Bool: b}), nil

	case schema.Integer:
		i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, scimerr.InvalidValue(def.FullName(), fmt.Sprintf("invalid integer %q", raw))
		}
		narrow := i >= -1<<31 && i <= 1<<31-1
		return resource.NewLeaf(def, resource.Leaf{Int: i, Narrow: narrow}), nil

	case schema.Decimal:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, scimerr.InvalidValue(def.FullName(), fmt.Sprintf("invalid decimal %q", raw))
		}
		return resource.NewLeaf(def, resource.Leaf{Dec: f}), nil

	default:
		return nil, scimerr.InvalidValue(def.FullName(), "unsupported attribute type")
	}
}

// parseBool parses "true"/"false" case-insensitively, per spec §4.2.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", raw)
	}
}
