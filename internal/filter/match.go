package filter

import (
	"fmt"
	"strings"

	"github.com/scim-go/scimcore/internal/resource"
	"github.com/scim-go/scimcore/internal/scimerr"
	"github.com/scim-go/scimcore/internal/schema"
)

// compareLeaf applies op between node's leaf value and lit, per the
// operator table in spec §4.4. def, when non-nil, supplies the attribute's
// declared type and caseExact flag; when nil the leaf's own Def is used.
func compareLeaf(op Op, node *resource.Node, def *schema.AttributeDef, lit *Literal) (bool, error) {
	if !node.IsLeaf() {
		return false, scimerr.InvalidFilter("", "cannot compare a complex or multi-valued attribute")
	}
	leaf := node.LeafValue()
	if def == nil {
		def = leaf.Def
	}

	switch def.Type {
	case schema.Boolean:
		return compareBool(op, leaf.Bool, lit)
	case schema.Integer:
		return compareNumber(op, float64(leaf.Int), lit)
	case schema.Decimal:
		return compareNumber(op, leaf.Dec, lit)
	case schema.String, schema.DateTime, schema.Reference, schema.Binary:
		return compareString(op, leaf.Str, lit, def.CaseExact)
	default:
		return false, scimerr.InvalidFilter(def.FullName(), "attribute type does not support comparison")
	}
}

func compareBool(op Op, v bool, lit *Literal) (bool, error) {
	if lit.Kind != LitBool {
		return false, scimerr.InvalidFilter("", "boolean attribute compared against a non-boolean literal")
	}
	switch op {
	case Eq:
		return v == lit.Bool, nil
	case Ne:
		return v != lit.Bool, nil
	default:
		return false, scimerr.InvalidFilter("", fmt.Sprintf("operator %q is not valid for a boolean attribute", op))
	}
}

func compareNumber(op Op, v float64, lit *Literal) (bool, error) {
	if lit.Kind != LitNumber {
		return false, scimerr.InvalidFilter("", "numeric attribute compared against a non-numeric literal")
	}
	switch op {
	case Eq:
		return v == lit.Num, nil
	case Ne:
		return v != lit.Num, nil
	case Gt:
		return v > lit.Num, nil
	case Ge:
		return v >= lit.Num, nil
	case Lt:
		return v < lit.Num, nil
	case Le:
		return v <= lit.Num, nil
	default:
		return false, scimerr.InvalidFilter("", fmt.Sprintf("operator %q is not valid for a numeric attribute", op))
	}
}

func compareString(op Op, v string, lit *Literal, caseExact bool) (bool, error) {
	if lit.Kind != LitString {
		return false, scimerr.InvalidFilter("", "string attribute compared against a non-string literal")
	}

	// Ordered comparison is always Unicode code-point order, regardless of
	// caseExact; only the equality-family operators fold case.
	switch op {
	case Gt:
		return v > lit.Str, nil
	case Ge:
		return v >= lit.Str, nil
	case Lt:
		return v < lit.Str, nil
	case Le:
		return v <= lit.Str, nil
	}

	a, b := v, lit.Str
	if !caseExact {
		a, b = strings.ToLower(a), strings.ToLower(b)
	}
	switch op {
	case Eq:
		return a == b, nil
	case Ne:
		return a != b, nil
	case Co:
		return strings.Contains(a, b), nil
	case Sw:
		return strings.HasPrefix(a, b), nil
	case Ew:
		return strings.HasSuffix(a, b), nil
	default:
		return false, scimerr.InvalidFilter("", fmt.Sprintf("unsupported operator %q", op))
	}
}
