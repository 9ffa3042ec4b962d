package filter

import (
	"fmt"
	"strings"

	"github.com/scim-go/scimcore/internal/resource"
	"github.com/scim-go/scimcore/internal/scimerr"
	"github.com/scim-go/scimcore/internal/schema"
)

// Evaluate tests ast against candidate, a complex value's resource.Node
// (spec §4.4, C4). ctxDef is the attribute definition of candidate itself,
// used to resolve sub-attribute definitions for type-aware comparison; it
// may be nil, in which case comparisons fall back to the leaf's own Def.
func Evaluate(ast *AST, candidate *resource.Node, ctxDef *schema.AttributeDef) (bool, error) {
	switch ast.Kind {
	case NodeLogical:
		left, err := Evaluate(ast.Left, candidate, ctxDef)
		if err != nil {
			return false, err
		}
		if ast.LogicalOp == And && !left {
			return false, nil
		}
		if ast.LogicalOp == Or && left {
			return true, nil
		}
		return Evaluate(ast.Right, candidate, ctxDef)

	case NodeNot:
		inner, err := Evaluate(ast.Inner, candidate, ctxDef)
		if err != nil {
			return false, err
		}
		return !inner, nil

	case NodeGroup:
		return Evaluate(ast.Inner, candidate, ctxDef)

	case NodeCompare:
		return evaluateCompare(ast, candidate, ctxDef)

	default:
		return false, scimerr.InvalidFilter("", fmt.Sprintf("unhandled filter node kind %d", ast.Kind))
	}
}

// EvaluateIndices returns the indices (in order, no duplicates) of array
// whose element satisfies ast, used by path resolution over multi-valued
// complex attributes (spec §4.5).
func EvaluateIndices(ast *AST, array *resource.Node, elemDef *schema.AttributeDef) ([]int, error) {
	if !array.IsArray() {
		return nil, scimerr.InvalidFilter("", "filter target is not multi-valued")
	}
	var out []int
	for i, item := range array.Items() {
		ok, err := Evaluate(ast, item, elemDef)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, i)
		}
	}
	return out, nil
}

func evaluateCompare(ast *AST, candidate *resource.Node, ctxDef *schema.AttributeDef) (bool, error) {
	node, def, found := lookupAttrPath(candidate, ctxDef, ast.AttrPath)

	if ast.CmpOp == Pr {
		return found && !isAbsentForPresence(node, def), nil
	}

	if !found {
		// ne against a missing attribute is true by spec §4.4's operator
		// table; every other operator is false against a missing value.
		return ast.CmpOp == Ne, nil
	}
	if isAbsentValue(node) {
		return ast.CmpOp == Ne, nil
	}

	return compareLeaf(ast.CmpOp, node, def, ast.Literal)
}

func isAbsentValue(node *resource.Node) bool {
	if node == nil {
		return true
	}
	if node.IsLeaf() {
		return node.LeafValue().Null
	}
	return false
}

// isAbsentForPresence extends isAbsentValue for the pr operator: per spec
// §4.4, a string-family leaf (string/dateTime/reference/binary) that is
// present but empty does not satisfy pr.
func isAbsentForPresence(node *resource.Node, def *schema.AttributeDef) bool {
	if isAbsentValue(node) {
		return true
	}
	if !node.IsLeaf() {
		return false
	}
	if def == nil {
		def = node.LeafValue().Def
	}
	if def == nil {
		return false
	}
	switch def.Type {
	case schema.String, schema.DateTime, schema.Reference, schema.Binary:
		return node.LeafValue().Str == ""
	default:
		return false
	}
}

// lookupAttrPath walks a (possibly dotted) attribute path from candidate,
// resolving sub-attribute definitions from ctxDef when available.
func lookupAttrPath(candidate *resource.Node, ctxDef *schema.AttributeDef, path string) (*resource.Node, *schema.AttributeDef, bool) {
	parts := strings.Split(path, ".")
	cur := candidate
	curDef := ctxDef
	for i, part := range parts {
		if cur == nil || !cur.IsObject() {
			return nil, nil, false
		}
		next, ok := cur.Get(part)
		if !ok {
			return nil, nil, false
		}
		var nextDef *schema.AttributeDef
		if curDef != nil {
			nextDef = curDef.SubAttribute(part)
		}
		cur = next
		curDef = nextDef
		if i == len(parts)-1 {
			return cur, curDef, true
		}
	}
	return nil, nil, false
}
