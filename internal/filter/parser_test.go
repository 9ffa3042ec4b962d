package filter

import "testing"

func TestParseFilterSimpleEquality(t *testing.T) {
	ast, err := ParseFilter(`userName eq "alice"`)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if ast.Kind != NodeCompare || ast.AttrPath != "userName" || ast.CmpOp != Eq {
		t.Fatalf("unexpected AST: %+v", ast)
	}
	if ast.Literal == nil || ast.Literal.Kind != LitString || ast.Literal.Str != "alice" {
		t.Fatalf("unexpected literal: %+v", ast.Literal)
	}
}

func TestParseFilterPresence(t *testing.T) {
	ast, err := ParseFilter(`title pr`)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if ast.CmpOp != Pr || ast.Literal != nil {
		t.Fatalf("unexpected AST: %+v", ast)
	}
}

func TestParseFilterAndOrPrecedence(t *testing.T) {
	// and binds tighter than or: a or b and c == a or (b and c)
	ast, err := ParseFilter(`userName eq "a" or active eq true and title pr`)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if ast.Kind != NodeLogical || ast.LogicalOp != Or {
		t.Fatalf("expected top-level or, got %+v", ast)
	}
	if ast.Right.Kind != NodeLogical || ast.Right.LogicalOp != And {
		t.Fatalf("expected right side to be an and, got %+v", ast.Right)
	}
}

func TestParseFilterNotGroup(t *testing.T) {
	ast, err := ParseFilter(`not (active eq true)`)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if ast.Kind != NodeNot {
		t.Fatalf("expected not node, got %+v", ast)
	}
	if ast.Inner.Kind != NodeCompare {
		t.Fatalf("expected inner comparison, got %+v", ast.Inner)
	}
}

func TestParseFilterAttrPathWithBrackets(t *testing.T) {
	// A filter's attrPath itself is a plain identifier; brackets belong to
	// the enclosing path segment, not the filter grammar.
	ast, err := ParseFilter(`value co "@example.com"`)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if ast.AttrPath != "value" || ast.CmpOp != Co || ast.Literal.Str != "@example.com" {
		t.Fatalf("unexpected AST: %+v", ast)
	}
}

func TestParseFilterUnbalancedParens(t *testing.T) {
	if _, err := ParseFilter(`(userName eq "alice"`); err == nil {
		t.Fatal("expected error for unbalanced parens")
	}
}

func TestParseFilterUnknownOperator(t *testing.T) {
	if _, err := ParseFilter(`userName xx "alice"`); err == nil {
		t.Fatal("expected error for unknown operator")
	}
}

func TestParsePathSimple(t *testing.T) {
	expr, err := ParsePath("name.givenName")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if len(expr.Segments) != 1 || expr.Segments[0].Name != "name" {
		t.Fatalf("unexpected segments: %+v", expr.Segments)
	}
	if expr.SubAttribute != "givenName" {
		t.Fatalf("expected subAttribute givenName, got %q", expr.SubAttribute)
	}
}

func TestParsePathWithFilterAndSubAttribute(t *testing.T) {
	expr, err := ParsePath(`emails[type eq "work"].value`)
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if len(expr.Segments) != 1 {
		t.Fatalf("expected one segment, got %+v", expr.Segments)
	}
	seg := expr.Segments[0]
	if seg.Name != "emails" || seg.Filter == nil {
		t.Fatalf("unexpected segment: %+v", seg)
	}
	if seg.Filter.AttrPath != "type" || seg.Filter.CmpOp != Eq {
		t.Fatalf("unexpected filter AST: %+v", seg.Filter)
	}
	if expr.SubAttribute != "value" {
		t.Fatalf("expected subAttribute value, got %q", expr.SubAttribute)
	}
}

func TestParsePathSchemaURIPrefix(t *testing.T) {
	expr, err := ParsePath("urn:ietf:params:scim:schemas:extension:enterprise:2.0:User:employeeNumber")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if expr.ResourceURI != "urn:ietf:params:scim:schemas:extension:enterprise:2.0:User" {
		t.Fatalf("unexpected resource URI: %q", expr.ResourceURI)
	}
	if len(expr.Segments) != 1 || expr.Segments[0].Name != "employeeNumber" {
		t.Fatalf("unexpected segments: %+v", expr.Segments)
	}
}

func TestParsePathNoSubAttributeWhenSingleSegment(t *testing.T) {
	expr, err := ParsePath("displayName")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if expr.SubAttribute != "" {
		t.Fatalf("expected no subAttribute, got %q", expr.SubAttribute)
	}
	if len(expr.Segments) != 1 || expr.Segments[0].Name != "displayName" {
		t.Fatalf("unexpected segments: %+v", expr.Segments)
	}
}

func TestParsePathDotInsideFilterLiteralNotSplit(t *testing.T) {
	expr, err := ParsePath(`emails[value ew "example.com"].type`)
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if len(expr.Segments) != 1 || expr.Segments[0].Name != "emails" {
		t.Fatalf("unexpected segments: %+v", expr.Segments)
	}
	if expr.SubAttribute != "type" {
		t.Fatalf("expected subAttribute type, got %q", expr.SubAttribute)
	}
}

func TestParsePathEmpty(t *testing.T) {
	expr, err := ParsePath("")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if len(expr.Segments) != 0 || expr.SubAttribute != "" || expr.ResourceURI != "" {
		t.Fatalf("expected empty PathExpr, got %+v", expr)
	}
}
