// Package filter implements the SCIM filter and path grammar: tokenizing
// and parsing filter expressions and patch paths into a tagged-union AST,
// and evaluating that AST against a resolved complex value. This is C3 and
// C4 of the core (spec §4.3, §4.4).
//
// # Overview
//
// A filter expression selects matching values within a complex or
// multi-valued attribute, as defined by RFC 7644 §3.4.2.2:
//
//   - Comparisons: eq, ne, co, sw, ew, gt, ge, lt, le, pr
//   - Logical combinators: and, or, not
//   - Grouping: parenthesized sub-expressions
//
// # Parsing
//
//	ast, err := filter.ParseFilter(`type eq "work" and value co "@"`)
//
// A patch path additionally allows dotted segments and an optional
// bracketed filter per segment, plus a trailing bare sub-attribute:
//
//	expr, err := filter.ParsePath(`emails[type eq "work"].value`)
//
// # Evaluation
//
// Evaluate tests a parsed filter against a candidate complex value:
//
//	ok, err := filter.Evaluate(ast, candidate, attrDef)
//
// EvaluateIndices applies a filter across a multi-valued attribute and
// returns the matching element indices in order, used by path resolution
// to locate the target elements of a patch operation.
package filter
