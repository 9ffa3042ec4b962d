package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scim-go/scimcore/internal/scimerr"
)

// ParseFilter parses a SCIM filter expression into an AST, per spec §4.3
// grammar 1 and RFC 7644 §3.4.2.2. Keywords (and/or/not/eq/ne/...) are
// case-insensitive; whitespace outside string literals is insignificant.
func ParseFilter(text string) (*AST, error) {
	sc := newScanner(text)
	ast, err := parseOrExpr(sc)
	if err != nil {
		return nil, err
	}
	sc.skipSpace()
	if !sc.atEnd() {
		return nil, scimerr.InvalidFilter(text, fmt.Sprintf("unexpected trailing input at position %d", sc.pos))
	}
	return ast, nil
}

func parseOrExpr(sc *scanner) (*AST, error) {
	left, err := parseAndExpr(sc)
	if err != nil {
		return nil, err
	}
	for {
		mark := sc.pos
		if sc.matchKeyword(string(Or)) {
			right, err := parseAndExpr(sc)
			if err != nil {
				return nil, err
			}
			left = &AST{Kind: NodeLogical, LogicalOp: Or, Left: left, Right: right}
			continue
		}
		sc.pos = mark
		break
	}
	return left, nil
}

func parseAndExpr(sc *scanner) (*AST, error) {
	left, err := parseNotExpr(sc)
	if err != nil {
		return nil, err
	}
	for {
		mark := sc.pos
		if sc.matchKeyword(string(And)) {
			right, err := parseNotExpr(sc)
			if err != nil {
				return nil, err
			}
			left = &AST{Kind: NodeLogical, LogicalOp: And, Left: left, Right: right}
			continue
		}
		sc.pos = mark
		break
	}
	return left, nil
}

func parseNotExpr(sc *scanner) (*AST, error) {
	sc.skipSpace()
	if sc.matchKeyword("not") {
		sc.skipSpace()
		if sc.peek() != '(' {
			return nil, scimerr.InvalidFilter("", fmt.Sprintf("expected '(' after 'not' at position %d", sc.pos))
		}
		sc.pos++
		inner, err := parseOrExpr(sc)
		if err != nil {
			return nil, err
		}
		sc.skipSpace()
		if sc.peek() != ')' {
			return nil, scimerr.InvalidFilter("", fmt.Sprintf("unbalanced parentheses at position %d", sc.pos))
		}
		sc.pos++
		return &AST{Kind: NodeNot, Inner: inner}, nil
	}
	if sc.peek() == '(' {
		sc.pos++
		inner, err := parseOrExpr(sc)
		if err != nil {
			return nil, err
		}
		sc.skipSpace()
		if sc.peek() != ')' {
			return nil, scimerr.InvalidFilter("", fmt.Sprintf("unbalanced parentheses at position %d", sc.pos))
		}
		sc.pos++
		return &AST{Kind: NodeGroup, Inner: inner}, nil
	}
	return parseCompare(sc)
}

func parseCompare(sc *scanner) (*AST, error) {
	sc.skipSpace()
	attrPath := sc.readAttrPath()
	if attrPath == "" {
		return nil, scimerr.InvalidFilter("", fmt.Sprintf("expected attribute path at position %d", sc.pos))
	}

	sc.skipSpace()
	opWord := sc.readWord()
	op := Op(strings.ToLower(opWord))
	switch op {
	case Eq, Ne, Co, Sw, Ew, Gt, Ge, Lt, Le:
		sc.skipSpace()
		lit, err := parseLiteral(sc)
		if err != nil {
			return nil, err
		}
		return &AST{Kind: NodeCompare, AttrPath: attrPath, CmpOp: op, Literal: lit}, nil
	case Pr:
		return &AST{Kind: NodeCompare, AttrPath: attrPath, CmpOp: op}, nil
	default:
		return nil, scimerr.InvalidFilter(attrPath, fmt.Sprintf("unknown operator %q at position %d", opWord, sc.pos))
	}
}

func parseLiteral(sc *scanner) (*Literal, error) {
	sc.skipSpace()
	if sc.atEnd() {
		return nil, scimerr.InvalidFilter("", "expected a literal")
	}
	switch {
	case sc.peek() == '"':
		s, err := parseQuotedString(sc)
		if err != nil {
			return nil, err
		}
		return &Literal{Kind: LitString, Str: s}, nil
	case sc.peek() == '-' || (sc.peek() >= '0' && sc.peek() <= '9'):
		n, err := parseNumber(sc)
		if err != nil {
			return nil, err
		}
		return &Literal{Kind: LitNumber, Num: n}, nil
	default:
		word := sc.readWord()
		switch strings.ToLower(word) {
		case "true":
			return &Literal{Kind: LitBool, Bool: true}, nil
		case "false":
			return &Literal{Kind: LitBool, Bool: false}, nil
		case "null":
			return &Literal{Kind: LitNull}, nil
		default:
			return nil, scimerr.InvalidFilter("", fmt.Sprintf("invalid literal %q at position %d", word, sc.pos))
		}
	}
}

func parseQuotedString(sc *scanner) (string, error) {
	if sc.peek() != '"' {
		return "", scimerr.InvalidFilter("", fmt.Sprintf("expected '\"' at position %d", sc.pos))
	}
	sc.pos++
	var b strings.Builder
	for {
		if sc.atEnd() {
			return "", scimerr.InvalidFilter("", "unterminated string literal")
		}
		c := sc.s[sc.pos]
		if c == '"' {
			sc.pos++
			return b.String(), nil
		}
		if c == '\\' {
			sc.pos++
			if sc.atEnd() {
				return "", scimerr.InvalidFilter("", "unterminated escape sequence")
			}
			esc := sc.s[sc.pos]
			switch esc {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case '/':
				b.WriteByte('/')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'u':
				if sc.pos+4 >= len(sc.s) {
					return "", scimerr.InvalidFilter("", "invalid \\u escape")
				}
				hex := sc.s[sc.pos+1 : sc.pos+5]
				code, err := strconv.ParseUint(hex, 16, 32)
				if err != nil {
					return "", scimerr.InvalidFilter("", "invalid \\u escape")
				}
				b.WriteRune(rune(code))
				sc.pos += 4
			default:
				return "", scimerr.InvalidFilter("", fmt.Sprintf("invalid escape '\\%c'", esc))
			}
			sc.pos++
			continue
		}
		b.WriteByte(c)
		sc.pos++
	}
}

// ParsePath parses a SCIM patch path per spec §4.3 grammar 2:
//
//	path := segment ('.' segment)* ('.' subAttribute)?
//	segment := name ('[' filter ']')?
//
// The leading segment's name may carry a schema URI prefix terminated by
// the last colon before the first '['.
func ParsePath(text string) (*PathExpr, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &PathExpr{}, nil
	}

	// The URI prefix is split off before dot-splitting, since schema URIs
	// themselves contain dots (e.g. "...:core:2.0:User").
	uri, rest := splitPathURI(trimmed)

	components, err := splitTopLevelDots(rest)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, scimerr.InvalidPath(text, "empty path")
	}

	expr := &PathExpr{}
	expr.ResourceURI = uri

	// A trailing component with no bracketed filter and at least one
	// preceding segment is the bare sub-attribute form (spec §4.5 note).
	if len(components) >= 2 {
		last := components[len(components)-1]
		if !strings.Contains(last, "[") {
			expr.SubAttribute = last
			components = components[:len(components)-1]
		}
	}

	for _, comp := range components {
		seg, err := parseSegment(comp)
		if err != nil {
			return nil, err
		}
		expr.Segments = append(expr.Segments, seg)
	}
	return expr, nil
}

// parseSegment parses a single path component: name with an optional
// bracketed filter, e.g. emails[type eq "work"].
func parseSegment(comp string) (Segment, error) {
	open := strings.IndexByte(comp, '[')
	if open < 0 {
		if comp == "" {
			return Segment{}, scimerr.InvalidPath(comp, "empty path segment")
		}
		return Segment{Name: comp}, nil
	}
	if !strings.HasSuffix(comp, "]") {
		return Segment{}, scimerr.InvalidPath(comp, "unbalanced '[' in path segment")
	}
	name := comp[:open]
	if name == "" {
		return Segment{}, scimerr.InvalidPath(comp, "missing attribute name before '['")
	}
	filterText := comp[open+1 : len(comp)-1]
	ast, err := ParseFilter(filterText)
	if err != nil {
		return Segment{}, err
	}
	return Segment{Name: name, Filter: ast}, nil
}

// splitTopLevelDots splits s on '.' characters that are not nested inside a
// bracketed filter or a quoted string within one, so a value filter
// containing a literal dot (e.g. "example.com") is never split.
func splitTopLevelDots(s string) ([]string, error) {
	var parts []string
	start := 0
	i := 0
	for i < len(s) {
		switch s[i] {
		case '[':
			end := skipBalanced(s, i, '[', ']')
			if end < 0 {
				return nil, scimerr.InvalidPath(s, "unbalanced '[' in path")
			}
			i = end
		case '.':
			parts = append(parts, s[start:i])
			i++
			start = i
		default:
			i++
		}
	}
	parts = append(parts, s[start:])
	return parts, nil
}

// splitPathURI splits a leading schema-URI prefix off the path text, at the
// last colon appearing before the first '['.
func splitPathURI(comp string) (uri, rest string) {
	structural := len(comp)
	if idx := strings.IndexByte(comp, '['); idx >= 0 && idx < structural {
		structural = idx
	}
	prefix := comp[:structural]
	lastColon := strings.LastIndexByte(prefix, ':')
	if lastColon < 0 {
		return "", comp
	}
	return comp[:lastColon], comp[lastColon+1:]
}

func parseNumber(sc *scanner) (float64, error) {
	start := sc.pos
	if sc.peek() == '-' {
		sc.pos++
	}
	for !sc.atEnd() && sc.s[sc.pos] >= '0' && sc.s[sc.pos] <= '9' {
		sc.pos++
	}
	if !sc.atEnd() && sc.s[sc.pos] == '.' {
		sc.pos++
		for !sc.atEnd() && sc.s[sc.pos] >= '0' && sc.s[sc.pos] <= '9' {
			sc.pos++
		}
	}
	if !sc.atEnd() && (sc.s[sc.pos] == 'e' || sc.s[sc.pos] == 'E') {
		sc.pos++
		if !sc.atEnd() && (sc.s[sc.pos] == '+' || sc.s[sc.pos] == '-') {
			sc.pos++
		}
		for !sc.atEnd() && sc.s[sc.pos] >= '0' && sc.s[sc.pos] <= '9' {
			sc.pos++
		}
	}
	text := sc.s[start:sc.pos]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, scimerr.InvalidFilter("", fmt.Sprintf("invalid number %q", text))
	}
	return n, nil
}
