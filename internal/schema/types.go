package schema

import "strings"

// SimpleType is the scalar type carried by a leaf attribute.
type SimpleType int

const (
	// String is a UTF-8 text value.
	String SimpleType = iota
	// Boolean is a true/false value.
	Boolean
	// Integer is a signed 64-bit value, narrowed to 32 bits on emit when it fits.
	Integer
	// Decimal is an IEEE-754 double value.
	Decimal
	// DateTime is an ISO-8601 timestamp, stored as text.
	DateTime
	// Reference is a URI, stored as text.
	Reference
	// Binary is base64 data, stored as text.
	Binary
	// Complex has no value of its own; values live on its SubAttributes.
	Complex
)

// String returns the SCIM wire name of the type.
func (t SimpleType) String() string {
	switch t {
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	case DateTime:
		return "dateTime"
	case Reference:
		return "reference"
	case Binary:
		return "binary"
	case Complex:
		return "complex"
	default:
		return "unknown"
	}
}

// Mutability describes whether and how an attribute may be written.
type Mutability int

const (
	// ReadWrite attributes may be read and modified. Default.
	ReadWrite Mutability = iota
	// ReadOnly attributes are server-managed; patching one is a Mutability error.
	ReadOnly
	// Immutable attributes may be set once and never changed thereafter.
	Immutable
	// WriteOnly attributes accept writes but are never returned.
	WriteOnly
)

// Returned describes when an attribute is included in a representation.
type Returned int

const (
	// ReturnedDefault attributes are returned unless explicitly excluded.
	ReturnedDefault Returned = iota
	// ReturnedAlways attributes are always returned.
	ReturnedAlways
	// ReturnedNever attributes are never returned.
	ReturnedNever
	// ReturnedRequest attributes are returned only when explicitly requested.
	ReturnedRequest
)

// Uniqueness describes the uniqueness constraint on an attribute's values.
type Uniqueness int

const (
	// UniquenessNone imposes no constraint.
	UniquenessNone Uniqueness = iota
	// UniquenessServer requires values unique within the server.
	UniquenessServer
	// UniquenessGlobal requires values globally unique.
	UniquenessGlobal
)

// AttributeDef is the immutable, schema-resolved description of one
// attribute, simple or complex, top-level or nested under a complex
// parent. The registry hands these out; the rest of the core never
// mutates one once built.
type AttributeDef struct {
	// SchemaURI is the owning schema's URI, e.g.
	// "urn:ietf:params:scim:schemas:core:2.0:User".
	SchemaURI string
	// Name is the base attribute name as declared by the schema, e.g. "emails".
	Name string
	// Parent is the enclosing complex attribute, or nil for a top-level attribute.
	Parent *AttributeDef

	Type          SimpleType
	MultiValued   bool
	Required      bool
	Mutability    Mutability
	Returned      Returned
	Uniqueness    Uniqueness
	CaseExact     bool
	SubAttributes []*AttributeDef

	lowerName string
}

// NewAttributeDef builds a simple (non-complex) attribute definition.
func NewAttributeDef(schemaURI, name string, t SimpleType) *AttributeDef {
	return &AttributeDef{
		SchemaURI: schemaURI,
		Name:      name,
		Type:      t,
		lowerName: strings.ToLower(name),
	}
}

// NewComplexAttributeDef builds a COMPLEX attribute definition with the
// given ordered sub-attributes. Each sub-attribute's Parent is set to the
// returned def.
func NewComplexAttributeDef(schemaURI, name string, multiValued bool, subs ...*AttributeDef) *AttributeDef {
	def := &AttributeDef{
		SchemaURI:   schemaURI,
		Name:        name,
		Type:        Complex,
		MultiValued: multiValued,
		lowerName:   strings.ToLower(name),
	}
	for _, s := range subs {
		s.Parent = def
		def.SubAttributes = append(def.SubAttributes, s)
	}
	return def
}

// FullName returns the fully qualified "schemaUri:name[.sub]" form.
func (a *AttributeDef) FullName() string {
	if a == nil {
		return ""
	}
	if a.Parent != nil {
		return a.Parent.FullName() + "." + a.Name
	}
	if a.SchemaURI == "" {
		return a.Name
	}
	return a.SchemaURI + ":" + a.Name
}

// LowerName returns the case-folded base name, used for attribute lookup.
func (a *AttributeDef) LowerName() string {
	if a.lowerName == "" {
		a.lowerName = strings.ToLower(a.Name)
	}
	return a.lowerName
}

// SubAttribute resolves a sub-attribute of a COMPLEX def by base name,
// case-insensitively. Returns nil if a is not COMPLEX or has no such sub.
func (a *AttributeDef) SubAttribute(name string) *AttributeDef {
	if a == nil || a.Type != Complex {
		return nil
	}
	lower := strings.ToLower(name)
	for _, s := range a.SubAttributes {
		if s.LowerName() == lower {
			return s
		}
	}
	return nil
}

// IsWritable reports whether a value may be written to this attribute by a client.
func (a *AttributeDef) IsWritable() bool {
	return a.Mutability == ReadWrite || a.Mutability == WriteOnly || a.Mutability == Immutable
}
