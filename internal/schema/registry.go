package schema

import (
	"fmt"
	"strings"
)

// ResourceType groups the attribute defs that make up a primary schema
// plus any extension schemas registered for it, e.g. "User" with the
// enterprise extension.
type ResourceType struct {
	Name      string
	SchemaURI string
	Attrs     []*AttributeDef
}

// Registry resolves attribute name strings to AttributeDef records. It is
// built once at startup from a set of resource types and is read-only
// thereafter; concurrent lookups require no synchronization.
type Registry struct {
	primary    *ResourceType
	extensions map[string]*ResourceType // lower(uri) -> resource type
	extOrder   []string                 // URIs in registration order, emit-cased
}

// NewRegistry builds a registry for one primary resource type (e.g. User).
func NewRegistry(primary *ResourceType) *Registry {
	return &Registry{
		primary:    primary,
		extensions: make(map[string]*ResourceType),
	}
}

// RegisterExtension adds a schema extension's attribute set to the registry,
// addressable by its schema URI at the resource root.
func (r *Registry) RegisterExtension(ext *ResourceType) {
	key := strings.ToLower(ext.SchemaURI)
	if _, exists := r.extensions[key]; !exists {
		r.extOrder = append(r.extOrder, ext.SchemaURI)
	}
	r.extensions[key] = ext
}

// IsExtension reports whether uri names a registered extension schema.
// The URI comparison is case-sensitive per spec.
func (r *Registry) IsExtension(uri string) bool {
	_, ok := r.extensions[strings.ToLower(uri)]
	return ok && r.extensionURIMatches(uri)
}

func (r *Registry) extensionURIMatches(uri string) bool {
	for _, u := range r.extOrder {
		if u == uri {
			return true
		}
	}
	return false
}

// Extensions returns the registered extension schema URIs in registration order.
func (r *Registry) Extensions() []string {
	out := make([]string, len(r.extOrder))
	copy(out, r.extOrder)
	return out
}

// PrimarySchemaURI returns the primary resource type's schema URI.
func (r *Registry) PrimarySchemaURI() string {
	if r.primary == nil {
		return ""
	}
	return r.primary.SchemaURI
}

// Resolve resolves an attribute name to its AttributeDef. name may be:
//
//   - fully qualified: "urn:...:User:name[.sub]" or "urn:...:extension:name[.sub]"
//   - a bare extension URI with no attribute: not valid here, see IsExtension
//   - a dotted short form against the primary resource type: "name[.sub]"
//
// Matching is case-insensitive on the local (name/sub) part and
// case-sensitive on the URI part.
func (r *Registry) Resolve(name string) (*AttributeDef, error) {
	if name == "" {
		return nil, fmt.Errorf("scim/schema: empty attribute name")
	}

	uri, rest := splitURI(name)
	parts := strings.Split(rest, ".")
	if len(parts) == 0 || parts[0] == "" {
		return nil, unknownAttr(name)
	}

	var rt *ResourceType
	if uri == "" {
		rt = r.primary
	} else if uri == r.primary.SchemaURI {
		rt = r.primary
	} else if ext, ok := r.extensions[strings.ToLower(uri)]; ok && r.extensionURIMatches(uri) {
		rt = ext
	} else {
		return nil, unknownAttr(name)
	}

	def := findAttr(rt.Attrs, parts[0])
	if def == nil {
		return nil, unknownAttr(name)
	}

	for _, sub := range parts[1:] {
		def = def.SubAttribute(sub)
		if def == nil {
			return nil, unknownAttr(name)
		}
	}

	return def, nil
}

// splitURI separates a leading "scheme:...:" URI from the trailing
// dotted attribute path. The URI, if present, is everything before the
// final ':'; the colon itself belongs to neither part.
func splitURI(name string) (uri, rest string) {
	idx := strings.LastIndex(name, ":")
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+1:]
}

func findAttr(attrs []*AttributeDef, name string) *AttributeDef {
	lower := strings.ToLower(name)
	for _, a := range attrs {
		if a.LowerName() == lower {
			return a
		}
	}
	return nil
}

func unknownAttr(name string) error {
	return &UnknownAttributeError{Name: name}
}

// UnknownAttributeError is returned by Resolve when name does not match
// any attribute known to the registry.
type UnknownAttributeError struct {
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("scim/schema: unknown attribute %q", e.Name)
}
