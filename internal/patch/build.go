package patch

import (
	"fmt"
	"strconv"

	"github.com/scim-go/scimcore/internal/coerce"
	"github.com/scim-go/scimcore/internal/resource"
	"github.com/scim-go/scimcore/internal/scimerr"
	"github.com/scim-go/scimcore/internal/schema"
)

// buildValue converts a generic decoded JSON value into a resource.Node
// shaped by def, recursing into complex attributes and multi-valued
// arrays and coercing scalar leaves through the C2 coercer.
func buildValue(def *schema.AttributeDef, v any) (*resource.Node, error) {
	if v == nil {
		return resource.NewNullLeaf(def), nil
	}

	if def.MultiValued {
		items, ok := v.([]any)
		if !ok {
			items = []any{v}
		}
		nodes := make([]*resource.Node, len(items))
		for i, it := range items {
			var err error
			if def.Type == schema.Complex {
				nodes[i], err = buildComplexObject(def, it)
			} else {
				nodes[i], err = buildScalarLeaf(def, it)
			}
			if err != nil {
				return nil, err
			}
		}
		return resource.NewArray(nodes...), nil
	}

	if def.Type == schema.Complex {
		return buildComplexObject(def, v)
	}
	return buildScalarLeaf(def, v)
}

// buildElement builds a single element of a multi-valued attribute: v is
// one item (a complex object or a scalar), not a JSON array. Used for a
// cursor that addresses one index of an existing array rather than the
// array attribute itself, where buildValue's MultiValued branch would
// wrap the result in an extra array layer.
func buildElement(def *schema.AttributeDef, v any) (*resource.Node, error) {
	if v == nil {
		return resource.NewNullLeaf(def), nil
	}
	if def.Type == schema.Complex {
		return buildComplexObject(def, v)
	}
	return buildScalarLeaf(def, v)
}

func buildComplexObject(def *schema.AttributeDef, v any) (*resource.Node, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, scimerr.InvalidValue(def.FullName(), "expected a JSON object for a complex attribute")
	}
	obj := resource.NewObject()
	for key, raw := range m {
		sub := def.SubAttribute(key)
		if sub == nil {
			return nil, scimerr.UnknownAttribute(key, "no such sub-attribute of "+def.FullName())
		}
		n, err := buildValue(sub, raw)
		if err != nil {
			return nil, err
		}
		obj.Set(key, n)
	}
	return obj, nil
}

func buildScalarLeaf(def *schema.AttributeDef, v any) (*resource.Node, error) {
	raw, err := scalarText(v)
	if err != nil {
		return nil, scimerr.InvalidValue(def.FullName(), err.Error())
	}
	return coerce.Value(def, raw)
}

// scalarText renders a decoded JSON scalar (string/float64/bool) as the
// text form the C2 coercer expects.
func scalarText(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported scalar value of type %T", v)
	}
}
