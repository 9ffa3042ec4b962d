package resource

import (
	"testing"

	"github.com/scim-go/scimcore/internal/schema"
)

func strLeaf(s string) *Node {
	return NewLeaf(schema.NewAttributeDef("", "value", schema.String), Leaf{Str: s})
}

func TestObjectSetGetCaseInsensitive(t *testing.T) {
	obj := NewObject()
	obj.Set("userName", strLeaf("alice"))

	v, ok := obj.Get("USERNAME")
	if !ok {
		t.Fatal("expected case-insensitive lookup to find the key")
	}
	if v.LeafValue().Str != "alice" {
		t.Fatalf("unexpected value: %+v", v.LeafValue())
	}
	if obj.Keys()[0] != "userName" {
		t.Fatalf("expected emit casing to be preserved, got %q", obj.Keys()[0])
	}
}

func TestObjectSetPreservesFirstCasing(t *testing.T) {
	obj := NewObject()
	obj.Set("userName", strLeaf("a"))
	obj.Set("USERNAME", strLeaf("b"))

	if obj.Keys()[0] != "userName" {
		t.Fatalf("expected original casing preserved, got %q", obj.Keys()[0])
	}
	v, _ := obj.Get("username")
	if v.LeafValue().Str != "b" {
		t.Fatal("expected second Set to overwrite the value")
	}
}

func TestObjectDelete(t *testing.T) {
	obj := NewObject()
	obj.Set("a", strLeaf("1"))
	obj.Set("b", strLeaf("2"))

	if !obj.Delete("A") {
		t.Fatal("expected delete to report success")
	}
	if _, ok := obj.Get("a"); ok {
		t.Fatal("expected key to be gone")
	}
	if len(obj.Keys()) != 1 || obj.Keys()[0] != "b" {
		t.Fatalf("unexpected keys after delete: %v", obj.Keys())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	obj := NewObject()
	obj.Set("emails", NewArray(strLeaf("a@x")))

	clone := Clone(obj)
	arr, _ := clone.Get("emails")
	arr.Append(strLeaf("b@x"))

	orig, _ := obj.Get("emails")
	if orig.Len() != 1 {
		t.Fatalf("expected original array untouched, got len %d", orig.Len())
	}
}

func TestEqualOrderIndependentForObjects(t *testing.T) {
	a := NewObject()
	a.Set("x", strLeaf("1"))
	a.Set("y", strLeaf("2"))

	b := NewObject()
	b.Set("y", strLeaf("2"))
	b.Set("x", strLeaf("1"))

	if !Equal(a, b) {
		t.Fatal("expected objects with same entries in different insertion order to be equal")
	}
}

func TestEqualOrderSensitiveForArrays(t *testing.T) {
	a := NewArray(strLeaf("1"), strLeaf("2"))
	b := NewArray(strLeaf("2"), strLeaf("1"))

	if Equal(a, b) {
		t.Fatal("expected arrays in different order to be unequal")
	}
}

func TestMergeObjectConcatenatesArraysPreservingOrder(t *testing.T) {
	dst := NewObject()
	dst.Set("emails", NewArray(strLeaf("a@x")))

	src := NewObject()
	src.Set("emails", NewArray(strLeaf("b@x")))

	MergeObject(dst, src)

	arr, _ := dst.Get("emails")
	if arr.Len() != 2 || arr.At(0).LeafValue().Str != "a@x" || arr.At(1).LeafValue().Str != "b@x" {
		t.Fatalf("unexpected merged array: %v", arr.Items())
	}
}

func TestMergeObjectOverwritesScalarKeys(t *testing.T) {
	dst := NewObject()
	dst.Set("givenName", strLeaf("old"))

	src := NewObject()
	src.Set("givenName", strLeaf("new"))

	MergeObject(dst, src)

	v, _ := dst.Get("givenName")
	if v.LeafValue().Str != "new" {
		t.Fatalf("expected scalar overwrite, got %q", v.LeafValue().Str)
	}
}

func TestMergeObjectRecursesIntoNestedObjects(t *testing.T) {
	dst := NewObject()
	nested := NewObject()
	nested.Set("givenName", strLeaf("old"))
	dst.Set("name", nested)

	src := NewObject()
	srcNested := NewObject()
	srcNested.Set("familyName", strLeaf("Smith"))
	src.Set("name", srcNested)

	MergeObject(dst, src)

	name, _ := dst.Get("name")
	gn, _ := name.Get("givenName")
	fn, _ := name.Get("familyName")
	if gn.LeafValue().Str != "old" || fn.LeafValue().Str != "Smith" {
		t.Fatalf("expected merge to keep old key and add new one, got %v", name.Keys())
	}
}
