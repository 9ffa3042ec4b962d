package path

import (
	"testing"

	"github.com/scim-go/scimcore/internal/filter"
	"github.com/scim-go/scimcore/internal/resource"
	"github.com/scim-go/scimcore/internal/schema"
)

const userURI = "urn:ietf:params:scim:schemas:core:2.0:User"
const enterpriseURI = "urn:ietf:params:scim:schemas:extension:enterprise:2.0:User"

func testRegistry() *schema.Registry {
	displayName := schema.NewAttributeDef(userURI, "displayName", schema.String)

	emailType := schema.NewAttributeDef(userURI, "type", schema.String)
	emailValue := schema.NewAttributeDef(userURI, "value", schema.String)
	emails := schema.NewComplexAttributeDef(userURI, "emails", true, emailType, emailValue)

	givenName := schema.NewAttributeDef(userURI, "givenName", schema.String)
	familyName := schema.NewAttributeDef(userURI, "familyName", schema.String)
	name := schema.NewComplexAttributeDef(userURI, "name", false, givenName, familyName)

	rt := &schema.ResourceType{Name: "User", SchemaURI: userURI, Attrs: []*schema.AttributeDef{displayName, emails, name}}
	reg := schema.NewRegistry(rt)

	employeeNumber := schema.NewAttributeDef(enterpriseURI, "employeeNumber", schema.String)
	ext := &schema.ResourceType{Name: "EnterpriseUser", SchemaURI: enterpriseURI, Attrs: []*schema.AttributeDef{employeeNumber}}
	reg.RegisterExtension(ext)

	return reg
}

func strLeaf(def *schema.AttributeDef, s string) *resource.Node {
	return resource.NewLeaf(def, resource.Leaf{Str: s})
}

func TestResolveSimpleAttributeCreatesNothing(t *testing.T) {
	reg := testRegistry()
	root := resource.NewObject()
	expr, err := filter.ParsePath("displayName")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	cursors, err := Resolve(root, expr, reg, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cursors) != 1 || cursors[0].Parent != root || cursors[0].Key != "displayName" {
		t.Fatalf("unexpected cursors: %+v", cursors)
	}
}

func TestResolveNestedComplexCreatesContainer(t *testing.T) {
	reg := testRegistry()
	root := resource.NewObject()
	expr, err := filter.ParsePath("name.givenName")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	cursors, err := Resolve(root, expr, reg, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cursors) != 1 || cursors[0].Key != "givenName" {
		t.Fatalf("unexpected cursors: %+v", cursors)
	}
	nameNode, ok := root.Get("name")
	if !ok || !nameNode.IsObject() {
		t.Fatal("expected name container to be created")
	}
	if cursors[0].Parent != nameNode {
		t.Fatal("expected cursor to point into the created name container")
	}
}

func TestResolveNestedComplexWithoutCreateIsNoTarget(t *testing.T) {
	reg := testRegistry()
	root := resource.NewObject()
	expr, err := filter.ParsePath("name.givenName")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if _, err := Resolve(root, expr, reg, false); err == nil {
		t.Fatal("expected NoTarget error for missing container with create=false")
	}
}

func TestResolveFilteredMultiValuedSubAttribute(t *testing.T) {
	reg := testRegistry()
	root := resource.NewObject()
	emailsArray := resource.NewArray(
		emailObject(reg, "work", "alice@example.com"),
		emailObject(reg, "home", "alice@home.com"),
	)
	root.Set("emails", emailsArray)

	expr, err := filter.ParsePath(`emails[type eq "work"].value`)
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	cursors, err := Resolve(root, expr, reg, false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cursors) != 1 || cursors[0].Key != "value" {
		t.Fatalf("unexpected cursors: %+v", cursors)
	}
	v, ok := cursors[0].Get()
	if !ok || v.LeafValue().Str != "alice@example.com" {
		t.Fatalf("unexpected resolved value: %+v", v)
	}
}

func TestResolveFilteredMultiValuedNoMatchIsNoTarget(t *testing.T) {
	reg := testRegistry()
	root := resource.NewObject()
	root.Set("emails", resource.NewArray(emailObject(reg, "home", "alice@home.com")))

	expr, err := filter.ParsePath(`emails[type eq "work"]`)
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if _, err := Resolve(root, expr, reg, false); err == nil {
		t.Fatal("expected NoTarget error when filter matches nothing")
	}
}

func TestResolveExtensionAttributeCreatesRoot(t *testing.T) {
	reg := testRegistry()
	root := resource.NewObject()
	expr, err := filter.ParsePath(enterpriseURI + ":employeeNumber")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	cursors, err := Resolve(root, expr, reg, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cursors) != 1 || cursors[0].Key != "employeeNumber" {
		t.Fatalf("unexpected cursors: %+v", cursors)
	}
	extRoot, ok := root.Get(enterpriseURI)
	if !ok || !extRoot.IsObject() {
		t.Fatal("expected extension root to be created")
	}
}

func emailObject(reg *schema.Registry, typ, value string) *resource.Node {
	emailsDef, _ := reg.Resolve("emails")
	n := resource.NewObject()
	n.Set("type", strLeaf(emailsDef.SubAttribute("type"), typ))
	n.Set("value", strLeaf(emailsDef.SubAttribute("value"), value))
	return n
}
