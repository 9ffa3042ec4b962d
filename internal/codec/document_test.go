package codec

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/scim-go/scimcore/internal/schema"
)

func testUserRegistry() *schema.Registry {
	id := schema.NewAttributeDef(userURI, "id", schema.String)
	displayName := schema.NewAttributeDef(userURI, "displayName", schema.String)
	active := schema.NewAttributeDef(userURI, "active", schema.Boolean)
	emailType := schema.NewAttributeDef(userURI, "type", schema.String)
	emailValue := schema.NewAttributeDef(userURI, "value", schema.String)
	emails := schema.NewComplexAttributeDef(userURI, "emails", true, emailType, emailValue)

	rt := &schema.ResourceType{
		Name:      "User",
		SchemaURI: userURI,
		Attrs:     []*schema.AttributeDef{id, displayName, active, emails},
	}
	reg := schema.NewRegistry(rt)

	empNum := schema.NewAttributeDef("urn:ietf:params:scim:schemas:extension:enterprise:2.0:User", "employeeNumber", schema.String)
	reg.RegisterExtension(&schema.ResourceType{
		Name:      "EnterpriseUser",
		SchemaURI: "urn:ietf:params:scim:schemas:extension:enterprise:2.0:User",
		Attrs:     []*schema.AttributeDef{empNum},
	})
	return reg
}

func TestDecodeDocumentBuildsTypedLeaves(t *testing.T) {
	reg := testUserRegistry()
	body := []byte(`{
		"id": "1",
		"displayName": "Alice",
		"active": true,
		"emails": [{"type": "work", "value": "alice@example.com"}]
	}`)

	doc, err := DecodeDocument(reg, body)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}

	dn, ok := doc.Get("displayName")
	if !ok || dn.LeafValue().Str != "Alice" {
		t.Fatalf("displayName = %+v", dn)
	}
	active, ok := doc.Get("active")
	if !ok || !active.LeafValue().Bool {
		t.Fatalf("active = %+v", active)
	}
	emails, ok := doc.Get("emails")
	if !ok || !emails.IsArray() || emails.Len() != 1 {
		t.Fatalf("emails = %+v", emails)
	}
	first := emails.At(0)
	v, _ := first.Get("value")
	if v.LeafValue().Str != "alice@example.com" {
		t.Fatalf("emails[0].value = %+v", v)
	}
}

func TestDecodeDocumentResolvesExtensionAttributes(t *testing.T) {
	reg := testUserRegistry()
	body := []byte(`{
		"displayName": "Alice",
		"urn:ietf:params:scim:schemas:extension:enterprise:2.0:User": {"employeeNumber": "42"}
	}`)

	doc, err := DecodeDocument(reg, body)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	ext, ok := doc.Get("urn:ietf:params:scim:schemas:extension:enterprise:2.0:User")
	if !ok || !ext.IsObject() {
		t.Fatalf("extension object missing: %+v", ext)
	}
	empNum, ok := ext.Get("employeeNumber")
	if !ok || empNum.LeafValue().Str != "42" {
		t.Fatalf("employeeNumber = %+v", empNum)
	}
}

func TestDecodeDocumentKeepsUntypedProtocolFields(t *testing.T) {
	reg := testUserRegistry()
	body := []byte(`{
		"schemas": ["` + userURI + `"],
		"meta": {"resourceType": "User"}
	}`)

	doc, err := DecodeDocument(reg, body)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	schemas, ok := doc.Get("schemas")
	if !ok || !schemas.IsArray() || schemas.Len() != 1 {
		t.Fatalf("schemas = %+v", schemas)
	}
	meta, ok := doc.Get("meta")
	if !ok || !meta.IsObject() {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestDecodeDocumentRejectsUnknownAttribute(t *testing.T) {
	reg := testUserRegistry()
	_, err := DecodeDocument(reg, []byte(`{"bogus": "x"}`))
	if err == nil {
		t.Fatal("expected error for unresolvable attribute")
	}
}

func TestDecodeDocumentRejectsMalformedJSON(t *testing.T) {
	reg := testUserRegistry()
	_, err := DecodeDocument(reg, []byte(`not json`))
	require.Error(t, err)
}

func TestDecodeDocumentRoundTripsThroughEncode(t *testing.T) {
	reg := testUserRegistry()
	body := []byte(`{
		"displayName": "Alice",
		"active": true,
		"emails": [{"type": "work", "value": "alice@example.com"}]
	}`)

	doc, err := DecodeDocument(reg, body)
	require.NoError(t, err)

	out, err := EncodeResource(doc)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))

	want := map[string]any{
		"displayName": "Alice",
		"active":      true,
		"emails": []any{
			map[string]any{"type": "work", "value": "alice@example.com"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
