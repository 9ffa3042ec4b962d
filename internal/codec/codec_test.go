package codec

import (
	"encoding/json"
	"testing"

	"github.com/scim-go/scimcore/internal/patch"
	"github.com/scim-go/scimcore/internal/resource"
	"github.com/scim-go/scimcore/internal/schema"
)

const userURI = "urn:ietf:params:scim:schemas:core:2.0:User"

func TestDecodePatchRequestParsesOperations(t *testing.T) {
	body := []byte(`{
		"schemas": ["urn:ietf:params:scim:api:messages:2.0:PatchOp"],
		"Operations": [
			{"op": "add", "path": "displayName", "value": "Alice"},
			{"op": "remove", "path": "nickName"}
		]
	}`)

	reqs, err := DecodePatchRequest(body)
	if err != nil {
		t.Fatalf("DecodePatchRequest: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(reqs))
	}
	if reqs[0].Op != patch.OpAdd || reqs[0].Path != "displayName" || reqs[0].Value != "Alice" {
		t.Fatalf("unexpected first operation: %+v", reqs[0])
	}
	if reqs[1].Op != patch.OpRemove || reqs[1].Path != "nickName" || reqs[1].Value != nil {
		t.Fatalf("unexpected second operation: %+v", reqs[1])
	}
}

func TestDecodePatchRequestRejectsEmptyOperations(t *testing.T) {
	_, err := DecodePatchRequest([]byte(`{"Operations": []}`))
	if err == nil {
		t.Fatal("expected error for empty Operations")
	}
}

func TestDecodePatchRequestRejectsMalformedJSON(t *testing.T) {
	_, err := DecodePatchRequest([]byte(`not json`))
	if err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestEncodeResourceRoundTripsObjectArrayAndScalars(t *testing.T) {
	displayName := schema.NewAttributeDef(userURI, "displayName", schema.String)
	active := schema.NewAttributeDef(userURI, "active", schema.Boolean)
	emailType := schema.NewAttributeDef(userURI, "type", schema.String)
	emailValue := schema.NewAttributeDef(userURI, "value", schema.String)

	root := resource.NewObject()
	root.Set("displayName", resource.NewLeaf(displayName, resource.Leaf{Str: "Alice"}))
	root.Set("active", resource.NewLeaf(active, resource.Leaf{Bool: true}))

	email := resource.NewObject()
	email.Set("type", resource.NewLeaf(emailType, resource.Leaf{Str: "work"}))
	email.Set("value", resource.NewLeaf(emailValue, resource.Leaf{Str: "alice@example.com"}))
	root.Set("emails", resource.NewArray(email))

	body, err := EncodeResource(root)
	if err != nil {
		t.Fatalf("EncodeResource: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal encoded body: %v", err)
	}
	if decoded["displayName"] != "Alice" {
		t.Errorf("displayName = %v, want Alice", decoded["displayName"])
	}
	if decoded["active"] != true {
		t.Errorf("active = %v, want true", decoded["active"])
	}
	emailsArr, ok := decoded["emails"].([]any)
	if !ok || len(emailsArr) != 1 {
		t.Fatalf("emails = %v, want one-element array", decoded["emails"])
	}
}

func TestEncodeResourceEmitsNullForNullLeaf(t *testing.T) {
	def := schema.NewAttributeDef(userURI, "nickName", schema.String)
	root := resource.NewObject()
	root.Set("nickName", resource.NewNullLeaf(def))

	body, err := EncodeResource(root)
	if err != nil {
		t.Fatalf("EncodeResource: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := decoded["nickName"]; !ok || v != nil {
		t.Errorf("nickName = %v, want explicit null", v)
	}
}
