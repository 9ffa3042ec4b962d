package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/scim-go/scimcore/internal/logging"
	"github.com/scim-go/scimcore/internal/metrics"
	"github.com/scim-go/scimcore/internal/resource"
	"github.com/scim-go/scimcore/internal/schema"
	"github.com/scim-go/scimcore/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const handlerTestUserURI = "urn:ietf:params:scim:schemas:core:2.0:User"

func testUserRegistry() *schema.Registry {
	id := schema.NewAttributeDef(handlerTestUserURI, "id", schema.String)
	id.Mutability = schema.ReadOnly
	userName := schema.NewAttributeDef(handlerTestUserURI, "userName", schema.String)
	displayName := schema.NewAttributeDef(handlerTestUserURI, "displayName", schema.String)

	rt := &schema.ResourceType{
		Name:      "User",
		SchemaURI: handlerTestUserURI,
		Attrs:     []*schema.AttributeDef{id, userName, displayName},
	}
	return schema.NewRegistry(rt)
}

func setupTestRouter(h *handlers) *gin.Engine {
	r := gin.New()
	v2 := r.Group("/scim/v2")
	{
		v2.GET("/Users/:id", h.getUser)
		v2.PATCH("/Users/:id", h.patchUser)
		v2.GET("/Users", h.listUsers)
	}
	return r
}

func seedUser(t *testing.T, st store.Store, reg *schema.Registry, id, userName string) {
	t.Helper()
	doc := resource.NewObject()
	lookup := func(name string) *schema.AttributeDef {
		def, err := reg.Resolve(name)
		if err != nil {
			t.Fatalf("resolve %s: %v", name, err)
		}
		return def
	}
	doc.Set("id", resource.NewLeaf(lookup("id"), resource.Leaf{Str: id}))
	doc.Set("userName", resource.NewLeaf(lookup("userName"), resource.Leaf{Str: userName}))

	if err := st.Put(context.Background(), &store.Record{ID: id, ResourceType: "User", Document: doc}); err != nil {
		t.Fatalf("seed Put: %v", err)
	}
}

func TestGetUserReturnsDocument(t *testing.T) {
	reg := testUserRegistry()
	st := store.NewMemory()
	seedUser(t, st, reg, "u1", "bjensen")

	h := newHandlers(st, reg, logging.NewNop(), metrics.New())
	r := setupTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/scim/v2/Users/u1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["userName"] != "bjensen" {
		t.Fatalf("userName = %v, want bjensen", body["userName"])
	}
}

func TestGetUserMissingReturnsNotFound(t *testing.T) {
	reg := testUserRegistry()
	st := store.NewMemory()
	h := newHandlers(st, reg, logging.NewNop(), metrics.New())
	r := setupTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/scim/v2/Users/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["scimType"] != "noTarget" {
		t.Fatalf("scimType = %v, want noTarget", body["scimType"])
	}
}

func TestPatchUserAppliesOperation(t *testing.T) {
	reg := testUserRegistry()
	st := store.NewMemory()
	seedUser(t, st, reg, "u1", "bjensen")

	h := newHandlers(st, reg, logging.NewNop(), metrics.New())
	r := setupTestRouter(h)

	patchBody := []byte(`{
		"schemas": ["urn:ietf:params:scim:api:messages:2.0:PatchOp"],
		"Operations": [{"op": "replace", "path": "displayName", "value": "Babs Jensen"}]
	}`)

	req := httptest.NewRequest(http.MethodPatch, "/scim/v2/Users/u1", bytes.NewReader(patchBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	rec, err := st.Get(context.Background(), "User", "u1")
	if err != nil {
		t.Fatalf("Get after patch: %v", err)
	}
	v, ok := rec.Document.Get("displayName")
	if !ok || v.LeafValue().Str != "Babs Jensen" {
		t.Fatalf("displayName not persisted: %+v", v)
	}
}

func TestPatchUserRejectsUnknownAttribute(t *testing.T) {
	reg := testUserRegistry()
	st := store.NewMemory()
	seedUser(t, st, reg, "u1", "bjensen")

	h := newHandlers(st, reg, logging.NewNop(), metrics.New())
	r := setupTestRouter(h)

	patchBody := []byte(`{
		"Operations": [{"op": "replace", "path": "bogus", "value": "x"}]
	}`)

	req := httptest.NewRequest(http.MethodPatch, "/scim/v2/Users/u1", bytes.NewReader(patchBody))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

func TestListUsersReturnsAllRecords(t *testing.T) {
	reg := testUserRegistry()
	st := store.NewMemory()
	seedUser(t, st, reg, "u1", "bjensen")
	seedUser(t, st, reg, "u2", "jsmith")

	h := newHandlers(st, reg, logging.NewNop(), metrics.New())
	r := setupTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/scim/v2/Users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body struct {
		TotalResults int `json:"totalResults"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.TotalResults != 2 {
		t.Fatalf("totalResults = %d, want 2", body.TotalResults)
	}
}
