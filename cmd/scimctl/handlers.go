package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scim-go/scimcore/internal/logging"
	"github.com/scim-go/scimcore/internal/metrics"
	"github.com/scim-go/scimcore/internal/scimerr"
	"github.com/scim-go/scimcore/internal/store"
	"github.com/scim-go/scimcore/pkg/scim"
)

const userResourceType = "User"

// handlers wires the store and schema registry into gin route handlers
// for the SCIM Users endpoint.
type handlers struct {
	store   store.Store
	reg     *scim.Registry
	logger  logging.Logger
	metrics *metrics.Metrics
}

func newHandlers(st store.Store, reg *scim.Registry, logger logging.Logger, m *metrics.Metrics) *handlers {
	return &handlers{store: st, reg: reg, logger: logger, metrics: m}
}

func (h *handlers) getUser(c *gin.Context) {
	rec, err := h.store.Get(c.Request.Context(), userResourceType, c.Param("id"))
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, scimErrorBody(scimerr.NoTarget(c.Param("id"), "resource not found")))
		return
	}
	if err != nil {
		h.logger.Error("get user failed", "id", c.Param("id"), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	body, err := scim.EncodeDocument(rec.Document)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/scim+json", body)
}

func (h *handlers) listUsers(c *gin.Context) {
	recs, err := h.store.List(c.Request.Context(), userResourceType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	resources := make([]any, 0, len(recs))
	for _, rec := range recs {
		body, err := scim.EncodeDocument(rec.Document)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
		resources = append(resources, rawJSON(body))
	}
	c.JSON(http.StatusOK, gin.H{
		"schemas":      []string{"urn:ietf:params:scim:api:messages:2.0:ListResponse"},
		"totalResults": len(resources),
		"Resources":    resources,
	})
}

func (h *handlers) patchUser(c *gin.Context) {
	start := time.Now()
	id := c.Param("id")

	rec, err := h.store.Get(c.Request.Context(), userResourceType, id)
	if err == store.ErrNotFound {
		h.metrics.ObservePatch("unknown", "notfound", time.Since(start).Seconds())
		c.JSON(http.StatusNotFound, scimErrorBody(scimerr.NoTarget(id, "resource not found")))
		return
	}
	if err != nil {
		h.metrics.ObservePatch("unknown", "error", time.Since(start).Seconds())
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		h.metrics.ObservePatch("unknown", "error", time.Since(start).Seconds())
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	ops, err := scim.DecodePatchRequest(body)
	if err != nil {
		h.metrics.ObservePatch("unknown", "error", time.Since(start).Seconds())
		writeSCIMError(c, err)
		return
	}

	updated, _, err := scim.ApplyPatches(rec.Document, h.reg, ops)
	if err != nil {
		h.metrics.ObservePatch(patchOpLabel(ops), "error", time.Since(start).Seconds())
		writeSCIMError(c, err)
		return
	}

	rec.Document = updated
	if err := h.store.Put(c.Request.Context(), rec); err != nil {
		h.metrics.ObservePatch(patchOpLabel(ops), "error", time.Since(start).Seconds())
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	out, err := scim.EncodeDocument(updated)
	if err != nil {
		h.metrics.ObservePatch(patchOpLabel(ops), "error", time.Since(start).Seconds())
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	h.metrics.ObservePatch(patchOpLabel(ops), "ok", time.Since(start).Seconds())
	c.Data(http.StatusOK, "application/scim+json", out)
}

// patchOpLabel reports the op kind of a single-operation request, or
// "multi" when the request batches more than one operation.
func patchOpLabel(ops []scim.PatchOp) string {
	if len(ops) != 1 {
		return "multi"
	}
	return string(ops[0].Op)
}

// writeSCIMError maps a C7-classified error to its RFC 7644 §3.12 error
// response; any other error is reported as a generic 500.
func writeSCIMError(c *gin.Context, err error) {
	if scimErr, ok := err.(*scimerr.Error); ok {
		c.JSON(scimErr.HTTPStatus(), scimErrorBody(scimErr))
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
}

func scimErrorBody(e *scimerr.Error) gin.H {
	return gin.H{
		"schemas":  []string{"urn:ietf:params:scim:api:messages:2.0:Error"},
		"status":   e.HTTPStatus(),
		"scimType": e.SCIMType(),
		"detail":   e.Error(),
	}
}

type rawJSON []byte

func (r rawJSON) MarshalJSON() ([]byte, error) {
	return r, nil
}
