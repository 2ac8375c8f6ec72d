package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/obokit/relreg/internal/config"
	"github.com/obokit/relreg/internal/obo"
	"github.com/obokit/relreg/internal/registry"
	"github.com/obokit/relreg/pkg/types"
)

// APIHandlers contains the HTTP handlers for the REST API.
type APIHandlers struct {
	registry *registry.Registry
	config   *config.Config
	hub      *WebSocketHub // optional; nil disables event broadcasts
}

// NewAPIHandlers creates a new APIHandlers instance.
func NewAPIHandlers(reg *registry.Registry, cfg *config.Config) *APIHandlers {
	return &APIHandlers{
		registry: reg,
		config:   cfg,
	}
}

// SetHub wires a WebSocket hub for registration event broadcasts.
func (h *APIHandlers) SetHub(hub *WebSocketHub) {
	h.hub = hub
}

// ListRelationships handles GET /api/relationships - every distinct record
// in first-registered order.
func (h *APIHandlers) ListRelationships(w http.ResponseWriter, r *http.Request) {
	defs := h.registry.Export()
	respondJSON(w, http.StatusOK, RelationshipListResponse{
		Relationships: defs,
		Total:         len(defs),
	})
}

// RegisterRelationship handles POST /api/relationships - register a
// relationship type from a JSON definition. Registration is idempotent: when
// the name already exists the existing record is returned unchanged and the
// request body is discarded. Pass ?strict=true to fail on alias collisions
// instead of silently keeping the first registrant.
func (h *APIHandlers) RegisterRelationship(w http.ResponseWriter, r *http.Request) {
	var def types.Relationship
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if def.Name == "" {
		respondError(w, http.StatusBadRequest, "relationship name is required", nil)
		return
	}

	existed := h.registry.Lookup(def.Name) != nil

	var rec *types.Relationship
	if r.URL.Query().Get("strict") == "true" {
		var err error
		rec, err = h.registry.GetOrCreateStrict(def)
		var collision *registry.AliasCollisionError
		if errors.As(err, &collision) {
			respondError(w, http.StatusConflict, "alias already registered", err)
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to register relationship", err)
			return
		}
	} else {
		rec = h.registry.GetOrCreate(def)
	}

	h.respondRegistered(w, rec, existed)
}

// GetRelationship handles GET /api/relationships/{name} - lookup by name or
// alias. Lookup never registers anything; unknown names are 404.
func (h *APIHandlers) GetRelationship(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "relationship name is required", nil)
		return
	}

	rec := h.registry.Lookup(name)
	if rec == nil {
		respondError(w, http.StatusNotFound, "relationship not found", nil)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// GetComplement handles GET /api/relationships/{name}/complement. The
// complement is null (not an error) when the relationship declares no
// inverse; a declared but unregistered complement is 422.
func (h *APIHandlers) GetComplement(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	rec := h.registry.Lookup(name)
	if rec == nil {
		respondError(w, http.StatusNotFound, "relationship not found", nil)
		return
	}

	comp, err := h.registry.Complement(rec)
	var undef *registry.ComplementUndefinedError
	if errors.As(err, &undef) {
		respondError(w, http.StatusUnprocessableEntity, "complement is not registered", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to resolve complement", err)
		return
	}

	resp := ComplementResponse{Name: rec.Name}
	if comp != nil {
		resp.Complement = &comp.Name
	}
	respondJSON(w, http.StatusOK, resp)
}

// ListTopdown handles GET /api/relationships/topdown.
func (h *APIHandlers) ListTopdown(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, directionResponse(types.DirectionTopdown, h.registry.Topdown()))
}

// ListBottomup handles GET /api/relationships/bottomup.
func (h *APIHandlers) ListBottomup(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, directionResponse(types.DirectionBottomup, h.registry.Bottomup()))
}

// RegisterStanza handles POST /api/obo/stanza - the OBO adapter boundary
// over HTTP. The body is the raw key/value content of one [Typedef] stanza.
func (h *APIHandlers) RegisterStanza(w http.ResponseWriter, r *http.Request) {
	var stanza obo.Stanza
	if err := json.NewDecoder(r.Body).Decode(&stanza); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if stanza["id"] == "" {
		respondError(w, http.StatusBadRequest, "stanza id is required", nil)
		return
	}

	existed := h.registry.Lookup(stanza["id"]) != nil
	rec := obo.Register(h.registry, stanza)
	h.respondRegistered(w, rec, existed)
}

func (h *APIHandlers) respondRegistered(w http.ResponseWriter, rec *types.Relationship, existed bool) {
	if !existed && h.hub != nil {
		h.hub.Broadcast(RegistrationEvent{
			Type:      "relationship_registered",
			Name:      rec.Name,
			Direction: rec.Direction,
			Timestamp: time.Now().UTC(),
		})
	}

	status := http.StatusOK
	if !existed {
		status = http.StatusCreated
	}
	respondJSON(w, status, RegisterResponse{Relationship: *rec, Created: !existed})
}

func directionResponse(dir types.Direction, recs []*types.Relationship) DirectionResponse {
	names := make([]string, 0, len(recs))
	for _, rec := range recs {
		names = append(names, rec.Name)
	}
	return DirectionResponse{Direction: dir, Names: names}
}
