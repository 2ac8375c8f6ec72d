package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obokit/relreg/internal/config"
	"github.com/obokit/relreg/internal/registry"
	"github.com/obokit/relreg/pkg/types"
)

func newTestHandlers(t *testing.T) (*APIHandlers, *registry.Registry) {
	t.Helper()
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	reg := registry.New()
	return NewAPIHandlers(reg, cfg), reg
}

// mux mirrors the route layout in internal/server so path values resolve.
func newTestMux(h *APIHandlers) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/relationships", h.ListRelationships)
	mux.HandleFunc("POST /api/relationships", h.RegisterRelationship)
	mux.HandleFunc("GET /api/relationships/topdown", h.ListTopdown)
	mux.HandleFunc("GET /api/relationships/bottomup", h.ListBottomup)
	mux.HandleFunc("GET /api/relationships/{name}", h.GetRelationship)
	mux.HandleFunc("GET /api/relationships/{name}/complement", h.GetComplement)
	mux.HandleFunc("POST /api/obo/stanza", h.RegisterStanza)
	return mux
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestListRelationships(t *testing.T) {
	h, _ := newTestHandlers(t)
	rec := doRequest(newTestMux(h), http.MethodGet, "/api/relationships", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RelationshipListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Total)
	assert.Equal(t, "is_a", resp.Relationships[0].Name)
}

func TestGetRelationship(t *testing.T) {
	h, _ := newTestHandlers(t)
	mux := newTestMux(h)

	rec := doRequest(mux, http.MethodGet, "/api/relationships/part_of", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rel types.Relationship
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rel))
	assert.Equal(t, "part_of", rel.Name)
	assert.Contains(t, rel.Aliases, "is_part")

	// Alias lookup resolves to the owning record.
	rec = doRequest(mux, http.MethodGet, "/api/relationships/is_part", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rel))
	assert.Equal(t, "part_of", rel.Name)

	rec = doRequest(mux, http.MethodGet, "/api/relationships/unknown_rel", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterRelationship(t *testing.T) {
	h, reg := newTestHandlers(t)
	mux := newTestMux(h)

	body := `{"name":"regulates","complement":"regulated_by","direction":"topdown"}`
	rec := doRequest(mux, http.MethodPost, "/api/relationships", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Created)
	assert.Equal(t, "regulates", resp.Relationship.Name)
	assert.NotNil(t, reg.Lookup("regulates"))

	// Re-registering is idempotent: parameters are discarded, 200 not 201.
	rec = doRequest(mux, http.MethodPost, "/api/relationships", `{"name":"regulates","direction":"bottomup"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Created)
	assert.Equal(t, types.DirectionTopdown, resp.Relationship.Direction)
}

func TestRegisterRelationshipValidation(t *testing.T) {
	h, _ := newTestHandlers(t)
	mux := newTestMux(h)

	rec := doRequest(mux, http.MethodPost, "/api/relationships", `{"direction":"topdown"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(mux, http.MethodPost, "/api/relationships", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterRelationshipStrictAliasCollision(t *testing.T) {
	h, reg := newTestHandlers(t)
	mux := newTestMux(h)

	body := `{"name":"develops_from","aliases":["is_part"]}`
	rec := doRequest(mux, http.MethodPost, "/api/relationships?strict=true", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Nil(t, reg.Lookup("develops_from"))

	// Without strict the same request succeeds silently.
	rec = doRequest(mux, http.MethodPost, "/api/relationships", body)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetComplement(t *testing.T) {
	h, reg := newTestHandlers(t)
	mux := newTestMux(h)

	rec := doRequest(mux, http.MethodGet, "/api/relationships/is_a/complement", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ComplementResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Complement)
	assert.Equal(t, "can_be", *resp.Complement)

	// No complement declared: null, not an error.
	rec = doRequest(mux, http.MethodGet, "/api/relationships/has_units/complement", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Complement)

	// Declared but unregistered complement: 422.
	reg.GetOrCreate(types.Relationship{Name: "regulates", Complement: "regulated_by"})
	rec = doRequest(mux, http.MethodGet, "/api/relationships/regulates/complement", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(mux, http.MethodGet, "/api/relationships/unknown_rel/complement", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDirectionalQueries(t *testing.T) {
	h, _ := newTestHandlers(t)
	mux := newTestMux(h)

	rec := doRequest(mux, http.MethodGet, "/api/relationships/bottomup", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DirectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"is_a", "part_of"}, resp.Names)

	rec = doRequest(mux, http.MethodGet, "/api/relationships/topdown", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"can_be", "has_part"}, resp.Names)
}

func TestRegisterStanza(t *testing.T) {
	h, reg := newTestHandlers(t)
	mux := newTestMux(h)

	body := `{"id":"regulates","inverse_of":"regulated_by","is_transitive":"true","is_antisymetric":"false"}`
	rec := doRequest(mux, http.MethodPost, "/api/obo/stanza", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "regulates", resp.Relationship.Name)
	assert.Equal(t, "regulated_by", resp.Relationship.Complement)
	assert.Equal(t, types.TristateTrue, resp.Relationship.Transitivity)
	assert.Equal(t, types.TristateTrue, resp.Relationship.Symmetry)

	// A stanza for an already-registered id short-circuits.
	rec = doRequest(mux, http.MethodPost, "/api/obo/stanza", `{"id":"is_a","is_transitive":"false"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.TristateTrue, reg.Lookup("is_a").Transitivity)

	rec = doRequest(mux, http.MethodPost, "/api/obo/stanza", `{"is_transitive":"true"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegistrationBroadcastsEvent(t *testing.T) {
	h, _ := newTestHandlers(t)
	hub := NewWebSocketHub()
	go hub.Run()
	defer hub.Stop()
	h.SetHub(hub)

	client := NewMockClient()
	hub.Register(client)

	mux := newTestMux(h)
	rec := doRequest(mux, http.MethodPost, "/api/relationships", `{"name":"regulates","direction":"topdown"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	select {
	case data := <-client.SendChan:
		var ev RegistrationEvent
		require.NoError(t, json.Unmarshal(data, &ev))
		assert.Equal(t, "relationship_registered", ev.Type)
		assert.Equal(t, "regulates", ev.Name)
		assert.Equal(t, types.DirectionTopdown, ev.Direction)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a registration event")
	}

	// Idempotent re-registration must not broadcast.
	doRequest(mux, http.MethodPost, "/api/relationships", `{"name":"regulates"}`)
	select {
	case <-client.SendChan:
		t.Fatal("expected no event for an existing name")
	case <-time.After(100 * time.Millisecond):
	}
}
