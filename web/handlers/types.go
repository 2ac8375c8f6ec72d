// Package handlers provides the HTTP handlers and middleware for the relreg
// REST API.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/obokit/relreg/pkg/types"
)

// ErrorResponse is the standard error response format for the API.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RelationshipListResponse is the response format for GET /api/relationships.
type RelationshipListResponse struct {
	Relationships []types.Relationship `json:"relationships"`
	Total         int                  `json:"total"`
}

// DirectionResponse is the response format for the topdown/bottomup queries.
// Names are in first-registered order.
type DirectionResponse struct {
	Direction types.Direction `json:"direction"`
	Names     []string        `json:"names"`
}

// ComplementResponse is the response format for the complement query. The
// complement is null when the relationship declares no inverse.
type ComplementResponse struct {
	Name       string  `json:"name"`
	Complement *string `json:"complement"`
}

// RegisterResponse is the response format for registration endpoints.
// Created is false when the name was already registered and the request
// parameters were discarded.
type RegisterResponse struct {
	Relationship types.Relationship `json:"relationship"`
	Created      bool               `json:"created"`
}

func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; log instead of writing a second response.
		log.Printf("failed to encode JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Error: message,
		Code:  http.StatusText(statusCode),
	}
	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
	}
	respondJSON(w, statusCode, errResp)
}
