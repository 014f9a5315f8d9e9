// Package httpapi provides the REST HTTP adapter for the server surfaces.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/osvalOrd/TrelloClone/internal/adapters/server/common"
)

// maxRequestBodyBytes limits decoded JSON payload size for fail-closed request handling.
const maxRequestBodyBytes int64 = 1 << 20

// Headers that carry caller identity for activity attribution.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorType = "X-Actor-Type"
)

// defaultActorID attributes requests that carry no actor header.
const defaultActorID = "http"

// Handler serves the versioned API subrouter mounted under `/api/v1`.
type Handler struct {
	board common.BoardService
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewHandler constructs one HTTP API adapter over the board service.
func NewHandler(board common.BoardService) *Handler {
	return &Handler{board: board}
}

// ServeHTTP routes one versioned API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.board == nil {
		writeJSONError(w, http.StatusServiceUnavailable, APIError{
			Code:    "service_unavailable",
			Message: "board service is not configured",
		})
		return
	}
	path := normalizePath(r.URL.Path)
	segments := strings.Split(path, "/")
	switch {
	case path == "board":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleGetBoard(w, r)
	case path == "summary":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleSummary(w, r)
	case path == "columns":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleAddColumn(w, r)
	case len(segments) == 2 && segments[0] == "columns" && segments[1] != "":
		switch r.Method {
		case http.MethodPatch:
			h.handleRenameColumn(w, r, segments[1])
		case http.MethodDelete:
			h.handleDeleteColumn(w, r, segments[1])
		default:
			writeMethodNotAllowed(w, http.MethodPatch, http.MethodDelete)
		}
	case len(segments) == 3 && segments[0] == "columns" && segments[1] != "" && segments[2] == "cards":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleAddCard(w, r, segments[1])
	case len(segments) == 2 && segments[0] == "cards" && segments[1] != "":
		switch r.Method {
		case http.MethodPatch:
			h.handleUpdateCard(w, r, segments[1])
		case http.MethodDelete:
			h.handleDeleteCard(w, r, segments[1])
		default:
			writeMethodNotAllowed(w, http.MethodPatch, http.MethodDelete)
		}
	case path == "moves/cards":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleMoveCard(w, r)
	case path == "moves/columns":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleReorderColumns(w, r)
	case path == "search":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleSearch(w, r)
	case path == "activity":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleActivity(w, r)
	default:
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: "endpoint not found",
		})
	}
}

// handleGetBoard serves GET `/board`.
func (h *Handler) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.board.GetBoard(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// handleSummary serves GET `/summary`.
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.board.BoardSummary(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleAddColumn serves POST `/columns`.
func (h *Handler) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	var req common.AddColumnRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	req.Actor = actorFromRequest(r)
	col, err := h.board.AddColumn(r.Context(), req)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, col)
}

// handleRenameColumn serves PATCH `/columns/{id}`.
func (h *Handler) handleRenameColumn(w http.ResponseWriter, r *http.Request, columnID string) {
	var req common.RenameColumnRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	req.ColumnID = columnID
	req.Actor = actorFromRequest(r)
	col, err := h.board.RenameColumn(r.Context(), req)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, col)
}

// handleDeleteColumn serves DELETE `/columns/{id}`.
func (h *Handler) handleDeleteColumn(w http.ResponseWriter, r *http.Request, columnID string) {
	if err := h.board.DeleteColumn(r.Context(), columnID, actorFromRequest(r)); err != nil {
		writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddCard serves POST `/columns/{id}/cards`.
func (h *Handler) handleAddCard(w http.ResponseWriter, r *http.Request, columnID string) {
	var req common.AddCardRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	req.ColumnID = columnID
	req.Actor = actorFromRequest(r)
	card, err := h.board.AddCard(r.Context(), req)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// handleUpdateCard serves PATCH `/cards/{id}`.
func (h *Handler) handleUpdateCard(w http.ResponseWriter, r *http.Request, cardID string) {
	var req common.UpdateCardRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	req.CardID = cardID
	req.Actor = actorFromRequest(r)
	card, err := h.board.UpdateCard(r.Context(), req)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// handleDeleteCard serves DELETE `/cards/{id}`.
func (h *Handler) handleDeleteCard(w http.ResponseWriter, r *http.Request, cardID string) {
	if err := h.board.DeleteCard(r.Context(), cardID, actorFromRequest(r)); err != nil {
		writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMoveCard serves POST `/moves/cards`.
func (h *Handler) handleMoveCard(w http.ResponseWriter, r *http.Request) {
	var req common.MoveCardRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	req.Actor = actorFromRequest(r)
	board, err := h.board.MoveCard(r.Context(), req)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// handleReorderColumns serves POST `/moves/columns`.
func (h *Handler) handleReorderColumns(w http.ResponseWriter, r *http.Request) {
	var req common.ReorderColumnsRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	req.Actor = actorFromRequest(r)
	board, err := h.board.ReorderColumns(r.Context(), req)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// handleSearch serves GET `/search`.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	matches, err := h.board.SearchCards(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"matches": matches,
	})
}

// handleActivity serves GET `/activity`.
func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	events, err := h.board.ListActivity(r.Context(), limit)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
	})
}

// actorFromRequest reads caller identity headers.
func actorFromRequest(r *http.Request) common.Actor {
	actor := common.Actor{
		ID:   strings.TrimSpace(r.Header.Get(HeaderActorID)),
		Type: strings.TrimSpace(r.Header.Get(HeaderActorType)),
	}
	if actor.ID == "" {
		actor.ID = defaultActorID
	}
	return actor
}

// parseLimit parses an optional non-negative limit query value.
func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("limit %q must be a non-negative integer: %w", raw, common.ErrInvalidRequest)
	}
	return limit, nil
}

// normalizePath canonicalizes one request path for route matching.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, "/")
	return path
}

// writeErrorFrom maps adapter errors into structured HTTP responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "unknown error",
		})
	case errors.Is(err, common.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: err.Error(),
			Hint:    "GET /board lists current column and card ids.",
		})
	case errors.Is(err, common.ErrConflict):
		writeJSONError(w, http.StatusConflict, APIError{
			Code:    "conflict",
			Message: err.Error(),
		})
	case errors.Is(err, common.ErrInvalidRequest):
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: err.Error(),
		})
	case errors.Is(err, common.ErrUnavailable):
		writeJSONError(w, http.StatusNotImplemented, APIError{
			Code:    "not_implemented",
			Message: err.Error(),
		})
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: err.Error(),
		})
	}
}

// writeMethodNotAllowed writes a structured 405 response with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, APIError{
		Code:    "method_not_allowed",
		Message: "method not allowed",
	})
}

// writeJSONError writes one structured error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one required JSON request body with strict shape checks.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(common.ErrInvalidRequest, err))
	}
	// Reject trailing payloads so malformed JSON bodies fail closed.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", common.ErrInvalidRequest)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}
