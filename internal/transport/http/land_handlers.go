package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"landregistry/internal/domain"
	"landregistry/internal/dto"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func landIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "landId"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handlers) registerLand(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "access token required")
		return
	}
	var req dto.RegisterLandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	land, err := h.Lands.Register(r.Context(), *actor, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.RegisterLandResponse{
		Success: true,
		Message: "land registered successfully",
		Land:    *land,
	})
}

func (h *Handlers) availableLands(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := dto.AvailableLandsQuery{
		State: q.Get("state"),
		City:  q.Get("city"),
	}
	if v := q.Get("page"); v != "" {
		query.Page, _ = strconv.Atoi(v)
	}
	if v := q.Get("limit"); v != "" {
		query.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("minPrice"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			query.MinPrice = &n
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			query.MaxPrice = &n
		}
	}

	lands, pagination, err := h.Lands.Available(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AvailableLandsResponse{
		Success:    true,
		Lands:      lands,
		Pagination: pagination,
	})
}

func (h *Handlers) landByID(w http.ResponseWriter, r *http.Request) {
	id, ok := landIDParam(r)
	if !ok {
		fail(w, http.StatusBadRequest, "invalid land id")
		return
	}
	land, err := h.Lands.ByLandID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LandResponse{Success: true, Land: land})
}

func (h *Handlers) userLands(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "access token required")
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid user id")
		return
	}
	lands, err := h.Lands.UserLands(r.Context(), *actor, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LandListResponse{Success: true, Lands: lands})
}

func (h *Handlers) requestPurchase(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "access token required")
		return
	}
	id, ok := landIDParam(r)
	if !ok {
		fail(w, http.StatusBadRequest, "invalid land id")
		return
	}
	if err := h.Lands.RequestPurchase(r.Context(), *actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "land purchase request submitted successfully"})
}

func (h *Handlers) processRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "access token required")
		return
	}
	id, ok := landIDParam(r)
	if !ok {
		fail(w, http.StatusBadRequest, "invalid land id")
		return
	}
	var req dto.ProcessRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Lands.ProcessRequest(r.Context(), *actor, id, domain.RequestStatus(req.Status)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "land request processed successfully"})
}

func (h *Handlers) approveLand(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "access token required")
		return
	}
	id, ok := landIDParam(r)
	if !ok {
		fail(w, http.StatusBadRequest, "invalid land id")
		return
	}
	var req dto.ApproveLandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Lands.Approve(r.Context(), *actor, id, domain.ApprovalStatus(req.ApprovalStatus)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "land review recorded successfully"})
}

func (h *Handlers) pendingApproval(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "access token required")
		return
	}
	lands, err := h.Lands.PendingApproval(r.Context(), *actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LandListResponse{Success: true, Lands: lands})
}

func (h *Handlers) updateLand(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "access token required")
		return
	}
	id, ok := landIDParam(r)
	if !ok {
		fail(w, http.StatusBadRequest, "invalid land id")
		return
	}
	var req dto.UpdateLandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	land, err := h.Lands.UpdateDetails(r.Context(), *actor, id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.RegisterLandResponse{
		Success: true,
		Message: "land details updated successfully",
		Land:    *land,
	})
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Lands.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatsResponse{Success: true, Stats: *stats})
}

func (h *Handlers) downloadDocument(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if h.Blobs == nil {
		writeError(w, r, domain.ErrDocumentNotFound)
		return
	}
	exists, err := h.Blobs.Exists(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !exists {
		writeError(w, r, domain.ErrDocumentNotFound)
		return
	}
	obj, err := h.Blobs.Download(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, obj)
}
