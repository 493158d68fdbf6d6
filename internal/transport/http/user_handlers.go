package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"landregistry/internal/domain"
	"landregistry/internal/dto"
	"landregistry/internal/observability/metrics"
)

func (h *Handlers) signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.Auth.Signup(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) registerGovernment(w http.ResponseWriter, r *http.Request) {
	var req dto.GovernmentSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Auth.RegisterGovernment(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "government user registered successfully"})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) profile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "access token required")
		return
	}
	user, err := h.Auth.Profile(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ProfileResponse{Success: true, User: user})
}

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "access token required")
		return
	}
	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.Auth.UpdateProfile(r.Context(), actor.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ProfileResponse{Success: true, Message: "profile updated successfully", User: user})
}

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "access token required")
		return
	}
	users, err := h.Auth.ListUsers(r.Context(), *actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UserListResponse{Success: true, Users: users})
}

func (h *Handlers) sendNotification(w http.ResponseWriter, r *http.Request) {
	var req dto.NotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Message == "" {
		writeError(w, r, domain.ErrMissingNotification)
		return
	}
	subject := req.Subject
	if subject == "" {
		subject = "Land Registry Notification"
	}

	// Fire-and-forget; delivery failures are logged, never surfaced.
	h.dispatch("email", func(ctx context.Context) error {
		return h.Notifier.SendEmail(ctx, req.Email, subject, req.Message)
	})
	if req.PhoneNumber != "" {
		phone := req.PhoneNumber
		h.dispatch("sms", func(ctx context.Context) error {
			return h.Notifier.SendSMS(ctx, phone, req.Message)
		})
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "notification sent successfully"})
}

func (h *Handlers) dispatch(channel string, send func(ctx context.Context) error) {
	if h.Notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := send(ctx); err != nil {
			slog.Warn("notification delivery failed", "channel", channel, "error", err)
			metrics.NotificationsTotal.WithLabelValues(channel, "failure").Inc()
			return
		}
		metrics.NotificationsTotal.WithLabelValues(channel, "success").Inc()
	}()
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Land Registry API is running",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.Environment,
		"version":     Version,
	})
}
