package retentionhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mpadmin/internal/domain/core"
	"mpadmin/internal/domain/retention"
	"mpadmin/internal/platform/metrics"
	"mpadmin/internal/transport/http/api"
	"mpadmin/internal/transport/http/middleware"
)

// Handler exposes the retention engine to the console UI: deletion, bulk
// deletion, restoration and the read-only restorability check.
type Handler struct {
	Service *retention.Service
	Metrics *metrics.Collector
}

func NewHandler(service *retention.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireOperator)
		r.Post("/deletion/bulk", h.handleBulkDeletion)
		r.Post("/{userID}/deletion", h.handleDeletion)
		r.Post("/{userID}/restore", h.handleRestore)
		r.Get("/{userID}/restorability", h.handleRestorability)
	})
}

type deletionRequest struct {
	Reason       string `json:"reason"`
	Level        string `json:"level"`
	CustomReason string `json:"customReason,omitempty"`
}

type bulkDeletionRequest struct {
	UserIDs      []string `json:"userIds"`
	Reason       string   `json:"reason"`
	Level        string   `json:"level"`
	CustomReason string   `json:"customReason,omitempty"`
}

type bulkDeletionSummary struct {
	Requested int                             `json:"requested"`
	Succeeded int                             `json:"succeeded"`
	Failed    int                             `json:"failed"`
	Results   []retention.AnonymizationResult `json:"results"`
	Errors    []retention.BulkItemError       `json:"errors"`
}

func (h *Handler) handleDeletion(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	reqID := middleware.GetRequestID(r.Context())

	var payload deletionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	result, err := h.Service.Execute(r.Context(), userID, payload.Reason, payload.Level, payload.CustomReason)
	if err != nil {
		h.recordDeletion(payload.Reason, payload.Level, err)
		h.failDeletion(w, err, reqID)
		return
	}

	h.recordDeletion(payload.Reason, payload.Level, nil)
	api.Success(w, result, reqID)
}

func (h *Handler) handleBulkDeletion(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload bulkDeletionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if len(payload.UserIDs) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "userIds must not be empty", reqID)
		return
	}

	result, err := h.Service.ExecuteMany(r.Context(), payload.UserIDs, payload.Reason, payload.Level, payload.CustomReason)
	var bulkErr *retention.BulkError
	if err != nil && !errors.As(err, &bulkErr) {
		// Not a per-item aggregate: the run itself was aborted.
		h.failDeletion(w, err, reqID)
		return
	}

	for range result.Results {
		h.recordDeletion(payload.Reason, payload.Level, nil)
	}
	for range result.Errors {
		h.recordDeletion(payload.Reason, payload.Level, errors.New("failed"))
	}

	api.Success(w, bulkDeletionSummary{
		Requested: len(payload.UserIDs),
		Succeeded: len(result.Results),
		Failed:    len(result.Errors),
		Results:   result.Results,
		Errors:    result.Errors,
	}, reqID)
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	reqID := middleware.GetRequestID(r.Context())

	if err := h.Service.Restore(r.Context(), userID); err != nil {
		var denied *retention.RestorationDeniedError
		if errors.As(err, &denied) {
			api.Fail(w, http.StatusConflict, "restoration_denied", denied.Rationale, reqID)
			return
		}
		if errors.Is(err, core.ErrUserNotFound) {
			api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", reqID)
			return
		}
		slog.Error("restoration failed", "userId", userID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "restoration_failed", "failed to restore user", reqID)
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordRestoration()
	}
	api.Success(w, map[string]any{"userId": userID, "restored": true}, reqID)
}

func (h *Handler) handleRestorability(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	reqID := middleware.GetRequestID(r.Context())

	assessment, err := h.Service.DescribeRestorability(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", reqID)
			return
		}
		slog.Error("restorability check failed", "userId", userID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "restorability_failed", "failed to assess restorability", reqID)
		return
	}
	api.Success(w, assessment, reqID)
}

func (h *Handler) failDeletion(w http.ResponseWriter, err error, reqID string) {
	var transition *retention.TransitionError
	var rollback *retention.RollbackError

	switch {
	case errors.As(err, &transition):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_transition", transition.Error(), reqID)
	case errors.Is(err, retention.ErrUnknownReason), errors.Is(err, retention.ErrUnknownLevel):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), reqID)
	case errors.Is(err, core.ErrUserNotFound):
		api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", reqID)
	case errors.As(err, &rollback):
		// The one state the engine cannot self-heal. Surface loudly.
		slog.Error("soft-delete rollback failed, manual intervention required", "userId", rollback.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "rollback_failed", rollback.Error(), reqID)
	default:
		slog.Error("deletion failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "deletion_failed", "failed to execute deletion", reqID)
	}
}

func (h *Handler) recordDeletion(reason, level string, err error) {
	if h.Metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	h.Metrics.RecordDeletion(reason, level, outcome)
}
