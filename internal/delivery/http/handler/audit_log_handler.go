package handler

import (
	"net/http"
	"strconv"

	"askadoc-server/internal/delivery/http/middleware"
	"askadoc-server/internal/usecase"
	"askadoc-server/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

// GetMyActivity returns the caller's audit trail. Query: limit
func (h *AuditLogHandler) GetMyActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			response.BadRequest(w, "Invalid limit")
			return
		}
		limit = parsed
	}

	logs, err := h.auditLogUsecase.GetMyActivity(r.Context(), userID, limit)
	if err != nil {
		response.FromError(w, err, "Failed to get activity")
		return
	}

	response.Success(w, http.StatusOK, "Activity retrieved successfully", logs)
}
