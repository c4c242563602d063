package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/domain/settings"
	"github.com/cinetrack/attendance-backend-go/internal/handler/http/response"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/email"
)

type AdminHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	ListEmailLogs(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	settingsService settings.Service
	emailLogs       email.LogRepository
}

func NewAdminHandler(settingsService settings.Service, emailLogs email.LogRepository) AdminHandler {
	return &adminHandlerImpl{
		settingsService: settingsService,
		emailLogs:       emailLogs,
	}
}

// GetSettings implements AdminHandler.
func (h *adminHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateSettings implements AdminHandler.
func (h *adminHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingsService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settings updated", result)
}

type emailLogResponse struct {
	ID         string `json:"id"`
	EmailType  string `json:"email_type"`
	Recipient  string `json:"recipient"`
	EmployeeID string `json:"employee_id,omitempty"`
	Status     string `json:"status"`
	Details    string `json:"details,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// ListEmailLogs implements AdminHandler.
func (h *adminHandlerImpl) ListEmailLogs(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	logs, total, err := h.emailLogs.List(r.Context(), page, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	items := make([]emailLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, emailLogResponse{
			ID:         l.ID,
			EmailType:  l.EmailType,
			Recipient:  l.Recipient,
			EmployeeID: l.EmployeeID,
			Status:     string(l.Status),
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	response.SuccessWithMeta(w, items, &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages(total, limit),
	})
}
