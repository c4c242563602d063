package http

import (
	"encoding/json"
	"net/http"

	"github.com/cinetrack/attendance-backend-go/internal/domain/til"
	"github.com/cinetrack/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cinetrack/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TILHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
}

type tilHandlerImpl struct {
	tilService til.Service
}

func NewTILHandler(tilService til.Service) TILHandler {
	return &tilHandlerImpl{tilService: tilService}
}

// Request implements TILHandler.
func (h *tilHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	var req til.RequestTILRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.tilService.Request(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "TIL request submitted", result)
}

// Approve implements TILHandler.
func (h *tilHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")

	result, err := h.tilService.Approve(r.Context(), recordID, middleware.EditorID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "TIL request approved", result)
}

// Reject implements TILHandler.
func (h *tilHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req til.RejectTILRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RecordID = chi.URLParam(r, "recordID")
	req.ApproverID = middleware.EditorID(r)

	result, err := h.tilService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "TIL request rejected", result)
}

// Balance implements TILHandler.
func (h *tilHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	balance, err := h.tilService.GetBalance(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}

// ListByEmployee implements TILHandler.
func (h *tilHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	records, err := h.tilService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// ListPending implements TILHandler.
func (h *tilHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	records, err := h.tilService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}
