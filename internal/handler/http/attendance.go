package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/domain/attendance"
	"github.com/cinetrack/attendance-backend-go/internal/domain/employee"
	"github.com/cinetrack/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cinetrack/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Clock(w http.ResponseWriter, r *http.Request)
	KioskStatus(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	ListSummaries(w http.ResponseWriter, r *http.Request)
	ManualEdit(w http.ResponseWriter, r *http.Request)
	ManualEntry(w http.ResponseWriter, r *http.Request)
	ListEdits(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
	employeeService   employee.Service
}

func NewAttendanceHandler(attendanceService attendance.Service, employeeService employee.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		employeeService:   employeeService,
	}
}

// clockRequest is what the kiosk sends: exactly one credential.
type clockRequest struct {
	PIN   string `json:"pin,omitempty"`
	NFCID string `json:"nfc_id,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type clockResponse struct {
	attendance.TapResult
	EmployeeName string `json:"employee_name"`
}

// Clock implements AttendanceHandler. The caller never states a direction;
// the tap's action comes out of the response.
func (h *attendanceHandlerImpl) Clock(w http.ResponseWriter, r *http.Request) {
	var req clockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	emp, source, err := h.resolveEmployee(r, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.RecordTap(r.Context(), attendance.TapRequest{
		EmployeeID: emp.EmployeeID,
		Source:     source,
		Notes:      req.Notes,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, clockResponse{TapResult: result, EmployeeName: emp.Name})
}

// KioskStatus implements AttendanceHandler. POST because the PIN must not
// appear in query strings or access logs.
func (h *attendanceHandlerImpl) KioskStatus(w http.ResponseWriter, r *http.Request) {
	var req clockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	emp, _, err := h.resolveEmployee(r, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.attendanceService.GetCurrentStatus(r.Context(), emp.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// Status implements AttendanceHandler. Manager view of any employee's day.
func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	if _, err := h.employeeService.ResolveByCode(r.Context(), employeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.attendanceService.GetCurrentStatus(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// ListSummaries implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListSummaries(w http.ResponseWriter, r *http.Request) {
	filter := attendance.SummaryFilter{
		EmployeeID: r.URL.Query().Get("employee_id"),
	}

	if from := r.URL.Query().Get("date_from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			response.BadRequest(w, "date_from must be in YYYY-MM-DD format", nil)
			return
		}
		filter.DateFrom = &parsed
	}
	if to := r.URL.Query().Get("date_to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			response.BadRequest(w, "date_to must be in YYYY-MM-DD format", nil)
			return
		}
		filter.DateTo = &parsed
	}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.attendanceService.ListSummaries(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Summaries, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages(result.TotalCount, result.Limit),
	})
}

// ManualEdit implements AttendanceHandler.
func (h *attendanceHandlerImpl) ManualEdit(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.SummaryID = chi.URLParam(r, "summaryID")
	req.EditorID = middleware.EditorID(r)

	result, err := h.attendanceService.ApplyManualEdit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet corrected", result)
}

// ManualEntry implements AttendanceHandler.
func (h *attendanceHandlerImpl) ManualEntry(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EditorID = middleware.EditorID(r)

	result, err := h.attendanceService.CreateManualEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Timesheet entry created", result)
}

// ListEdits implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListEdits(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	edits, total, err := h.attendanceService.ListEdits(r.Context(), page, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, edits, &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages(total, limit),
	})
}

func (h *attendanceHandlerImpl) resolveEmployee(r *http.Request, req clockRequest) (employee.Employee, attendance.TapSource, error) {
	switch {
	case req.PIN != "":
		emp, err := h.employeeService.ResolveByPIN(r.Context(), req.PIN)
		return emp, attendance.SourcePIN, err
	case req.NFCID != "":
		emp, err := h.employeeService.ResolveByNFC(r.Context(), req.NFCID)
		return emp, attendance.SourceNFC, err
	default:
		return employee.Employee{}, "", employee.ErrInvalidPIN
	}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
