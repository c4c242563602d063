package til

import (
	"context"
	"fmt"
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/domain/employee"
	"github.com/cinetrack/attendance-backend-go/internal/domain/til"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/clock"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/database"
	"github.com/cinetrack/attendance-backend-go/internal/repository/postgresql"
)

type TILServiceImpl struct {
	db        *database.DB
	clock     clock.Clock
	records   til.Repository
	employees employee.Repository

	// blockNegativeBalance rejects approval of a USED request that would
	// overdraw the employee's balance.
	blockNegativeBalance bool
}

func NewTILService(
	db *database.DB,
	clk clock.Clock,
	recordRepo til.Repository,
	employeeRepo employee.Repository,
	blockNegativeBalance bool,
) til.Service {
	return &TILServiceImpl{
		db:                   db,
		clock:                clk,
		records:              recordRepo,
		employees:            employeeRepo,
		blockNegativeBalance: blockNegativeBalance,
	}
}

func (s *TILServiceImpl) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

// Request implements til.Service. Worked overtime hours are converted to
// ledger credit here, so approvers always see the credited figure.
func (s *TILServiceImpl) Request(ctx context.Context, req til.RequestTILRequest) (til.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return til.RecordResponse{}, err
	}

	if _, err := s.employees.GetByEmployeeID(ctx, req.EmployeeID); err != nil {
		return til.RecordResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	hours := req.Hours
	if req.Type == til.TypeEarnedOvertime {
		hours = til.CreditForOvertime(req.Hours)
	}

	record, err := s.records.Create(ctx, til.Record{
		EmployeeID: req.EmployeeID,
		Type:       req.Type,
		Hours:      hours,
		Date:       date,
		Reason:     req.Reason,
		Status:     til.StatusPending,
	})
	if err != nil {
		return til.RecordResponse{}, fmt.Errorf("failed to create TIL record: %w", err)
	}

	return toRecordResponse(record), nil
}

// Approve implements til.Service. The PENDING check happens under a row lock
// so two approvers cannot both win.
func (s *TILServiceImpl) Approve(ctx context.Context, recordID, approverID string) (til.RecordResponse, error) {
	var response til.RecordResponse
	err := s.inTx(ctx, func(ctx context.Context) error {
		record, err := s.records.GetByIDForUpdate(ctx, recordID)
		if err != nil {
			return err
		}
		if record.Status != til.StatusPending {
			return til.ErrAlreadyProcessed
		}

		if s.blockNegativeBalance && record.Type == til.TypeUsed {
			balance, err := s.balanceOf(ctx, record.EmployeeID)
			if err != nil {
				return err
			}
			if balance.CurrentBalance < record.Hours {
				return til.ErrInsufficientBalance
			}
		}

		now := s.clock.Now()
		record.Status = til.StatusApproved
		record.ApproverID = &approverID
		record.ApprovedAt = &now

		if err := s.records.UpdateDecision(ctx, record); err != nil {
			return err
		}

		response = toRecordResponse(record)
		return nil
	})
	if err != nil {
		return til.RecordResponse{}, err
	}

	return response, nil
}

// Reject implements til.Service.
func (s *TILServiceImpl) Reject(ctx context.Context, req til.RejectTILRequest) (til.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return til.RecordResponse{}, err
	}

	var response til.RecordResponse
	err := s.inTx(ctx, func(ctx context.Context) error {
		record, err := s.records.GetByIDForUpdate(ctx, req.RecordID)
		if err != nil {
			return err
		}
		if record.Status != til.StatusPending {
			return til.ErrAlreadyProcessed
		}

		now := s.clock.Now()
		record.Status = til.StatusRejected
		record.ApproverID = &req.ApproverID
		record.ApprovedAt = &now
		record.RejectionReason = &req.Reason

		if err := s.records.UpdateDecision(ctx, record); err != nil {
			return err
		}

		response = toRecordResponse(record)
		return nil
	})
	if err != nil {
		return til.RecordResponse{}, err
	}

	return response, nil
}

// GetBalance implements til.Service.
func (s *TILServiceImpl) GetBalance(ctx context.Context, employeeID string) (til.Balance, error) {
	if _, err := s.employees.GetByEmployeeID(ctx, employeeID); err != nil {
		return til.Balance{}, err
	}
	return s.balanceOf(ctx, employeeID)
}

// balanceOf replays every APPROVED record for the employee.
func (s *TILServiceImpl) balanceOf(ctx context.Context, employeeID string) (til.Balance, error) {
	records, err := s.records.ListByEmployee(ctx, employeeID)
	if err != nil {
		return til.Balance{}, fmt.Errorf("failed to list TIL records: %w", err)
	}

	balance := til.Balance{EmployeeID: employeeID}
	for _, record := range records {
		if record.Status != til.StatusApproved {
			continue
		}
		balance.CurrentBalance += record.Signed()
		switch record.Type {
		case til.TypeUsed:
			balance.UsedHours += record.Hours
		case til.TypeAdjusted:
			balance.AdjustedHours += record.Hours
		default:
			balance.EarnedHours += record.Hours
		}
	}

	return balance, nil
}

// ListByEmployee implements til.Service.
func (s *TILServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]til.RecordResponse, error) {
	records, err := s.records.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toRecordResponses(records), nil
}

// ListPending implements til.Service.
func (s *TILServiceImpl) ListPending(ctx context.Context) ([]til.RecordResponse, error) {
	records, err := s.records.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return toRecordResponses(records), nil
}

func toRecordResponses(records []til.Record) []til.RecordResponse {
	responses := make([]til.RecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toRecordResponse(record))
	}
	return responses
}

func toRecordResponse(record til.Record) til.RecordResponse {
	resp := til.RecordResponse{
		ID:              record.ID,
		EmployeeID:      record.EmployeeID,
		Type:            record.Type,
		Hours:           record.Hours,
		Date:            record.Date.Format("2006-01-02"),
		Reason:          record.Reason,
		Status:          record.Status,
		ApproverID:      record.ApproverID,
		RejectionReason: record.RejectionReason,
	}
	if record.ApprovedAt != nil {
		formatted := record.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &formatted
	}
	return resp
}
