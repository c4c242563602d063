package til

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/domain/employee"
	"github.com/cinetrack/attendance-backend-go/internal/domain/til"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTILRepo struct {
	records map[string]*til.Record
	nextID  int
}

func newFakeTILRepo() *fakeTILRepo {
	return &fakeTILRepo{records: make(map[string]*til.Record)}
}

func (r *fakeTILRepo) Create(_ context.Context, record til.Record) (til.Record, error) {
	r.nextID++
	record.ID = fmt.Sprintf("til-%d", r.nextID)
	record.CreatedAt = time.Now().UTC()
	copied := record
	r.records[record.ID] = &copied
	return record, nil
}

func (r *fakeTILRepo) GetByIDForUpdate(_ context.Context, id string) (til.Record, error) {
	if record, ok := r.records[id]; ok {
		return *record, nil
	}
	return til.Record{}, til.ErrRecordNotFound
}

func (r *fakeTILRepo) UpdateDecision(_ context.Context, record til.Record) error {
	if _, ok := r.records[record.ID]; !ok {
		return til.ErrRecordNotFound
	}
	copied := record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeTILRepo) ListByEmployee(_ context.Context, employeeID string) ([]til.Record, error) {
	var out []til.Record
	for _, record := range r.records {
		if record.EmployeeID == employeeID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (r *fakeTILRepo) ListPending(_ context.Context) ([]til.Record, error) {
	var out []til.Record
	for _, record := range r.records {
		if record.Status == til.StatusPending {
			out = append(out, *record)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	known map[string]bool
}

func (r *fakeEmployeeRepo) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, _ string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetByEmployeeID(_ context.Context, employeeID string) (employee.Employee, error) {
	if r.known[employeeID] {
		return employee.Employee{EmployeeID: employeeID, IsActive: true}, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetByPIN(_ context.Context, _ string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetByNFC(_ context.Context, _ string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, _ employee.Employee) error { return nil }

func (r *fakeEmployeeRepo) Deactivate(_ context.Context, _ string) error { return nil }

func newTestService(blockNegative bool) (til.Service, *fakeTILRepo) {
	repo := newFakeTILRepo()
	employees := &fakeEmployeeRepo{known: map[string]bool{"EMP100": true}}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return NewTILService(nil, clock.Fixed(now), repo, employees, blockNegative), repo
}

func request(t *testing.T, svc til.Service, tilType til.Type, hours float64) til.RecordResponse {
	t.Helper()
	resp, err := svc.Request(context.Background(), til.RequestTILRequest{
		EmployeeID: "EMP100",
		Type:       tilType,
		Hours:      hours,
		Date:       "2025-03-10",
		Reason:     "worked the festival shutdown",
	})
	require.NoError(t, err)
	return resp
}

func TestTILService_Request_OvertimeCreditTiers(t *testing.T) {
	svc, _ := newTestService(false)

	tests := []struct {
		worked   float64
		expected float64
	}{
		{2, 3.0},   // fully inside the time-and-a-half tier
		{3, 4.5},   // exactly at the tier boundary
		{4, 6.5},   // 3h at 1.5x plus 1h at 2x
		{5, 8.5},   // 3h at 1.5x plus 2h at 2x
		{0.5, 0.75},
	}
	for _, tc := range tests {
		resp := request(t, svc, til.TypeEarnedOvertime, tc.worked)
		assert.InDelta(t, tc.expected, resp.Hours, 0.001, "worked %.1fh", tc.worked)
		assert.Equal(t, til.StatusPending, resp.Status)
	}
}

func TestTILService_Request_NonOvertimeHoursStoredVerbatim(t *testing.T) {
	svc, _ := newTestService(false)

	early := request(t, svc, til.TypeEarnedEarlyStart, 1.5)
	assert.InDelta(t, 1.5, early.Hours, 0.001)

	used := request(t, svc, til.TypeUsed, 4.0)
	assert.InDelta(t, 4.0, used.Hours, 0.001)
}

func TestTILService_Request_UnknownEmployee(t *testing.T) {
	svc, _ := newTestService(false)

	_, err := svc.Request(context.Background(), til.RequestTILRequest{
		EmployeeID: "EMP999",
		Type:       til.TypeUsed,
		Hours:      1,
		Date:       "2025-03-10",
		Reason:     "day off",
	})

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestTILService_Approve_TransitionsOnce(t *testing.T) {
	svc, _ := newTestService(false)
	created := request(t, svc, til.TypeEarnedOvertime, 2)

	approved, err := svc.Approve(context.Background(), created.ID, "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, til.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApproverID)
	assert.Equal(t, "mgr-1", *approved.ApproverID)
	assert.NotNil(t, approved.ApprovedAt)

	_, err = svc.Approve(context.Background(), created.ID, "mgr-2")
	assert.ErrorIs(t, err, til.ErrAlreadyProcessed)
}

func TestTILService_Reject_TerminalAndKeepsReason(t *testing.T) {
	svc, _ := newTestService(false)
	created := request(t, svc, til.TypeUsed, 2)

	rejected, err := svc.Reject(context.Background(), til.RejectTILRequest{
		RecordID:   created.ID,
		ApproverID: "mgr-1",
		Reason:     "blackout period, no leave",
	})
	require.NoError(t, err)
	assert.Equal(t, til.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "blackout period, no leave", *rejected.RejectionReason)

	// A rejected record cannot be approved afterwards.
	_, err = svc.Approve(context.Background(), created.ID, "mgr-2")
	assert.ErrorIs(t, err, til.ErrAlreadyProcessed)
}

func TestTILService_GetBalance_ReplaysApprovedOnly(t *testing.T) {
	svc, _ := newTestService(false)

	earned := request(t, svc, til.TypeEarnedOvertime, 4) // credits 6.5
	used := request(t, svc, til.TypeUsed, 2)
	request(t, svc, til.TypeEarnedOvertime, 5) // stays pending, must not count

	_, err := svc.Approve(context.Background(), earned.ID, "mgr-1")
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), used.ID, "mgr-1")
	require.NoError(t, err)

	balance, err := svc.GetBalance(context.Background(), "EMP100")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, balance.CurrentBalance, 0.001)
	assert.InDelta(t, 6.5, balance.EarnedHours, 0.001)
	assert.InDelta(t, 2.0, balance.UsedHours, 0.001)
}

func TestTILService_GetBalance_AdjustmentsAreSigned(t *testing.T) {
	svc, repo := newTestService(false)

	adj, err := svc.Request(context.Background(), til.RequestTILRequest{
		EmployeeID: "EMP100",
		Type:       til.TypeAdjusted,
		Hours:      -1.5,
		Date:       "2025-03-10",
		Reason:     "correcting a double credit",
	})
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), adj.ID, "mgr-1")
	require.NoError(t, err)

	balance, err := svc.GetBalance(context.Background(), "EMP100")
	require.NoError(t, err)
	assert.InDelta(t, -1.5, balance.CurrentBalance, 0.001)
	assert.InDelta(t, -1.5, balance.AdjustedHours, 0.001)

	// Balance is pure replay: mutate the ledger and it follows.
	for _, record := range repo.records {
		record.Hours = 3.0
	}
	balance, err = svc.GetBalance(context.Background(), "EMP100")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, balance.CurrentBalance, 0.001)
}

func TestTILService_Approve_BlocksOverdraw(t *testing.T) {
	svc, _ := newTestService(true)

	earned := request(t, svc, til.TypeEarnedOvertime, 2) // credits 3.0
	_, err := svc.Approve(context.Background(), earned.ID, "mgr-1")
	require.NoError(t, err)

	over := request(t, svc, til.TypeUsed, 4)
	_, err = svc.Approve(context.Background(), over.ID, "mgr-1")
	assert.ErrorIs(t, err, til.ErrInsufficientBalance)

	within := request(t, svc, til.TypeUsed, 3)
	_, err = svc.Approve(context.Background(), within.ID, "mgr-1")
	assert.NoError(t, err)
}

func TestTILService_Approve_OverdrawAllowedByDefault(t *testing.T) {
	svc, _ := newTestService(false)

	used := request(t, svc, til.TypeUsed, 8)
	_, err := svc.Approve(context.Background(), used.ID, "mgr-1")
	require.NoError(t, err)

	balance, err := svc.GetBalance(context.Background(), "EMP100")
	require.NoError(t, err)
	assert.InDelta(t, -8.0, balance.CurrentBalance, 0.001)
}

func TestTILService_ListPending(t *testing.T) {
	svc, _ := newTestService(false)

	request(t, svc, til.TypeEarnedOvertime, 2)
	approved := request(t, svc, til.TypeEarnedOvertime, 3)
	_, err := svc.Approve(context.Background(), approved.ID, "mgr-1")
	require.NoError(t, err)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, til.StatusPending, pending[0].Status)
}

func TestCreditForOvertime_Boundaries(t *testing.T) {
	assert.Zero(t, til.CreditForOvertime(0))
	assert.Zero(t, til.CreditForOvertime(-1))
	assert.InDelta(t, 4.5, til.CreditForOvertime(3), 0.001)
	assert.InDelta(t, 4.52, til.CreditForOvertime(3.01), 0.001)
}
