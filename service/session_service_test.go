package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/payslip-verification/dto"
	"github.com/Aashish23092/payslip-verification/store"
)

func newTestSessionService(t *testing.T) *SessionService {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewSessionService(s, nil, time.Hour, nil)
}

func TestSessionCompareFlow(t *testing.T) {
	svc := newTestSessionService(t)
	ctx := context.Background()

	session, err := svc.Create(ctx)
	require.NoError(t, err)
	_, err = uuid.Parse(session.ID)
	assert.NoError(t, err)
	assert.False(t, ReadyToCompare(session))

	_, err = svc.Compare(ctx, session.ID)
	assert.ErrorIs(t, err, dto.ErrIncompleteSession)

	session, err = svc.SavePayslip(ctx, session.ID, mockPayslip())
	require.NoError(t, err)
	assert.False(t, ReadyToCompare(session))

	session, err = svc.SaveContract(ctx, session.ID, dto.ContractBaseline{EmployeeName: "Max Mustermann", HourlyRate: 21.88})
	require.NoError(t, err)
	assert.True(t, ReadyToCompare(session))
	assert.Equal(t, 3500.8, session.Contract.ExpectedGrossSalary)

	result, err := svc.Compare(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Max Mustermann", result.PayslipData.EmployeeName)
	assert.Equal(t, dto.StatusWarning, result.OverallStatus)

	require.NoError(t, svc.Delete(ctx, session.ID))
	_, err = svc.Get(ctx, session.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionRejectsInvalidContract(t *testing.T) {
	svc := newTestSessionService(t)
	ctx := context.Background()

	session, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.SaveContract(ctx, session.ID, dto.ContractBaseline{HourlyRate: 20})
	assert.ErrorIs(t, err, dto.ErrMissingEmployeeName)
}

func TestSessionUnknownID(t *testing.T) {
	svc := newTestSessionService(t)
	ctx := context.Background()

	_, err := svc.SavePayslip(ctx, "missing", mockPayslip())
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.Compare(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), store.ErrNotFound)
}

func TestSessionPurgeExpired(t *testing.T) {
	svc := newTestSessionService(t)
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	svc.now = func() time.Time { return start }
	old, err := svc.Create(ctx)
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(90 * time.Minute) }
	fresh, err := svc.Create(ctx)
	require.NoError(t, err)

	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.Get(ctx, old.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestStartPurgeJob(t *testing.T) {
	svc := newTestSessionService(t)

	_, err := svc.StartPurgeJob("not a schedule")
	assert.Error(t, err)

	c, err := svc.StartPurgeJob("")
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)
	c.Stop()
}
