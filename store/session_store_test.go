package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/payslip-verification/dto"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sessions-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateSession(ctx, "s1", created))

	session, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", session.ID)
	assert.True(t, session.CreatedAt.Equal(created))
	assert.Nil(t, session.Payslip)
	assert.Nil(t, session.Contract)

	rate := 21.88
	record := dto.PayslipRecord{
		EmployeeName: "Max Mustermann",
		Period:       "November 2024",
		WorkHours:    dto.NewWorkHours(160, 8),
		Salary:       dto.Salary{Gross: 3500, Net: 2245.5, HourlyRate: &rate},
		Provenance:   map[string]dto.Provenance{dto.FieldGross: dto.ProvenanceExtracted},
	}
	updated := created.Add(time.Hour)
	require.NoError(t, s.SavePayslip(ctx, "s1", record, updated))

	contract := dto.ContractBaseline{EmployeeName: "Max Mustermann", HourlyRate: 21.88, MonthlyHours: 160, TaxClass: "I"}
	require.NoError(t, s.SaveContract(ctx, "s1", contract, updated))

	session, err = s.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, session.Payslip)
	require.NotNil(t, session.Contract)
	assert.Equal(t, record, *session.Payslip)
	assert.Equal(t, contract, *session.Contract)
	assert.True(t, session.UpdatedAt.Equal(updated))

	require.NoError(t, s.DeleteSession(ctx, "s1"))
	_, err = s.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveReplacesDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.CreateSession(ctx, "s1", now))
	require.NoError(t, s.SaveContract(ctx, "s1", dto.ContractBaseline{EmployeeName: "A", HourlyRate: 15}, now))
	require.NoError(t, s.SaveContract(ctx, "s1", dto.ContractBaseline{EmployeeName: "B", HourlyRate: 16}, now))

	session, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "B", session.Contract.EmployeeName)
}

func TestUnknownSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.SavePayslip(ctx, "missing", dto.PayslipRecord{}, time.Now()), ErrNotFound)
	assert.ErrorIs(t, s.DeleteSession(ctx, "missing"), ErrNotFound)
}

func TestPurgeBefore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateSession(ctx, "old", base))
	require.NoError(t, s.SaveContract(ctx, "old", dto.ContractBaseline{EmployeeName: "A"}, base))
	require.NoError(t, s.CreateSession(ctx, "fresh", base.Add(48*time.Hour)))

	n, err := s.PurgeBefore(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.GetSession(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetSession(ctx, "fresh")
	assert.NoError(t, err)

	var orphans int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM session_documents WHERE session_id = 'old'`).Scan(&orphans))
	assert.Zero(t, orphans)
}
