package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/rollup"
)

type mockFeeRepo struct {
	fees      map[string]*models.Fee
	createErr error
}

func newMockFeeRepo() *mockFeeRepo {
	return &mockFeeRepo{fees: map[string]*models.Fee{}}
}

func (m *mockFeeRepo) Create(ctx context.Context, fee *models.Fee) error {
	if m.createErr != nil {
		return m.createErr
	}
	copy := *fee
	m.fees[fee.ID] = &copy
	return nil
}

func (m *mockFeeRepo) FindByID(ctx context.Context, id string) (*models.Fee, error) {
	if f, ok := m.fees[id]; ok {
		copy := *f
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFeeRepo) List(ctx context.Context, studentID string) ([]models.FeeDetail, error) {
	var out []models.FeeDetail
	for _, f := range m.fees {
		out = append(out, models.FeeDetail{Fee: *f})
	}
	return out, nil
}

func (m *mockFeeRepo) All(ctx context.Context, studentID string) ([]models.Fee, error) {
	var out []models.Fee
	for _, f := range m.fees {
		if studentID == "" || f.StudentID == studentID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *mockFeeRepo) UpdateStatus(ctx context.Context, id string, status models.FeeStatus) error {
	f, ok := m.fees[id]
	if !ok {
		return sql.ErrNoRows
	}
	f.Status = status
	return nil
}

func (m *mockFeeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.fees[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.fees, id)
	return nil
}

const fxStudentUserID = "3c2b1a09-8f7e-4d6c-9b5a-4e3d2c1b0a04"

func newFeeFixture() (*FeeService, *mockFeeRepo, *mockAudit, *memoryCacheRepo) {
	repo := newMockFeeRepo()
	students := newMockStudentRepo(models.StudentDetail{Student: models.Student{ID: fxStudentID, UserID: fxStudentUserID}})
	audit := &mockAudit{}
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	return NewFeeService(repo, students, audit, cache, nil, nil), repo, audit, cacheRepo
}

func TestFeeServiceCreateResolvesStudentProfile(t *testing.T) {
	svc, repo, _, cacheRepo := newFeeFixture()
	due := models.NewDate(2024, time.September, 1)

	fee, err := svc.Create(context.Background(), CreateFeeRequest{
		StudentUserID: fxStudentUserID, Amount: 1500, Semester: "Fall 2024", DueDate: due,
	})
	require.NoError(t, err)
	assert.Equal(t, fxStudentID, fee.StudentID)
	assert.Equal(t, models.FeeUnpaid, fee.Status)
	assert.Len(t, repo.fees, 1)
	assert.NotEmpty(t, cacheRepo.patterns)

	_, err = svc.Create(context.Background(), CreateFeeRequest{
		StudentUserID: fxStudentID, Amount: 10, Semester: "Fall 2024", DueDate: due,
	})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Create(context.Background(), CreateFeeRequest{
		StudentUserID: fxStudentUserID, Amount: -5, Semester: "Fall 2024", DueDate: due,
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestFeeServiceCreateAcceptsDateOnlyDueDate(t *testing.T) {
	svc, _, _, _ := newFeeFixture()
	var req CreateFeeRequest
	payload := `{"student_id":"` + fxStudentUserID + `","amount":200,"semester":"Fall 2024","due_date":"2024-09-01"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	fee, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2024-09-01", fee.DueDate.String())
}

func TestFeeServiceCreateMapsVanishedStudentToNotFound(t *testing.T) {
	svc, repo, _, _ := newFeeFixture()
	repo.createErr = &pq.Error{Code: "23503", Constraint: "fees_student_id_fkey"}

	_, err := svc.Create(context.Background(), CreateFeeRequest{
		StudentUserID: fxStudentUserID, Amount: 100, Semester: "Fall 2024", DueDate: models.NewDate(2024, time.September, 1),
	})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	repo.createErr = &pq.Error{Code: "08006"}
	_, err = svc.Create(context.Background(), CreateFeeRequest{
		StudentUserID: fxStudentUserID, Amount: 100, Semester: "Fall 2024", DueDate: models.NewDate(2024, time.September, 1),
	})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestFeeServiceUpdateStatus(t *testing.T) {
	svc, repo, audit, _ := newFeeFixture()
	repo.fees["f1"] = &models.Fee{ID: "f1", StudentID: fxStudentID, Amount: 100, Status: models.FeeUnpaid}

	fee, err := svc.UpdateStatus(context.Background(), "f1", UpdateFeeStatusRequest{Status: models.FeePaid}, "admin", RequestMeta{IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, models.FeePaid, fee.Status)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionFeeStatus, audit.logs[0].Action)
	assert.Equal(t, "10.0.0.1", audit.logs[0].IPAddress)

	_, err = svc.UpdateStatus(context.Background(), "missing", UpdateFeeStatusRequest{Status: models.FeePaid}, "admin", RequestMeta{})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.UpdateStatus(context.Background(), "f1", UpdateFeeStatusRequest{Status: "Waived"}, "admin", RequestMeta{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	require.NoError(t, svc.Delete(context.Background(), "f1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "f1"), appErrors.ErrNotFound)
}

func TestFeeServiceForStudentSummary(t *testing.T) {
	svc, repo, _, _ := newFeeFixture()
	repo.fees["f1"] = &models.Fee{ID: "f1", StudentID: fxStudentID, Amount: 300, Status: models.FeePaid}
	repo.fees["f2"] = &models.Fee{ID: "f2", StudentID: fxStudentID, Amount: 200, Status: models.FeeUnpaid}
	repo.fees["f3"] = &models.Fee{ID: "f3", StudentID: "someone-else", Amount: 999, Status: models.FeeUnpaid}

	result, err := svc.ForStudent(context.Background(), fxStudentUserID)
	require.NoError(t, err)
	assert.Len(t, result.Fees, 2)
	assert.Equal(t, 500.0, result.Summary.Total)
	assert.Equal(t, 200.0, result.Summary.Unpaid)
	assert.Equal(t, rollup.FeePending, result.Summary.Status)
}
