package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/export"
	"github.com/noah-isme/sis-api/pkg/rollup"
	"github.com/noah-isme/sis-api/pkg/storage"
)

type reportsStub struct {
	err error
}

func (r reportsStub) Students(context.Context) ([]dto.StudentReport, error) {
	return []dto.StudentReport{
		{StudentNumber: "S-001", Name: "Ada", Semester: 3, EnrolledCourses: 2, Attendance: rollup.AttendanceStats{Percentage: 80}, Fees: rollup.FeeStats{Total: 400, Unpaid: 100}},
		{StudentNumber: "S-002", Name: "Bo", Semester: 5},
	}, r.err
}

func (r reportsStub) Teachers(context.Context) ([]dto.TeacherReport, error) {
	return []dto.TeacherReport{{TeacherNumber: "T-001", Name: "Grace", Courses: 2, Students: 30}}, r.err
}

type feeListStub []models.FeeDetail

func (f feeListStub) List(context.Context, string) ([]models.FeeDetail, error) { return f, nil }

func newExportServiceForTest(t *testing.T) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	due := models.NewDate(2024, time.September, 1)
	fees := feeListStub{
		{Fee: models.Fee{Amount: 250, Semester: "3", Status: models.FeePaid, DueDate: due}, StudentName: "Ada"},
		{Fee: models.Fee{Amount: 120.5, Semester: "3", Status: models.FeeUnpaid, DueDate: due}, StudentName: "Bo"},
	}
	return NewExportService(reportsStub{}, fees, store, signer, nil, ExportConfig{APIPrefix: "/api/v1/"}, zap.NewNop())
}

func readExport(t *testing.T, svc *ExportService, relPath string) string {
	t.Helper()
	f, err := svc.Open(relPath)
	require.NoError(t, err)
	defer f.Close()
	raw, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(raw)
}

func TestExportServiceGenerateStudentsCSVFiltersSemester(t *testing.T) {
	svc := newExportServiceForTest(t)
	job := &models.ReportJob{ID: "job-1", Type: models.ReportTypeStudents, Params: models.ReportJobParams{Format: "csv", Semester: "3"}}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, result.Format)
	assert.True(t, strings.HasPrefix(result.RelativePath, "students_job-1_"))
	assert.True(t, strings.HasSuffix(result.RelativePath, ".csv"))

	body := readExport(t, svc, result.RelativePath)
	assert.Contains(t, body, "S-001,Ada")
	assert.Contains(t, body, "400.00,100.00")
	assert.NotContains(t, body, "S-002")
}

func TestExportServiceGenerateFeesFiltersStatus(t *testing.T) {
	svc := newExportServiceForTest(t)
	job := &models.ReportJob{ID: "job-2", Type: models.ReportTypeFees, Params: models.ReportJobParams{Format: "csv", Status: "Unpaid"}}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	body := readExport(t, svc, result.RelativePath)
	assert.Contains(t, body, "Bo,,3,,120.50,Unpaid,2024-09-01")
	assert.NotContains(t, body, "Ada")
}

func TestExportServiceGenerateBinaryFormats(t *testing.T) {
	svc := newExportServiceForTest(t)
	for _, format := range []string{"pdf", "xlsx"} {
		job := &models.ReportJob{ID: "job-" + format, Type: models.ReportTypeTeachers, Params: models.ReportJobParams{Format: format}}
		result, err := svc.Generate(context.Background(), job)
		require.NoError(t, err, format)
		assert.NotEmpty(t, readExport(t, svc, result.RelativePath), format)
	}
}

func TestExportServiceGenerateRejectsUnknownFormat(t *testing.T) {
	svc := newExportServiceForTest(t)
	job := &models.ReportJob{ID: "job-3", Type: models.ReportTypeTeachers, Params: models.ReportJobParams{Format: "docx"}}

	_, err := svc.Generate(context.Background(), job)
	assert.Error(t, err)
}

func TestExportServiceLinkRoundTrip(t *testing.T) {
	svc := newExportServiceForTest(t)

	link, err := svc.Link("job-1", "students_job-1.csv")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/exports/download/"+link.Token, link.URL)

	claims, err := svc.ParseToken(link.Token)
	require.NoError(t, err)
	assert.Equal(t, "job-1", claims.JobID)
	assert.Equal(t, "students_job-1.csv", claims.Path)

	_, err = svc.ParseToken(link.Token + "x")
	assert.ErrorIs(t, err, storage.ErrInvalidToken)
}
