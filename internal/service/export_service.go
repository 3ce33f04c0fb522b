package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/export"
	"github.com/noah-isme/sis-api/pkg/storage"
)

type reportSource interface {
	Students(ctx context.Context) ([]dto.StudentReport, error)
	Teachers(ctx context.Context) ([]dto.TeacherReport, error)
}

type feeDetailLister interface {
	List(ctx context.Context, studentID string) ([]models.FeeDetail, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(format export.Format, data export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Format       export.Format
}

// DownloadLink is a signed, expiring URL for a finished export.
type DownloadLink struct {
	URL       string
	Token     string
	ExpiresAt time.Time
}

// ExportService builds report datasets and persists rendered files.
type ExportService struct {
	reports  reportSource
	fees     feeDetailLister
	storage  fileStorage
	renderer datasetRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
	now      func() time.Time
}

// NewExportService constructs an ExportService. A nil renderer falls back to
// the csv, pdf and xlsx registry.
func NewExportService(reports reportSource, fees feeDetailLister, store fileStorage, signer *storage.SignedURLSigner, renderer datasetRenderer, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if renderer == nil {
		renderer = export.NewRegistry()
	}
	return &ExportService{
		reports:  reports,
		fees:     fees,
		storage:  store,
		renderer: renderer,
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Generate builds the dataset for the job, renders it and stores the file.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	format, err := export.ParseFormat(job.Params.Format)
	if err != nil {
		return nil, err
	}
	dataset, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}
	payload, err := s.renderer.Render(format, dataset)
	if err != nil {
		return nil, err
	}
	relPath, err := s.storage.Save(s.buildFilename(job, format), payload)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("export rendered", zap.String("job_id", job.ID), zap.String("path", relPath), zap.Int("bytes", len(payload)))
	return &ExportResult{RelativePath: relPath, Format: format}, nil
}

// Link signs a download URL for a stored export.
func (s *ExportService) Link(jobID, relPath string) (*DownloadLink, error) {
	token, expiresAt, err := s.signer.Generate(jobID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api"
	}
	return &DownloadLink{
		URL:       fmt.Sprintf("%s/exports/download/%s", prefix, token),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ParseToken validates a download token.
func (s *ExportService) ParseToken(token string) (storage.Claims, error) {
	return s.signer.Verify(token)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl, or the configured ResultTTL when
// ttl is not positive.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob, format export.Format) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s%s", job.Type, sanitizeFilename(job.ID), timestamp, format.Extension())
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, error) {
	switch job.Type {
	case models.ReportTypeStudents:
		return s.buildStudentDataset(ctx, job.Params)
	case models.ReportTypeTeachers:
		return s.buildTeacherDataset(ctx)
	case models.ReportTypeFees:
		return s.buildFeeDataset(ctx, job.Params)
	default:
		return export.Dataset{}, fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildStudentDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, error) {
	reports, err := s.reports.Students(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	headers := []string{"Student ID", "Name", "Email", "Department", "Semester", "Section", "Courses", "Attendance (%)", "Results", "Fees Total", "Fees Unpaid"}
	rows := make([]map[string]string, 0, len(reports))
	for _, r := range reports {
		semester := strconv.Itoa(r.Semester)
		if params.Semester != "" && params.Semester != semester {
			continue
		}
		rows = append(rows, map[string]string{
			"Student ID":     r.StudentNumber,
			"Name":           r.Name,
			"Email":          r.Email,
			"Department":     r.Department,
			"Semester":       semester,
			"Section":        r.Section,
			"Courses":        strconv.Itoa(r.EnrolledCourses),
			"Attendance (%)": strconv.Itoa(r.Attendance.Percentage),
			"Results":        strconv.Itoa(r.ResultsCount),
			"Fees Total":     formatAmount(r.Fees.Total),
			"Fees Unpaid":    formatAmount(r.Fees.Unpaid),
		})
	}
	return export.Dataset{Title: titleWithSemester("Student Report", params.Semester), Headers: headers, Rows: rows}, nil
}

func (s *ExportService) buildTeacherDataset(ctx context.Context) (export.Dataset, error) {
	reports, err := s.reports.Teachers(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	headers := []string{"Teacher ID", "Name", "Email", "Department", "Courses", "Students"}
	rows := make([]map[string]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, map[string]string{
			"Teacher ID": r.TeacherNumber,
			"Name":       r.Name,
			"Email":      r.Email,
			"Department": r.Department,
			"Courses":    strconv.Itoa(r.Courses),
			"Students":   strconv.Itoa(r.Students),
		})
	}
	return export.Dataset{Title: "Teacher Report", Headers: headers, Rows: rows}, nil
}

func (s *ExportService) buildFeeDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, error) {
	fees, err := s.fees.List(ctx, "")
	if err != nil {
		return export.Dataset{}, err
	}
	headers := []string{"Student", "Email", "Semester", "Description", "Amount", "Status", "Due Date"}
	rows := make([]map[string]string, 0, len(fees))
	for _, f := range fees {
		if params.Semester != "" && params.Semester != f.Semester {
			continue
		}
		if params.Status != "" && params.Status != string(f.Status) {
			continue
		}
		rows = append(rows, map[string]string{
			"Student":     f.StudentName,
			"Email":       f.StudentEmail,
			"Semester":    f.Semester,
			"Description": f.Description,
			"Amount":      formatAmount(f.Amount),
			"Status":      string(f.Status),
			"Due Date":    f.DueDate.String(),
		})
	}
	return export.Dataset{Title: titleWithSemester("Fee Report", params.Semester), Headers: headers, Rows: rows}, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func titleWithSemester(title, semester string) string {
	if semester == "" {
		return title
	}
	return fmt.Sprintf("%s Semester %s", title, semester)
}
