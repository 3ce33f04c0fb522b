package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/rollup"
)

// RequestMeta carries client details recorded in the audit trail.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// lookupError maps a repository read failure to NotFound or Internal.
func lookupError(err error, notFound, failed string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Internal(err, failed)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// recordAudit writes an audit entry. Failures are logged and swallowed.
func recordAudit(ctx context.Context, w auditWriter, logger *zap.Logger, actorID, action, resource, resourceID string, values interface{}, meta RequestMeta) {
	if w == nil {
		return
	}
	payload, _ := json.Marshal(values)
	entry := &models.AuditLog{
		Action:    action,
		Resource:  resource,
		NewValues: payload,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	}
	if actorID != "" {
		entry.UserID = &actorID
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if err := w.CreateAuditLog(ctx, entry); err != nil {
		logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}

func attendanceStatuses(marks []models.AttendanceMark) []string {
	out := make([]string, len(marks))
	for i, m := range marks {
		out[i] = string(m.Status)
	}
	return out
}

func courseMarks(marks []models.AttendanceMark) []rollup.Mark {
	out := make([]rollup.Mark, len(marks))
	for i, m := range marks {
		out[i] = rollup.Mark{Course: m.CourseName, Status: string(m.Status)}
	}
	return out
}

func feeRows(fees []models.Fee) []rollup.Fee {
	out := make([]rollup.Fee, len(fees))
	for i, f := range fees {
		out[i] = rollup.Fee{Amount: f.Amount, Status: string(f.Status), CreatedAt: f.CreatedAt}
	}
	return out
}

func gradedRows(results []models.GradedResult) []rollup.Graded {
	out := make([]rollup.Graded, len(results))
	for i, r := range results {
		out[i] = rollup.Graded{Course: r.CourseName, Grade: r.Grade, GPA: r.GPA}
	}
	return out
}

func gpaValues(results []models.GradedResult) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.GPA
	}
	return out
}
