package service

import (
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sis-api/internal/models"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// NewValidator returns a validator with the domain tags registered:
// attendance_status, fee_status, leave_decision, audience, priority, weekday
// and clock (HH:MM, 24h). models.Date fields validate as times, so required
// rejects a missing day.
func NewValidator() *validator.Validate {
	v := validator.New()
	registerValidators(v)
	return v
}

func registerValidators(v *validator.Validate) {
	_ = v.RegisterValidation("attendance_status", oneOf(
		string(models.AttendancePresent), string(models.AttendanceAbsent), string(models.AttendanceLeave)))
	_ = v.RegisterValidation("fee_status", oneOf(string(models.FeePaid), string(models.FeeUnpaid)))
	_ = v.RegisterValidation("leave_decision", oneOf(string(models.LeaveApproved), string(models.LeaveRejected)))
	_ = v.RegisterValidation("audience", oneOf(
		string(models.AudienceAll), string(models.AudienceStudents), string(models.AudienceTeachers)))
	_ = v.RegisterValidation("priority", oneOf(
		string(models.PriorityLow), string(models.PriorityMedium), string(models.PriorityHigh)))
	_ = v.RegisterValidation("weekday", oneOf(models.Weekdays...))
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(models.Date); ok {
			return d.Time()
		}
		return nil
	}, models.Date{})
}

func oneOf(values ...string) validator.Func {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := allowed[fl.Field().String()]
		return ok
	}
}
