package service

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type timetableRepository interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableDetail, error)
	FindByID(ctx context.Context, id string) (*models.TimetableDetail, error)
	Create(ctx context.Context, slot *models.TimetableSlot) error
	Update(ctx context.Context, slot *models.TimetableSlot) error
	Delete(ctx context.Context, id string) error
}

type enrolledCourseLister interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Course, error)
}

// TimetableRequest is the admin payload for a weekly slot. TeacherUserID is
// the teacher's user id.
type TimetableRequest struct {
	CourseID      string `json:"course_id" validate:"required,uuid"`
	TeacherUserID string `json:"teacher_id" validate:"required,uuid"`
	Day           string `json:"day" validate:"required,weekday"`
	StartTime     string `json:"startTime" validate:"required,clock"`
	EndTime       string `json:"endTime" validate:"required,clock"`
	Room          string `json:"room" validate:"required,max=64"`
	Semester      int    `json:"semester" validate:"required,min=1,max=12"`
}

// TimetableService manages the weekly class timetable.
type TimetableService struct {
	repo      timetableRepository
	courses   enrolledCourseLister
	teachers  courseTeacherReader
	students  studentLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(repo timetableRepository, courses enrolledCourseLister, teachers courseTeacherReader, students studentLookup, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &TimetableService{
		repo:      repo,
		courses:   courses,
		teachers:  teachers,
		students:  students,
		validator: validate,
		logger:    logger,
	}
}

// List returns every slot in weekday order.
func (s *TimetableService) List(ctx context.Context) ([]models.TimetableDetail, error) {
	return s.list(ctx, models.TimetableFilter{})
}

// Create adds a slot.
func (s *TimetableService) Create(ctx context.Context, req TimetableRequest) (*models.TimetableDetail, error) {
	slot, err := s.slotFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, appErrors.Internal(err, "failed to create timetable entry")
	}
	return s.get(ctx, slot.ID)
}

// Update replaces a slot.
func (s *TimetableService) Update(ctx context.Context, id string, req TimetableRequest) (*models.TimetableDetail, error) {
	slot, err := s.slotFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	slot.ID = id
	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, lookupError(err, "timetable entry not found", "failed to update timetable entry")
	}
	return s.get(ctx, id)
}

// Delete removes a slot.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "timetable entry not found", "failed to delete timetable entry")
	}
	return nil
}

// ForTeacher returns the slots taught by the teacher behind userID.
func (s *TimetableService) ForTeacher(ctx context.Context, userID string) ([]models.TimetableDetail, error) {
	teacher, err := s.teachers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "teacher profile not found", "failed to load teacher profile")
	}
	return s.list(ctx, models.TimetableFilter{TeacherID: teacher.ID})
}

// ForStudent returns the slots of the student's enrolled courses in the
// student's current semester.
func (s *TimetableService) ForStudent(ctx context.Context, userID string) ([]models.TimetableDetail, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "student profile not found", "failed to load student profile")
	}
	courses, err := s.courses.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load enrolled courses")
	}
	if len(courses) == 0 {
		return []models.TimetableDetail{}, nil
	}
	ids := make([]string, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	semester := student.Semester
	return s.list(ctx, models.TimetableFilter{CourseIDs: ids, Semester: &semester})
}

func (s *TimetableService) slotFromRequest(ctx context.Context, req TimetableRequest) (*models.TimetableSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid timetable payload")
	}
	if req.EndTime <= req.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endTime must be after startTime")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		return nil, lookupError(err, "course not found", "failed to load course")
	}
	teacher, err := s.teachers.FindByUserID(ctx, req.TeacherUserID)
	if err != nil {
		return nil, lookupError(err, "teacher not found", "failed to load teacher")
	}
	return &models.TimetableSlot{
		CourseID:  req.CourseID,
		TeacherID: teacher.ID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
		Semester:  req.Semester,
	}, nil
}

func (s *TimetableService) get(ctx context.Context, id string) (*models.TimetableDetail, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "timetable entry not found", "failed to load timetable entry")
	}
	return slot, nil
}

func (s *TimetableService) list(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableDetail, error) {
	slots, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list timetable")
	}
	sortSlots(slots)
	return nonNil(slots), nil
}

// sortSlots orders by weekday then start time. HH:MM strings sort
// lexically.
func sortSlots(slots []models.TimetableDetail) {
	sort.SliceStable(slots, func(i, j int) bool {
		di, dj := models.WeekdayIndex(slots[i].Day), models.WeekdayIndex(slots[j].Day)
		if di != dj {
			return di < dj
		}
		return slots[i].StartTime < slots[j].StartTime
	})
}
