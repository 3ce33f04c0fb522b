package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/database"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type studentProfileCreator interface {
	Create(ctx context.Context, student *models.Student) error
}

type teacherProfileCreator interface {
	Create(ctx context.Context, teacher *models.Teacher) error
}

// CreateUserRequest represents payload for creating users. Profile fields
// apply to the role being created.
type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"required,oneof=admin teacher student"`

	StudentNumber  string `json:"student_id" validate:"required_if=Role student"`
	TeacherNumber  string `json:"teacher_id" validate:"required_if=Role teacher"`
	Department     string `json:"department"`
	Semester       int    `json:"semester" validate:"omitempty,min=1,max=12"`
	Section        string `json:"section"`
	RollNumber     string `json:"roll_number"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	GuardianName   string `json:"guardian_name"`
	GuardianPhone  string `json:"guardian_phone"`
	Qualification  string `json:"qualification"`
	Specialization string `json:"specialization"`
}

// UserService handles user management workflows.
type UserService struct {
	repo      userRepository
	students  studentProfileCreator
	teachers  teacherProfileCreator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, students studentProfileCreator, teachers teacherProfileCreator, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &UserService{repo: repo, students: students, teachers: teachers, validator: validate, logger: logger}
}

// List returns paginated users and pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown role filter")
	}
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list users")
	}
	return users, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user not found", "failed to load user")
	}
	return user, nil
}

// Create adds a new user and, for students and teachers, their profile. If
// the profile cannot be stored the user row is removed again.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest, actorID string, meta RequestMeta) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid create user payload")
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "user already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to check email uniqueness")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(req.Email),
		FullName:     req.Name,
		Role:         req.Role,
		Active:       true,
		PasswordHash: string(passwordHash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "user already exists")
		}
		return nil, appErrors.Internal(err, "failed to create user")
	}

	if err := s.createProfile(ctx, user, req); err != nil {
		if delErr := s.repo.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("failed to remove user after profile error", zap.String("user_id", user.ID), zap.Error(delErr))
		}
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "profile number already exists")
		}
		return nil, appErrors.Internal(err, "failed to create profile")
	}

	recordAudit(ctx, s.repo, s.logger, actorID, models.AuditActionUserCreate, "users", user.ID,
		map[string]interface{}{"email": user.Email, "role": user.Role}, meta)

	return user, nil
}

func (s *UserService) createProfile(ctx context.Context, user *models.User, req CreateUserRequest) error {
	contact := models.ContactInfo{Phone: optional(req.Phone), Address: optional(req.Address)}
	switch user.Role {
	case models.RoleStudent:
		semester := req.Semester
		if semester == 0 {
			semester = 1
		}
		return s.students.Create(ctx, &models.Student{
			UserID:        user.ID,
			StudentNumber: req.StudentNumber,
			Department:    req.Department,
			Semester:      semester,
			Section:       req.Section,
			RollNumber:    req.RollNumber,
			ContactInfo:   contact,
			GuardianName:  optional(req.GuardianName),
			GuardianPhone: optional(req.GuardianPhone),
		})
	case models.RoleTeacher:
		return s.teachers.Create(ctx, &models.Teacher{
			UserID:         user.ID,
			TeacherNumber:  req.TeacherNumber,
			Department:     req.Department,
			ContactInfo:    contact,
			Qualification:  optional(req.Qualification),
			Specialization: optional(req.Specialization),
		})
	}
	return nil
}

// Delete removes a user. The profile and owned rows go with it.
func (s *UserService) Delete(ctx context.Context, id string, actorID string, meta RequestMeta) error {
	if id == actorID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete your own account")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "user not found", "failed to load user")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "user not found", "failed to delete user")
	}

	recordAudit(ctx, s.repo, s.logger, actorID, models.AuditActionUserDelete, "users", user.ID,
		map[string]interface{}{"email": user.Email, "role": user.Role}, meta)
	return nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
