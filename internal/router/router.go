// Package router assembles the gin engine and its role scoped route groups.
package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/handler"
	"github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sis-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sis-api/pkg/middleware/requestid"
)

// Handlers bundles every HTTP handler. Export and Realtime are nil when the
// feature is disabled.
type Handlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Profiles      *handler.ProfileHandler
	Courses       *handler.CourseHandler
	Attendance    *handler.AttendanceHandler
	Results       *handler.ResultHandler
	Fees          *handler.FeeHandler
	Leave         *handler.LeaveHandler
	Notifications *handler.NotificationHandler
	Announcements *handler.AnnouncementHandler
	Timetable     *handler.TimetableHandler
	Messages      *handler.MessageHandler
	Analytics     *handler.AnalyticsHandler
	Dashboard     *handler.DashboardHandler
	Reports       *handler.ReportHandler
	Exports       *handler.ExportHandler
	Metrics       *handler.MetricsHandler
	Realtime      *handler.RealtimeHandler
}

// Options carries the cross cutting dependencies of the engine.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	Tokens         middleware.TokenValidator
	Audit          middleware.AuditWriter
	Metrics        *service.MetricsService
	Logger         *zap.Logger
}

// New builds the engine with the middleware chain and every route.
func New(h Handlers, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Timing())
	r.Use(middleware.Metrics(opts.Metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(opts.APIPrefix, "/")
	if prefix == "/" {
		prefix = "/api"
	}
	api := r.Group(prefix)
	authed := middleware.JWT(opts.Tokens)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(opts.Audit, opts.Logger, action, resource)
	}

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", authed, h.Auth.Logout)
	auth.POST("/change-password", authed, h.Auth.ChangePassword)
	auth.GET("/me", authed, h.Auth.Me)

	if h.Exports != nil {
		// The signed token is the credential for downloads.
		api.GET("/exports/download/:token", h.Exports.Download)
	}

	common := api.Group("", authed)
	common.GET("/announcements", h.Announcements.Feed)
	if h.Realtime != nil {
		common.GET("/ws", h.Realtime.Connect)
	}

	notifications := common.Group("/notifications")
	notifications.GET("", h.Notifications.List)
	notifications.PUT("/mark-all-read", h.Notifications.MarkAllRead)
	notifications.PUT("/:id/read", h.Notifications.MarkRead)
	notifications.DELETE("/:id", h.Notifications.Delete)

	messages := common.Group("/messages")
	messages.POST("", h.Messages.Send)
	messages.GET("/inbox", h.Messages.Inbox)
	messages.GET("/sent", h.Messages.Sent)
	messages.GET("/users/search", h.Messages.SearchUsers)
	messages.GET("/:id", h.Messages.Get)
	messages.PUT("/:id/read", h.Messages.MarkRead)
	messages.DELETE("/:id", h.Messages.Delete)

	admin := api.Group("/admin", authed, middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/dashboard", h.Dashboard.Admin)
	admin.GET("/users", h.Users.List)
	admin.POST("/users", h.Users.Create)
	admin.DELETE("/users/:id", h.Users.Delete)
	admin.GET("/courses", h.Courses.List)
	admin.POST("/courses", h.Courses.Create)
	admin.DELETE("/courses/:id", h.Courses.Delete)
	admin.POST("/assign-course", h.Courses.Assign)
	admin.GET("/attendance", h.Attendance.List)
	admin.GET("/fees", h.Fees.List)
	admin.POST("/fees", h.Fees.Create)
	admin.PUT("/fees/:id", h.Fees.UpdateStatus)
	admin.DELETE("/fees/:id", h.Fees.Delete)
	admin.GET("/timetable", h.Timetable.List)
	admin.POST("/timetable", audit(models.AuditActionTimetableEdit, "timetable"), h.Timetable.Create)
	admin.PUT("/timetable/:id", audit(models.AuditActionTimetableEdit, "timetable"), h.Timetable.Update)
	admin.DELETE("/timetable/:id", audit(models.AuditActionTimetableEdit, "timetable"), h.Timetable.Delete)
	admin.GET("/announcements", h.Announcements.List)
	admin.POST("/announcements", h.Announcements.Create)
	admin.PUT("/announcements/:id", h.Announcements.Update)
	admin.DELETE("/announcements/:id", h.Announcements.Delete)
	admin.GET("/leave-requests", h.Leave.List)
	admin.PUT("/leave-requests/:id", h.Leave.Review)
	admin.GET("/reports/teachers", h.Reports.Teachers)
	admin.GET("/reports/students", h.Reports.Students)
	admin.GET("/analytics/attendance", h.Analytics.Attendance)
	admin.GET("/analytics/performance", h.Analytics.Performance)
	admin.GET("/analytics/fees", h.Analytics.Fees)
	admin.GET("/analytics/system", h.Analytics.System)
	if h.Exports != nil {
		admin.POST("/exports", audit(models.AuditActionExportCreate, "export"), h.Exports.Create)
		admin.GET("/exports/:id", h.Exports.Status)
	}

	teacher := api.Group("/teacher", authed, middleware.RequireRoles(models.RoleTeacher))
	teacher.GET("/dashboard", h.Dashboard.Teacher)
	teacher.GET("/courses", h.Courses.Mine)
	teacher.GET("/enrolled-students/:courseId", h.Courses.EnrolledStudents)
	teacher.POST("/attendance", h.Attendance.Mark)
	teacher.POST("/results", h.Results.Submit)
	teacher.GET("/results/:courseId", h.Results.ForCourse)
	teacher.GET("/timetable", h.Timetable.Teacher)
	teacher.GET("/profile", h.Profiles.Teacher)
	teacher.PUT("/profile", audit(models.AuditActionProfileUpdate, "teacher_profile"), h.Profiles.UpdateTeacher)

	student := api.Group("/student", authed, middleware.RequireRoles(models.RoleStudent))
	student.GET("/dashboard", h.Dashboard.Student)
	student.GET("/attendance", h.Attendance.Mine)
	student.GET("/results", h.Results.Mine)
	student.GET("/fees", h.Fees.Mine)
	student.GET("/timetable", h.Timetable.Student)
	student.GET("/analytics", h.Analytics.Student)
	student.GET("/profile", h.Profiles.Student)
	student.PUT("/profile", audit(models.AuditActionProfileUpdate, "student_profile"), h.Profiles.UpdateStudent)
	student.POST("/leave-request", h.Leave.Submit)
	student.GET("/leave-requests", h.Leave.Mine)

	return r
}
