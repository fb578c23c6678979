package routes

import (
	"github.com/gofiber/fiber/v2"

	"classtrack_go/controllers"
	"classtrack_go/middleware"
)

// SetupRoutes registers the whole API surface.
func SetupRoutes(app *fiber.App) {
	authController := &controllers.AuthController{}
	classController := &controllers.ClassController{}
	studentController := &controllers.StudentController{}
	attendanceController := &controllers.AttendanceController{}
	assignmentController := &controllers.AssignmentController{}
	gradeController := &controllers.GradeController{}
	behaviorController := &controllers.BehaviorController{}
	activityController := &controllers.ActivityController{}
	scheduleController := &controllers.ScheduleController{}
	messageController := &controllers.MessageController{}
	templateController := &controllers.TemplateController{}
	submissionController := &controllers.SubmissionController{}
	notificationController := &controllers.NotificationController{}
	reportController := &controllers.ReportController{}
	analyticsController := &controllers.AnalyticsController{}
	logController := &controllers.LogController{}
	healthController := &controllers.HealthController{}
	wsController := &controllers.WebSocketController{}

	app.Get("/health", healthController.Health)

	// Realtime notifications; token auth happens in the upgrade check.
	app.Get("/ws", wsController.UpgradeCheck, wsController.Handle())

	api := app.Group("/api")

	// Public
	auth := api.Group("/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)

	// Everything below requires a valid token
	protected := api.Group("", middleware.JWTMiddleware())

	protected.Post("/auth/logout", authController.Logout)

	profile := protected.Group("/profile")
	profile.Get("/", authController.GetProfile)
	profile.Put("/", authController.UpdateProfile)
	profile.Put("/password", authController.ChangePassword)
	profile.Put("/preferences", authController.UpdatePreferences)
	profile.Put("/settings", authController.UpdateSettings)
	profile.Post("/avatar", authController.UploadAvatar)

	classes := protected.Group("/classes")
	classes.Get("/", classController.GetClasses)
	classes.Post("/", classController.CreateClass)
	classes.Get("/:id", classController.GetClass)
	classes.Put("/:id", classController.UpdateClass)
	classes.Delete("/:id", classController.DeleteClass)

	students := protected.Group("/students")
	students.Get("/", studentController.GetStudents)
	students.Post("/", studentController.CreateStudent)
	students.Get("/:id", studentController.GetStudent)
	students.Put("/:id", studentController.UpdateStudent)
	students.Delete("/:id", studentController.DeleteStudent)

	attendance := protected.Group("/attendance")
	attendance.Get("/", attendanceController.GetAttendance)
	attendance.Post("/", attendanceController.CreateAttendance)
	attendance.Put("/:id", attendanceController.UpdateAttendance)
	attendance.Delete("/:id", attendanceController.DeleteAttendance)

	assignments := protected.Group("/assignments")
	assignments.Get("/", assignmentController.GetAssignments)
	assignments.Post("/", assignmentController.CreateAssignment)
	assignments.Get("/:id", assignmentController.GetAssignment)
	assignments.Put("/:id", assignmentController.UpdateAssignment)
	assignments.Delete("/:id", assignmentController.DeleteAssignment)

	grades := protected.Group("/grades")
	grades.Get("/", gradeController.GetGrades)
	grades.Post("/", gradeController.CreateGrade)
	grades.Put("/:id", gradeController.UpdateGrade)
	grades.Delete("/:id", gradeController.DeleteGrade)

	gradebook := protected.Group("/gradebook")
	gradebook.Get("/class/:classId", gradeController.GetClassGradebook)
	gradebook.Get("/student/:studentId", gradeController.GetStudentAverage)

	behaviors := protected.Group("/behaviors")
	behaviors.Get("/", behaviorController.GetBehaviors)
	behaviors.Post("/", behaviorController.CreateBehavior)
	behaviors.Delete("/:id", behaviorController.DeleteBehavior)
	behaviors.Get("/student/:studentId/summary", behaviorController.GetStudentBehaviorSummary)

	activities := protected.Group("/activities")
	activities.Get("/", activityController.GetActivities)
	activities.Post("/", activityController.CreateActivity)
	activities.Put("/:id", activityController.UpdateActivity)
	activities.Delete("/:id", activityController.DeleteActivity)

	schedules := protected.Group("/schedules")
	schedules.Get("/", scheduleController.GetSchedules)
	schedules.Post("/", scheduleController.CreateSchedule)
	schedules.Put("/:id", scheduleController.UpdateSchedule)
	schedules.Delete("/:id", scheduleController.DeleteSchedule)

	messages := protected.Group("/messages")
	messages.Get("/", messageController.GetMessages)
	messages.Post("/", messageController.CreateMessage)
	messages.Put("/:id", messageController.UpdateMessage)
	messages.Delete("/:id", messageController.DeleteMessage)

	templates := protected.Group("/templates")
	templates.Get("/", templateController.GetTemplates)
	templates.Post("/", templateController.CreateTemplate)
	templates.Post("/:id/use", templateController.UseTemplate)
	templates.Put("/:id", templateController.UpdateTemplate)
	templates.Delete("/:id", templateController.DeleteTemplate)

	submissions := protected.Group("/submissions")
	submissions.Get("/", submissionController.GetSubmissions)
	submissions.Post("/", submissionController.CreateSubmission)
	submissions.Put("/:id", submissionController.UpdateSubmission)
	submissions.Delete("/:id", submissionController.DeleteSubmission)

	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Patch("/mark-all-read", notificationController.MarkAllRead)
	notifications.Patch("/:id/read", notificationController.MarkRead)
	notifications.Delete("/:id", notificationController.DeleteNotification)

	reports := protected.Group("/reports")
	reports.Get("/", reportController.GetReports)
	reports.Post("/", reportController.CreateReport)
	reports.Get("/:id", reportController.GetReport)
	reports.Put("/:id", reportController.UpdateReport)
	reports.Post("/:id/regenerate", reportController.RegenerateReport)
	reports.Get("/:id/export", reportController.ExportReport)
	reports.Delete("/:id", reportController.DeleteReport)

	analytics := protected.Group("/analytics")
	analytics.Get("/", analyticsController.GetAnalytics)
	analytics.Post("/", analyticsController.RegenerateAnalytics)

	logs := protected.Group("/logs")
	logs.Get("/", logController.GetLogs)
	logs.Get("/stats", logController.GetLogStats)
	logs.Post("/flush", logController.FlushLogs)

	// 404 fallback
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
