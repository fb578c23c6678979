package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/services"
	"classtrack_go/utils"
)

type AnalyticsController struct{}

func (anc *AnalyticsController) buildScope(c *fiber.Ctx, teacherID uint) (services.AnalyticsScope, error) {
	scope := services.AnalyticsScope{
		TeacherID: teacherID,
		Type:      c.Query("type", "comprehensive"),
		Period:    c.Query("period", "monthly"),
	}

	if classID := c.Query("class_id"); classID != "" {
		id, err := strconv.ParseUint(classID, 10, 32)
		if err != nil {
			return scope, fiber.NewError(fiber.StatusBadRequest, "Invalid class ID")
		}
		var class models.Class
		if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacherID).
			First(&class).Error; err != nil {
			return scope, fiber.NewError(fiber.StatusNotFound, "Class not found")
		}
		u := uint(id)
		scope.ClassID = &u
	}

	if studentID := c.Query("student_id"); studentID != "" {
		id, err := strconv.ParseUint(studentID, 10, 32)
		if err != nil {
			return scope, fiber.NewError(fiber.StatusBadRequest, "Invalid student ID")
		}
		var student models.Student
		if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacherID).
			First(&student).Error; err != nil {
			return scope, fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		u := uint(id)
		scope.StudentID = &u
	}

	if !utils.IsValidAnalyticsType(scope.Type) {
		return scope, fiber.NewError(fiber.StatusBadRequest, "Invalid analytics type")
	}
	if !utils.IsValidAnalyticsPeriod(scope.Period) {
		return scope, fiber.NewError(fiber.StatusBadRequest, "Invalid analytics period")
	}

	return scope, nil
}

// GetAnalytics returns cached analytics rows for the scope, generating them
// on first read.
func (anc *AnalyticsController) GetAnalytics(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	scope, err := anc.buildScope(c, teacher.ID)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	analyticsService := services.NewAnalyticsService()
	rows, err := analyticsService.Fetch(scope)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch analytics",
		})
	}

	return c.JSON(fiber.Map{
		"analytics": rows,
		"type":      scope.Type,
		"period":    scope.Period,
	})
}

// RegenerateAnalytics recomputes the scope's buckets and appends them.
func (anc *AnalyticsController) RegenerateAnalytics(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	scope, err := anc.buildScope(c, teacher.ID)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	analyticsService := services.NewAnalyticsService()
	rows, err := analyticsService.Regenerate(scope)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to regenerate analytics",
		})
	}

	middleware.LogActivity(c, "CREATE", "analytics", 0, fiber.Map{
		"type":   scope.Type,
		"period": scope.Period,
	})

	return c.JSON(fiber.Map{
		"message":   "Analytics regenerated successfully",
		"analytics": rows,
	})
}
