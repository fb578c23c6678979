package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/services"
	"classtrack_go/utils"
)

type BehaviorController struct{}

type CreateBehaviorRequest struct {
	StudentID   uint   `json:"student_id" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=positive negative"`
	Category    string `json:"category" validate:"max=100"`
	Description string `json:"description" validate:"max=500"`
	Points      int    `json:"points"`
	Date        string `json:"date"`
}

// GetBehaviors lists owned behavior records.
func (bc *BehaviorController) GetBehaviors(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := database.DB.Model(&models.Behavior{}).Where("teacher_id = ?", teacher.ID)

	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if bType := c.Query("type"); bType != "" {
		query = query.Where("type = ?", bType)
	}
	if startDate := c.Query("start_date"); startDate != "" {
		query = query.Where("date >= ?", startDate)
	}
	if endDate := c.Query("end_date"); endDate != "" {
		query = query.Where("date <= ?", endDate)
	}

	var behaviors []models.Behavior
	if err := query.Preload("Student").Order("date DESC").Find(&behaviors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch behaviors",
		})
	}

	return c.JSON(fiber.Map{
		"behaviors": behaviors,
	})
}

// CreateBehavior records an incident. Negative incidents carry negative
// points; the sign is normalized from the type.
func (bc *BehaviorController) CreateBehavior(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req CreateBehaviorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var student models.Student
	if err := database.DB.Where("id = ? AND teacher_id = ?", req.StudentID, teacher.ID).
		First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid date format, expected YYYY-MM-DD",
			})
		}
		date = parsed
	}

	points := req.Points
	if req.Type == "negative" && points > 0 {
		points = -points
	}
	if req.Type == "positive" && points < 0 {
		points = -points
	}

	behavior := models.Behavior{
		TeacherID:   teacher.ID,
		ClassID:     student.ClassID,
		StudentID:   req.StudentID,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Points:      points,
		Date:        date,
	}

	if err := database.DB.Create(&behavior).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record behavior",
		})
	}

	middleware.LogActivity(c, "CREATE", "behaviors", behavior.ID, behavior)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Behavior recorded successfully",
		"behavior": behavior,
	})
}

// DeleteBehavior removes an owned incident.
func (bc *BehaviorController) DeleteBehavior(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid behavior ID",
		})
	}

	var behavior models.Behavior
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&behavior).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Behavior record not found",
		})
	}

	if err := database.DB.Delete(&behavior).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete behavior",
		})
	}

	middleware.LogActivity(c, "DELETE", "behaviors", behavior.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Behavior deleted successfully",
	})
}

// GetStudentBehaviorSummary returns incident counts, the signed point sum
// and the behavior score for one student.
func (bc *BehaviorController) GetStudentBehaviorSummary(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	studentID, err := strconv.ParseUint(c.Params("studentId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(studentID), teacher.ID).
		First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var row struct {
		Positive    int
		Negative    int
		TotalPoints int
	}
	err = database.DB.Model(&models.Behavior{}).
		Select(`SUM(CASE WHEN type = 'positive' THEN 1 ELSE 0 END) AS positive,
			SUM(CASE WHEN type = 'negative' THEN 1 ELSE 0 END) AS negative,
			COALESCE(SUM(points), 0) AS total_points`).
		Where("student_id = ? AND teacher_id = ?", student.ID, teacher.ID).
		Scan(&row).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute behavior summary",
		})
	}

	return c.JSON(fiber.Map{
		"student_id":         student.ID,
		"positive_behaviors": row.Positive,
		"negative_behaviors": row.Negative,
		"total_points":       row.TotalPoints,
		"behavior_score":     services.BehaviorScore(row.Positive, row.Negative),
	})
}
