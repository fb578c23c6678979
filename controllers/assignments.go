package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/utils"
)

type AssignmentController struct{}

type CreateAssignmentRequest struct {
	ClassID      uint       `json:"class_id" validate:"required"`
	Title        string     `json:"title" validate:"required,max=255"`
	Description  string     `json:"description"`
	Type         string     `json:"type" validate:"required,oneof=homework quiz exam project participation lab presentation essay research practical"`
	MaxScore     float64    `json:"max_score" validate:"required,gt=0"`
	Weight       float64    `json:"weight" validate:"required,gt=0,max=100"`
	DueDate      *time.Time `json:"due_date"`
	Published    bool       `json:"published"`
	Instructions string     `json:"instructions"`
}

// GetAssignments lists owned assignments, optionally by class.
func (asc *AssignmentController) GetAssignments(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := database.DB.Model(&models.Assignment{}).Where("teacher_id = ?", teacher.ID)

	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	if aType := c.Query("type"); aType != "" {
		query = query.Where("type = ?", aType)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var assignments []models.Assignment
	if err := query.Order("created_at DESC").Find(&assignments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch assignments",
		})
	}

	return c.JSON(fiber.Map{
		"assignments": assignments,
	})
}

// GetAssignment returns one owned assignment.
func (asc *AssignmentController) GetAssignment(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assignment ID",
		})
	}

	var assignment models.Assignment
	if err := database.DB.Preload("Class").
		Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&assignment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	return c.JSON(fiber.Map{
		"assignment": assignment,
	})
}

// CreateAssignment creates an assignment in an owned class.
func (asc *AssignmentController) CreateAssignment(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req CreateAssignmentRequest
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

	var class models.Class
	if err := database.DB.Where("id = ? AND teacher_id = ?", req.ClassID, teacher.ID).
		First(&class).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	status := "draft"
	if req.Published {
		status = "published"
	}

	assignment := models.Assignment{
		TeacherID:    teacher.ID,
		ClassID:      req.ClassID,
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		MaxScore:     req.MaxScore,
		Weight:       req.Weight,
		DueDate:      req.DueDate,
		AssignedAt:   time.Now(),
		Published:    req.Published,
		Instructions: req.Instructions,
		Status:       status,
	}

	if err := database.DB.Create(&assignment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create assignment",
		})
	}

	middleware.LogActivity(c, "CREATE", "assignments", assignment.ID, assignment)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Assignment created successfully",
		"assignment": assignment,
	})
}

// UpdateAssignment applies a partial update. Changing MaxScore does not
// touch existing grade percentages.
func (asc *AssignmentController) UpdateAssignment(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assignment ID",
		})
	}

	var assignment models.Assignment
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&assignment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	var updateData models.Assignment
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updateData.TeacherID = assignment.TeacherID
	updateData.ClassID = assignment.ClassID

	if err := database.DB.Model(&assignment).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update assignment",
		})
	}

	middleware.LogActivity(c, "UPDATE", "assignments", assignment.ID, updateData)

	return c.JSON(fiber.Map{
		"message":    "Assignment updated successfully",
		"assignment": assignment,
	})
}

// DeleteAssignment removes an owned assignment.
func (asc *AssignmentController) DeleteAssignment(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assignment ID",
		})
	}

	var assignment models.Assignment
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&assignment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	if err := database.DB.Delete(&assignment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete assignment",
		})
	}

	middleware.LogActivity(c, "DELETE", "assignments", assignment.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Assignment deleted successfully",
	})
}
