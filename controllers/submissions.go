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

type SubmissionController struct{}

type CreateSubmissionRequest struct {
	AssignmentID uint        `json:"assignment_id" validate:"required"`
	StudentID    uint        `json:"student_id" validate:"required"`
	Content      string      `json:"content"`
	Attachments  models.JSON `json:"attachments"`
	SubmittedAt  *time.Time  `json:"submitted_at"`
}

// GetSubmissions lists owned submissions by assignment or student.
func (suc *SubmissionController) GetSubmissions(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := database.DB.Model(&models.Submission{}).Where("teacher_id = ?", teacher.ID)

	if assignmentID := c.Query("assignment_id"); assignmentID != "" {
		query = query.Where("assignment_id = ?", assignmentID)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var submissions []models.Submission
	if err := query.Preload("Student").Preload("Assignment").
		Order("submitted_at DESC").Find(&submissions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch submissions",
		})
	}

	return c.JSON(fiber.Map{
		"submissions": submissions,
	})
}

// CreateSubmission records a hand-in. Lateness is derived from the
// assignment's due date at submission time.
func (suc *SubmissionController) CreateSubmission(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req CreateSubmissionRequest
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

	var assignment models.Assignment
	if err := database.DB.Where("id = ? AND teacher_id = ?", req.AssignmentID, teacher.ID).
		First(&assignment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	submittedAt := time.Now()
	if req.SubmittedAt != nil {
		submittedAt = *req.SubmittedAt
	}

	var existing models.Submission
	if err := database.DB.Where("assignment_id = ? AND student_id = ?", req.AssignmentID, req.StudentID).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Submission already exists for this student and assignment",
		})
	}

	submission := models.Submission{
		TeacherID:    teacher.ID,
		AssignmentID: req.AssignmentID,
		StudentID:    req.StudentID,
		Content:      req.Content,
		Attachments:  req.Attachments,
		SubmittedAt:  submittedAt,
		Late:         assignment.DueDate != nil && submittedAt.After(*assignment.DueDate),
		Status:       "submitted",
		Attempt:      1,
	}

	if err := database.DB.Create(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create submission",
		})
	}

	middleware.LogActivity(c, "CREATE", "submissions", submission.ID, submission)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Submission created successfully",
		"submission": submission,
	})
}

// UpdateSubmission edits content or status of an owned submission.
func (suc *SubmissionController) UpdateSubmission(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var submission models.Submission
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&submission).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Submission not found",
		})
	}

	var updateData struct {
		Content *string `json:"content"`
		Status  *string `json:"status" validate:"omitempty,oneof=draft submitted graded returned"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := utils.ValidateStruct(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	updates := map[string]interface{}{}
	if updateData.Content != nil {
		updates["content"] = *updateData.Content
	}
	if updateData.Status != nil {
		updates["status"] = *updateData.Status
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&submission).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update submission",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "submissions", submission.ID, updates)

	return c.JSON(fiber.Map{
		"message":    "Submission updated successfully",
		"submission": submission,
	})
}

// DeleteSubmission removes an owned submission.
func (suc *SubmissionController) DeleteSubmission(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var submission models.Submission
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&submission).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Submission not found",
		})
	}

	if err := database.DB.Delete(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete submission",
		})
	}

	middleware.LogActivity(c, "DELETE", "submissions", submission.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Submission deleted successfully",
	})
}
