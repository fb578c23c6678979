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

type GradeController struct{}

type CreateGradeRequest struct {
	StudentID    uint    `json:"student_id" validate:"required"`
	AssignmentID uint    `json:"assignment_id" validate:"required"`
	Score        float64 `json:"score" validate:"min=0"`
	Notes        string  `json:"notes" validate:"max=500"`
}

// GetGrades lists owned grades filtered by class, student or assignment.
func (gc *GradeController) GetGrades(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := database.DB.Model(&models.Grade{}).Where("teacher_id = ?", teacher.ID)

	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if assignmentID := c.Query("assignment_id"); assignmentID != "" {
		query = query.Where("assignment_id = ?", assignmentID)
	}

	var grades []models.Grade
	if err := query.Preload("Student").Preload("Assignment").
		Order("graded_at DESC").Find(&grades).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch grades",
		})
	}

	return c.JSON(fiber.Map{
		"grades": grades,
	})
}

// CreateGrade records a score for a student on an assignment. The stored
// percentage is computed here, once, against the assignment's max score at
// grading time.
func (gc *GradeController) CreateGrade(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req CreateGradeRequest
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

	if req.Score > assignment.MaxScore {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Score cannot exceed the assignment's max score",
		})
	}

	var existing models.Grade
	if err := database.DB.Where("student_id = ? AND assignment_id = ?", req.StudentID, req.AssignmentID).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Grade already exists for this student and assignment",
		})
	}

	grade := models.Grade{
		TeacherID:    teacher.ID,
		ClassID:      assignment.ClassID,
		StudentID:    req.StudentID,
		AssignmentID: req.AssignmentID,
		Score:        req.Score,
		MaxScore:     assignment.MaxScore,
		Percentage:   req.Score / assignment.MaxScore * 100,
		Notes:        req.Notes,
		GradedAt:     time.Now(),
	}

	if err := database.DB.Create(&grade).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create grade",
		})
	}

	middleware.LogActivity(c, "CREATE", "grades", grade.ID, grade)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Grade created successfully",
		"grade":   grade,
	})
}

// UpdateGrade changes a score; the percentage is recomputed against the
// grade's own stored max score, not the assignment's current one.
func (gc *GradeController) UpdateGrade(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid grade ID",
		})
	}

	var grade models.Grade
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&grade).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Grade not found",
		})
	}

	var updateData struct {
		Score *float64 `json:"score" validate:"omitempty,min=0"`
		Notes *string  `json:"notes" validate:"omitempty,max=500"`
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
	if updateData.Score != nil {
		if *updateData.Score > grade.MaxScore {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Score cannot exceed the assignment's max score",
			})
		}
		updates["score"] = *updateData.Score
		updates["percentage"] = *updateData.Score / grade.MaxScore * 100
		updates["graded_at"] = time.Now()
	}
	if updateData.Notes != nil {
		updates["notes"] = *updateData.Notes
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&grade).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update grade",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "grades", grade.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Grade updated successfully",
		"grade":   grade,
	})
}

// DeleteGrade removes an owned grade.
func (gc *GradeController) DeleteGrade(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid grade ID",
		})
	}

	var grade models.Grade
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&grade).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Grade not found",
		})
	}

	if err := database.DB.Delete(&grade).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete grade",
		})
	}

	middleware.LogActivity(c, "DELETE", "grades", grade.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Grade deleted successfully",
	})
}

// GetClassGradebook returns weighted per-student averages plus class-level
// stats for an owned class.
func (gc *GradeController) GetClassGradebook(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	classID, err := strconv.ParseUint(c.Params("classId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.Class
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(classID), teacher.ID).
		First(&class).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	gradebook := services.NewGradebookService()
	averages, stats, err := gradebook.ClassSummary(teacher.ID, class.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute gradebook",
		})
	}

	return c.JSON(fiber.Map{
		"class_id": class.ID,
		"students": averages,
		"stats":    stats,
	})
}

// GetStudentAverage returns one student's weighted course average.
func (gc *GradeController) GetStudentAverage(c *fiber.Ctx) error {
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

	gradebook := services.NewGradebookService()
	average, err := gradebook.StudentCourseAverage(teacher.ID, student.ClassID, student.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute average",
		})
	}

	return c.JSON(fiber.Map{
		"student_id": student.ID,
		"class_id":   student.ClassID,
		"average":    average,
	})
}
