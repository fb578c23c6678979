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

type AttendanceController struct{}

type CreateAttendanceRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent late excused"`
	Notes     string `json:"notes" validate:"max=500"`
}

// GetAttendance lists attendance records filtered by class, student and
// date range.
func (atc *AttendanceController) GetAttendance(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := database.DB.Model(&models.Attendance{}).Where("teacher_id = ?", teacher.ID)

	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if status := c.Query("status"); status != "" {
		if !utils.IsValidAttendanceStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid attendance status",
			})
		}
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("DATE(date) = ?", date)
	}
	if startDate := c.Query("start_date"); startDate != "" {
		query = query.Where("date >= ?", startDate)
	}
	if endDate := c.Query("end_date"); endDate != "" {
		query = query.Where("date <= ?", endDate)
	}

	var records []models.Attendance
	if err := query.Preload("Student").Order("date DESC").Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch attendance",
		})
	}

	return c.JSON(fiber.Map{
		"attendance": records,
	})
}

// CreateAttendance records attendance for one student on one date.
func (atc *AttendanceController) CreateAttendance(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req CreateAttendanceRequest
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

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
	}

	var student models.Student
	if err := database.DB.Where("id = ? AND teacher_id = ?", req.StudentID, teacher.ID).
		First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var existing models.Attendance
	if err := database.DB.Where("student_id = ? AND DATE(date) = ?", req.StudentID, req.Date).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Attendance already recorded for this student on this date",
		})
	}

	attendance := models.Attendance{
		TeacherID: teacher.ID,
		ClassID:   student.ClassID,
		StudentID: req.StudentID,
		Date:      date,
		Status:    req.Status,
		Notes:     req.Notes,
		MarkedAt:  time.Now(),
	}

	if err := database.DB.Create(&attendance).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record attendance",
		})
	}

	middleware.LogActivity(c, "CREATE", "attendance", attendance.ID, attendance)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Attendance recorded successfully",
		"attendance": attendance,
	})
}

// UpdateAttendance changes the status or notes of an owned record.
func (atc *AttendanceController) UpdateAttendance(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attendance ID",
		})
	}

	var attendance models.Attendance
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&attendance).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Attendance record not found",
		})
	}

	var updateData struct {
		Status string `json:"status" validate:"omitempty,oneof=present absent late excused"`
		Notes  string `json:"notes" validate:"max=500"`
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
	if updateData.Status != "" {
		updates["status"] = updateData.Status
	}
	if updateData.Notes != "" {
		updates["notes"] = updateData.Notes
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&attendance).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update attendance",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "attendance", attendance.ID, updates)

	return c.JSON(fiber.Map{
		"message":    "Attendance updated successfully",
		"attendance": attendance,
	})
}

// DeleteAttendance removes an owned record.
func (atc *AttendanceController) DeleteAttendance(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attendance ID",
		})
	}

	var attendance models.Attendance
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&attendance).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Attendance record not found",
		})
	}

	if err := database.DB.Delete(&attendance).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete attendance",
		})
	}

	middleware.LogActivity(c, "DELETE", "attendance", attendance.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Attendance deleted successfully",
	})
}
