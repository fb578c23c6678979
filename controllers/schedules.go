package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/utils"
)

type ScheduleController struct{}

type CreateScheduleRequest struct {
	ClassID      uint   `json:"class_id" validate:"required"`
	Title        string `json:"title" validate:"max=255"`
	DayOfWeek    string `json:"day_of_week" validate:"required"`
	StartTime    string `json:"start_time" validate:"required"`
	EndTime      string `json:"end_time" validate:"required"`
	Room         string `json:"room" validate:"max=100"`
	AcademicYear string `json:"academic_year" validate:"max=20"`
}

// GetSchedules lists the teacher's weekly slots.
func (scc *ScheduleController) GetSchedules(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := database.DB.Model(&models.Schedule{}).Where("teacher_id = ?", teacher.ID)

	if day := c.Query("day_of_week"); day != "" {
		query = query.Where("day_of_week = ?", strings.ToLower(day))
	}
	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	var schedules []models.Schedule
	if err := query.Preload("Class").Order("day_of_week ASC, start_time ASC").
		Find(&schedules).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch schedules",
		})
	}

	return c.JSON(fiber.Map{
		"schedules": schedules,
	})
}

// CreateSchedule adds a weekly slot. A teacher cannot hold two identical
// slots.
func (scc *ScheduleController) CreateSchedule(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req CreateScheduleRequest
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

	day := strings.ToLower(strings.TrimSpace(req.DayOfWeek))
	if !utils.IsValidDayOfWeek(day) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid day of week",
		})
	}

	var class models.Class
	if err := database.DB.Where("id = ? AND teacher_id = ?", req.ClassID, teacher.ID).
		First(&class).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var existing models.Schedule
	err = database.DB.Where("teacher_id = ? AND day_of_week = ? AND start_time = ? AND end_time = ?",
		teacher.ID, day, req.StartTime, req.EndTime).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Schedule slot already exists",
		})
	}

	schedule := models.Schedule{
		TeacherID:    teacher.ID,
		ClassID:      req.ClassID,
		Title:        req.Title,
		DayOfWeek:    day,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Room:         req.Room,
		AcademicYear: req.AcademicYear,
		Active:       true,
	}

	if err := database.DB.Create(&schedule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create schedule",
		})
	}

	middleware.LogActivity(c, "CREATE", "schedules", schedule.ID, schedule)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Schedule created successfully",
		"schedule": schedule,
	})
}

// UpdateSchedule applies a partial update, re-checking slot uniqueness when
// the slot moves.
func (scc *ScheduleController) UpdateSchedule(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schedule ID",
		})
	}

	var schedule models.Schedule
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&schedule).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Schedule not found",
		})
	}

	var updateData models.Schedule
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	day := schedule.DayOfWeek
	if updateData.DayOfWeek != "" {
		day = strings.ToLower(updateData.DayOfWeek)
		if !utils.IsValidDayOfWeek(day) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid day of week",
			})
		}
		updateData.DayOfWeek = day
	}
	start := schedule.StartTime
	if updateData.StartTime != "" {
		start = updateData.StartTime
	}
	end := schedule.EndTime
	if updateData.EndTime != "" {
		end = updateData.EndTime
	}

	if day != schedule.DayOfWeek || start != schedule.StartTime || end != schedule.EndTime {
		var existing models.Schedule
		err := database.DB.Where("teacher_id = ? AND day_of_week = ? AND start_time = ? AND end_time = ? AND id <> ?",
			teacher.ID, day, start, end, schedule.ID).First(&existing).Error
		if err == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Schedule slot already exists",
			})
		}
	}

	updateData.TeacherID = schedule.TeacherID

	if err := database.DB.Model(&schedule).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update schedule",
		})
	}

	middleware.LogActivity(c, "UPDATE", "schedules", schedule.ID, updateData)

	return c.JSON(fiber.Map{
		"message":  "Schedule updated successfully",
		"schedule": schedule,
	})
}

// DeleteSchedule removes an owned slot.
func (scc *ScheduleController) DeleteSchedule(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schedule ID",
		})
	}

	var schedule models.Schedule
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&schedule).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Schedule not found",
		})
	}

	if err := database.DB.Delete(&schedule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete schedule",
		})
	}

	middleware.LogActivity(c, "DELETE", "schedules", schedule.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Schedule deleted successfully",
	})
}
