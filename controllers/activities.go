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

type ActivityController struct{}

type CreateActivityRequest struct {
	ClassID         *uint      `json:"class_id"`
	Title           string     `json:"title" validate:"required,max=255"`
	Description     string     `json:"description"`
	Type            string     `json:"type" validate:"max=50"`
	Location        string     `json:"location" validate:"max=255"`
	StartDate       time.Time  `json:"start_date" validate:"required"`
	EndDate         *time.Time `json:"end_date"`
	Priority        string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Reminder        bool       `json:"reminder"`
	ReminderMinutes int        `json:"reminder_minutes" validate:"omitempty,min=1"`
}

// GetActivities lists owned activities in start order.
func (acc *ActivityController) GetActivities(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := database.DB.Model(&models.Activity{}).Where("teacher_id = ?", teacher.ID)

	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if upcoming := c.Query("upcoming"); upcoming == "true" {
		query = query.Where("start_date >= ?", time.Now())
	}

	var activities []models.Activity
	if err := query.Order("start_date ASC").Find(&activities).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch activities",
		})
	}

	return c.JSON(fiber.Map{
		"activities": activities,
	})
}

// CreateActivity schedules a classroom event.
func (acc *ActivityController) CreateActivity(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req CreateActivityRequest
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

	if req.ClassID != nil {
		var class models.Class
		if err := database.DB.Where("id = ? AND teacher_id = ?", *req.ClassID, teacher.ID).
			First(&class).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Class not found",
			})
		}
	}

	activity := models.Activity{
		TeacherID:       teacher.ID,
		ClassID:         req.ClassID,
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		Location:        req.Location,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Status:          "scheduled",
		Priority:        req.Priority,
		Reminder:        req.Reminder,
		ReminderMinutes: req.ReminderMinutes,
	}
	if activity.Priority == "" {
		activity.Priority = "medium"
	}
	if activity.ReminderMinutes == 0 {
		activity.ReminderMinutes = 60
	}

	if err := database.DB.Create(&activity).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create activity",
		})
	}

	middleware.LogActivity(c, "CREATE", "activities", activity.ID, activity)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Activity created successfully",
		"activity": activity,
	})
}

// UpdateActivity applies a partial update to an owned activity.
func (acc *ActivityController) UpdateActivity(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid activity ID",
		})
	}

	var activity models.Activity
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&activity).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Activity not found",
		})
	}

	var updateData models.Activity
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updateData.TeacherID = activity.TeacherID

	if err := database.DB.Model(&activity).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update activity",
		})
	}

	middleware.LogActivity(c, "UPDATE", "activities", activity.ID, updateData)

	return c.JSON(fiber.Map{
		"message":  "Activity updated successfully",
		"activity": activity,
	})
}

// DeleteActivity removes an owned activity.
func (acc *ActivityController) DeleteActivity(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid activity ID",
		})
	}

	var activity models.Activity
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&activity).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Activity not found",
		})
	}

	if err := database.DB.Delete(&activity).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete activity",
		})
	}

	middleware.LogActivity(c, "DELETE", "activities", activity.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Activity deleted successfully",
	})
}
