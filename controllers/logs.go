package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
)

type LogController struct{}

// GetLogs lists the teacher's own activity log, newest first.
func (lc *LogController) GetLogs(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	limit := c.QueryInt("limit", 100)
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := database.DB.Model(&models.ActivityLog{}).Where("teacher_id = ?", teacher.ID)

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if startDate := c.Query("start_date"); startDate != "" {
		query = query.Where("created_at >= ?", startDate)
	}

	var logs []models.ActivityLog
	if err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs": logs,
	})
}

// GetLogStats returns per-action counts for the last 30 days.
func (lc *LogController) GetLogStats(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	since := time.Now().AddDate(0, 0, -30)

	type actionCount struct {
		Action string `json:"action"`
		Count  int64  `json:"count"`
	}
	var counts []actionCount
	err = database.DB.Model(&models.ActivityLog{}).
		Select("action, COUNT(*) as count").
		Where("teacher_id = ? AND created_at >= ?", teacher.ID, since).
		Group("action").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute log stats",
		})
	}

	var total int64
	database.DB.Model(&models.ActivityLog{}).
		Where("teacher_id = ? AND created_at >= ?", teacher.ID, since).
		Count(&total)

	return c.JSON(fiber.Map{
		"since":     since,
		"total":     total,
		"by_action": counts,
	})
}

// FlushLogs forces the Redis write-behind queue into the database.
func (lc *LogController) FlushLogs(c *fiber.Ctx) error {
	if _, err := middleware.CurrentTeacher(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	flushed, err := middleware.FlushQueuedLogs()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to flush logs",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Logs flushed successfully",
		"flushed": flushed,
	})
}
