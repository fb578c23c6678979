package middleware

import (
	"classtrack_go/config"
	"classtrack_go/database"
	"classtrack_go/models"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LoggerMiddleware logs HTTP requests
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logrus.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   duration.String(),
			"ip":         c.IP(),
			"user_agent": c.Get("User-Agent"),
		}).Info("HTTP Request")

		return err
	}
}

// queuedLog is the Redis representation of a pending ActivityLog row.
type queuedLog struct {
	TeacherID  uint        `json:"teacher_id"`
	Action     string      `json:"action"`
	Resource   string      `json:"resource"`
	ResourceID uint        `json:"resource_id"`
	Details    interface{} `json:"details"`
	IPAddress  string      `json:"ip_address"`
	UserAgent  string      `json:"user_agent"`
	CreatedAt  time.Time   `json:"created_at"`
}

// LogActivity records a teacher action for the audit trail. When Redis is
// available the row is queued there and flushed to the database by the log
// maintenance job; otherwise it is written through immediately.
func LogActivity(c *fiber.Ctx, action, resource string, resourceID uint, details interface{}) {
	var teacherID uint
	if teacher, err := CurrentTeacher(c); err == nil {
		teacherID = teacher.ID
	}

	entry := queuedLog{
		TeacherID:  teacherID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
		CreatedAt:  time.Now(),
	}

	rc := database.GetRedisClient()
	if rc != nil && config.AppConfig.UseRedisActivityLogs {
		if payload, err := json.Marshal(entry); err == nil {
			ctx := context.Background()
			err := rc.ZAdd(ctx, "activity_logs:queue", &redis.Z{
				Score:  float64(entry.CreatedAt.Unix()),
				Member: string(payload),
			}).Err()
			if err == nil {
				return
			}
			logrus.WithError(err).Warn("Failed to queue activity log in Redis, falling back to database")
		}
	}

	persistLog(entry)
}

// FlushQueuedLogs drains the Redis activity-log queue into the database and
// returns the number of rows persisted.
func FlushQueuedLogs() (int, error) {
	rc := database.GetRedisClient()
	if rc == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	ctx := context.Background()
	members, err := rc.ZRangeByScore(ctx, "activity_logs:queue", &redis.ZRangeBy{
		Min: "0",
		Max: fmt.Sprintf("%d", time.Now().Unix()),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read queued logs: %v", err)
	}

	flushed := 0
	for _, member := range members {
		var entry queuedLog
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			rc.ZRem(ctx, "activity_logs:queue", member)
			continue
		}
		persistLog(entry)
		rc.ZRem(ctx, "activity_logs:queue", member)
		flushed++
	}

	return flushed, nil
}

func persistLog(entry queuedLog) {
	var detailsJSON models.JSON
	if entry.Details != nil {
		if detailsBytes, err := json.Marshal(entry.Details); err == nil {
			detailsJSON = detailsBytes
		}
	}

	activityLog := models.ActivityLog{
		TeacherID:  entry.TeacherID,
		Action:     entry.Action,
		Resource:   entry.Resource,
		ResourceID: entry.ResourceID,
		Details:    detailsJSON,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
	}

	if err := database.DB.Create(&activityLog).Error; err != nil {
		logrus.WithError(err).Error("Failed to persist activity log")
	}
}
