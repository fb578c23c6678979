package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/services"
	"classtrack_go/utils"
)

type MessageController struct{}

type CreateMessageRequest struct {
	StudentID     *uint  `json:"student_id"`
	RecipientType string `json:"recipient_type" validate:"required,oneof=parent student teacher"`
	RecipientName string `json:"recipient_name" validate:"max=200"`
	Channel       string `json:"channel" validate:"required,oneof=email sms notification announcement line"`
	Subject       string `json:"subject" validate:"max=255"`
	Body          string `json:"body" validate:"required"`
	Priority      string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Send          bool   `json:"send"`
}

// GetMessages lists owned messages newest first.
func (mc *MessageController) GetMessages(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := database.DB.Model(&models.Message{}).Where("teacher_id = ?", teacher.ID)

	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if channel := c.Query("channel"); channel != "" {
		query = query.Where("channel = ?", channel)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var messages []models.Message
	if err := query.Preload("Student").Order("created_at DESC").Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch messages",
		})
	}

	return c.JSON(fiber.Map{
		"messages": messages,
	})
}

// CreateMessage stores a message. When send is requested and the channel is
// "line", delivery goes through the LINE messaging service; a failed push
// marks the message failed instead of failing the request.
func (mc *MessageController) CreateMessage(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req CreateMessageRequest
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

	var student *models.Student
	if req.StudentID != nil {
		var s models.Student
		if err := database.DB.Where("id = ? AND teacher_id = ?", *req.StudentID, teacher.ID).
			First(&s).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Student not found",
			})
		}
		student = &s
	}

	message := models.Message{
		TeacherID:     teacher.ID,
		StudentID:     req.StudentID,
		RecipientType: req.RecipientType,
		RecipientName: req.RecipientName,
		Channel:       req.Channel,
		Subject:       req.Subject,
		Body:          req.Body,
		Priority:      req.Priority,
		Status:        "draft",
	}
	if message.Priority == "" {
		message.Priority = "medium"
	}

	if req.Send {
		message.Status = "sent"
		now := time.Now()
		message.SentAt = &now

		if req.Channel == "line" {
			if student == nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "LINE messages require a student recipient",
				})
			}
			lineService := services.NewLineMessagingService()
			if err := lineService.SendToParent(student, req.Subject, req.Body); err != nil {
				logrus.WithError(err).WithField("student_id", student.ID).
					Warn("LINE message delivery failed")
				message.Status = "failed"
				message.SentAt = nil
			}
		}
	}

	if err := database.DB.Create(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create message",
		})
	}

	middleware.LogActivity(c, "CREATE", "messages", message.ID, message)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Message created successfully",
		"data":    message,
	})
}

// UpdateMessage edits a draft message. Sent messages are immutable.
func (mc *MessageController) UpdateMessage(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid message ID",
		})
	}

	var message models.Message
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&message).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Message not found",
		})
	}

	if message.Status != "draft" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only draft messages can be edited",
		})
	}

	var updateData models.Message
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updateData.TeacherID = message.TeacherID
	updateData.Status = message.Status

	if err := database.DB.Model(&message).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update message",
		})
	}

	middleware.LogActivity(c, "UPDATE", "messages", message.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Message updated successfully",
		"data":    message,
	})
}

// DeleteMessage removes an owned message.
func (mc *MessageController) DeleteMessage(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid message ID",
		})
	}

	var message models.Message
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&message).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Message not found",
		})
	}

	if err := database.DB.Delete(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete message",
		})
	}

	middleware.LogActivity(c, "DELETE", "messages", message.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Message deleted successfully",
	})
}
