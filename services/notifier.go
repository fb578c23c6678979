package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"classtrack_go/database"
	"classtrack_go/models"
	"classtrack_go/services/websocket"
)

var wsHub *websocket.Hub

// SetHub wires the websocket hub used for real-time notification pushes.
func SetHub(h *websocket.Hub) {
	wsHub = h
}

// GetHub returns the wired hub, nil until SetHub is called.
func GetHub() *websocket.Hub {
	return wsHub
}

// CreateNotification persists a notification for a teacher and pushes it
// to any connected dashboard session. The push is best effort; a failed
// or absent websocket session never fails the caller.
func CreateNotification(teacherID uint, nType, title, message string, relatedType string, relatedID uint) (*models.Notification, error) {
	notification := models.Notification{
		TeacherID:   teacherID,
		Type:        nType,
		Title:       title,
		Message:     message,
		RelatedType: relatedType,
		RelatedID:   relatedID,
	}

	if err := database.DB.Create(&notification).Error; err != nil {
		return nil, err
	}

	if wsHub != nil {
		wsHub.SendToTeacher(teacherID, websocket.Event{
			Type: "notification",
			Data: notification,
		})
	}

	logrus.WithFields(logrus.Fields{
		"teacher_id": teacherID,
		"type":       nType,
	}).Debug("Notification created")

	return &notification, nil
}

// MarkNotificationRead marks a single notification as read, scoped to its owner.
func MarkNotificationRead(teacherID, notificationID uint) error {
	now := time.Now()
	return database.DB.Model(&models.Notification{}).
		Where("id = ? AND teacher_id = ?", notificationID, teacherID).
		Updates(map[string]interface{}{"read": true, "read_at": &now}).Error
}

// MarkAllNotificationsRead marks every unread notification of a teacher as read.
func MarkAllNotificationsRead(teacherID uint) (int64, error) {
	now := time.Now()
	result := database.DB.Model(&models.Notification{}).
		Where("teacher_id = ? AND `read` = ?", teacherID, false).
		Updates(map[string]interface{}{"read": true, "read_at": &now})
	return result.RowsAffected, result.Error
}

// UnreadCount returns the number of unread notifications for a teacher.
func UnreadCount(teacherID uint) (int64, error) {
	var count int64
	err := database.DB.Model(&models.Notification{}).
		Where("teacher_id = ? AND `read` = ?", teacherID, false).
		Count(&count).Error
	return count, err
}
