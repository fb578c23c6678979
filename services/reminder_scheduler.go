package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"classtrack_go/database"
	"classtrack_go/models"
)

// ReminderScheduler periodically scans upcoming activities and today's
// schedule slots and turns them into notifications.
type ReminderScheduler struct {
	cron *cron.Cron
}

func NewReminderScheduler() *ReminderScheduler {
	return &ReminderScheduler{
		cron: cron.New(),
	}
}

// Start registers the cron entries and begins scheduling.
func (s *ReminderScheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 15m", s.checkActivityReminders); err != nil {
		return fmt.Errorf("failed to schedule activity reminders: %w", err)
	}

	// Morning digest of the day's schedule.
	if _, err := s.cron.AddFunc("0 7 * * *", s.sendScheduleDigest); err != nil {
		return fmt.Errorf("failed to schedule daily digest: %w", err)
	}

	s.cron.Start()
	logrus.Info("Reminder scheduler started")
	return nil
}

// Stop halts the scheduler, waiting for running jobs to finish.
func (s *ReminderScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logrus.Info("Reminder scheduler stopped")
}

// checkActivityReminders finds activities whose reminder window has opened
// and notifies their owning teacher once.
func (s *ReminderScheduler) checkActivityReminders() {
	now := time.Now()

	var activities []models.Activity
	err := database.DB.
		Where("reminder = ? AND start_date >= ?", true, now).
		Find(&activities).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to query activities for reminders")
		return
	}

	for _, activity := range activities {
		remindAt := activity.StartDate.Add(-time.Duration(activity.ReminderMinutes) * time.Minute)
		if now.Before(remindAt) {
			continue
		}

		sent, err := s.reminderAlreadySent(activity.TeacherID, activity.ID)
		if err != nil {
			logrus.WithError(err).WithField("activity_id", activity.ID).
				Error("Failed to check reminder state")
			continue
		}
		if sent {
			continue
		}

		title := fmt.Sprintf("Upcoming: %s", activity.Title)
		message := fmt.Sprintf("%s starts at %s", activity.Title, activity.StartDate.Format("15:04"))
		if _, err := CreateNotification(activity.TeacherID, "reminder", title, message, "activity", activity.ID); err != nil {
			logrus.WithError(err).WithField("activity_id", activity.ID).
				Error("Failed to create activity reminder")
		}
	}
}

// reminderAlreadySent reports whether a reminder notification for this
// activity already exists, so re-runs of the scan do not duplicate it.
func (s *ReminderScheduler) reminderAlreadySent(teacherID, activityID uint) (bool, error) {
	var notification models.Notification
	err := database.DB.
		Where("teacher_id = ? AND type = ? AND related_type = ? AND related_id = ?",
			teacherID, "reminder", "activity", activityID).
		First(&notification).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// sendScheduleDigest sends each teacher with slots today a single summary
// notification listing how many sessions they have.
func (s *ReminderScheduler) sendScheduleDigest() {
	day := strings.ToLower(time.Now().Weekday().String())

	type digestRow struct {
		TeacherID uint
		Slots     int
	}
	var rows []digestRow
	err := database.DB.Model(&models.Schedule{}).
		Select("teacher_id, COUNT(*) as slots").
		Where("day_of_week = ? AND active = ?", day, true).
		Group("teacher_id").
		Scan(&rows).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to build schedule digest")
		return
	}

	for _, row := range rows {
		message := fmt.Sprintf("You have %d scheduled session(s) today", row.Slots)
		if _, err := CreateNotification(row.TeacherID, "info", "Today's schedule", message, "schedule", 0); err != nil {
			logrus.WithError(err).WithField("teacher_id", row.TeacherID).
				Error("Failed to send schedule digest")
		}
	}
}
