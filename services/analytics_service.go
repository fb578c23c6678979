package services

import (
	"classtrack_go/database"
	"classtrack_go/models"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AnalyticsService lazily populates the analytics collection. Rows are
// computed the first time a scope is read and appended to on explicit
// regeneration; stale rows are never refreshed automatically.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{db: database.DB}
}

// AnalyticsScope identifies one cache lookup/generation request.
type AnalyticsScope struct {
	TeacherID uint
	ClassID   *uint
	StudentID *uint
	Type      string // attendance, grades, behavior or comprehensive (= all three)
	Period    string // daily, weekly, monthly, semester, yearly
}

// PeriodStart returns the inclusive lower bound of the window a period name
// covers, relative to now.
func PeriodStart(period string, now time.Time) time.Time {
	switch period {
	case "daily":
		return now.AddDate(0, 0, -1)
	case "weekly":
		return now.AddDate(0, 0, -7)
	case "monthly":
		return now.AddDate(0, -1, 0)
	case "semester":
		return now.AddDate(0, -6, 0)
	case "yearly":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -30)
	}
}

// Fetch returns cached analytics rows for the scope, generating them first
// when the cache is empty.
func (as *AnalyticsService) Fetch(scope AnalyticsScope) ([]models.Analytics, error) {
	rows, err := as.query(scope)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows, nil
	}

	if _, err := as.Regenerate(scope); err != nil {
		return nil, err
	}
	return as.query(scope)
}

// Regenerate recomputes analytics for the scope and appends the new rows.
// Existing rows for the same buckets are intentionally left in place; the
// append-only behavior is part of the observed contract.
func (as *AnalyticsService) Regenerate(scope AnalyticsScope) ([]models.Analytics, error) {
	now := time.Now()
	startDate := PeriodStart(scope.Period, now)

	var generated []models.Analytics

	if scope.Type == "attendance" || scope.Type == "comprehensive" {
		rows, err := as.generateAttendance(scope, startDate)
		if err != nil {
			return nil, err
		}
		generated = append(generated, rows...)
	}

	if scope.Type == "grades" || scope.Type == "comprehensive" {
		row, err := as.generateGrades(scope, now)
		if err != nil {
			return nil, err
		}
		if row != nil {
			generated = append(generated, *row)
		}
	}

	if scope.Type == "behavior" || scope.Type == "comprehensive" {
		row, err := as.generateBehavior(scope, startDate, now)
		if err != nil {
			return nil, err
		}
		if row != nil {
			generated = append(generated, *row)
		}
	}

	for i := range generated {
		if err := as.db.Create(&generated[i]).Error; err != nil {
			logrus.WithError(err).Error("Failed to persist analytics row")
			return nil, err
		}
	}

	return generated, nil
}

func (as *AnalyticsService) query(scope AnalyticsScope) ([]models.Analytics, error) {
	query := as.db.Where("teacher_id = ?", scope.TeacherID)
	if scope.ClassID != nil {
		query = query.Where("class_id = ?", *scope.ClassID)
	}
	if scope.StudentID != nil {
		query = query.Where("student_id = ?", *scope.StudentID)
	}
	if scope.Type != "" && scope.Type != "comprehensive" {
		query = query.Where("type = ?", scope.Type)
	}
	if scope.Period != "" {
		query = query.Where("period = ?", scope.Period)
	}

	var rows []models.Analytics
	if err := query.Order("date DESC").Limit(100).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type attendanceBucket struct {
	Day         string
	TotalDays   int
	PresentDays int
	AbsentDays  int
	LateDays    int
}

// generateAttendance produces one analytics row per calendar day that has
// attendance records within the period window.
func (as *AnalyticsService) generateAttendance(scope AnalyticsScope, startDate time.Time) ([]models.Analytics, error) {
	query := as.db.Model(&models.Attendance{}).
		Select(`DATE_FORMAT(date, '%Y-%m-%d') AS day,
			COUNT(*) AS total_days,
			SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END) AS present_days,
			SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END) AS absent_days,
			SUM(CASE WHEN status = 'late' THEN 1 ELSE 0 END) AS late_days`).
		Where("teacher_id = ? AND date >= ?", scope.TeacherID, startDate).
		Group("day").
		Order("day ASC")
	query = as.applyEntityScope(query, scope)

	var buckets []attendanceBucket
	if err := query.Scan(&buckets).Error; err != nil {
		return nil, err
	}

	rows := make([]models.Analytics, 0, len(buckets))
	for _, bucket := range buckets {
		day, err := time.Parse("2006-01-02", bucket.Day)
		if err != nil {
			continue
		}

		metrics, err := json.Marshal(map[string]interface{}{
			"total_days":      bucket.TotalDays,
			"present_days":    bucket.PresentDays,
			"absent_days":     bucket.AbsentDays,
			"late_days":       bucket.LateDays,
			"attendance_rate": RangeAttendanceRate(bucket.PresentDays, bucket.TotalDays),
		})
		if err != nil {
			return nil, err
		}

		rows = append(rows, models.Analytics{
			TeacherID: scope.TeacherID,
			ClassID:   scope.ClassID,
			StudentID: scope.StudentID,
			Type:      "attendance",
			Period:    scope.Period,
			Date:      day,
			Metrics:   metrics,
		})
	}

	return rows, nil
}

type gradeBucket struct {
	AverageGrade         float64
	TotalAssignments     int
	CompletedAssignments int
}

// generateGrades produces a single bucket over the whole gradebook of the
// scope; grades are not windowed by the period, matching the report engine.
func (as *AnalyticsService) generateGrades(scope AnalyticsScope, now time.Time) (*models.Analytics, error) {
	query := as.db.Model(&models.Grade{}).
		Select(`AVG(percentage) AS average_grade,
			COUNT(*) AS total_assignments,
			SUM(CASE WHEN score > 0 THEN 1 ELSE 0 END) AS completed_assignments`).
		Where("teacher_id = ?", scope.TeacherID)
	query = as.applyEntityScope(query, scope)

	var bucket gradeBucket
	if err := query.Scan(&bucket).Error; err != nil {
		return nil, err
	}
	if bucket.TotalAssignments == 0 {
		return nil, nil
	}

	metrics, err := json.Marshal(map[string]interface{}{
		"average_grade":         bucket.AverageGrade,
		"total_assignments":     bucket.TotalAssignments,
		"completed_assignments": bucket.CompletedAssignments,
	})
	if err != nil {
		return nil, err
	}

	return &models.Analytics{
		TeacherID: scope.TeacherID,
		ClassID:   scope.ClassID,
		StudentID: scope.StudentID,
		Type:      "grades",
		Period:    scope.Period,
		Date:      now,
		Metrics:   metrics,
	}, nil
}

type behaviorBucket struct {
	PositiveBehaviors int
	NegativeBehaviors int
	TotalPoints       int
}

func (as *AnalyticsService) generateBehavior(scope AnalyticsScope, startDate, now time.Time) (*models.Analytics, error) {
	query := as.db.Model(&models.Behavior{}).
		Select(`SUM(CASE WHEN type = 'positive' THEN 1 ELSE 0 END) AS positive_behaviors,
			SUM(CASE WHEN type = 'negative' THEN 1 ELSE 0 END) AS negative_behaviors,
			SUM(points) AS total_points`).
		Where("teacher_id = ? AND date >= ?", scope.TeacherID, startDate)
	query = as.applyEntityScope(query, scope)

	var bucket behaviorBucket
	if err := query.Scan(&bucket).Error; err != nil {
		return nil, err
	}
	if bucket.PositiveBehaviors == 0 && bucket.NegativeBehaviors == 0 {
		return nil, nil
	}

	metrics, err := json.Marshal(map[string]interface{}{
		"positive_behaviors": bucket.PositiveBehaviors,
		"negative_behaviors": bucket.NegativeBehaviors,
		"total_points":       bucket.TotalPoints,
		"behavior_score":     BehaviorScore(bucket.PositiveBehaviors, bucket.NegativeBehaviors),
	})
	if err != nil {
		return nil, err
	}

	return &models.Analytics{
		TeacherID: scope.TeacherID,
		ClassID:   scope.ClassID,
		StudentID: scope.StudentID,
		Type:      "behavior",
		Period:    scope.Period,
		Date:      now,
		Metrics:   metrics,
	}, nil
}

func (as *AnalyticsService) applyEntityScope(query *gorm.DB, scope AnalyticsScope) *gorm.DB {
	if scope.ClassID != nil {
		query = query.Where("class_id = ?", *scope.ClassID)
	}
	if scope.StudentID != nil {
		query = query.Where("student_id = ?", *scope.StudentID)
	}
	return query
}
