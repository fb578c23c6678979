package services

import (
	"classtrack_go/database"
	"classtrack_go/models"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
)

// ReportService materializes aggregation snapshots over the attendance,
// grade and behavior collections for a teacher/class/student/date-range
// scope. Everything is computed synchronously on request; nothing is
// incremental.
type ReportService struct {
	db *gorm.DB
}

func NewReportService() *ReportService {
	return &ReportService{db: database.DB}
}

// AttendanceReportRow is one student's attendance aggregate over the range.
type AttendanceReportRow struct {
	StudentID      uint    `json:"student_id"`
	StudentName    string  `json:"student_name"`
	TotalDays      int     `json:"total_days"`
	PresentDays    int     `json:"present_days"`
	AbsentDays     int     `json:"absent_days"`
	LateDays       int     `json:"late_days"`
	ExcusedDays    int     `json:"excused_days"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// GradeReportRow is one student's grade aggregate.
type GradeReportRow struct {
	StudentID            uint    `json:"student_id"`
	StudentName          string  `json:"student_name"`
	AverageGrade         float64 `json:"average_grade"`
	TotalAssignments     int     `json:"total_assignments"`
	CompletedAssignments int     `json:"completed_assignments"`
	CompletionRate       float64 `json:"completion_rate"`
}

// BehaviorReportRow is one student's behavior aggregate. TotalPoints is the
// signed point sum; BehaviorScore is the incident ratio. The two are
// reported side by side and never combined.
type BehaviorReportRow struct {
	StudentID         uint    `json:"student_id"`
	StudentName       string  `json:"student_name"`
	PositiveBehaviors int     `json:"positive_behaviors"`
	NegativeBehaviors int     `json:"negative_behaviors"`
	TotalPoints       int     `json:"total_points"`
	BehaviorScore     float64 `json:"behavior_score"`
}

type AttendanceReport struct {
	Summary AttendanceSummary     `json:"summary"`
	Rows    []AttendanceReportRow `json:"rows"`
}

type AttendanceSummary struct {
	TotalStudents         int     `json:"total_students"`
	AverageAttendanceRate float64 `json:"average_attendance_rate"`
}

type GradesReport struct {
	Summary GradesSummary    `json:"summary"`
	Rows    []GradeReportRow `json:"rows"`
}

type GradesSummary struct {
	TotalStudents int     `json:"total_students"`
	AverageGrade  float64 `json:"average_grade"`
}

type BehaviorReport struct {
	Summary BehaviorSummary     `json:"summary"`
	Rows    []BehaviorReportRow `json:"rows"`
}

type BehaviorSummary struct {
	TotalStudents        int     `json:"total_students"`
	AverageBehaviorScore float64 `json:"average_behavior_score"`
}

// ComprehensiveReport merges the three section reports and lifts their
// summaries into one parent summary.
type ComprehensiveReport struct {
	Attendance AttendanceReport     `json:"attendance"`
	Grades     GradesReport         `json:"grades"`
	Behavior   BehaviorReport       `json:"behavior"`
	Summary    ComprehensiveSummary `json:"summary"`
}

type ComprehensiveSummary struct {
	TotalStudents         int     `json:"total_students"`
	AverageAttendanceRate float64 `json:"average_attendance_rate"`
	AverageGrade          float64 `json:"average_grade"`
	AverageBehaviorScore  float64 `json:"average_behavior_score"`
}

// Generate computes the report payload for the stored scope and returns it
// as a JSON document ready to persist in Report.Data. A report whose scope
// matches no records yields all-zero summaries, not an error.
func (rs *ReportService) Generate(report *models.Report) (models.JSON, error) {
	var payload interface{}
	var err error

	switch report.Type {
	case "attendance":
		payload, err = rs.generateAttendance(report)
	case "grades":
		payload, err = rs.generateGrades(report)
	case "behavior":
		payload, err = rs.generateBehavior(report)
	case "comprehensive":
		payload, err = rs.generateComprehensive(report)
	default:
		return nil, fmt.Errorf("invalid report type: %s", report.Type)
	}

	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report data: %v", err)
	}
	return data, nil
}

func (rs *ReportService) generateAttendance(report *models.Report) (AttendanceReport, error) {
	query := rs.db.Model(&models.Attendance{}).
		Select(`attendances.student_id,
			students.name AS student_name,
			COUNT(*) AS total_days,
			SUM(CASE WHEN attendances.status = 'present' THEN 1 ELSE 0 END) AS present_days,
			SUM(CASE WHEN attendances.status = 'absent' THEN 1 ELSE 0 END) AS absent_days,
			SUM(CASE WHEN attendances.status = 'late' THEN 1 ELSE 0 END) AS late_days,
			SUM(CASE WHEN attendances.status = 'excused' THEN 1 ELSE 0 END) AS excused_days`).
		Joins("JOIN students ON students.id = attendances.student_id").
		Where("attendances.teacher_id = ? AND attendances.class_id = ?", report.TeacherID, report.ClassID).
		Where("attendances.date BETWEEN ? AND ?", report.StartDate, report.EndDate).
		Group("attendances.student_id, students.name")
	if report.StudentID != nil {
		query = query.Where("attendances.student_id = ?", *report.StudentID)
	}

	var rows []AttendanceReportRow
	if err := query.Scan(&rows).Error; err != nil {
		return AttendanceReport{}, err
	}

	var rateSum float64
	for i := range rows {
		rows[i].AttendanceRate = RangeAttendanceRate(rows[i].PresentDays, rows[i].TotalDays)
		rateSum += rows[i].AttendanceRate
	}

	summary := AttendanceSummary{TotalStudents: len(rows)}
	if len(rows) > 0 {
		summary.AverageAttendanceRate = rateSum / float64(len(rows))
	}

	return AttendanceReport{Summary: summary, Rows: rows}, nil
}

// generateGrades aggregates the whole class gradebook. The date range does
// not apply here: a grades section always reflects the full gradebook for
// the scoped class, mirroring how grades accumulate over the term.
func (rs *ReportService) generateGrades(report *models.Report) (GradesReport, error) {
	query := rs.db.Model(&models.Grade{}).
		Select(`grades.student_id,
			students.name AS student_name,
			AVG(grades.percentage) AS average_grade,
			COUNT(*) AS total_assignments,
			SUM(CASE WHEN grades.score > 0 THEN 1 ELSE 0 END) AS completed_assignments`).
		Joins("JOIN students ON students.id = grades.student_id").
		Where("grades.teacher_id = ? AND grades.class_id = ?", report.TeacherID, report.ClassID).
		Group("grades.student_id, students.name")
	if report.StudentID != nil {
		query = query.Where("grades.student_id = ?", *report.StudentID)
	}

	var rows []GradeReportRow
	if err := query.Scan(&rows).Error; err != nil {
		return GradesReport{}, err
	}

	var gradeSum float64
	for i := range rows {
		if rows[i].TotalAssignments > 0 {
			rows[i].CompletionRate = float64(rows[i].CompletedAssignments) / float64(rows[i].TotalAssignments) * 100
		}
		gradeSum += rows[i].AverageGrade
	}

	summary := GradesSummary{TotalStudents: len(rows)}
	if len(rows) > 0 {
		summary.AverageGrade = gradeSum / float64(len(rows))
	}

	return GradesReport{Summary: summary, Rows: rows}, nil
}

func (rs *ReportService) generateBehavior(report *models.Report) (BehaviorReport, error) {
	query := rs.db.Model(&models.Behavior{}).
		Select(`behaviors.student_id,
			students.name AS student_name,
			SUM(CASE WHEN behaviors.type = 'positive' THEN 1 ELSE 0 END) AS positive_behaviors,
			SUM(CASE WHEN behaviors.type = 'negative' THEN 1 ELSE 0 END) AS negative_behaviors,
			SUM(behaviors.points) AS total_points`).
		Joins("JOIN students ON students.id = behaviors.student_id").
		Where("behaviors.teacher_id = ? AND behaviors.class_id = ?", report.TeacherID, report.ClassID).
		Where("behaviors.date BETWEEN ? AND ?", report.StartDate, report.EndDate).
		Group("behaviors.student_id, students.name")
	if report.StudentID != nil {
		query = query.Where("behaviors.student_id = ?", *report.StudentID)
	}

	var rows []BehaviorReportRow
	if err := query.Scan(&rows).Error; err != nil {
		return BehaviorReport{}, err
	}

	var scoreSum float64
	for i := range rows {
		rows[i].BehaviorScore = BehaviorScore(rows[i].PositiveBehaviors, rows[i].NegativeBehaviors)
		scoreSum += rows[i].BehaviorScore
	}

	summary := BehaviorSummary{TotalStudents: len(rows)}
	if len(rows) > 0 {
		summary.AverageBehaviorScore = scoreSum / float64(len(rows))
	}

	return BehaviorReport{Summary: summary, Rows: rows}, nil
}

// generateComprehensive fans out the three section generators concurrently
// and merges their summaries. If any section fails the whole report fails;
// there is no partial result.
func (rs *ReportService) generateComprehensive(report *models.Report) (ComprehensiveReport, error) {
	var (
		wg         sync.WaitGroup
		attendance AttendanceReport
		grades     GradesReport
		behavior   BehaviorReport
		attErr     error
		gradesErr  error
		behErr     error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		attendance, attErr = rs.generateAttendance(report)
	}()
	go func() {
		defer wg.Done()
		grades, gradesErr = rs.generateGrades(report)
	}()
	go func() {
		defer wg.Done()
		behavior, behErr = rs.generateBehavior(report)
	}()
	wg.Wait()

	for _, err := range []error{attErr, gradesErr, behErr} {
		if err != nil {
			return ComprehensiveReport{}, err
		}
	}

	return ComprehensiveReport{
		Attendance: attendance,
		Grades:     grades,
		Behavior:   behavior,
		Summary: ComprehensiveSummary{
			TotalStudents:         attendance.Summary.TotalStudents,
			AverageAttendanceRate: attendance.Summary.AverageAttendanceRate,
			AverageGrade:          grades.Summary.AverageGrade,
			AverageBehaviorScore:  behavior.Summary.AverageBehaviorScore,
		},
	}, nil
}

// GenerateAndStore runs generation for the report and stamps the generated
// state. Used on creation and on explicit regeneration; a plain update of
// title or filters deliberately does not pass through here.
func (rs *ReportService) GenerateAndStore(report *models.Report) error {
	data, err := rs.Generate(report)
	if err != nil {
		return err
	}

	now := time.Now()
	report.Data = data
	report.Generated = true
	report.GeneratedAt = &now

	return rs.db.Model(&models.Report{}).
		Where("id = ?", report.ID).
		Updates(map[string]interface{}{
			"data":         report.Data,
			"generated":    true,
			"generated_at": now,
		}).Error
}
