package services

import (
	"classtrack_go/database"
	"classtrack_go/models"

	"gorm.io/gorm"
)

// WeightedGrade pairs a recorded grade percentage with the weight of the
// assignment it belongs to.
type WeightedGrade struct {
	Percentage float64 `json:"percentage"`
	Weight     float64 `json:"weight"`
}

// GradeStats summarizes per-student course averages at the class level.
type GradeStats struct {
	TotalStudents int     `json:"total_students"`
	AverageGrade  float64 `json:"average_grade"`
	HighestGrade  float64 `json:"highest_grade"`
	LowestGrade   float64 `json:"lowest_grade"`
}

// StudentAverage is one row of the class gradebook summary.
type StudentAverage struct {
	StudentID    uint    `json:"student_id"`
	StudentName  string  `json:"student_name"`
	SeatNumber   int     `json:"seat_number"`
	Average      float64 `json:"average"`
	GradedCount  int     `json:"graded_count"`
	MissingCount int     `json:"missing_count"`
}

// WeightedAverage computes the weighted mean over a student's graded
// assignments: sum(percentage * weight) / sum(weight). Ungraded assignments
// are simply absent from the input and contribute to neither side of the
// division. A student with no graded assignments yields the 0 sentinel,
// which callers must not confuse with a true average of zero.
func WeightedAverage(grades []WeightedGrade) float64 {
	var weightedSum, totalWeight float64
	for _, g := range grades {
		weightedSum += g.Percentage * g.Weight
		totalWeight += g.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// SummarizeAverages derives class-level statistics from per-student course
// averages. Students with the 0 "no grades yet" sentinel are excluded from
// the mean and the extremes so an empty gradebook does not drag the class
// average down.
func SummarizeAverages(averages []float64) GradeStats {
	stats := GradeStats{TotalStudents: len(averages)}

	var sum float64
	var graded int
	for _, avg := range averages {
		if avg == 0 {
			continue
		}
		if graded == 0 {
			stats.HighestGrade = avg
			stats.LowestGrade = avg
		} else {
			if avg > stats.HighestGrade {
				stats.HighestGrade = avg
			}
			if avg < stats.LowestGrade {
				stats.LowestGrade = avg
			}
		}
		sum += avg
		graded++
	}

	if graded > 0 {
		stats.AverageGrade = sum / float64(graded)
	}
	return stats
}

// BehaviorScore computes the incident-ratio score:
// (positive - negative) / (positive + negative) * 100, 0 when no incidents.
// The point-weighted total is reported separately and never folded in here.
func BehaviorScore(positive, negative int) float64 {
	total := positive + negative
	if total == 0 {
		return 0
	}
	return float64(positive-negative) / float64(total) * 100
}

// DailyAttendanceRate is the single-day formula: present and late students
// over the active roster size. Students without a record for the day count
// against the rate rather than silently shrinking the denominator.
func DailyAttendanceRate(present, late, rosterSize int) float64 {
	if rosterSize == 0 {
		return 0
	}
	return float64(present+late) / float64(rosterSize) * 100
}

// RangeAttendanceRate is the date-range formula used by reports and
// analytics: present days over recorded days. Late and excused days are
// tracked separately from this ratio; the two attendance formulas are
// intentionally different per call site.
func RangeAttendanceRate(presentDays, totalDays int) float64 {
	if totalDays == 0 {
		return 0
	}
	return float64(presentDays) / float64(totalDays) * 100
}

// GradebookService derives course averages from Grade and Assignment rows.
// Nothing here is persisted; the average is recomputed on every read.
type GradebookService struct {
	db *gorm.DB
}

func NewGradebookService() *GradebookService {
	return &GradebookService{db: database.DB}
}

// StudentCourseAverage computes one student's weighted course average within
// a class, over graded assignments only.
func (gs *GradebookService) StudentCourseAverage(teacherID, classID, studentID uint) (float64, error) {
	grades, err := gs.loadWeightedGrades(teacherID, classID, &studentID)
	if err != nil {
		return 0, err
	}
	return WeightedAverage(grades), nil
}

// ClassSummary computes weighted averages for every active student of a
// class plus the class-level statistics.
func (gs *GradebookService) ClassSummary(teacherID, classID uint) ([]StudentAverage, GradeStats, error) {
	var students []models.Student
	if err := gs.db.Where("teacher_id = ? AND class_id = ? AND active = ?", teacherID, classID, true).
		Order("seat_number ASC").Find(&students).Error; err != nil {
		return nil, GradeStats{}, err
	}

	var assignmentCount int64
	if err := gs.db.Model(&models.Assignment{}).
		Where("teacher_id = ? AND class_id = ?", teacherID, classID).
		Count(&assignmentCount).Error; err != nil {
		return nil, GradeStats{}, err
	}

	rows := make([]StudentAverage, 0, len(students))
	averages := make([]float64, 0, len(students))

	for _, student := range students {
		grades, err := gs.loadWeightedGrades(teacherID, classID, &student.ID)
		if err != nil {
			return nil, GradeStats{}, err
		}

		avg := WeightedAverage(grades)
		rows = append(rows, StudentAverage{
			StudentID:    student.ID,
			StudentName:  student.Name,
			SeatNumber:   student.SeatNumber,
			Average:      avg,
			GradedCount:  len(grades),
			MissingCount: int(assignmentCount) - len(grades),
		})
		averages = append(averages, avg)
	}

	return rows, SummarizeAverages(averages), nil
}

func (gs *GradebookService) loadWeightedGrades(teacherID, classID uint, studentID *uint) ([]WeightedGrade, error) {
	query := gs.db.Model(&models.Grade{}).
		Select("grades.percentage, assignments.weight").
		Joins("JOIN assignments ON assignments.id = grades.assignment_id").
		Where("grades.teacher_id = ? AND grades.class_id = ?", teacherID, classID)
	if studentID != nil {
		query = query.Where("grades.student_id = ?", *studentID)
	}

	var grades []WeightedGrade
	if err := query.Scan(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}
