package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/services"
	"classtrack_go/utils"
)

type ClassController struct{}

type CreateClassRequest struct {
	Name             string                     `json:"name" validate:"required,max=255"`
	Subject          string                     `json:"subject" validate:"required,max=100"`
	Description      string                     `json:"description"`
	Grade            string                     `json:"grade" validate:"required,max=50"`
	AcademicYear     string                     `json:"academic_year"`
	ClassCode        string                     `json:"class_code"`
	Room             string                     `json:"room"`
	Capacity         int                        `json:"capacity"`
	AttendanceWeight *int                       `json:"attendance_weight" validate:"omitempty,min=0,max=100"`
	BehaviorWeight   *int                       `json:"behavior_weight" validate:"omitempty,min=0,max=100"`
	AssignmentWeight *int                       `json:"assignment_weight" validate:"omitempty,min=0,max=100"`
	MaxAbsences      *int                       `json:"max_absences" validate:"omitempty,min=0"`
	StartDate        *time.Time                 `json:"start_date"`
	EndDate          *time.Time                 `json:"end_date"`
	Semester         string                     `json:"semester"`
	ScheduleSlots    []models.ClassScheduleSlot `json:"schedule_slots"`
}

// ClassStats is the computed per-class dashboard block.
type ClassStats struct {
	StudentCount    int64   `json:"student_count"`
	AssignmentCount int64   `json:"assignment_count"`
	AttendanceToday int64   `json:"attendance_today"`
	AttendanceRate  float64 `json:"attendance_rate"`
	RecentBehaviors int64   `json:"recent_behaviors"`
	AverageGrade    float64 `json:"average_grade"`
}

// GetClasses returns all classes of the authenticated teacher.
func (cc *ClassController) GetClasses(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := database.DB.Model(&models.Class{}).Where("teacher_id = ?", teacher.ID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	} else {
		query = query.Where("status <> ?", "archived")
	}
	if subject := c.Query("subject"); subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if academicYear := c.Query("academic_year"); academicYear != "" {
		query = query.Where("academic_year = ?", academicYear)
	}

	var classes []models.Class
	if err := query.Preload("ScheduleSlots").Order("created_at DESC").Find(&classes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch classes",
		})
	}

	return c.JSON(fiber.Map{
		"classes": classes,
	})
}

// GetClass returns one class. With include_stats=true the dashboard stats
// block is computed, cached in Redis for 60 seconds.
func (cc *ClassController) GetClass(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.Class
	if err := database.DB.Preload("ScheduleSlots").
		Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&class).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	response := fiber.Map{"class": class}

	if c.Query("include_stats") == "true" {
		stats, err := cc.classStats(&class)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to compute class stats",
			})
		}
		response["stats"] = stats
	}

	return c.JSON(response)
}

func (cc *ClassController) classStats(class *models.Class) (*ClassStats, error) {
	cacheKey := fmt.Sprintf("class_stats:%d", class.ID)
	redisClient := database.GetRedisClient()

	if redisClient != nil {
		if cached, err := redisClient.Get(context.Background(), cacheKey).Result(); err == nil {
			var stats ClassStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	var stats ClassStats

	if err := database.DB.Model(&models.Student{}).
		Where("class_id = ? AND active = ?", class.ID, true).
		Count(&stats.StudentCount).Error; err != nil {
		return nil, err
	}

	if err := database.DB.Model(&models.Assignment{}).
		Where("class_id = ?", class.ID).
		Count(&stats.AssignmentCount).Error; err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	var presentToday int64
	if err := database.DB.Model(&models.Attendance{}).
		Where("class_id = ? AND DATE(date) = ?", class.ID, today).
		Count(&stats.AttendanceToday).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&models.Attendance{}).
		Where("class_id = ? AND DATE(date) = ? AND status IN ?", class.ID, today, []string{"present", "late"}).
		Count(&presentToday).Error; err != nil {
		return nil, err
	}
	stats.AttendanceRate = services.DailyAttendanceRate(int(presentToday), 0, int(stats.StudentCount))

	weekAgo := time.Now().AddDate(0, 0, -7)
	if err := database.DB.Model(&models.Behavior{}).
		Where("class_id = ? AND date >= ?", class.ID, weekAgo).
		Count(&stats.RecentBehaviors).Error; err != nil {
		return nil, err
	}

	var avg *float64
	if err := database.DB.Model(&models.Grade{}).
		Select("AVG(percentage)").
		Where("class_id = ?", class.ID).
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		stats.AverageGrade = *avg
	}

	if redisClient != nil {
		if raw, err := json.Marshal(stats); err == nil {
			redisClient.Set(context.Background(), cacheKey, raw, 60*time.Second)
		}
	}

	return &stats, nil
}

// CreateClass creates a new class for the authenticated teacher.
func (cc *ClassController) CreateClass(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req CreateClassRequest
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

	classCode := strings.TrimSpace(req.ClassCode)
	if classCode == "" {
		random, err := utils.GenerateRandomString(8)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to generate class code",
			})
		}
		classCode = strings.ToUpper(random)
	} else {
		var existing models.Class
		if err := database.DB.Where("class_code = ?", classCode).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Class code already exists",
			})
		}
	}

	class := models.Class{
		TeacherID:    teacher.ID,
		Name:         req.Name,
		Subject:      req.Subject,
		Description:  req.Description,
		Grade:        req.Grade,
		AcademicYear: req.AcademicYear,
		ClassCode:    classCode,
		Room:         req.Room,
		Capacity:     req.Capacity,
		Semester:     req.Semester,
		Status:       "active",
	}
	if class.Capacity == 0 {
		class.Capacity = 30
	}
	class.AttendanceWeight = 30
	class.BehaviorWeight = 20
	class.AssignmentWeight = 50
	class.MaxAbsences = 10
	if req.AttendanceWeight != nil {
		class.AttendanceWeight = *req.AttendanceWeight
	}
	if req.BehaviorWeight != nil {
		class.BehaviorWeight = *req.BehaviorWeight
	}
	if req.AssignmentWeight != nil {
		class.AssignmentWeight = *req.AssignmentWeight
	}
	if req.MaxAbsences != nil {
		class.MaxAbsences = *req.MaxAbsences
	}
	if req.StartDate != nil {
		class.StartDate = *req.StartDate
	} else {
		class.StartDate = time.Now()
	}
	class.EndDate = req.EndDate

	if err := database.DB.Create(&class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create class",
		})
	}

	for i := range req.ScheduleSlots {
		req.ScheduleSlots[i].ClassID = class.ID
	}
	if len(req.ScheduleSlots) > 0 {
		if err := database.DB.Create(&req.ScheduleSlots).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create schedule slots",
			})
		}
		class.ScheduleSlots = req.ScheduleSlots
	}

	middleware.LogActivity(c, "CREATE", "classes", class.ID, class)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Class created successfully",
		"class":   class,
	})
}

// UpdateClass applies a partial update to an owned class.
func (cc *ClassController) UpdateClass(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.Class
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&class).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var updateData models.Class
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// A changed class code must stay globally unique.
	if updateData.ClassCode != "" && updateData.ClassCode != class.ClassCode {
		var existing models.Class
		if err := database.DB.Where("class_code = ? AND id <> ?", updateData.ClassCode, class.ID).
			First(&existing).Error; err == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Class code already exists",
			})
		}
	}

	updateData.TeacherID = class.TeacherID
	updateData.CurrentStudents = class.CurrentStudents

	if err := database.DB.Model(&class).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update class",
		})
	}

	middleware.LogActivity(c, "UPDATE", "classes", class.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Class updated successfully",
		"class":   class,
	})
}

// DeleteClass archives a class. A class with active students cannot be
// archived.
func (cc *ClassController) DeleteClass(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.Class
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&class).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var activeStudents int64
	if err := database.DB.Model(&models.Student{}).
		Where("class_id = ? AND active = ?", class.ID, true).
		Count(&activeStudents).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check class roster",
		})
	}
	if activeStudents > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot archive a class with active students",
		})
	}

	if err := database.DB.Model(&class).Update("status", "archived").Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to archive class",
		})
	}

	middleware.LogActivity(c, "DELETE", "classes", class.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Class archived successfully",
	})
}
