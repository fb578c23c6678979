package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/utils"
)

type StudentController struct{}

type CreateStudentRequest struct {
	ClassID      uint        `json:"class_id" validate:"required"`
	Name         string      `json:"name" validate:"required,max=200"`
	SeatNumber   int         `json:"seat_number" validate:"required,min=1"`
	StudentCode  *string     `json:"student_code"`
	Phone        string      `json:"phone"`
	Email        string      `json:"email" validate:"omitempty,email"`
	Gender       string      `json:"gender" validate:"omitempty,oneof=male female"`
	DateOfBirth  *time.Time  `json:"date_of_birth"`
	Grade        string      `json:"grade"`
	ParentName   string      `json:"parent_name"`
	ParentPhone  string      `json:"parent_phone"`
	ParentEmail  string      `json:"parent_email" validate:"omitempty,email"`
	ParentLineID string      `json:"parent_line_id"`
	Notes        string      `json:"notes"`
	Tags         models.JSON `json:"tags"`
}

// GetStudents returns the teacher's students, seat order, optionally
// filtered by class.
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := database.DB.Model(&models.Student{}).Where("teacher_id = ?", teacher.ID)

	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+utils.SanitizeString(search)+"%")
	}

	var students []models.Student
	if err := query.Order("seat_number ASC").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	return c.JSON(fiber.Map{
		"students": students,
	})
}

// GetStudent returns one owned student.
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.Preload("Class").
		Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	return c.JSON(fiber.Map{
		"student": student,
	})
}

// CreateStudent enrolls a student into an owned class. The class roster
// counter is bumped after the insert; the two writes are not atomic.
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req CreateStudentRequest
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

	var class models.Class
	if err := database.DB.Where("id = ? AND teacher_id = ?", req.ClassID, teacher.ID).
		First(&class).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var existing models.Student
	if err := database.DB.Where("class_id = ? AND seat_number = ?", req.ClassID, req.SeatNumber).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Seat number already exists in this class",
		})
	}

	if req.StudentCode != nil && *req.StudentCode != "" {
		if err := database.DB.Where("student_code = ?", *req.StudentCode).
			First(&existing).Error; err == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Student code already exists",
			})
		}
	}

	student := models.Student{
		TeacherID:    teacher.ID,
		ClassID:      req.ClassID,
		Name:         req.Name,
		SeatNumber:   req.SeatNumber,
		StudentCode:  req.StudentCode,
		Phone:        req.Phone,
		Email:        req.Email,
		Gender:       req.Gender,
		DateOfBirth:  req.DateOfBirth,
		Grade:        req.Grade,
		ParentName:   req.ParentName,
		ParentPhone:  req.ParentPhone,
		ParentEmail:  req.ParentEmail,
		ParentLineID: req.ParentLineID,
		Notes:        req.Notes,
		Tags:         req.Tags,
		Active:       true,
		EnrolledAt:   time.Now(),
	}

	if err := database.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create student",
		})
	}

	database.DB.Model(&class).Update("current_students", gorm.Expr("current_students + 1"))

	middleware.LogActivity(c, "CREATE", "students", student.ID, student)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

// UpdateStudent applies a partial update to an owned student.
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var updateData models.Student
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// A moved seat must stay unique inside the class.
	if updateData.SeatNumber != 0 && updateData.SeatNumber != student.SeatNumber {
		var existing models.Student
		if err := database.DB.Where("class_id = ? AND seat_number = ? AND id <> ?",
			student.ClassID, updateData.SeatNumber, student.ID).
			First(&existing).Error; err == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Seat number already exists in this class",
			})
		}
	}

	updateData.TeacherID = student.TeacherID
	updateData.ClassID = student.ClassID

	if err := database.DB.Model(&student).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update student",
		})
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// DeleteStudent removes a student and decrements the class roster counter.
// Attendance, grade and behavior records are left in place.
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	if err := database.DB.Delete(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete student",
		})
	}

	database.DB.Model(&models.Class{}).
		Where("id = ? AND current_students > 0", student.ClassID).
		Update("current_students", gorm.Expr("current_students - 1"))

	middleware.LogActivity(c, "DELETE", "students", student.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Student deleted successfully",
	})
}
