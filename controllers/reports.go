package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/services"
	"classtrack_go/utils"
)

type ReportController struct{}

type CreateReportRequest struct {
	Title     string      `json:"title" validate:"required,max=255"`
	Type      string      `json:"type" validate:"required,oneof=attendance grades behavior comprehensive"`
	ClassID   uint        `json:"class_id" validate:"required"`
	StudentID *uint       `json:"student_id"`
	StartDate time.Time   `json:"start_date" validate:"required"`
	EndDate   time.Time   `json:"end_date" validate:"required"`
	Filters   models.JSON `json:"filters"`
}

// GetReports lists owned reports newest first.
func (rc *ReportController) GetReports(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := database.DB.Model(&models.Report{}).Where("teacher_id = ?", teacher.ID)

	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	if rType := c.Query("type"); rType != "" {
		if !utils.IsValidReportType(rType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid report type",
			})
		}
		query = query.Where("type = ?", rType)
	}

	var reports []models.Report
	if err := query.Preload("Class").Order("created_at DESC").Find(&reports).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch reports",
		})
	}

	return c.JSON(fiber.Map{
		"reports": reports,
	})
}

// GetReport returns one owned report including its generated data.
func (rc *ReportController) GetReport(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report ID",
		})
	}

	var report models.Report
	if err := database.DB.Preload("Class").Preload("Student").
		Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&report).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found",
		})
	}

	return c.JSON(fiber.Map{
		"report": report,
	})
}

// CreateReport inserts a draft row then synchronously generates it. A
// generation failure fails the request; the draft row remains ungenerated.
func (rc *ReportController) CreateReport(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req CreateReportRequest
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

	if req.EndDate.Before(req.StartDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "End date must not be before start date",
		})
	}

	var class models.Class
	if err := database.DB.Where("id = ? AND teacher_id = ?", req.ClassID, teacher.ID).
		First(&class).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	if req.StudentID != nil {
		var student models.Student
		if err := database.DB.Where("id = ? AND teacher_id = ?", *req.StudentID, teacher.ID).
			First(&student).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Student not found",
			})
		}
	}

	report := models.Report{
		TeacherID: teacher.ID,
		ClassID:   req.ClassID,
		StudentID: req.StudentID,
		Title:     req.Title,
		Type:      req.Type,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Filters:   req.Filters,
	}

	if err := database.DB.Create(&report).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create report",
		})
	}

	reportService := services.NewReportService()
	if err := reportService.GenerateAndStore(&report); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate report",
		})
	}

	middleware.LogActivity(c, "CREATE", "reports", report.ID, fiber.Map{"type": report.Type})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Report generated successfully",
		"report":  report,
	})
}

// UpdateReport edits title and filters only. The stored data is left as it
// was; regeneration is an explicit separate call.
func (rc *ReportController) UpdateReport(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report ID",
		})
	}

	var report models.Report
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&report).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found",
		})
	}

	var updateData struct {
		Title   string      `json:"title" validate:"omitempty,max=255"`
		Filters models.JSON `json:"filters"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := utils.ValidateStruct(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	updates := map[string]interface{}{}
	if updateData.Title != "" {
		updates["title"] = updateData.Title
	}
	if !updateData.Filters.IsNull() {
		updates["filters"] = updateData.Filters
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&report).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update report",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "reports", report.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Report updated successfully",
		"report":  report,
	})
}

// RegenerateReport re-runs generation over the report's stored scope.
func (rc *ReportController) RegenerateReport(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report ID",
		})
	}

	var report models.Report
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&report).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found",
		})
	}

	reportService := services.NewReportService()
	if err := reportService.GenerateAndStore(&report); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to regenerate report",
		})
	}

	middleware.LogActivity(c, "UPDATE", "reports", report.ID, fiber.Map{"regenerated": true})

	return c.JSON(fiber.Map{
		"message": "Report regenerated successfully",
		"report":  report,
	})
}

// ExportReport streams the report as an xlsx workbook and uploads a copy to
// S3 in the background of the same request.
func (rc *ReportController) ExportReport(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report ID",
		})
	}

	var report models.Report
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&report).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found",
		})
	}

	if !report.Generated {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Report has not been generated",
		})
	}

	exportService := services.NewReportExportService()
	content, fileName, err := exportService.ExportAndUpload(&report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export report",
		})
	}

	middleware.LogActivity(c, "EXPORT", "reports", report.ID, fiber.Map{"file": fileName})

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Send(content)
}

// DeleteReport removes an owned report.
func (rc *ReportController) DeleteReport(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report ID",
		})
	}

	var report models.Report
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&report).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found",
		})
	}

	if err := database.DB.Delete(&report).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete report",
		})
	}

	middleware.LogActivity(c, "DELETE", "reports", report.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Report deleted successfully",
	})
}
