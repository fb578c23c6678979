package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/utils"
)

type TemplateController struct{}

type CreateTemplateRequest struct {
	Name      string      `json:"name" validate:"required,max=255"`
	Type      string      `json:"type" validate:"required,oneof=email sms report certificate letter"`
	Category  string      `json:"category" validate:"omitempty,oneof=attendance behavior grades announcement reminder general"`
	Subject   string      `json:"subject" validate:"max=255"`
	Body      string      `json:"body" validate:"required"`
	Variables models.JSON `json:"variables"`
	Public    bool        `json:"public"`
}

// GetTemplates lists the teacher's templates plus public ones.
func (tc *TemplateController) GetTemplates(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := database.DB.Model(&models.Template{}).
		Where("teacher_id = ? OR public = ?", teacher.ID, true)

	if tType := c.Query("type"); tType != "" {
		query = query.Where("type = ?", tType)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var templates []models.Template
	if err := query.Order("usage_count DESC, created_at DESC").Find(&templates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch templates",
		})
	}

	return c.JSON(fiber.Map{
		"templates": templates,
	})
}

// CreateTemplate stores a reusable template.
func (tc *TemplateController) CreateTemplate(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req CreateTemplateRequest
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

	template := models.Template{
		TeacherID: teacher.ID,
		Name:      req.Name,
		Type:      req.Type,
		Category:  req.Category,
		Subject:   req.Subject,
		Body:      req.Body,
		Variables: req.Variables,
		Public:    req.Public,
	}
	if template.Category == "" {
		template.Category = "general"
	}

	if err := database.DB.Create(&template).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create template",
		})
	}

	middleware.LogActivity(c, "CREATE", "templates", template.ID, template)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Template created successfully",
		"template": template,
	})
}

// UseTemplate returns a template body and bumps its usage counter. Public
// templates of other teachers are readable here.
func (tc *TemplateController) UseTemplate(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID",
		})
	}

	var template models.Template
	if err := database.DB.Where("id = ? AND (teacher_id = ? OR public = ?)", uint(id), teacher.ID, true).
		First(&template).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Template not found",
		})
	}

	database.DB.Model(&template).Update("usage_count", gorm.Expr("usage_count + 1"))

	return c.JSON(fiber.Map{
		"template": template,
	})
}

// UpdateTemplate applies a partial update to an owned template.
func (tc *TemplateController) UpdateTemplate(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID",
		})
	}

	var template models.Template
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&template).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Template not found",
		})
	}

	var updateData models.Template
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updateData.TeacherID = template.TeacherID
	updateData.UsageCount = template.UsageCount

	if err := database.DB.Model(&template).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update template",
		})
	}

	middleware.LogActivity(c, "UPDATE", "templates", template.ID, updateData)

	return c.JSON(fiber.Map{
		"message":  "Template updated successfully",
		"template": template,
	})
}

// DeleteTemplate removes an owned template.
func (tc *TemplateController) DeleteTemplate(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID",
		})
	}

	var template models.Template
	if err := database.DB.Where("id = ? AND teacher_id = ?", uint(id), teacher.ID).
		First(&template).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Template not found",
		})
	}

	if err := database.DB.Delete(&template).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete template",
		})
	}

	middleware.LogActivity(c, "DELETE", "templates", template.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Template deleted successfully",
	})
}
