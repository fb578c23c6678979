package controllers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"classtrack_go/config"
	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/storage"
	"classtrack_go/utils"
)

type AuthController struct{}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	School   string `json:"school"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new teacher account and returns a signed token.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
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

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.Teacher
	if err := database.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Email already registered",
		})
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create account",
		})
	}

	teacher := models.Teacher{
		Name:     req.Name,
		Email:    email,
		Password: hashed,
		School:   req.School,
		Phone:    req.Phone,
		Active:   true,
	}

	if err := database.DB.Create(&teacher).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create account",
		})
	}

	token, err := middleware.GenerateToken(&teacher)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created successfully",
		"token":   token,
		"teacher": teacher,
	})
}

// Login authenticates a teacher and returns a signed token.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
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

	var teacher models.Teacher
	err := database.DB.Where("email = ? AND active = ?", strings.ToLower(strings.TrimSpace(req.Email)), true).
		First(&teacher).Error
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if utils.CheckPassword(req.Password, teacher.Password) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	now := time.Now()
	database.DB.Model(&teacher).Update("last_login_at", &now)

	token, err := middleware.GenerateToken(&teacher)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"teacher": teacher,
	})
}

// Logout blacklists the presented token until it would have expired.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" || token == authHeader {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No token provided",
		})
	}

	redisClient := database.GetRedisClient()
	if redisClient != nil {
		// Blacklist only for the token's remaining lifetime.
		ttl := config.AppConfig.JWTExpiresIn
		if claims, err := middleware.CurrentClaims(c); err == nil && claims.ExpiresAt != nil {
			ttl = time.Until(claims.ExpiresAt.Time)
		}
		if ttl > 24*time.Hour {
			ttl = 24 * time.Hour
		}
		if ttl > 0 {
			redisClient.Set(context.Background(), "blacklist:jwt:"+token, "1", ttl)
		}
	}

	middleware.LogActivity(c, "LOGOUT", "teachers", 0, nil)

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// GetProfile returns the authenticated teacher.
func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	return c.JSON(fiber.Map{
		"teacher": teacher,
	})
}

type UpdateProfileRequest struct {
	Name       string      `json:"name"`
	Phone      string      `json:"phone"`
	School     string      `json:"school"`
	Department string      `json:"department"`
	EmployeeID string      `json:"employee_id"`
	Bio        string      `json:"bio"`
	Subjects   models.JSON `json:"subjects"`
}

// UpdateProfile applies a partial profile update. Email and password are
// never updatable through this route.
func (ac *AuthController) UpdateProfile(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.School != "" {
		updates["school"] = req.School
	}
	if req.Department != "" {
		updates["department"] = req.Department
	}
	if req.EmployeeID != "" {
		updates["employee_id"] = req.EmployeeID
	}
	if req.Bio != "" {
		updates["bio"] = req.Bio
	}
	if !req.Subjects.IsNull() {
		updates["subjects"] = req.Subjects
	}

	if len(updates) > 0 {
		if err := database.DB.Model(teacher).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update profile",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "teachers", teacher.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"teacher": teacher,
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// ChangePassword verifies the current password before replacing it.
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req ChangePasswordRequest
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

	if utils.CheckPassword(req.CurrentPassword, teacher.Password) != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Current password is incorrect",
		})
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update password",
		})
	}

	if err := database.DB.Model(teacher).Update("password", hashed).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update password",
		})
	}

	middleware.LogActivity(c, "UPDATE", "teachers", teacher.ID, fiber.Map{"changed": "password"})

	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
	})
}

// UpdatePreferences replaces the free-form preference bag.
func (ac *AuthController) UpdatePreferences(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var prefs map[string]interface{}
	if err := c.BodyParser(&prefs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	raw, err := json.Marshal(prefs)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid preferences payload",
		})
	}

	if err := database.DB.Model(teacher).Update("preferences", models.JSON(raw)).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update preferences",
		})
	}

	middleware.LogActivity(c, "UPDATE", "teachers", teacher.ID, fiber.Map{"changed": "preferences"})

	return c.JSON(fiber.Map{
		"message":     "Preferences updated successfully",
		"preferences": prefs,
	})
}

type UpdateSettingsRequest struct {
	AttendanceThreshold *int    `json:"attendance_threshold" validate:"omitempty,min=0,max=100"`
	GradingScale        *string `json:"grading_scale" validate:"omitempty,oneof=percentage letter points"`
	BehaviorTracking    *bool   `json:"behavior_tracking"`
	ParentCommunication *bool   `json:"parent_communication"`
}

// UpdateSettings applies classroom settings changes.
func (ac *AuthController) UpdateSettings(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req UpdateSettingsRequest
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

	updates := map[string]interface{}{}
	if req.AttendanceThreshold != nil {
		updates["attendance_threshold"] = *req.AttendanceThreshold
	}
	if req.GradingScale != nil {
		updates["grading_scale"] = *req.GradingScale
	}
	if req.BehaviorTracking != nil {
		updates["behavior_tracking"] = *req.BehaviorTracking
	}
	if req.ParentCommunication != nil {
		updates["parent_communication"] = *req.ParentCommunication
	}

	if len(updates) > 0 {
		if err := database.DB.Model(teacher).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update settings",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "teachers", teacher.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Settings updated successfully",
		"teacher": teacher,
	})
}

// UploadAvatar stores a new profile image in S3.
func (ac *AuthController) UploadAvatar(c *fiber.Ctx) error {
	teacher, err := middleware.CurrentTeacher(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Avatar file is required",
		})
	}

	storageService, err := storage.NewStorageService()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Storage is not available",
		})
	}

	url, err := storageService.UploadFile(file, "avatars", teacher.ID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if teacher.Avatar != "" {
		storageService.DeleteFile(teacher.Avatar)
	}

	if err := database.DB.Model(teacher).Update("avatar", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update avatar",
		})
	}

	middleware.LogActivity(c, "UPDATE", "teachers", teacher.ID, fiber.Map{"changed": "avatar"})

	return c.JSON(fiber.Map{
		"message": "Avatar updated successfully",
		"avatar":  url,
	})
}
