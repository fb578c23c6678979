package middleware

import (
	"classtrack_go/config"
	"classtrack_go/database"
	"classtrack_go/models"
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type Claims struct {
	TeacherID uint   `json:"teacher_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken creates a new JWT token for a teacher
func GenerateToken(teacher *models.Teacher) (string, error) {
	claims := &Claims{
		TeacherID: teacher.ID,
		Email:     teacher.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.AppConfig.JWTExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// JWTMiddleware validates JWT tokens. Every tenant-scoped handler sits behind
// this; the resolved teacher is the sole authorization scope for all queries.
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		// Reject tokens blacklisted by logout
		if rc := database.GetRedisClient(); rc != nil {
			if exists, err := rc.Exists(context.Background(), "blacklist:jwt:"+tokenString).Result(); err == nil && exists > 0 {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Unauthorized",
				})
			}
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.AppConfig.JWTSecret), nil
		})

		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		// Verify teacher still exists and is active
		var teacher models.Teacher
		if err := database.DB.Where("id = ? AND active = ?", claims.TeacherID, true).First(&teacher).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		c.Locals("teacher", &teacher)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// ParseToken validates a raw token string and resolves its teacher. Used by
// the websocket upgrade path where the token arrives as a query parameter.
func ParseToken(tokenString string) (*models.Teacher, error) {
	if rc := database.GetRedisClient(); rc != nil {
		if exists, err := rc.Exists(context.Background(), "blacklist:jwt:"+tokenString).Result(); err == nil && exists > 0 {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	var teacher models.Teacher
	if err := database.DB.Where("id = ? AND active = ?", claims.TeacherID, true).First(&teacher).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return &teacher, nil
}

// CurrentTeacher returns the authenticated teacher from the request context
func CurrentTeacher(c *fiber.Ctx) (*models.Teacher, error) {
	teacher, ok := c.Locals("teacher").(*models.Teacher)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return teacher, nil
}

// CurrentClaims returns the current JWT claims
func CurrentClaims(c *fiber.Ctx) (*Claims, error) {
	claims, ok := c.Locals("claims").(*Claims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return claims, nil
}
