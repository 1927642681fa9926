package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/audit-field-study/pairtrack/internal/models"
	"github.com/audit-field-study/pairtrack/internal/utils"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Expires   int
}

type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func validationFail(c *fiber.Ctx, errs FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation error",
		"errors":  errs,
	})
}

type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // ra / admin
}

// Register creates an RA account. The route is admin-gated; there is
// no public signup for this tool.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = string(models.RoleRA)
	}

	errors := FieldErrors{}
	if name == "" {
		errors.Add("name", "Name is required")
	}
	if email == "" {
		errors.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") {
		errors.Add("email", "Invalid email format")
	}
	if password == "" {
		errors.Add("password", "Password is required")
	} else if len(password) < 6 {
		errors.Add("password", "Password must be at least 6 characters")
	}
	if role != string(models.RoleRA) && role != string(models.RoleAdmin) {
		errors.Add("role", "Unknown role")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var existing models.User
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		errs := FieldErrors{}
		errs.Add("email", "Email already registered")
		return validationFail(c, errs)
	} else if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to process password",
		})
	}

	u := models.User{
		Name:     name,
		Email:    email,
		Password: pw,
		Role:     models.Role(role),
		IsActive: true,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to register",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    u.ID,
				"name":  u.Name,
				"email": u.Email,
				"role":  u.Role,
			},
		},
	})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid body",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errors := FieldErrors{}
	if email == "" {
		errors.Add("email", "Email is required")
	}
	if password == "" {
		errors.Add("password", "Password is required")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var u models.User
	if err := h.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Wrong email or password",
		})
	}

	if !u.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Account is inactive",
		})
	}

	if !utils.CheckPassword(u.Password, password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Wrong email or password",
		})
	}

	token, err := utils.SignJWT(h.JWTSecret, strconv.FormatUint(uint64(u.ID), 10), string(u.Role), h.Expires)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create token",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "pt_token",
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    u.ID,
				"name":  u.Name,
				"email": u.Email,
				"role":  u.Role,
			},
		},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "pt_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out",
	})
}
