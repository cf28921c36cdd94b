package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/re-admin/core/internal/middleware"
	"github.com/re-admin/core/internal/models"
	"github.com/re-admin/core/internal/pkg/apperr"
	"github.com/re-admin/core/internal/pkg/jwt"
	"github.com/re-admin/core/internal/pkg/response"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const accessTokenTTL = 24 * time.Hour

// ErrInvalidCredentials covers both unknown email and wrong password so the
// response does not leak which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginDTO struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Login verifies the password and issues an access token.
func (s *Service) Login(email, password string) (string, *models.AdminUserModel, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.AdminUserModel
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, apperr.Store(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := jwt.Sign(user.ID, user.Email, user.RoleID, accessTokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// HashPassword is used by account seeding.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(hash), err
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
	g.GET("/profile", authMW, h.profile)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "email and password required")
		return
	}

	token, user, err := h.svc.Login(dto.Email, dto.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(c)
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":      user.ID,
			"email":   user.Email,
			"role_id": user.RoleID,
		},
	})
}

// logout is stateless; tokens expire on their own. The endpoint exists so the
// frontend has a uniform call to clear its session.
func (h *Handler) logout(c *gin.Context) {
	response.OK(c, gin.H{"message": "logged out"})
}

func (h *Handler) profile(c *gin.Context) {
	response.OK(c, gin.H{
		"id":      middleware.CurrentUserID(c),
		"email":   middleware.CurrentEmail(c),
		"role_id": middleware.CurrentRoleID(c),
	})
}
