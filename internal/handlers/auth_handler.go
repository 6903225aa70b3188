package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	ua "github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/rentgrid/car-rental-backend/internal/database"
	"github.com/rentgrid/car-rental-backend/internal/models"
	"github.com/rentgrid/car-rental-backend/pkg/jwt"
)

// AuthHandler handles registration, login and token refresh. It supplies
// the identity the scheduling core consumes through the auth middleware;
// the core itself never authenticates anyone.
type AuthHandler struct {
	users              *database.UserRepository
	refreshTokens      *database.RefreshTokenRepository
	jwtService         *jwt.Service
	refreshTokenExpiry time.Duration
	logger             *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	users *database.UserRepository,
	refreshTokens *database.RefreshTokenRepository,
	jwtService *jwt.Service,
	refreshTokenExpiry time.Duration,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:              users,
		refreshTokens:      refreshTokens,
		jwtService:         jwtService,
		refreshTokenExpiry: refreshTokenExpiry,
		logger:             logger,
	}
}

// Register creates a new customer account.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Roles:        pq.StringArray{models.RoleCustomer},
	}
	if err := h.users.Create(user); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		respondError(c, err)
		return
	}

	h.logger.WithField("user_id", user.ID).Info("User registered")
	c.JSON(http.StatusCreated, user)
}

// Login authenticates a user and issues an access/refresh token pair.
// The refresh token is persisted hashed, together with the device it was
// issued to.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	accessToken, refreshToken, err := h.issueTokens(c, user)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Refresh rotates a refresh token into a new access/refresh pair. The old
// token is revoked.
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if _, err := h.jwtService.ValidateRefreshToken(req.RefreshToken); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	stored, err := h.refreshTokens.Get(req.RefreshToken)
	if err != nil || stored.Revoked || stored.ExpiresAt.Before(time.Now()) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token is revoked or expired"})
		return
	}

	user, err := h.users.GetByID(stored.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}

	// A concurrent refresh may have revoked the token between the lookup
	// and here; losing that race is not a server error.
	if err := h.refreshTokens.Revoke(req.RefreshToken); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token is revoked or expired"})
			return
		}
		h.logger.WithError(err).Error("Failed to revoke refresh token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate tokens"})
		return
	}

	accessToken, refreshToken, err := h.issueTokens(c, user)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User) (accessToken, refreshToken string, err error) {
	accessToken, err = h.jwtService.GenerateAccessToken(user.ID, user.Email, user.Roles)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = h.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}

	err = h.refreshTokens.Store(
		user.ID,
		refreshToken,
		deviceInfo(c.Request.UserAgent()),
		c.ClientIP(),
		time.Now().Add(h.refreshTokenExpiry),
	)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// deviceInfo condenses a User-Agent header into a short device label
func deviceInfo(userAgent string) string {
	if userAgent == "" {
		return ""
	}
	parsed := ua.New(userAgent)
	browser, version := parsed.Browser()
	if browser == "" {
		return userAgent
	}
	return fmt.Sprintf("%s %s on %s", browser, version, parsed.OS())
}
