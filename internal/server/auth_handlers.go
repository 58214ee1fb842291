package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopd-dev/shopd/internal/auth"
	"github.com/shopd-dev/shopd/internal/models"
)

// Refresh tokens outlive access tokens by design; they are revoked on logout.
const refreshTokenTTL = 30 * 24 * time.Hour

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         *UserDetail `json:"user"`
}

// RefreshRequest exchanges a refresh token for a new access token. The token
// may also arrive via the http-only cookie set at login.
type RefreshRequest struct {
	UserID       string `json:"userId" binding:"required"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse carries the newly minted access token
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// UserDetail represents user information returned in responses
type UserDetail struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IsAdmin   bool   `json:"is_admin"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

// CreateUserRequest represents a request to create a new operator account
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	IsAdmin  bool   `json:"is_admin"`
}

func userDetail(user *models.User) *UserDetail {
	return &UserDetail{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		IsAdmin:   user.IsAdmin,
		Active:    user.Active,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// csrfToken issues a fresh CSRF token and mirrors it into a cookie. Clients
// echo the cookie value in the X-CSRF-Token header on mutating requests.
func (s *Server) csrfToken(c *gin.Context) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate CSRF token")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	token := hex.EncodeToString(buf)

	// Not http-only: browser clients read it to set the header
	c.SetCookie(csrfCookieName, token, int((12 * time.Hour).Seconds()), "/", "", false, false)

	respond(c, http.StatusOK, gin.H{"csrfToken": token})
}

func (s *Server) login(c *gin.Context) {
	s.handleLogin(c, false)
}

// adminLogin is the same flow as login but rejects non-admin accounts
func (s *Server) adminLogin(c *gin.Context) {
	s.handleLogin(c, true)
}

func (s *Server) handleLogin(c *gin.Context, requireAdmin bool) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	// Find user by email
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Verify password
	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !user.Active {
		fail(c, http.StatusUnauthorized, "Account deactivated")
		return
	}

	if requireAdmin && !user.IsAdmin {
		fail(c, http.StatusForbidden, "Admin access required")
		return
	}

	// Generate the access token and a persisted refresh token
	accessToken, err := auth.GenerateAccessToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate access token")
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate refresh token")
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.db.Create(record).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist refresh token")
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	// Mirror the refresh token into an http-only cookie for browser clients
	c.SetCookie(refreshCookieName, refreshToken, int(refreshTokenTTL.Seconds()), "/", "", false, true)

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User logged in")

	respond(c, http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userDetail(&user),
	})
}

// refresh exchanges a valid refresh token for a new access token. Expired or
// revoked tokens end the session; clients treat that as a forced logout.
func (s *Server) refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	token := req.RefreshToken
	if token == "" {
		// Fall back to the http-only cookie set at login
		if cookie, err := c.Cookie(refreshCookieName); err == nil {
			token = cookie
		}
	}
	if token == "" {
		fail(c, http.StatusUnauthorized, "Refresh token required")
		return
	}

	var record models.RefreshToken
	if err := s.db.Where("token = ? AND user_id = ?", token, req.UserID).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to look up refresh token")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !record.Valid(time.Now()) {
		fail(c, http.StatusUnauthorized, "Refresh token expired or revoked")
		return
	}

	var user models.User
	if err := s.db.Where("id = ?", record.UserID).First(&user).Error; err != nil {
		fail(c, http.StatusUnauthorized, "User not found")
		return
	}
	if !user.Active {
		fail(c, http.StatusUnauthorized, "Account deactivated")
		return
	}

	accessToken, err := auth.GenerateAccessToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate access token")
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.logger.Debug().Str("user_id", user.ID).Msg("Access token refreshed")

	respond(c, http.StatusOK, RefreshResponse{AccessToken: accessToken})
}

// logout revokes all of the user's refresh tokens and clears the cookie
func (s *Server) logout(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	now := time.Now()
	if err := s.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", sessionData.UserID).
		Update("revoked_at", &now).Error; err != nil {
		s.logger.Error().Err(err).Str("user_id", sessionData.UserID).Msg("Failed to revoke refresh tokens")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.SetCookie(refreshCookieName, "", -1, "/", "", false, true)

	s.logger.Info().Str("user_id", sessionData.UserID).Msg("User logged out")

	respond(c, http.StatusOK, gin.H{"loggedOut": true})
}

func (s *Server) getCurrentUser(c *gin.Context) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	if err := s.db.Where("id = ?", sessionData.UserID).First(&user).Error; err != nil {
		s.logger.Error().Err(err).Str("user_id", sessionData.UserID).Msg("Failed to find user")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond(c, http.StatusOK, userDetail(&user))
}

func (s *Server) listUsers(c *gin.Context) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	details := make([]*UserDetail, len(users))
	for i := range users {
		details[i] = userDetail(&users[i])
	}

	respond(c, http.StatusOK, details)
}

func (s *Server) getUser(c *gin.Context) {
	var user models.User
	if err := s.db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond(c, http.StatusOK, userDetail(&user))
}

func (s *Server) createUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err == nil && count > 0 {
		fail(c, http.StatusConflict, "A user with this email already exists")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		fail(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		IsAdmin:      req.IsAdmin,
		Active:       true,
	}

	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		fail(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	sessionData, _ := GetSessionData(c)
	s.logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Str("created_by", sessionData.UserID).
		Msg("User created")

	respond(c, http.StatusCreated, userDetail(user))
}

// deactivateUser disables an account and revokes its refresh tokens so every
// device is signed out as soon as its access token expires
func (s *Server) deactivateUser(c *gin.Context) {
	userID := c.Param("id")

	sessionData, _ := GetSessionData(c)
	if userID == sessionData.UserID {
		fail(c, http.StatusBadRequest, "Cannot deactivate yourself")
		return
	}

	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND revoked_at IS NULL", userID).
			Update("revoked_at", &now).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to deactivate user")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("deactivated_by", sessionData.UserID).
		Msg("User deactivated")

	respond(c, http.StatusOK, userDetail(&user))
}
