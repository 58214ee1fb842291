package server

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shopd-dev/shopd/internal/auth"
	"github.com/shopd-dev/shopd/internal/models"
)

const (
	bearerPrefix = "Bearer "

	csrfCookieName = "csrf_token"
	csrfHeader     = "X-CSRF-Token"

	refreshCookieName = "refresh_token"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrUserNotFound      = errors.New("user not found")
)

func setSession(c *gin.Context, sessionData *auth.SessionData) {
	c.Set("session", sessionData)
}

func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Msg(message)
	fail(c, statusCode, message)
}

// JWTAuthMiddleware validates the short-lived access token on every request
func JWTAuthMiddleware(db *gorm.DB, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		token, err := extractBearerToken(authHeader)
		if err != nil {
			var message string
			switch err {
			case ErrMissingAuthHeader:
				message = "Missing authorization header"
			case ErrInvalidAuthFormat:
				message = "Invalid authorization header format"
			case ErrEmptyToken:
				message = "Empty token"
			}
			respondWithError(c, log, http.StatusUnauthorized, err, message)
			return
		}

		// Validate the access token; expiry is the common failure and is what
		// drives clients into their refresh flow
		claims, err := auth.ValidateAccessToken(token)
		if err != nil {
			respondWithError(c, log, http.StatusUnauthorized, ErrInvalidToken, "Invalid or expired token")
			return
		}

		// Verify user still exists and is active
		var user models.User
		if err := db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			log.Error().Err(err).Str("user_id", claims.UserID).Msg("User not found")
			respondWithError(c, log, http.StatusUnauthorized, ErrUserNotFound, "User not found")
			return
		}
		if !user.Active {
			respondWithError(c, log, http.StatusUnauthorized, errors.New("user deactivated"), "Account deactivated")
			return
		}

		// Set session data
		setSession(c, &auth.SessionData{
			UserID:  user.ID,
			Email:   user.Email,
			IsAdmin: user.IsAdmin,
		})

		c.Next()
	}
}

// CSRFMiddleware requires mutating requests to echo the csrf_token cookie in
// the X-CSRF-Token header. Safe methods and the auth endpoints pass through.
func CSRFMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/auth/") {
			c.Next()
			return
		}

		cookie, err := c.Cookie(csrfCookieName)
		if err != nil || cookie == "" {
			respondWithError(c, log, http.StatusForbidden, errors.New("missing csrf cookie"), "CSRF token missing")
			return
		}

		header := c.GetHeader(csrfHeader)
		if subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			respondWithError(c, log, http.StatusForbidden, errors.New("csrf mismatch"), "CSRF token mismatch")
			return
		}

		c.Next()
	}
}

// AdminOnlyMiddleware ensures the authenticated user is an admin
func AdminOnlyMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData, exists := GetSessionData(c)
		if !exists {
			respondWithError(c, log, http.StatusUnauthorized, errors.New("no session"), "Unauthorized")
			return
		}

		if !sessionData.IsAdmin {
			respondWithError(c, log, http.StatusForbidden, errors.New("not admin"), "Admin access required")
			return
		}

		c.Next()
	}
}
