package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"provision-store/internal/middleware"
	"provision-store/internal/models"
)

const routeAuth = "auth"

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin checks the configured operator credentials and issues an HS256
// access token carrying role=admin.
func AdminLogin(admin models.Admin, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, routeAuth, "invalid body")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || strings.TrimSpace(req.Password) == "" {
			respondWithError(c, http.StatusBadRequest, routeAuth, "email and password are required")
			return
		}

		if admin.Email == "" || admin.PasswordHash == "" || email != admin.Email {
			respondWithError(c, http.StatusUnauthorized, routeAuth, "invalid credentials")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
			respondWithError(c, http.StatusUnauthorized, routeAuth, "invalid credentials")
			return
		}

		signed, expiresAt, err := middleware.IssueToken(jwtSecret, admin.Email, time.Now(), accessTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, routeAuth, "token generation failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":     signed,
			"expiresAt": expiresAt.UTC(),
		})
	}
}
