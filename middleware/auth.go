package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"deepshop/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	ctxUserKey     = "auth_user"
	ctxShadowByKey = "shadow_by"

	// DeviceIDHeader carries the client's hardware id; requests from a
	// device on the account's blacklist are rejected even with a valid
	// token.
	DeviceIDHeader = "X-Device-ID"
)

// UserLoader resolves the authenticated user document from the token's
// uid claim on every request, so bans and role changes take effect
// immediately instead of at token expiry.
type UserLoader interface {
	FindByUID(ctx context.Context, uid string) (*models.User, error)
}

// IssueToken signs a 24-hour JWT for the user. shadowBy carries the
// admin uid when the token was issued through shadow mode.
func IssueToken(secret []byte, user *models.User, shadowBy string) (string, error) {
	claims := jwt.MapClaims{
		"uid":   user.UID,
		"email": user.Email,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	if shadowBy != "" {
		claims["shadow_by"] = shadowBy
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func AuthMiddleware(secret []byte, users UserLoader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		uid, _ := claims["uid"].(string)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		user, err := users.FindByUID(c.Request.Context(), uid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}
		if user.IsBanned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account banned"})
			return
		}
		if device := c.GetHeader(DeviceIDHeader); device != "" && slices.Contains(user.BannedDevices, device) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "This account or device is permanently blacklisted"})
			return
		}

		if shadowBy, _ := claims["shadow_by"].(string); shadowBy != "" {
			c.Set(ctxShadowByKey, shadowBy)
			logger.Info("Shadow mode request",
				zap.String("trace_id", GetTraceID(c.Request.Context())),
				zap.String("admin_uid", shadowBy),
				zap.String("user_uid", uid),
			)
		}

		SetUser(c, user)
		c.Next()
	}
}

// SetUser stores the authenticated user on the request context.
func SetUser(c *gin.Context, user *models.User) {
	c.Set(ctxUserKey, user)
}

// CurrentUser returns the authenticated user placed by AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// ShadowedBy returns the impersonating admin's uid, or "".
func ShadowedBy(c *gin.Context) string {
	return c.GetString(ctxShadowByKey)
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func RequireSeller() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !(user.IsSellerApproved || user.IsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Seller access required"})
			return
		}
		c.Next()
	}
}
