package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/JuanVergara-9/miservicio-api/internal/delivery/http/response"
	"github.com/JuanVergara-9/miservicio-api/internal/domain"
)

// TokenKey is where the raw bearer token lives in the gin context, so
// handlers can forward the caller's credential to the gateway.
const TokenKey = "AuthToken"

// AuthMiddleware verifies the HS256 bearer token and loads the caller's
// identity into the context keys handlers read.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}

		claims, err := parseClaims(tokenString, jwtSecret)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token", nil)
			c.Abort()
			return
		}

		setIdentity(c, tokenString, claims)
		c.Next()
	}
}

// OptionalAuth loads the identity when a valid token is present and stays
// silent otherwise. Used where anonymous access is allowed but the
// authenticated variant behaves differently.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString != "" {
			if claims, err := parseClaims(tokenString, jwtSecret); err == nil {
				setIdentity(c, tokenString, claims)
			}
		}
		c.Next()
	}
}

// RequireRole gates a route to callers carrying the given role claim.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, _ := c.Get(string(domain.KeyUserRole))
		if current != role {
			response.Error(c, http.StatusForbidden, "Insufficient permissions", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

func parseClaims(tokenString, secret string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	return claims, nil
}

func setIdentity(c *gin.Context, tokenString string, claims jwt.MapClaims) {
	sub, _ := claims["sub"].(string)
	userID, _ := strconv.Atoi(sub)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	c.Set(TokenKey, tokenString)
	c.Set(string(domain.KeyUserID), userID)
	c.Set(string(domain.KeyUserEmail), email)
	c.Set(string(domain.KeyUserRole), role)
}
