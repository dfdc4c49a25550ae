// Package middleware provides the gin middleware of the service.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

// ContextRoomID is the gin context key holding the resolved room binding.
const ContextRoomID = "room_id"

// ErrMissingToken indicates no room token was presented.
var ErrMissingToken = errors.New("missing room token")

// RoomSession returns a middleware that resolves the caller's room binding
// from a signed room token. The token is read from the Authorization header
// or, for WebSocket upgrades where browsers cannot set headers, from the
// `token` query parameter. Requests without a valid binding never reach the
// realtime layer.
func RoomSession(tokenSecret string) gin.HandlerFunc {
	if tokenSecret == "" {
		panic("token secret cannot be empty for RoomSession middleware")
	}

	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			logrus.WithError(err).Warn("RoomSession: no usable token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Room token is required"})
			c.Abort()
			return
		}

		claims, err := validateToken(tokenStr, tokenSecret)
		if err != nil {
			logrus.WithError(err).Warn("RoomSession: invalid token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired room token"})
			c.Abort()
			return
		}

		roomIDClaim, ok := claims["room_id"]
		if !ok {
			logrus.Error("RoomSession: room_id claim missing in token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid room token"})
			c.Abort()
			return
		}
		// JWT numbers decode as float64.
		roomIDFloat, ok := roomIDClaim.(float64)
		if !ok || roomIDFloat <= 0 || roomIDFloat != float64(uint(roomIDFloat)) {
			logrus.Errorf("RoomSession: room_id claim is not a valid id: %v", roomIDClaim)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid room token"})
			c.Abort()
			return
		}

		c.Set(ContextRoomID, uint(roomIDFloat))
		c.Next()
	}
}

// extractToken reads a bearer token from the Authorization header, falling
// back to the token query parameter.
func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", jwt.ErrTokenMalformed
		}
		return parts[1], nil
	}
	if token := c.Query("token"); token != "" {
		return token, nil
	}
	return "", ErrMissingToken
}

// validateToken parses and verifies an HS256 room token.
func validateToken(tokenStr, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token or claims type")
}
