package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/middleware"
	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/models"
)

// getUserID extracts the authenticated user id set by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(ctx *gin.Context, key string, def int) int {
	if v := strings.TrimSpace(ctx.Query(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// queryUint parses a numeric query parameter.
func queryUint(ctx *gin.Context, key string) (uint, bool) {
	v := strings.TrimSpace(ctx.Query(key))
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// paramUint parses a numeric path parameter.
func paramUint(ctx *gin.Context, key string) (uint, bool) {
	v := strings.TrimSpace(ctx.Param(key))
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// sanitizeUserResponse exposes the public subset of a user record.
func sanitizeUserResponse(user models.User) gin.H {
	return gin.H{
		"id":              user.ID,
		"username":        user.Username,
		"display_name":    user.DisplayName,
		"bio":             user.Bio,
		"avatar_url":      user.AvatarURL,
		"role":            user.Role,
		"organization_id": user.OrganizationID,
		"body_points":     user.BodyPoints,
		"created_at":      user.CreatedAt,
	}
}
