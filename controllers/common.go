package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mystic/tarotconstellation/middleware"
)

// getUserID extracts the authenticated user ID placed by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// paramUint parses a positive integer path parameter.
func paramUint(ctx *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(ctx.Param(name))
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// pageParams reads page/limit query values with bounds applied.
func pageParams(ctx *gin.Context, defaultLimit, maxLimit int) (page, limit int) {
	page, limit = 1, defaultLimit
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxLimit {
			limit = n
		}
	}
	return page, limit
}

func isSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func isYesterday(last, today time.Time) bool {
	// AddDate keeps calendar-day arithmetic correct across DST transitions.
	yesterday := today.AddDate(0, 0, -1)
	return last.Year() == yesterday.Year() && last.YearDay() == yesterday.YearDay()
}
