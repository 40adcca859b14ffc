package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/inkpress/internal/http/handlers/shared"
	"github.com/inkpress/internal/service"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetUserID(c)
}

func actorFromContext(c *gin.Context) service.Actor {
	return handlershared.ActorFromContext(c)
}

func parseVersionParam(c *gin.Context) (uint, bool) {
	version, err := strconv.ParseUint(c.Param("version"), 10, 32)
	if err != nil || version == 0 {
		return 0, false
	}
	return uint(version), true
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseQueryUint(raw string) (uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(value), true
}
