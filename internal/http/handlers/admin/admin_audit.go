package admin

import (
	"strings"

	handlershared "github.com/inkpress/internal/http/handlers/shared"
	"github.com/inkpress/internal/http/response"
	"github.com/inkpress/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAuditLogs 审计日志列表
func (h *Handler) GetAuditLogs(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	userID, _ := parseQueryUint(c.Query("user_id"))

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	logs, total, err := h.AuditService.List(repository.AuditLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      userID,
		Action:      strings.TrimSpace(c.Query("action")),
		Entity:      strings.TrimSpace(c.Query("entity")),
		EntityID:    strings.TrimSpace(c.Query("entity_id")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.audit_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, logs, handlershared.BuildPagination(page, pageSize, total))
}
