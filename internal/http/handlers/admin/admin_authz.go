package admin

import (
	"errors"
	"net/url"
	"strings"

	"github.com/inkpress/internal/authz"
	"github.com/inkpress/internal/constants"
	"github.com/inkpress/internal/http/response"
	"github.com/inkpress/internal/service"

	"github.com/gin-gonic/gin"
)

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, roles)
}

// GetAuthzRolePolicies 获取角色策略（含继承）
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 为角色授予策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondAuthzError(c, err)
		return
	}
	h.recordAuthzAudit(c, constants.AuditActionGrant, req)
	response.Success(c, gin.H{"granted": true})
}

// RevokeAuthzPolicy 撤销角色策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondAuthzError(c, err)
		return
	}
	h.recordAuthzAudit(c, constants.AuditActionRevoke, req)
	response.Success(c, gin.H{"revoked": true})
}

func (h *Handler) recordAuthzAudit(c *gin.Context, action string, req authzPolicyPayload) {
	if h.AuditService == nil {
		return
	}
	h.AuditService.Record(actorFromContext(c), service.AuditEntry{
		Action:   action,
		Entity:   constants.AuditEntityRole,
		EntityID: strings.ToUpper(strings.TrimSpace(req.Role)),
		NewValue: map[string]interface{}{
			"object": req.Object,
			"action": req.Action,
		},
	})
}

func respondAuthzError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrUnknownRole):
		respondError(c, response.CodeBadRequest, "error.role_invalid", err)
	case errors.Is(err, authz.ErrInvalidPolicy):
		respondError(c, response.CodeBadRequest, "error.policy_invalid", err)
	case errors.Is(err, authz.ErrProtectedPolicy):
		respondError(c, response.CodeConflict, "error.policy_protected", err)
	default:
		respondError(c, response.CodeInternal, "error.internal_error", err)
	}
}

func decodeRoleParam(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}
