package admin

import (
	"github.com/inkpress/internal/http/response"

	"github.com/gin-gonic/gin"
)

// IssuePreviewTokenRequest 预览令牌请求，locale 为空时不限定语言
type IssuePreviewTokenRequest struct {
	Locale string `json:"locale" binding:"omitempty,locale"`
}

// IssuePreviewToken 为文章签发预览令牌
func (h *Handler) IssuePreviewToken(c *gin.Context) {
	var req IssuePreviewTokenRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	issued, err := h.PreviewService.Issue(c.Request.Context(), c.Param("id"), req.Locale, actorFromContext(c))
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, issued)
}
