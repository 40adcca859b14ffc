package public

import (
	"github.com/inkpress/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PreviewView 预览响应结构，额外返回文章当前状态
type PreviewView struct {
	PublicPostView
	Status string `json:"status"`
}

// GetPreview 通过预览令牌查看文章当前内容（包括草稿）
func (h *Handler) GetPreview(c *gin.Context) {
	post, err := h.PreviewService.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondWithMappedError(c, err, previewErrorRules, response.CodeInternal, "error.internal_error")
		return
	}
	response.SuccessNoStore(c, PreviewView{
		PublicPostView: buildPublicPostView(post, normalizeLocaleQuery(c.Query("locale"))),
		Status:         post.Status,
	})
}
