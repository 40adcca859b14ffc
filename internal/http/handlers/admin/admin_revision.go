package admin

import (
	"github.com/inkpress/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetPostRevisions 列出某语言版本的修订历史（版本号倒序）
func (h *Handler) GetPostRevisions(c *gin.Context) {
	revisions, err := h.PostService.ListRevisions(c.Param("id"), c.Param("locale"))
	if err != nil {
		respondServiceError(c, err, "error.post_fetch_failed")
		return
	}
	response.Success(c, revisions)
}

// GetPostRevision 获取单个修订快照
func (h *Handler) GetPostRevision(c *gin.Context) {
	version, ok := parseVersionParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.version_invalid", nil)
		return
	}
	revision, err := h.PostService.GetRevision(c.Param("id"), c.Param("locale"), version)
	if err != nil {
		respondServiceError(c, err, "error.post_fetch_failed")
		return
	}
	response.Success(c, revision)
}

// RollbackPost 将语言版本恢复到指定修订，恢复前的内容会先生成新修订
func (h *Handler) RollbackPost(c *gin.Context) {
	version, ok := parseVersionParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.version_invalid", nil)
		return
	}
	post, err := h.PostService.Rollback(c.Param("id"), c.Param("locale"), version, actorFromContext(c))
	if err != nil {
		respondServiceError(c, err, "error.post_save_failed")
		return
	}
	requestLog(c).Infow("admin_post_rollback",
		"post_id", post.ID,
		"locale", c.Param("locale"),
		"version", version,
	)
	response.Success(c, post)
}
