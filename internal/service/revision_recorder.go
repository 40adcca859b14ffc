package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/repository"

	"gorm.io/gorm"
)

// RevisionRecorder 在语言版本被覆盖前记录快照
// 版本号由仓库在文章行锁下按 (post, locale) 递增分配，记录失败会中止整个更新
type RevisionRecorder struct {
	revisionRepo repository.RevisionRepository
}

// NewRevisionRecorder 创建历史版本记录器
func NewRevisionRecorder(revisionRepo repository.RevisionRepository) *RevisionRecorder {
	return &RevisionRecorder{revisionRepo: revisionRepo}
}

// Capture 以 current 的当前内容追加一个新版本，必须在写入 current 之前调用
func (r *RevisionRecorder) Capture(tx *gorm.DB, current *models.PostTranslation, actorID uint, now time.Time) (*models.Revision, error) {
	if current == nil {
		return nil, &InternalError{Op: "record revision", Err: errors.New("translation is nil")}
	}
	revision := &models.Revision{
		PostID:        current.PostID,
		Locale:        current.Locale,
		SchemaVersion: models.RevisionSnapshotSchemaVersion,
		Snapshot:      models.SnapshotOf(current),
		CreatedByID:   actorID,
		CreatedAt:     now,
	}
	if err := r.revisionRepo.WithTx(tx).Append(revision); err != nil {
		if errors.Is(err, repository.ErrRevisionVersionTaken) {
			return nil, &InternalError{Op: "record revision", Err: ErrConcurrentEdit}
		}
		return nil, &InternalError{Op: "record revision", Err: err}
	}
	logger.Debugw("post_revision_recorded",
		"post_id", revision.PostID,
		"locale", revision.Locale,
		"version", revision.Version,
		"actor_id", actorID,
	)
	return revision, nil
}

// List 按版本号倒序列出历史
func (r *RevisionRecorder) List(postID, locale string) ([]models.Revision, error) {
	revisions, err := r.revisionRepo.ListByPostLocale(postID, locale)
	if err != nil {
		return nil, internalErr("list revisions", err)
	}
	return revisions, nil
}

// Get 获取指定版本，tx 非空时在事务内读取
func (r *RevisionRecorder) Get(tx *gorm.DB, postID, locale string, version uint) (*models.Revision, error) {
	if version == 0 {
		return nil, ErrVersionInvalid
	}
	revision, err := r.revisionRepo.WithTx(tx).GetByVersion(postID, locale, version)
	if err != nil {
		return nil, internalErr("get revision", err)
	}
	if revision == nil {
		return nil, ErrRevisionNotFound
	}
	if revision.SchemaVersion > models.RevisionSnapshotSchemaVersion {
		return nil, &InternalError{
			Op:  "get revision",
			Err: fmt.Errorf("unsupported snapshot schema version %d", revision.SchemaVersion),
		}
	}
	return revision, nil
}
