package service

import (
	"github.com/inkpress/internal/constants"
	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/metrics"
	"github.com/inkpress/internal/models"

	"gorm.io/gorm"
)

// ListRevisions 按版本号倒序列出某语言的历史版本
func (s *PostService) ListRevisions(postID, locale string) ([]models.Revision, error) {
	locale, err := s.validator.NormalizeLocale(locale)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetAdmin(postID); err != nil {
		return nil, err
	}
	return s.recorder.List(postID, locale)
}

// GetRevision 获取指定历史版本
func (s *PostService) GetRevision(postID, locale string, version uint) (*models.Revision, error) {
	locale, err := s.validator.NormalizeLocale(locale)
	if err != nil {
		return nil, err
	}
	return s.recorder.Get(nil, postID, locale, version)
}

// Rollback 将语言版本恢复到指定历史版本
// 覆盖前先把当前内容记录为新版本，因此回滚本身也可以再回滚；目标即当前内容时同样会产生一条新版本
func (s *PostService) Rollback(postID, locale string, version uint, actor Actor) (*models.Post, error) {
	locale, err := s.validator.NormalizeLocale(locale)
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, ErrVersionInvalid
	}

	now := s.now()
	var captured *models.Revision
	err = s.postRepo.Transaction(func(tx *gorm.DB) error {
		postRepo := s.postRepo.WithTx(tx)
		translationRepo := s.translationRepo.WithTx(tx)

		post, err := postRepo.GetByIDForUpdate(postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}
		target, err := s.recorder.Get(tx, post.ID, locale, version)
		if err != nil {
			return err
		}
		current, err := translationRepo.GetByPostLocale(post.ID, locale)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrTranslationNotFound
		}
		// 历史 slug 可能已被其他文章占用
		if _, err := s.validator.Validate(translationRepo, []TranslationInput{snapshotInput(locale, target.Snapshot)}, post.ID); err != nil {
			return err
		}

		captured, err = s.recorder.Capture(tx, current, actor.UserID, now)
		if err != nil {
			return err
		}
		target.Snapshot.ApplyTo(current)
		current.BodyHTML = s.renderer.Render(current.Body)
		current.UpdatedAt = now
		if err := translationRepo.Update(current); err != nil {
			return mapTranslationWriteErr(err, current)
		}
		return postRepo.Touch(post.ID, now)
	})
	if err != nil {
		observeSlugConflict(err)
		return nil, internalErr("rollback post", err)
	}
	metrics.RevisionsRecorded.WithLabelValues(locale, "rollback").Inc()

	s.auditService.Record(actor, AuditEntry{
		Action:   constants.AuditActionRollback,
		Entity:   constants.AuditEntityPost,
		EntityID: postID,
		NewValue: map[string]interface{}{
			"locale":           locale,
			"rollback_to":      version,
			"captured_version": captured.Version,
		},
	})
	logger.Infow("post_rolled_back",
		"post_id", postID,
		"locale", locale,
		"target_version", version,
		"captured_version", captured.Version,
		"actor_id", actor.UserID,
	)
	return s.GetAdmin(postID)
}

func snapshotInput(locale string, snapshot models.TranslationSnapshot) TranslationInput {
	return TranslationInput{
		Locale:          locale,
		Title:           snapshot.Title,
		Slug:            snapshot.Slug,
		Excerpt:         snapshot.Excerpt,
		Body:            snapshot.Body,
		MetaTitle:       snapshot.MetaTitle,
		MetaDescription: snapshot.MetaDescription,
		Canonical:       snapshot.Canonical,
		OGImage:         snapshot.OGImage,
		SchemaType:      snapshot.SchemaType,
		SchemaData:      snapshot.SchemaData,
		HeroImageID:     snapshot.HeroImageID,
	}
}
