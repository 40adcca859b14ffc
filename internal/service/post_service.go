package service

import (
	"errors"
	"time"

	"github.com/inkpress/internal/constants"
	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/metrics"
	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/queue"
	"github.com/inkpress/internal/render"
	"github.com/inkpress/internal/repository"

	"gorm.io/gorm"
)

// PostService 文章业务服务：创建、编辑、发布状态流转、历史版本与回滚
type PostService struct {
	postRepo        repository.PostRepository
	translationRepo repository.PostTranslationRepository
	categoryRepo    repository.CategoryRepository
	tagRepo         repository.TagRepository
	validator       *TranslationValidator
	recorder        *RevisionRecorder
	renderer        *render.Renderer
	auditService    *AuditService
	queueClient     *queue.Client
	publicListLimit int
	now             func() time.Time
}

// NewPostService 创建文章服务
func NewPostService(
	postRepo repository.PostRepository,
	translationRepo repository.PostTranslationRepository,
	revisionRepo repository.RevisionRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	validator *TranslationValidator,
	renderer *render.Renderer,
	auditService *AuditService,
	queueClient *queue.Client,
	publicListLimit int,
) *PostService {
	if renderer == nil {
		renderer = render.NewRenderer()
	}
	if publicListLimit <= 0 {
		publicListLimit = defaultPublicListLimit
	}
	return &PostService{
		postRepo:        postRepo,
		translationRepo: translationRepo,
		categoryRepo:    categoryRepo,
		tagRepo:         tagRepo,
		validator:       validator,
		recorder:        NewRevisionRecorder(revisionRepo),
		renderer:        renderer,
		auditService:    auditService,
		queueClient:     queueClient,
		publicListLimit: publicListLimit,
		now:             utcNow,
	}
}

// CreatePostInput 创建文章输入
type CreatePostInput struct {
	Status       string
	PublishAt    *time.Time
	Translations []TranslationInput
	CategoryIDs  []uint
	TagIDs       []uint
}

// UpdatePostInput 更新文章输入，nil 字段表示不修改
type UpdatePostInput struct {
	Status       *string
	PublishAt    *time.Time
	Translations []TranslationInput
	CategoryIDs  *[]uint
	TagIDs       *[]uint
}

// Create 创建文章，所有语言版本在同一事务内校验并写入
func (s *PostService) Create(input CreatePostInput, actor Actor) (*models.Post, error) {
	if len(input.Translations) == 0 {
		return nil, ErrTranslationRequired
	}
	status, err := NormalizePostStatus(input.Status, constants.PostStatusDraft)
	if err != nil {
		return nil, err
	}
	categories, err := s.resolveCategories(input.CategoryIDs)
	if err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(input.TagIDs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &models.Post{
		AuthorID:  actor.UserID,
		Status:    status,
		PublishAt: utcPtr(input.PublishAt),
		CreatedAt: now,
		UpdatedAt: now,
	}
	var normalized []TranslationInput
	err = s.postRepo.Transaction(func(tx *gorm.DB) error {
		translationRepo := s.translationRepo.WithTx(tx)
		var err error
		normalized, err = s.validator.Validate(translationRepo, input.Translations, "")
		if err != nil {
			return err
		}
		postRepo := s.postRepo.WithTx(tx)
		if err := postRepo.Create(post); err != nil {
			return err
		}
		for _, item := range normalized {
			translation := &models.PostTranslation{PostID: post.ID, CreatedAt: now, UpdatedAt: now}
			item.ApplyTo(translation)
			translation.BodyHTML = s.renderer.Render(translation.Body)
			if err := translationRepo.Create(translation); err != nil {
				return mapTranslationWriteErr(err, translation)
			}
		}
		if len(categories) > 0 {
			if err := postRepo.ReplaceCategories(post.ID, categories); err != nil {
				return err
			}
		}
		if len(tags) > 0 {
			if err := postRepo.ReplaceTags(post.ID, tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		observeSlugConflict(err)
		return nil, internalErr("create post", err)
	}

	s.auditService.Record(actor, AuditEntry{
		Action:   constants.AuditActionCreate,
		Entity:   constants.AuditEntityPost,
		EntityID: post.ID,
		NewValue: map[string]interface{}{
			"status":       post.Status,
			"translations": summarizeInputs(normalized),
		},
	})
	logger.Infow("post_created", "post_id", post.ID, "author_id", actor.UserID, "locales", len(normalized))
	return s.GetAdmin(post.ID)
}

// Update 更新文章
// 请求中已存在的语言版本在覆盖前先记录快照；新语言直接创建；状态仅在显式传入时修改
func (s *PostService) Update(id string, input UpdatePostInput, actor Actor) (*models.Post, error) {
	var status string
	if input.Status != nil {
		normalized, err := NormalizePostStatus(*input.Status, "")
		if err != nil {
			return nil, err
		}
		if normalized == "" {
			return nil, ErrStatusInvalid
		}
		status = normalized
	}
	var categories []models.Category
	if input.CategoryIDs != nil {
		resolved, err := s.resolveCategories(*input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		categories = resolved
	}
	var tags []models.Tag
	if input.TagIDs != nil {
		resolved, err := s.resolveTags(*input.TagIDs)
		if err != nil {
			return nil, err
		}
		tags = resolved
	}

	now := s.now()
	var recorded []*models.Revision
	var normalized []TranslationInput
	err := s.postRepo.Transaction(func(tx *gorm.DB) error {
		postRepo := s.postRepo.WithTx(tx)
		translationRepo := s.translationRepo.WithTx(tx)

		post, err := postRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}
		normalized, err = s.validator.Validate(translationRepo, input.Translations, post.ID)
		if err != nil {
			return err
		}

		for _, item := range normalized {
			existing, err := translationRepo.GetByPostLocale(post.ID, item.Locale)
			if err != nil {
				return err
			}
			if existing == nil {
				translation := &models.PostTranslation{PostID: post.ID, CreatedAt: now, UpdatedAt: now}
				item.ApplyTo(translation)
				translation.BodyHTML = s.renderer.Render(translation.Body)
				if err := translationRepo.Create(translation); err != nil {
					return mapTranslationWriteErr(err, translation)
				}
				continue
			}
			revision, err := s.recorder.Capture(tx, existing, actor.UserID, now)
			if err != nil {
				return err
			}
			recorded = append(recorded, revision)
			item.ApplyTo(existing)
			existing.BodyHTML = s.renderer.Render(existing.Body)
			existing.UpdatedAt = now
			if err := translationRepo.Update(existing); err != nil {
				return mapTranslationWriteErr(err, existing)
			}
		}

		if input.CategoryIDs != nil {
			if err := postRepo.ReplaceCategories(post.ID, categories); err != nil {
				return err
			}
		}
		if input.TagIDs != nil {
			if err := postRepo.ReplaceTags(post.ID, tags); err != nil {
				return err
			}
		}

		if input.Status == nil && input.PublishAt == nil {
			return postRepo.Touch(post.ID, now)
		}
		nextStatus := post.Status
		if status != "" {
			nextStatus = status
		}
		publishAt := post.PublishAt
		if input.PublishAt != nil {
			publishAt = utcPtr(input.PublishAt)
		}
		return postRepo.UpdatePublication(post.ID, nextStatus, publishAt, now)
	})
	if err != nil {
		observeSlugConflict(err)
		return nil, internalErr("update post", err)
	}

	newValue := map[string]interface{}{
		"translations": summarizeInputs(normalized),
	}
	if status != "" {
		newValue["status"] = status
	}
	if len(recorded) > 0 {
		versions := make([]map[string]interface{}, 0, len(recorded))
		for _, revision := range recorded {
			metrics.RevisionsRecorded.WithLabelValues(revision.Locale, "update").Inc()
			versions = append(versions, map[string]interface{}{"locale": revision.Locale, "version": revision.Version})
		}
		newValue["revisions"] = versions
	}
	s.auditService.Record(actor, AuditEntry{
		Action:   constants.AuditActionUpdate,
		Entity:   constants.AuditEntityPost,
		EntityID: id,
		NewValue: newValue,
	})
	return s.GetAdmin(id)
}

// Delete 删除文章，级联删除语言版本、历史版本、预览令牌与分类标签关联
func (s *PostService) Delete(id string, actor Actor) error {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return internalErr("get post", err)
	}
	if post == nil {
		return ErrPostNotFound
	}
	if err := s.postRepo.Delete(post.ID); err != nil {
		return internalErr("delete post", err)
	}
	s.auditService.Record(actor, AuditEntry{
		Action:   constants.AuditActionDelete,
		Entity:   constants.AuditEntityPost,
		EntityID: post.ID,
		OldValue: map[string]interface{}{
			"status":       post.Status,
			"translations": summarizeTranslations(post.Translations),
		},
	})
	logger.Infow("post_deleted", "post_id", post.ID, "actor_id", actor.UserID)
	return nil
}

// GetAdmin 后台获取文章详情（不受发布状态限制）
func (s *PostService) GetAdmin(id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, internalErr("get post", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// ListAdmin 后台文章列表
func (s *PostService) ListAdmin(filter repository.PostListFilter) ([]models.Post, int64, error) {
	if filter.Locale != "" {
		locale, err := s.validator.NormalizeLocale(filter.Locale)
		if err != nil {
			return nil, 0, err
		}
		filter.Locale = locale
	}
	if filter.Status != "" {
		status, err := NormalizePostStatus(filter.Status, "")
		if err != nil {
			return nil, 0, err
		}
		filter.Status = status
	}
	posts, total, err := s.postRepo.List(filter)
	if err != nil {
		return nil, 0, internalErr("list posts", err)
	}
	return posts, total, nil
}

// Publish 发布文章：requestedAt 为空或已过去时立即发布，未来时间则定时发布
func (s *PostService) Publish(id string, requestedAt *time.Time, actor Actor) (*models.Post, error) {
	now := s.now()
	state := ResolvePublication(now, requestedAt)
	if err := s.applyPublication(id, state, now); err != nil {
		return nil, err
	}
	metrics.PublicationTransitions.WithLabelValues(state.Status).Inc()

	action := constants.AuditActionPublish
	if state.Scheduled() {
		action = constants.AuditActionSchedule
	}
	s.auditService.Record(actor, AuditEntry{
		Action:   action,
		Entity:   constants.AuditEntityPost,
		EntityID: id,
		NewValue: map[string]interface{}{
			"status":     state.Status,
			"publish_at": state.PublishAt,
		},
	})
	s.enqueuePublished(id, state)
	return s.GetAdmin(id)
}

// Unpublish 下线文章：回到 DRAFT 并清空发布时间
func (s *PostService) Unpublish(id string, actor Actor) (*models.Post, error) {
	state := UnpublishedState()
	if err := s.applyPublication(id, state, s.now()); err != nil {
		return nil, err
	}
	metrics.PublicationTransitions.WithLabelValues(state.Status).Inc()
	s.auditService.Record(actor, AuditEntry{
		Action:   constants.AuditActionUnpublish,
		Entity:   constants.AuditEntityPost,
		EntityID: id,
		NewValue: map[string]interface{}{"status": state.Status},
	})
	return s.GetAdmin(id)
}

// PromoteDueScheduled 将发布时间已到的定时文章改为 PUBLISHED
// 公开可见性仍以查询时的条件为准，这里只负责让定时文章在到期后满足该条件
func (s *PostService) PromoteDueScheduled() (int, error) {
	ids, err := s.postRepo.PromoteDueScheduled(s.now())
	if err != nil {
		return 0, internalErr("promote scheduled posts", err)
	}
	for _, id := range ids {
		metrics.PublicationTransitions.WithLabelValues(constants.PostStatusPublished).Inc()
		s.auditService.Record(Actor{}, AuditEntry{
			Action:   constants.AuditActionPublish,
			Entity:   constants.AuditEntityPost,
			EntityID: id,
			NewValue: map[string]interface{}{"status": constants.PostStatusPublished, "scheduled": true},
		})
	}
	if len(ids) > 0 {
		logger.Infow("scheduled_posts_promoted", "count", len(ids))
	}
	return len(ids), nil
}

func (s *PostService) applyPublication(id string, state PublicationState, now time.Time) error {
	err := s.postRepo.Transaction(func(tx *gorm.DB) error {
		postRepo := s.postRepo.WithTx(tx)
		post, err := postRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}
		return postRepo.UpdatePublication(post.ID, state.Status, state.PublishAt, now)
	})
	return internalErr("update publication", err)
}

func (s *PostService) enqueuePublished(id string, state PublicationState) {
	if !s.queueClient.Enabled() || state.PublishAt == nil {
		return
	}
	payload := queue.PostPublishedPayload{
		PostID:    id,
		Status:    state.Status,
		PublishAt: *state.PublishAt,
	}
	if err := s.queueClient.EnqueuePostPublished(payload, *state.PublishAt); err != nil {
		logger.Warnw("post_published_enqueue_failed", "post_id", id, "error", err)
	}
}

func (s *PostService) resolveCategories(ids []uint) ([]models.Category, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	categories, err := s.categoryRepo.ListByIDs(ids)
	if err != nil {
		return nil, internalErr("list categories", err)
	}
	if len(categories) != len(ids) {
		return nil, ErrCategoryNotFound
	}
	return categories, nil
}

func (s *PostService) resolveTags(ids []uint) ([]models.Tag, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := s.tagRepo.ListByIDs(ids)
	if err != nil {
		return nil, internalErr("list tags", err)
	}
	if len(tags) != len(ids) {
		return nil, ErrTagNotFound
	}
	return tags, nil
}

// mapTranslationWriteErr 校验与写入之间被并发占用 slug 时，唯一索引冲突转为 SlugConflictError
func mapTranslationWriteErr(err error, translation *models.PostTranslation) error {
	if err == nil {
		return nil
	}
	if repository.IsUniqueViolation(err) {
		return &SlugConflictError{Locale: translation.Locale, Slug: translation.Slug}
	}
	return err
}

func observeSlugConflict(err error) {
	var conflict *SlugConflictError
	if errors.As(err, &conflict) {
		metrics.SlugConflicts.WithLabelValues(conflict.Locale).Inc()
	}
}

func summarizeInputs(inputs []TranslationInput) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(inputs))
	for _, item := range inputs {
		result = append(result, map[string]interface{}{"locale": item.Locale, "title": item.Title})
	}
	return result
}

func summarizeTranslations(translations []models.PostTranslation) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(translations))
	for _, item := range translations {
		result = append(result, map[string]interface{}{"locale": item.Locale, "title": item.Title})
	}
	return result
}

func uniqueIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
