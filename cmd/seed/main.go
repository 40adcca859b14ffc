package main

import (
	"os"

	"github.com/inkpress/internal/config"
	"github.com/inkpress/internal/constants"
	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/provider"
	"github.com/inkpress/internal/service"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	cfg.Queue.Enabled = false
	cfg.Audit.Async = false
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin(os.Getenv("INK_DEFAULT_ADMIN_EMAIL"), os.Getenv("INK_DEFAULT_ADMIN_PASSWORD")); err != nil {
		stdLog.Fatalf("Failed to init default admin: %v", err)
	}
	var admin models.User
	if err := models.DB.Where("role = ?", constants.RoleAdmin).Order("id ASC").First(&admin).Error; err != nil {
		stdLog.Fatalf("Failed to load admin: %v", err)
	}

	c := provider.NewContainer(cfg)

	// 添加分类
	categories := []models.Category{
		{
			NameJSON: models.JSON(map[string]interface{}{
				"vi": "Công nghệ",
				"en": "Technology",
			}),
			Slug:      "technology",
			SortOrder: 10,
		},
		{
			NameJSON: models.JSON(map[string]interface{}{
				"vi": "Du lịch",
				"en": "Travel",
			}),
			Slug: "travel",
		},
	}
	categoryIDs := make([]uint, 0, len(categories))
	for _, cat := range categories {
		existing, err := c.CategoryRepo.GetBySlug(cat.Slug)
		if err != nil {
			stdLog.Fatalf("Failed to load category %s: %v", cat.Slug, err)
		}
		if existing != nil {
			stdLog.Printf("Category already exists: %s", cat.Slug)
			categoryIDs = append(categoryIDs, existing.ID)
			continue
		}
		category := cat
		if err := c.CategoryRepo.Create(&category); err != nil {
			stdLog.Fatalf("Failed to create category %s: %v", cat.Slug, err)
		}
		stdLog.Printf("Created category: %s", cat.Slug)
		categoryIDs = append(categoryIDs, category.ID)
	}

	// 添加标签
	tags := []models.Tag{
		{Slug: "golang", NameJSON: models.JSON(map[string]interface{}{"vi": "Go", "en": "Go"})},
		{Slug: "huong-dan", NameJSON: models.JSON(map[string]interface{}{"vi": "Hướng dẫn", "en": "Guide"})},
	}
	tagIDs := make([]uint, 0, len(tags))
	for _, tag := range tags {
		existing, err := c.TagRepo.GetBySlug(tag.Slug)
		if err != nil {
			stdLog.Fatalf("Failed to load tag %s: %v", tag.Slug, err)
		}
		if existing != nil {
			stdLog.Printf("Tag already exists: %s", tag.Slug)
			tagIDs = append(tagIDs, existing.ID)
			continue
		}
		item := tag
		if err := c.TagRepo.Create(&item); err != nil {
			stdLog.Fatalf("Failed to create tag %s: %v", tag.Slug, err)
		}
		stdLog.Printf("Created tag: %s", tag.Slug)
		tagIDs = append(tagIDs, item.ID)
	}

	// 添加双语示例文章
	existing, err := c.TranslationRepo.GetByLocaleSlug(constants.LocaleEnglish, "hello-inkpress")
	if err != nil {
		stdLog.Fatalf("Failed to check sample post: %v", err)
	}
	if existing != nil {
		stdLog.Printf("Sample post already exists: %s", existing.PostID)
		return
	}

	actor := service.Actor{UserID: admin.ID, Role: admin.Role, IP: "127.0.0.1", RequestID: "seed"}
	post, err := c.PostService.Create(service.CreatePostInput{
		Translations: []service.TranslationInput{
			{
				Locale:          constants.LocaleVietnamese,
				Title:           "Xin chào Inkpress",
				Slug:            "xin-chao-inkpress",
				Excerpt:         "Bài viết mẫu đầu tiên.",
				Body:            "## Xin chào\n\nĐây là **bài viết mẫu** được tạo bởi lệnh seed.",
				MetaTitle:       "Xin chào Inkpress",
				MetaDescription: "Bài viết mẫu song ngữ",
				SchemaType:      "BlogPosting",
			},
			{
				Locale:          constants.LocaleEnglish,
				Title:           "Hello Inkpress",
				Slug:            "hello-inkpress",
				Excerpt:         "The first sample post.",
				Body:            "## Hello\n\nThis is a **sample post** created by the seed command.",
				MetaTitle:       "Hello Inkpress",
				MetaDescription: "A bilingual sample post",
				SchemaType:      "BlogPosting",
			},
		},
		CategoryIDs: categoryIDs,
		TagIDs:      tagIDs,
	}, actor)
	if err != nil {
		stdLog.Fatalf("Failed to create sample post: %v", err)
	}
	if _, err := c.PostService.Publish(post.ID, nil, actor); err != nil {
		stdLog.Fatalf("Failed to publish sample post: %v", err)
	}
	stdLog.Printf("Created sample post: %s", post.ID)
}
