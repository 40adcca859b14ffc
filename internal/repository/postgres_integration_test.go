//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/inkpress/internal/constants"
	"github.com/inkpress/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	dropAll := func() {
		_ = db.Migrator().DropTable("post_categories", "post_tags")
		_ = db.Migrator().DropTable(models.AllModels()...)
	}
	dropAll()
	if err := models.MigrateDB(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		dropAll()
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresVisibilityAndSearch(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	visible := createRepoPost(t, db, constants.PostStatusPublished, &past, map[string]string{"en": "Postgres-Visible"})
	createRepoPost(t, db, constants.PostStatusScheduled, &future, map[string]string{"en": "postgres-scheduled"})

	posts, total, err := NewPostRepository(db).ListVisible(PublicPostListFilter{Locale: "en", Search: "postgres"}, now)
	if err != nil {
		t.Fatalf("list visible failed: %v", err)
	}
	if total != 1 || posts[0].ID != visible.ID {
		t.Fatalf("ILIKE search should only find the visible post, total=%d", total)
	}
}

func TestPostgresRevisionLockAndUniqueVersion(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	post := createRepoPost(t, db, constants.PostStatusDraft, nil, map[string]string{"en": "locked"})

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := NewPostRepository(db).WithTx(tx).GetByIDForUpdate(post.ID)
		if err != nil || locked == nil {
			t.Fatalf("lock post failed: %v", err)
		}
		return NewRevisionRepository(db).WithTx(tx).Append(&models.Revision{PostID: post.ID, Locale: "en", CreatedByID: 1})
	})
	if err != nil {
		t.Fatalf("append in tx failed: %v", err)
	}

	dup := &models.Revision{PostID: post.ID, Locale: "en", Version: 1, SchemaVersion: 1, CreatedByID: 1}
	if err := db.Create(dup).Error; !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}
