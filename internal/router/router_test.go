package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkpress/internal/cache"
	"github.com/inkpress/internal/config"
	"github.com/inkpress/internal/constants"
	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/provider"
	"github.com/inkpress/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type apiEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type routerFixture struct {
	engine    *gin.Engine
	container *provider.Container
}

func setupRouterTest(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.MigrateDB(db))
	models.DB = db
	cache.UseClient(nil, "")

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{SecretKey: "router-test-secret", ExpireHours: 1},
		Content: config.ContentConfig{
			Locales:         []string{"vi", "en"},
			DefaultLocale:   "vi",
			PreviewTTLHours: 24,
			FrontendURL:     "https://blog.example.com",
			SiteURL:         "https://blog.example.com",
			PublicListLimit: 50,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	c := provider.NewContainer(cfg)
	return &routerFixture{engine: SetupRouter(cfg, c), container: c}
}

func (f *routerFixture) createUser(t *testing.T, email, role string) string {
	t.Helper()
	_, err := f.container.AuthService.CreateUser(service.CreateUserInput{
		Email:    email,
		Name:     role,
		Password: "Secret123",
		Role:     role,
	})
	require.NoError(t, err)

	resp := f.do(t, http.MethodPost, "/api/v1/admin/login", "", gin.H{"email": email, "password": "Secret123"})
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body interface{}) apiEnvelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func bilingualPostBody(viSlug, enSlug string) gin.H {
	return gin.H{
		"translations": []gin.H{
			{"locale": "vi", "title": "Xin chào", "slug": viSlug, "body": "Nội dung **đầu tiên**"},
			{"locale": "en", "title": "Hello", "slug": enSlug, "body": "First **content**"},
		},
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	f := setupRouterTest(t)

	resp := f.do(t, http.MethodGet, "/api/v1/admin/posts", "", nil)
	assert.Equal(t, 401, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/v1/admin/posts", "not-a-jwt", nil)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestPostLifecycleThroughHTTP(t *testing.T) {
	f := setupRouterTest(t)
	authorToken := f.createUser(t, "author@example.com", constants.RoleAuthor)
	editorToken := f.createUser(t, "editor@example.com", constants.RoleEditor)

	resp := f.do(t, http.MethodPost, "/api/v1/admin/posts", authorToken, bilingualPostBody("xin-chao", "hello-world"))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var created models.Post
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, constants.PostStatusDraft, created.Status)

	// 草稿对读者不可见
	resp = f.do(t, http.MethodGet, "/api/v1/public/posts/en/hello-world", "", nil)
	assert.Equal(t, 404, resp.StatusCode)

	// 作者无权发布
	resp = f.do(t, http.MethodPost, "/api/v1/admin/posts/"+created.ID+"/publish", authorToken, nil)
	assert.Equal(t, 403, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/v1/admin/posts/"+created.ID+"/publish", editorToken, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	resp = f.do(t, http.MethodGet, "/api/v1/public/posts/en/hello-world", "", nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var view struct {
		ID          string `json:"id"`
		Translation struct {
			Locale   string `json:"locale"`
			Slug     string `json:"slug"`
			BodyHTML string `json:"body_html"`
		} `json:"translation"`
		Alternates []struct {
			Locale string `json:"locale"`
			Slug   string `json:"slug"`
		} `json:"alternates"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	assert.Equal(t, created.ID, view.ID)
	assert.Equal(t, "en", view.Translation.Locale)
	assert.Contains(t, view.Translation.BodyHTML, "<strong>content</strong>")
	require.Len(t, view.Alternates, 1)
	assert.Equal(t, "vi", view.Alternates[0].Locale)
	assert.Equal(t, "xin-chao", view.Alternates[0].Slug)

	// 作者修改英文版本，生成一条修订
	resp = f.do(t, http.MethodPatch, "/api/v1/admin/posts/"+created.ID, authorToken, gin.H{
		"translations": []gin.H{
			{"locale": "en", "title": "Hello again", "slug": "hello-world", "body": "Second content"},
		},
	})
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	// 作者无权查看修订
	resp = f.do(t, http.MethodGet, "/api/v1/admin/posts/"+created.ID+"/revisions/en", authorToken, nil)
	assert.Equal(t, 403, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/v1/admin/posts/"+created.ID+"/revisions/en", editorToken, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var revisions []models.Revision
	require.NoError(t, json.Unmarshal(resp.Data, &revisions))
	require.Len(t, revisions, 1)
	assert.Equal(t, uint(1), revisions[0].Version)

	resp = f.do(t, http.MethodPost, "/api/v1/admin/posts/"+created.ID+"/rollback/en/1", editorToken, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var rolledBack models.Post
	require.NoError(t, json.Unmarshal(resp.Data, &rolledBack))
	require.NotNil(t, rolledBack.Translation("en"))
	assert.Equal(t, "Hello", rolledBack.Translation("en").Title)
}

func TestSlugConflictReturnsConflict(t *testing.T) {
	f := setupRouterTest(t)
	token := f.createUser(t, "author@example.com", constants.RoleAuthor)

	resp := f.do(t, http.MethodPost, "/api/v1/admin/posts", token, bilingualPostBody("bai-mot", "post-one"))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	resp = f.do(t, http.MethodPost, "/api/v1/admin/posts", token, bilingualPostBody("bai-hai", "post-one"))
	assert.Equal(t, 409, resp.StatusCode)
	var data struct {
		Locale string `json:"locale"`
		Slug   string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "en", data.Locale)
	assert.Equal(t, "post-one", data.Slug)
}

func TestInvalidSlugRejectedByBinding(t *testing.T) {
	f := setupRouterTest(t)
	token := f.createUser(t, "author@example.com", constants.RoleAuthor)

	resp := f.do(t, http.MethodPost, "/api/v1/admin/posts", token, bilingualPostBody("Bai Viet", "post-one"))
	assert.Equal(t, 400, resp.StatusCode)
}

func TestPreviewTokenThroughHTTP(t *testing.T) {
	f := setupRouterTest(t)
	token := f.createUser(t, "author@example.com", constants.RoleAuthor)

	resp := f.do(t, http.MethodPost, "/api/v1/admin/posts", token, bilingualPostBody("ban-nhap", "draft-post"))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var created models.Post
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	resp = f.do(t, http.MethodPost, "/api/v1/admin/posts/"+created.ID+"/preview-token", token, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var issued service.IssuedPreviewToken
	require.NoError(t, json.Unmarshal(resp.Data, &issued))
	require.NotEmpty(t, issued.Token)
	assert.Contains(t, issued.URL, issued.Token)

	resp = f.do(t, http.MethodGet, "/api/v1/public/preview/"+issued.Token, "", nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var preview struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &preview))
	assert.Equal(t, created.ID, preview.ID)
	assert.Equal(t, constants.PostStatusDraft, preview.Status)

	resp = f.do(t, http.MethodGet, "/api/v1/public/preview/unknown-token", "", nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestAdminOnlyRoutes(t *testing.T) {
	f := setupRouterTest(t)
	editorToken := f.createUser(t, "editor@example.com", constants.RoleEditor)
	adminToken := f.createUser(t, "admin@example.com", constants.RoleAdmin)

	resp := f.do(t, http.MethodGet, "/api/v1/admin/audit-logs", editorToken, nil)
	assert.Equal(t, 403, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/v1/admin/audit-logs?action=LOGIN", adminToken, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var logs []models.AuditLog
	require.NoError(t, json.Unmarshal(resp.Data, &logs))
	assert.Len(t, logs, 2)

	resp = f.do(t, http.MethodGet, "/api/v1/admin/authz/roles", adminToken, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var roles []string
	require.NoError(t, json.Unmarshal(resp.Data, &roles))
	assert.Contains(t, roles, "role:EDITOR")
}

func TestMetricsEndpoint(t *testing.T) {
	f := setupRouterTest(t)
	f.do(t, http.MethodGet, "/api/v1/public/config", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
