package router

import (
	"cmp"
	"net/http"
	"slices"
	"strings"

	"github.com/inkpress/internal/authz"
	"github.com/inkpress/internal/constants"

	"github.com/gin-gonic/gin"
)

// permissionCatalogItem 一条可授权的后台接口
// Roles 为当前策略下可以访问该接口的角色，便于管理端对照调整
type permissionCatalogItem struct {
	Group  string   `json:"group"`
	Method string   `json:"method"`
	Object string   `json:"object"`
	Roles  []string `json:"roles"`
}

var catalogRoles = []string{constants.RoleAuthor, constants.RoleEditor, constants.RoleAdmin}

// buildPermissionCatalog 从已注册路由生成后台权限目录，登录接口不参与授权
func buildPermissionCatalog(routes gin.RoutesInfo, enforcer *authz.Service) []permissionCatalogItem {
	items := make([]permissionCatalogItem, 0, len(routes))
	seen := make(map[string]bool, len(routes))
	for _, route := range routes {
		if route.Method == http.MethodOptions || route.Method == http.MethodHead {
			continue
		}
		if !strings.HasPrefix(route.Path, "/api/v1/admin/") || route.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(route.Path)
		if seen[route.Method+object] {
			continue
		}
		seen[route.Method+object] = true
		items = append(items, permissionCatalogItem{
			Group:  permissionGroup(object),
			Method: route.Method,
			Object: object,
			Roles:  grantedRoles(enforcer, object, route.Method),
		})
	}
	slices.SortFunc(items, func(a, b permissionCatalogItem) int {
		return cmp.Or(
			cmp.Compare(a.Group, b.Group),
			cmp.Compare(a.Object, b.Object),
			cmp.Compare(a.Method, b.Method),
		)
	})
	return items
}

// grantedRoles 路由模板本身可以作为 keyMatch2 的请求路径参与匹配
func grantedRoles(enforcer *authz.Service, object, method string) []string {
	roles := []string{}
	if enforcer == nil {
		return roles
	}
	for _, role := range catalogRoles {
		if ok, err := enforcer.EnforceRole(role, object, method); err == nil && ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// permissionGroup 按内容工作流归组：文章、发布、修订、预览，其余取 /admin 后的第一段
func permissionGroup(object string) string {
	segments := strings.Split(strings.Trim(object, "/"), "/")
	if len(segments) < 2 || segments[0] != "admin" {
		return "system"
	}
	if segments[1] != "posts" || len(segments) < 4 {
		return segments[1]
	}
	switch segments[3] {
	case "publish", "unpublish":
		return "publication"
	case "revisions", "rollback":
		return "revisions"
	case "preview-token":
		return "preview"
	default:
		return "posts"
	}
}
