package authz

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/inkpress/internal/constants"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix     = "/api/v1"
	adminPrefix     = "/admin/"
	casbinTableName = "casbin_rule"
	rolePrefix      = "role:"
	wildcardAction  = "*"
	adminWildcard   = "/admin/*"
)

var (
	ErrUnavailable     = errors.New("authz service unavailable")
	ErrUnknownRole     = errors.New("unknown role")
	ErrInvalidPolicy   = errors.New("invalid policy")
	ErrProtectedPolicy = errors.New("policy is protected")
)

// knownRoles 系统只识别这三种角色，顺序即权限从低到高
var knownRoles = []string{constants.RoleAuthor, constants.RoleEditor, constants.RoleAdmin}

var allowedActions = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "PATCH": {}, "DELETE": {}, wildcardAction: {},
}

// 角色可继承，资源按 keyMatch2 匹配路由模板，动作 * 表示任意方法
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy 一条授权策略：角色 + 后台路由模板 + HTTP 方法
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

func (p Policy) key() string {
	return p.Subject + "|" + p.Object + "|" + p.Action
}

func comparePolicy(a, b Policy) int {
	return cmp.Or(
		cmp.Compare(a.Subject, b.Subject),
		cmp.Compare(a.Object, b.Object),
		cmp.Compare(a.Action, b.Action),
	)
}

// Service 后台接口的 Casbin 授权服务，策略持久化在 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务并加载已有策略
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz: db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("authz: create adapter: %w", err)
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz: parse model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("authz: init enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: load policy: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// EnforceRole 判断角色能否以 act 方法访问 obj（可带 /api/v1 前缀）
func (s *Service) EnforceRole(role, obj, act string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	subject, err := NormalizeRole(role)
	if err != nil {
		return false, err
	}
	return s.enforcer.Enforce(subject, NormalizeObject(obj), NormalizeAction(act))
}

// ListRoles 返回全部可用角色（带 role: 前缀，按字母序）
func (s *Service) ListRoles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	roles := make([]string, 0, len(knownRoles))
	for _, role := range knownRoles {
		roles = append(roles, rolePrefix+role)
	}
	slices.Sort(roles)
	return roles, nil
}

// GrantRolePolicy 为角色追加一条后台接口策略，重复授予无副作用
func (s *Service) GrantRolePolicy(role, object, action string) error {
	policy, err := s.checkedPolicy(role, object, action)
	if err != nil {
		return err
	}
	if _, err := s.enforcer.AddPolicy(policy.Subject, policy.Object, policy.Action); err != nil {
		return fmt.Errorf("authz: grant %s: %w", policy.key(), err)
	}
	return nil
}

// RevokeRolePolicy 撤销角色的直接策略；ADMIN 的全量通配策略不可撤销
func (s *Service) RevokeRolePolicy(role, object, action string) error {
	policy, err := s.checkedPolicy(role, object, action)
	if err != nil {
		return err
	}
	if policy.Subject == rolePrefix+constants.RoleAdmin && policy.Object == adminWildcard && policy.Action == wildcardAction {
		return ErrProtectedPolicy
	}
	if _, err := s.enforcer.RemovePolicy(policy.Subject, policy.Object, policy.Action); err != nil {
		return fmt.Errorf("authz: revoke %s: %w", policy.key(), err)
	}
	return nil
}

func (s *Service) checkedPolicy(role, object, action string) (Policy, error) {
	if err := s.ready(); err != nil {
		return Policy{}, err
	}
	subject, err := NormalizeRole(role)
	if err != nil {
		return Policy{}, err
	}
	policy := Policy{Subject: subject, Object: NormalizeObject(object), Action: NormalizeAction(action)}
	if !strings.HasPrefix(policy.Object, adminPrefix) {
		return Policy{}, fmt.Errorf("%w: object must start with %s", ErrInvalidPolicy, adminPrefix)
	}
	if _, ok := allowedActions[policy.Action]; !ok {
		return Policy{}, fmt.Errorf("%w: unsupported action %q", ErrInvalidPolicy, action)
	}
	return policy, nil
}

// GetRolePolicies 返回角色生效的全部策略，继承来的策略保留原角色作为 Subject
func (s *Service) GetRolePolicies(role string) ([]Policy, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	subject, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	parents, err := s.enforcer.GetImplicitRolesForUser(subject)
	if err != nil {
		return nil, fmt.Errorf("authz: resolve inherited roles: %w", err)
	}

	seen := make(map[string]struct{})
	var result []Policy
	for _, sub := range append([]string{subject}, parents...) {
		rules, err := s.enforcer.GetFilteredPolicy(0, sub)
		if err != nil {
			return nil, fmt.Errorf("authz: load policies of %s: %w", sub, err)
		}
		for _, rule := range rules {
			if len(rule) < 3 {
				continue
			}
			policy := Policy{Subject: rule[0], Object: NormalizeObject(rule[1]), Action: NormalizeAction(rule[2])}
			if _, dup := seen[policy.key()]; dup {
				continue
			}
			seen[policy.key()] = struct{}{}
			result = append(result, policy)
		}
	}
	slices.SortFunc(result, comparePolicy)
	return result, nil
}

// NormalizeRole editor / EDITOR / role:EDITOR -> role:EDITOR，未知角色返回 ErrUnknownRole
func NormalizeRole(role string) (string, error) {
	name := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(role), rolePrefix)))
	if !slices.Contains(knownRoles, name) {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return rolePrefix + name, nil
}

// NormalizeObject 去掉 /api/v1 前缀并补齐前导斜杠
func NormalizeObject(object string) string {
	trimmed := strings.TrimSpace(object)
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	if trimmed == apiV1Prefix {
		return "/"
	}
	if rest, ok := strings.CutPrefix(trimmed, apiV1Prefix+"/"); ok {
		return "/" + rest
	}
	return trimmed
}

// NormalizeAction 动作统一大写
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
