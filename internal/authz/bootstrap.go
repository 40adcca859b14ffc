package authz

import (
	"fmt"

	"github.com/inkpress/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵：AUTHOR < EDITOR < ADMIN
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleAuthor,
			Policies: []Policy{
				{Object: "/admin/me", Action: "GET"},
				{Object: "/admin/posts", Action: "GET"},
				{Object: "/admin/posts", Action: "POST"},
				{Object: "/admin/posts/:id", Action: "GET"},
				{Object: "/admin/posts/:id", Action: "PATCH"},
				{Object: "/admin/posts/:id/preview-token", Action: "POST"},
			},
		},
		{
			Role:     constants.RoleEditor,
			Inherits: []string{constants.RoleAuthor},
			Policies: []Policy{
				{Object: "/admin/posts/:id/publish", Action: "POST"},
				{Object: "/admin/posts/:id/unpublish", Action: "POST"},
				{Object: "/admin/posts/:id/revisions/:locale", Action: "GET"},
				{Object: "/admin/posts/:id/revisions/:locale/:version", Action: "GET"},
				{Object: "/admin/posts/:id/rollback/:locale/:version", Action: "POST"},
				{Object: "/admin/dashboard/stats", Action: "GET"},
			},
		},
		{
			Role:     constants.RoleAdmin,
			Inherits: []string{constants.RoleEditor},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 写入预置角色的继承关系与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("authz: link %s -> %s: %w", role, parentRole, err)
			}
		}
		for _, policy := range seed.Policies {
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), NormalizeAction(policy.Action)); err != nil {
				return fmt.Errorf("authz: seed policy for %s: %w", role, err)
			}
		}
	}
	return nil
}
