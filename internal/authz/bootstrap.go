package authz

import (
	"fmt"

	"github.com/krishi-setu/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleCustomer,
			Policies: []Policy{
				{Object: "/cart", Action: "*"},
				{Object: "/cart/*", Action: "*"},
				{Object: "/orders", Action: "*"},
				{Object: "/orders/*", Action: "*"},
				{Object: "/notifications", Action: "GET"},
				{Object: "/notifications/*", Action: "PUT"},
				{Object: "/profile", Action: "*"},
				{Object: "/profile/*", Action: "*"},
			},
		},
		{
			Role:     constants.RoleFarmer,
			Inherits: []string{constants.RoleCustomer},
			Policies: []Policy{
				{Object: "/farmer/*", Action: "*"},
			},
		},
		{
			Role:     constants.RoleAdmin,
			Inherits: []string{constants.RoleFarmer},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略，重复执行不会产生重复规则
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		for _, parent := range seed.Inherits {
			if err := s.InheritRole(seed.Role, parent); err != nil {
				return err
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(seed.Role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
