package authz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix     = "/api/v1"
	casbinTableName = "casbin_rule"
	rolePrefix      = "role:"
)

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

// Policy 权限策略
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service Casbin 授权服务
// 主体为用户角色（role:customer / role:farmer / role:admin），资源为去掉 /api/v1 前缀的路由
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}

	return &Service{enforcer: enforcer}, nil
}

// Enforce 执行授权判断
func (s *Service) Enforce(sub, obj, act string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.Enforce(strings.TrimSpace(sub), NormalizeObject(obj), NormalizeAction(act))
}

// EnforceRole 按用户角色判定授权
func (s *Service) EnforceRole(role, obj, act string) (bool, error) {
	subject, err := SubjectForRole(role)
	if err != nil {
		return false, nil
	}
	return s.Enforce(subject, obj, act)
}

// InheritRole 建立角色继承关系（child 拥有 parent 的全部策略）
func (s *Service) InheritRole(child, parent string) error {
	childRole, err := SubjectForRole(child)
	if err != nil {
		return err
	}
	parentRole, err := SubjectForRole(parent)
	if err != nil {
		return err
	}
	if childRole == parentRole {
		return fmt.Errorf("role cannot inherit itself")
	}
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", childRole, parentRole); err != nil {
		return fmt.Errorf("link role inheritance failed: %w", err)
	}
	return nil
}

// GrantRolePolicy 为角色授予策略
func (s *Service) GrantRolePolicy(role, object, action string) error {
	subject, err := SubjectForRole(role)
	if err != nil {
		return err
	}
	normalizedAction := NormalizeAction(action)
	if normalizedAction == "" {
		return fmt.Errorf("action is required")
	}
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	if _, err := s.enforcer.AddPolicy(subject, NormalizeObject(object), normalizedAction); err != nil {
		return fmt.Errorf("grant policy failed: %w", err)
	}
	return nil
}

// RevokeRolePolicy 撤销角色策略
func (s *Service) RevokeRolePolicy(role, object, action string) error {
	subject, err := SubjectForRole(role)
	if err != nil {
		return err
	}
	normalizedAction := NormalizeAction(action)
	if normalizedAction == "" {
		return fmt.Errorf("action is required")
	}
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	if _, err := s.enforcer.RemovePolicy(subject, NormalizeObject(object), normalizedAction); err != nil {
		return fmt.Errorf("revoke policy failed: %w", err)
	}
	return nil
}

// RolePolicies 角色的直连策略与继承链
type RolePolicies struct {
	Role     string   `json:"role"`
	Inherits []string `json:"inherits"`
	Policies []Policy `json:"policies"`
}

// ListRolePolicies 列出全部角色及其策略
func (s *Service) ListRolePolicies() ([]RolePolicies, error) {
	if s == nil || s.enforcer == nil {
		return nil, fmt.Errorf("authz service unavailable")
	}
	rules, err := s.enforcer.GetPolicy()
	if err != nil {
		return nil, fmt.Errorf("list policies failed: %w", err)
	}
	links, err := s.enforcer.GetNamedGroupingPolicy("g")
	if err != nil {
		return nil, fmt.Errorf("list role links failed: %w", err)
	}

	byRole := map[string]*RolePolicies{}
	entry := func(subject string) *RolePolicies {
		item, ok := byRole[subject]
		if !ok {
			item = &RolePolicies{Role: strings.TrimPrefix(subject, rolePrefix), Inherits: []string{}, Policies: []Policy{}}
			byRole[subject] = item
		}
		return item
	}
	for _, policy := range convertPolicies(rules) {
		item := entry(policy.Subject)
		item.Policies = append(item.Policies, policy)
	}
	for _, link := range links {
		if len(link) < 2 {
			continue
		}
		item := entry(strings.TrimSpace(link[0]))
		item.Inherits = append(item.Inherits, strings.TrimPrefix(strings.TrimSpace(link[1]), rolePrefix))
	}

	result := make([]RolePolicies, 0, len(byRole))
	for _, item := range byRole {
		sort.Strings(item.Inherits)
		sort.Slice(item.Policies, func(i, j int) bool {
			if item.Policies[i].Object == item.Policies[j].Object {
				return item.Policies[i].Action < item.Policies[j].Action
			}
			return item.Policies[i].Object < item.Policies[j].Object
		})
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Role < result[j].Role })
	return result, nil
}

func convertPolicies(rules [][]string) []Policy {
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{
			Subject: strings.TrimSpace(rule[0]),
			Object:  NormalizeObject(rule[1]),
			Action:  NormalizeAction(rule[2]),
		})
	}
	return policies
}

// SubjectForRole 生成角色主体标识
func SubjectForRole(role string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(role))
	normalized = strings.TrimPrefix(normalized, rolePrefix)
	if normalized == "" {
		return "", fmt.Errorf("role is required")
	}
	if strings.ContainsAny(normalized, " :") {
		return "", fmt.Errorf("invalid role: %s", role)
	}
	return rolePrefix + normalized, nil
}

// NormalizeObject 统一授权资源路径
func NormalizeObject(object string) string {
	normalized := strings.TrimSpace(object)
	if normalized == "" {
		return "/"
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	if strings.HasPrefix(normalized, apiV1Prefix+"/") {
		return strings.TrimPrefix(normalized, apiV1Prefix)
	}
	if normalized == apiV1Prefix {
		return "/"
	}
	return normalized
}

// NormalizeAction 统一授权动作
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
