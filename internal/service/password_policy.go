package service

import (
	"unicode"

	"github.com/krishi-setu/internal/config"
)

// PasswordPolicyError 带 i18n key 与参数的密码策略错误
type PasswordPolicyError struct {
	key  string
	args []interface{}
}

func (e PasswordPolicyError) Error() string {
	return e.key
}

// Is 与 ErrWeakPassword 等价
func (e PasswordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

// Key i18n key
func (e PasswordPolicyError) Key() string {
	return e.key
}

// Args i18n 参数
func (e PasswordPolicyError) Args() []interface{} {
	return e.args
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	minLength := policy.MinLength
	if minLength <= 0 {
		minLength = 6
	}
	if len([]rune(password)) < minLength {
		return PasswordPolicyError{key: "error.password_too_short", args: []interface{}{minLength}}
	}

	var hasLetter, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}
	if (policy.RequireLetter && !hasLetter) || (policy.RequireNumber && !hasNumber) {
		return PasswordPolicyError{key: "error.password_policy"}
	}
	return nil
}
