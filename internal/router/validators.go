package router

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	// 可选 +91 / 91 / 0 前缀的 10 位手机号
	indianPhonePattern = regexp.MustCompile(`^(?:\+?91|0)?[6-9][0-9]{9}$`)
)

// RegisterValidators 向 gin 绑定引擎注册自定义校验规则
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("pincode", validatePincode); err != nil {
		return err
	}
	return v.RegisterValidation("phone_in", validateIndianPhone)
}

func validatePincode(fl validator.FieldLevel) bool {
	return pincodePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validateIndianPhone(fl validator.FieldLevel) bool {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(fl.Field().String()))
	return indianPhonePattern.MatchString(phone)
}
