package shared

import (
	"errors"

	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/http/response"
	"github.com/krishi-setu/internal/i18n"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(constants.ContextKeyRequest); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", code,
			"message", msg,
			"error", err,
		)
	}
	response.Error(c, code, msg)
}

// MappedError 业务错误到接口错误响应的映射规则。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondMappedError 按规则表匹配业务错误；未命中时按 fallback 响应并记录原始错误。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// RespondServiceError 使用通用业务错误表响应。
func RespondServiceError(c *gin.Context, err error) {
	RespondMappedError(c, err, ServiceErrorRules, response.CodeInternal, "error.internal")
}

// ServiceErrorRules 通用业务错误映射表
var ServiceErrorRules = []MappedError{
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},

	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrRoleMismatch, Code: response.CodeForbidden, Key: "error.role_mismatch"},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest, Key: "error.password_policy"},
	{Target: service.ErrPasswordMismatch, Code: response.CodeBadRequest, Key: "error.password_mismatch"},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrInvalidRole, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: service.ErrCannotDeleteSelf, Code: response.CodeBadRequest, Key: "error.cannot_delete_self"},
	{Target: service.ErrCannotChangeOwnRole, Code: response.CodeBadRequest, Key: "error.cannot_demote_self"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrCaptchaConfigInvalid, Code: response.CodeInternal, Key: "error.captcha_generate"},

	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductUnavailable, Code: response.CodeBadRequest, Key: "error.product_unavailable"},
	{Target: service.ErrProductForbidden, Code: response.CodeForbidden, Key: "error.product_forbidden"},
	{Target: service.ErrProductInvalid, Code: response.CodeBadRequest, Key: "error.product_invalid"},
	{Target: service.ErrCategoryInvalid, Code: response.CodeBadRequest, Key: "error.category_invalid"},
	{Target: service.ErrProductStatusInvalid, Code: response.CodeBadRequest, Key: "error.product_status"},

	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
	{Target: service.ErrCartQuantityInvalid, Code: response.CodeBadRequest, Key: "error.cart_quantity_invalid"},
	{Target: service.ErrCartItemNameRequired, Code: response.CodeBadRequest, Key: "error.bad_request"},

	{Target: service.ErrEmptyCart, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrOrderPersistence, Code: response.CodeInternal, Key: "error.order_create_failed"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderTransitionInvalid, Code: response.CodeConflict, Key: "error.order_transition_invalid"},
	{Target: service.ErrOrderForbidden, Code: response.CodeForbidden, Key: "error.order_forbidden"},
	{Target: service.ErrOrderNotDelivered, Code: response.CodeBadRequest, Key: "error.order_not_delivered"},
	{Target: service.ErrOrderAlreadyRated, Code: response.CodeConflict, Key: "error.order_already_rated"},
	{Target: service.ErrRatingInvalid, Code: response.CodeBadRequest, Key: "error.rating_invalid"},
	{Target: service.ErrDeliveryAddressInvalid, Code: response.CodeBadRequest, Key: "error.address_invalid"},
	{Target: service.ErrPaymentMethodInvalid, Code: response.CodeBadRequest, Key: "error.payment_method_invalid"},
	{Target: service.ErrRevenuePeriodInvalid, Code: response.CodeBadRequest, Key: "error.period_invalid"},

	{Target: service.ErrNotificationNotFound, Code: response.CodeNotFound, Key: "error.notification_not_found"},
}

// T 按请求语言翻译消息
func T(c *gin.Context, key string) string {
	return i18n.T(i18n.ResolveLocale(c), key)
}
