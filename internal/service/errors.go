package service

import "errors"

// 通用
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

// 账号与认证
var (
	ErrInvalidEmail         = errors.New("invalid email")
	ErrEmailExists          = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrRoleMismatch         = errors.New("role mismatch")
	ErrWeakPassword         = errors.New("password does not meet policy")
	ErrPasswordMismatch     = errors.New("current password is incorrect")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidRole          = errors.New("invalid role")
	ErrCannotDeleteSelf     = errors.New("cannot delete own account")
	ErrCannotChangeOwnRole  = errors.New("cannot change own role")
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)

// 商品
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductUnavailable   = errors.New("product unavailable")
	ErrProductForbidden     = errors.New("product belongs to another farmer")
	ErrProductInvalid       = errors.New("invalid product")
	ErrCategoryInvalid      = errors.New("invalid category")
	ErrProductStatusInvalid = errors.New("invalid product status")
)

// 购物车
var (
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrCartQuantityInvalid  = errors.New("cart quantity invalid")
	ErrCartItemNameRequired = errors.New("cart item name required")
)

// 订单
var (
	ErrEmptyCart              = errors.New("cart is empty")
	ErrOrderPersistence       = errors.New("order could not be persisted")
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderStatusInvalid     = errors.New("order status invalid")
	ErrOrderTransitionInvalid = errors.New("order status transition not allowed")
	ErrOrderForbidden         = errors.New("order not accessible")
	ErrOrderNotDelivered      = errors.New("order not delivered")
	ErrOrderAlreadyRated      = errors.New("order already rated")
	ErrRatingInvalid          = errors.New("rating must be between 1 and 5")
	ErrDeliveryAddressInvalid = errors.New("delivery address invalid")
	ErrPaymentMethodInvalid   = errors.New("payment method invalid")
	ErrRevenuePeriodInvalid   = errors.New("revenue period invalid")
)

// 通知与邮件
var (
	ErrNotificationNotFound      = errors.New("notification not found")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)
