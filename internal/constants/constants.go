package constants

// 用户角色常量
const (
	RoleCustomer = "customer"
	RoleFarmer   = "farmer"
	RoleAdmin    = "admin"
	// RoleLegacyUser 旧版本注册用户的角色，登录时归一为 customer
	RoleLegacyUser = "user"
)

// 订单状态常量
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusProcessing     = "processing"
	OrderStatusShipped        = "shipped"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// 支付方式常量
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodUPI    = "upi"
	PaymentMethodCard   = "card"
	PaymentMethodOnline = "online"
)

// 支付状态常量
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// 收货地址类型常量
const (
	AddressTypeHome  = "home"
	AddressTypeWork  = "work"
	AddressTypeOther = "other"
)

// 商品状态常量
const (
	ProductStatusActive     = "active"
	ProductStatusInactive   = "inactive"
	ProductStatusOutOfStock = "out_of_stock"
)

// 商品分类常量
const (
	CategoryFruits     = "fruits"
	CategoryVegetables = "vegetables"
	CategoryDairy      = "dairy"
	CategoryPulses     = "pulses"
	CategoryPickles    = "pickles"
	CategoryMasala     = "masala"
	CategoryGrains     = "grains"
)

// 商品单位常量
const (
	UnitKg      = "kg"
	UnitLiter   = "liter"
	UnitPiece   = "piece"
	UnitGram    = "gram"
	Unit100Gram = "100g"
)

// DefaultProductImage 商品默认图片
const DefaultProductImage = "/Product_images/default.jpg"

// 商品列表排序方式
const (
	ProductSortNewest    = "newest"
	ProductSortPriceLow  = "price_low"
	ProductSortPriceHigh = "price_high"
	ProductSortName      = "name"
	ProductSortDiscount  = "discount"
)

// 通知类型常量
const (
	NotificationTypeOrder     = "order"
	NotificationTypeProduct   = "product"
	NotificationTypeSystem    = "system"
	NotificationTypePromotion = "promotion"
	NotificationTypeLowStock  = "low_stock"
)

// 通知渠道常量
const (
	NotificationChannelEmail = "email"
	NotificationChannelSMS   = "sms"
	NotificationChannelInApp = "in_app"
)

// 通知投递状态常量
const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// NotificationListLimit 通知列表返回条数
const NotificationListLimit = 50

// 状态历史操作人
const (
	HistoryActorSystem = "system"
)

// 订单号前缀与序列
const (
	OrderNumberPrefix   = "ORD"
	OrderSequenceName   = "order_number"
	OrderSequenceDigits = 4
)

// 领域事件类型
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
	EventProductLowStock    = "product.low_stock"
	EventCartUpdated        = "cart.updated"
)

// 会话上下文键
const (
	ContextKeySession  = "session"
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	ContextKeyRequest  = "request_id"
)

// 营收统计周期
const (
	RevenuePeriodWeek  = "week"
	RevenuePeriodMonth = "month"
	RevenuePeriodYear  = "year"
)
