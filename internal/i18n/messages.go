package i18n

var messagesEN = map[string]string{
	"error.bad_request":            "Invalid request",
	"error.unauthorized":           "Please login to continue",
	"error.forbidden":              "You do not have permission to perform this action",
	"error.not_found":              "Resource not found",
	"error.internal":               "Something went wrong, please try again",
	"error.rate_limited":           "Too many requests, please retry in %d seconds",
	"error.rate_limit_unavailable": "Rate limiter unavailable",
	"error.session_failed":         "Session could not be saved",
	"error.session_invalid":        "Session is invalid or expired",

	"error.email_exists":          "An account with this email already exists",
	"error.email_invalid":         "Please provide a valid email address",
	"error.role_mismatch":         "This account is not registered for the selected role",
	"error.invalid_credentials":   "Invalid email or password",
	"error.password_too_short":    "Password must be at least %d characters",
	"error.password_policy":       "Password must contain letters and numbers",
	"error.password_mismatch":     "Current password is incorrect",
	"error.role_invalid":          "Invalid role",
	"error.login_blocked":         "Too many failed logins, please retry in %d seconds",
	"error.captcha_required":      "Captcha is required",
	"error.captcha_invalid":       "Captcha is incorrect",
	"error.captcha_generate":      "Captcha could not be generated",
	"error.user_not_found":        "User not found",
	"error.cannot_delete_self":    "You cannot delete your own account",
	"error.cannot_demote_self":    "You cannot change your own role",
	"error.profile_update_failed": "Profile could not be updated",

	"error.product_not_found":   "Product not found",
	"error.product_unavailable": "Product is not available",
	"error.product_forbidden":   "You can only manage your own products",
	"error.product_invalid":     "Invalid product details",
	"error.category_invalid":    "Invalid category",
	"error.product_status":      "Invalid product status",

	"error.cart_empty":            "Cart is empty",
	"error.cart_item_not_found":   "Item not found in cart",
	"error.cart_quantity_invalid": "Quantity must be at least 1",
	"error.cart_quantity_limit":   "Quantity exceeds the per item limit",

	"error.order_not_found":          "Order not found",
	"error.order_status_invalid":     "Invalid order status",
	"error.order_transition_invalid": "Order cannot move to the requested status",
	"error.order_forbidden":          "You are not allowed to update this order",
	"error.order_not_delivered":      "Only delivered orders can be rated",
	"error.order_already_rated":      "Order has already been rated",
	"error.rating_invalid":           "Rating must be between 1 and 5",
	"error.address_invalid":          "Delivery address is incomplete",
	"error.payment_method_invalid":   "Unsupported payment method",
	"error.order_create_failed":      "Order could not be placed",

	"error.notification_not_found": "Notification not found",
	"error.period_invalid":         "Period must be week, month or year",

	"success.logout":         "Logged out successfully",
	"success.cart_cleared":   "Cart cleared",
	"success.order_placed":   "Order placed successfully",
	"success.marked_read":    "Notification marked as read",
	"success.all_marked":     "All notifications marked as read",
	"success.user_deleted":   "User deleted",
	"success.product_delete": "Product deleted",
	"success.item_removed":   "Item removed from cart",
	"success.password":       "Password updated successfully",
}

var messagesHI = map[string]string{
	"error.bad_request":         "अमान्य अनुरोध",
	"error.unauthorized":        "कृपया जारी रखने के लिए लॉगिन करें",
	"error.forbidden":           "आपको यह कार्य करने की अनुमति नहीं है",
	"error.not_found":           "संसाधन नहीं मिला",
	"error.internal":            "कुछ गलत हो गया, कृपया पुनः प्रयास करें",
	"error.rate_limited":        "बहुत अधिक अनुरोध, कृपया %d सेकंड बाद प्रयास करें",
	"error.email_exists":        "इस ईमेल से खाता पहले से मौजूद है",
	"error.invalid_credentials": "ईमेल या पासवर्ड गलत है",
	"error.password_too_short":  "पासवर्ड कम से कम %d अक्षरों का होना चाहिए",
	"error.login_blocked":       "बहुत अधिक असफल लॉगिन, कृपया %d सेकंड बाद प्रयास करें",
	"error.captcha_invalid":     "कैप्चा गलत है",
	"error.product_not_found":   "उत्पाद नहीं मिला",
	"error.product_unavailable": "उत्पाद उपलब्ध नहीं है",
	"error.cart_empty":          "कार्ट खाली है",
	"error.cart_item_not_found": "कार्ट में आइटम नहीं मिला",
	"error.order_not_found":     "ऑर्डर नहीं मिला",
	"error.address_invalid":     "डिलीवरी पता अधूरा है",

	"success.logout":       "सफलतापूर्वक लॉगआउट",
	"success.cart_cleared": "कार्ट खाली किया गया",
	"success.order_placed": "ऑर्डर सफलतापूर्वक दिया गया",
}
