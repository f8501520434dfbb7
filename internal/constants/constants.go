package constants

const (
	APP_MAIN_SERVEASE   = "servease"
	APP_CART_SERVICE    = "cart-service"
	APP_CATALOG_SERVICE = "catalog-service"
	APP_USER_SERVICE    = "user-service"

	AUDIENCE_USER  = "audience-user"
	AUDIENCE_GUEST = "audience-guest"
)

const (
	KEY_APP_NAME           = "app"
	KEY_TAG                = "tag"
	KEY_PROCESS            = "process"
	KEY_CONFIG             = "config"
	KEY_REQUEST_ID         = "requestId"
	KEY_TRACE_ID           = "traceId"
	KEY_SPAN_ID            = "spanId"
	KEY_REQUEST            = "request"
	KEY_HEADER             = "header"
	KEY_BODY               = "body"
	KEY_REQUEST_HOST       = "host"
	KEY_REQUEST_IP         = "requesterIP"
	KEY_REQUEST_METHOD     = "requestMethod"
	KEY_REQUEST_URI        = "requestURI"
	KEY_REQUEST_URL        = "requestURL"
	KEY_EMAIL              = "email"
	KEY_TOKEN              = "token"
	KEY_USER_ID            = "userId"
	KEY_SESSION_ID         = "sessionId"
	KEY_PRINCIPAL          = "principal"
	KEY_SERVICE_ID         = "serviceId"
	KEY_CATEGORY_ID        = "categoryId"
	KEY_CART_LINE_ID       = "cartLineId"
	KEY_QUANTITY           = "quantity"
	KEY_COUPON_CODE        = "couponCode"
	KEY_COUPON_ID          = "couponId"
	KEY_DISCOUNT_AMOUNT    = "discountAmount"
	KEY_SUBTOTAL           = "subtotal"
	KEY_FINAL_AMOUNT       = "finalAmount"
	KEY_CACHE_KEY          = "cacheKey"
	KEY_PATH_VALUES        = "pathValues"
	KEY_DB_URL             = "dbUrl"
	KEY_SNAPSHOT           = "snapshot"
)
