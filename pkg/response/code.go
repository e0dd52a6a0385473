package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserExists   = 10001
	ErrUserNotFound = 10002
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// 优惠券模块错误 200xx
	ErrCouponNotFound = 20001
	ErrCouponExpired  = 20002
	ErrCouponExists   = 20003

	// 商品目录错误 300xx
	ErrCategoryNotFound = 30001
	ErrCategoryExists   = 30002
	ErrProductNotFound  = 30003
	ErrProductExists    = 30004
	ErrInvalidCategory  = 30005

	// 购物车错误 400xx
	ErrCartNotFound     = 40001
	ErrCartItemNotFound = 40002
	ErrCartEmpty        = 40003

	// 订单错误 600xx
	ErrOrderNotFound     = 60001
	ErrInvalidStatus     = 60002
	ErrOrderNotAvailable = 60003

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
