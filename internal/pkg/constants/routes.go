package constants

// Browser routes
const (
	PublicRoute        = "/"
	RouteLogin         = "/login"
	RouteRegister      = "/register"
	RouteLogout        = "/logout"
	RouteForgot        = "/forgot-password"
	RouteReset         = "/reset-password"
	RouteSubscription  = "/subscription"
	RoutePaymentReturn = "/payment-success"
	RouteProfile       = "/profile"
	RouteProfileCreate = "/profile/create"
	RouteProfileEdit   = "/profile/edit"
	RouteShare         = "/share-profile"
	RouteVerifyProfile = "/verify-profile"
)

// PaymentReturnRoutes all land in the same resolver. The misspelled one is
// still configured at the provider.
var PaymentReturnRoutes = []string{
	RoutePaymentReturn,
	"/payment-sucess",
	"/subscription/success",
	"/subscription/return",
}
