package server

// Route path constants
const (
	RouteIndex         = "/{$}"
	RouteGoogleCode    = "/auth/google/code"
	RouteGoogleIDToken = "/auth/google"
	RouteUserMe        = "/user/me"
	RouteHealth        = "/healthz"
	RouteMetrics       = "/metrics"
)
