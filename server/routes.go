package server

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// Google sign-in
	s.RegisterRouteHandler("POST "+RouteGoogleCode, ChainMiddleware(s.GoogleCodeLoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteGoogleIDToken, ChainMiddleware(s.GoogleIDTokenLoginHandler(), s.APIMiddleware()...))

	// Protected
	s.RegisterRouteHandler("GET "+RouteUserMe, ChainMiddleware(s.UserMeHandler(), s.APIMiddleware(s.RequireSession())...))

	// CORS preflight, answered by CorsMiddleware
	for _, path := range []string{RouteGoogleCode, RouteGoogleIDToken, RouteUserMe} {
		s.RegisterRouteHandler("OPTIONS "+path, ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
	}

	if s.metricsHandler != nil {
		s.RegisterRouteHandler("GET "+RouteMetrics, s.metricsHandler)
	}
}
