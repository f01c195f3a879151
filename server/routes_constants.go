package server

// Route path constants
const (
	RouteToken                 = "/oauth2/token"
	RouteWellKnownJWKS         = "/.well-known/jwks.json"
	RouteWellKnownOpenIDConfig = "/.well-known/openid-configuration"
)
