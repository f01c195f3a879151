package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-token-issuer/endpoint"
	"github.com/jrsteele09/go-token-issuer/token"
)

// Server is the thin HTTP transport in front of the token pipeline: it
// decodes form-encoded token requests, hands them to the TokenService and
// writes the JSON body back. All protocol decisions live in the pipeline.
type Server struct {
	mux     *http.ServeMux
	service *endpoint.TokenService
	signer  token.Signer
	issuer  string
	logger  zerolog.Logger
}

func New(service *endpoint.TokenService, signer token.Signer, issuer string, logger zerolog.Logger) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		service: service,
		signer:  signer,
		issuer:  issuer,
		logger:  logger,
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	s.mux.HandleFunc("POST "+RouteToken, s.TokenHandler())
	s.mux.HandleFunc("GET "+RouteWellKnownJWKS, s.JWKSHandler())
	s.mux.HandleFunc("GET "+RouteWellKnownOpenIDConfig, s.DiscoveryHandler())
}
