package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-token-issuer/claims"
	fakeprofile "github.com/jrsteele09/go-token-issuer/claims/profilefake"
	"github.com/jrsteele09/go-token-issuer/clients"
	fakeclientrepo "github.com/jrsteele09/go-token-issuer/clients/fakerepo"
	"github.com/jrsteele09/go-token-issuer/endpoint"
	"github.com/jrsteele09/go-token-issuer/grants"
	fakegrantrepo "github.com/jrsteele09/go-token-issuer/grants/repofake"
	"github.com/jrsteele09/go-token-issuer/internal/config"
	"github.com/jrsteele09/go-token-issuer/oauth2"
	"github.com/jrsteele09/go-token-issuer/resources"
	fakeresourcerepo "github.com/jrsteele09/go-token-issuer/resources/fakerepo"
	"github.com/jrsteele09/go-token-issuer/response"
	"github.com/jrsteele09/go-token-issuer/scopes"
	"github.com/jrsteele09/go-token-issuer/server"
	"github.com/jrsteele09/go-token-issuer/token"
	"github.com/jrsteele09/go-token-issuer/users"
	fakeuserrepo "github.com/jrsteele09/go-token-issuer/users/fakerepo"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	displayAppname("Token Issuer")

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	signer, err := buildSigner(cfg)
	if err != nil {
		return fmt.Errorf("buildSigner: %w", err)
	}

	service, err := buildService(cfg, signer, logger)
	if err != nil {
		return fmt.Errorf("buildService: %w", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: server.New(service, signer, cfg.Issuer.Name, logger),
	}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func buildSigner(cfg *config.Config) (token.Signer, error) {
	if cfg.Issuer.SigningKeyPEM != "" {
		keyPair, err := token.LoadRSAKeyPairFromPEM(cfg.Issuer.KeyID, cfg.Issuer.SigningKeyPEM)
		if err != nil {
			return nil, err
		}
		return token.NewKeyPairSigner(keyPair), nil
	}

	// No configured key: generate a throwaway pair. Tokens do not survive a
	// restart, which is fine for development.
	keyPair, err := token.GenerateRSAKeyPair(cfg.Issuer.KeyID, 2048)
	if err != nil {
		return nil, err
	}
	return token.NewKeyPairSigner(keyPair), nil
}

func buildService(cfg *config.Config, signer token.Signer, logger zerolog.Logger) (*endpoint.TokenService, error) {
	ctx := context.Background()

	clientRepo := fakeclientrepo.NewFakeClientRepo()
	resourceRepo := fakeresourcerepo.NewFakeResourceRepo()
	userRepo := fakeuserrepo.NewFakeUserRepo()
	codeRepo := fakegrantrepo.NewFakeAuthorizationCodeRepo()
	refreshRepo := fakegrantrepo.NewFakeRefreshTokenRepo()
	profile := fakeprofile.NewFakeProfileService()

	if err := seedDemoData(ctx, clientRepo, resourceRepo, userRepo, profile); err != nil {
		return nil, err
	}

	validator, err := grants.NewValidator(
		grants.Stores{Codes: codeRepo, RefreshTokens: refreshRepo},
		users.NewRepoCredentialValidator(userRepo),
	)
	if err != nil {
		return nil, err
	}

	resolver, err := scopes.NewResolver(resourceRepo)
	if err != nil {
		return nil, err
	}

	assembler, err := claims.NewAssembler(profile, resourceRepo, cfg.Issuer.Name)
	if err != nil {
		return nil, err
	}

	issuer, err := token.NewIssuer(signer, refreshRepo, resourceRepo, cfg.Issuer.Name,
		token.WithTokenExpiry(
			cfg.Issuer.AccessTokenLifetime,
			cfg.Issuer.IdentityTokenLifetime,
			cfg.Issuer.RefreshTokenLifetime,
		))
	if err != nil {
		return nil, err
	}

	return endpoint.NewTokenService(
		endpoint.Repos{Clients: clientRepo},
		validator,
		resolver,
		assembler,
		issuer,
		response.NewGenerator(),
		endpoint.WithLogger(logger),
	)
}

// seedDemoData registers a demo resource, clients and a user so the server
// answers requests out of the box.
func seedDemoData(ctx context.Context, clientRepo clients.Repo, resourceRepo resources.Repo, userRepo users.UserRepo, profile *fakeprofile.FakeProfileService) error {
	if err := resourceRepo.Upsert(ctx, &resources.Resource{
		Name:       "api1",
		Scopes:     []string{"api1"},
		ClaimTypes: []string{"name", "email"},
	}); err != nil {
		return err
	}

	secretHash, err := clients.HashSecret("secret")
	if err != nil {
		return err
	}
	if err := clientRepo.Upsert(ctx, &clients.Client{
		ID:                  "roclient",
		Description:         "resource owner password demo client",
		SecretHash:          secretHash,
		RequireSecret:       true,
		AllowedGrantTypes:   []oauth2.GrantType{oauth2.PasswordGrant, oauth2.RefreshTokenGrant},
		AllowedScopes:       []string{"api1"},
		AllowOfflineAccess:  true,
		RotateRefreshTokens: true,
		AccessTokenLifetime: time.Hour,
		Enabled:             true,
	}); err != nil {
		return err
	}
	if err := clientRepo.Upsert(ctx, &clients.Client{
		ID:                "m2m",
		Description:       "machine to machine demo client",
		SecretHash:        secretHash,
		RequireSecret:     true,
		AllowedGrantTypes: []oauth2.GrantType{oauth2.ClientCredentialsGrant},
		AllowedScopes:     []string{"api1"},
		Enabled:           true,
	}); err != nil {
		return err
	}

	passwordHash, err := users.HashPassword("bob")
	if err != nil {
		return err
	}
	if err := userRepo.Upsert(ctx, &users.User{
		ID:           "bob",
		Username:     "bob",
		Email:        "bob@example.com",
		PasswordHash: passwordHash,
		FirstName:    "Bob",
		LastName:     "Smith",
	}); err != nil {
		return err
	}
	profile.SetClaim("bob", "name", "Bob Smith")
	profile.SetClaim("bob", "email", "bob@example.com")

	return nil
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appName string) {
	banner := figure.NewFigure(appName, "", true)
	banner.Print()
}
