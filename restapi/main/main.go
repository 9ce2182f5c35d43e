// Command main serves an in-memory ordered string container over a REST API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	jwtverifier "github.com/okta/okta-jwt-verifier-golang"

	"github.com/sharedcode/ordtree"
	"github.com/sharedcode/ordtree/inmemory"
	"github.com/sharedcode/ordtree/restapi"
)

type cli struct {
	Listen string                `help:"HTTP listen address" default:"localhost:8080" env:"ORDTREE_LISTEN"`
	Kind   ordtree.ContainerKind `help:"Container engine, btree or array" default:"btree" env:"ORDTREE_KIND"`
	Degree int                   `help:"B-tree degree" default:"15" env:"ORDTREE_DEGREE"`

	LogLevel slog.Level `help:"Log level: DEBUG, INFO, WARN or ERROR" default:"INFO" env:"ORDTREE_LOG_LEVEL"`

	OktaDomain   string `help:"Okta domain the bearer tokens are issued by" env:"OKTA_DOMAIN"`
	OktaClientID string `help:"Okta client id the bearer tokens are issued to" env:"OKTA_CLIENT_ID"`
}

func main() {
	var params cli
	kong.Parse(&params, kong.Description("Serves an in-memory ordered key/value container over REST."))
	ordtree.ConfigureLogging()
	ordtree.SetLogLevel(params.LogLevel)

	store, err := inmemory.NewSynchronized[string, string](ordtree.ContainerOptions{Kind: params.Kind, Degree: params.Degree})
	if err != nil {
		slog.Error("can't create container", "error", err)
		os.Exit(1)
	}
	router, err := restapi.NewRouter(restapi.NewServer(store), params.verifyHeaderToken)
	if err != nil {
		slog.Error("can't set up routes", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              params.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown failed", "error", err)
		}
	}()

	slog.Info("serving", "listen", params.Listen, "kind", params.Kind, "degree", params.Degree)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// verifyHeaderToken wraps realHandler with bearer token verification.
func (params *cli) verifyHeaderToken(realHandler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if params.verify(c) {
			realHandler(c)
		}
	}
}

// Verify the bearer token in header.
func (params *cli) verify(c *gin.Context) bool {
	// Allow easy debugging on dev.
	if os.Getenv("ORDTREE_ENV") == "DEV" {
		return true
	}

	token := c.Request.Header.Get("Authorization")
	if !strings.HasPrefix(token, "Bearer ") {
		c.String(http.StatusUnauthorized, "Unauthorized")
		return false
	}
	token = strings.TrimPrefix(token, "Bearer ")

	// Allow easy QA, bypass Okta based OAuth2 token verification w/ simple token equality check.
	if os.Getenv("ORDTREE_ENV") == "QA" {
		if qaToken := os.Getenv("ORDTREE_QA_TOKEN"); qaToken != "" && token == qaToken {
			return true
		}
	}

	verifierSetup := jwtverifier.JwtVerifier{
		Issuer: "https://" + params.OktaDomain + "/oauth2/default",
		ClaimsToValidate: map[string]string{
			"aud": "api://default",
			"cid": params.OktaClientID,
		},
	}
	verifier := verifierSetup.New()
	if _, err := verifier.VerifyAccessToken(token); err != nil {
		slog.Debug("token verification failed", "error", err)
		c.String(http.StatusForbidden, err.Error())
		return false
	}
	return true
}
