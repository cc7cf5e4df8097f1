package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotui/internal/server"
	"github.com/desertthunder/spotui/internal/services"
	"github.com/desertthunder/spotui/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const authTimeout = 2 * time.Minute

// Auth performs the OAuth2 authorization code flow for Spotify.
//
// Starts a local HTTP server, opens the browser for user authorization, and exchanges the code for tokens.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.requireService()
	if err != nil {
		return err
	}

	oauthSvc, ok := svc.(services.OAuthService)
	if !ok {
		return fmt.Errorf("%w: %s does not support OAuth2", shared.ErrServiceUnavailable, svc.Name())
	}

	token, err := r.doOAuth(ctx, oauthSvc, !cmd.Bool("no-browser"))
	if err != nil {
		return err
	}

	if err := r.saveTokens(token); err != nil {
		return err
	}

	if err := oauthSvc.OAuthenticate(ctx, token); err != nil {
		return fmt.Errorf("failed to authenticate with new tokens: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", r.configPath)
	r.writePlain("You can now run: spotui\n")

	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, oauthSvc services.OAuthService, browser bool) (*oauth2.Token, error) {
	state := shared.GenerateState()
	authURL := oauthSvc.GetAuthURL(state)

	logger := shared.WithLogger(r.logger, "component", "oauth")

	oauthHandler := server.NewOAuthHandler(ctx, oauthSvc.GetOAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Use(server.RecoverMiddleware(logger), server.LoggingMiddleware(logger))
	router.Handler(oauthHandler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv, err := server.Listen(addr, router)
	if err != nil {
		return nil, err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error shutting down server", "error", err)
		}
	}()

	logger.Info("callback server listening", "addr", srv.Addr())
	r.writePlain("→ Listening for the callback on http://%s/callback\n", srv.Addr())

	opened := false
	if browser {
		r.writePlain("→ Opening browser for Spotify authorization...\n")
		if err := r.openBrowser(authURL); err != nil {
			logger.Warn("failed to open browser automatically", "error", err)
			r.writePlainln("⚠ Could not open browser automatically.")
		} else {
			opened = true
		}
	}
	if !opened {
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", authTimeout)

	timeout := time.NewTimer(authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
	case err := <-srv.Errors():
		if err == nil {
			err = errors.New("callback server stopped")
		}
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, authTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}
