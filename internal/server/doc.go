// Package server provides HTTP routing, middleware, and the OAuth callback handler used by `spotui auth`.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [LoggingMiddleware] and [RecoverMiddleware] are the two the CLI installs.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens through an
// [Exchanger], and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Callback Server
//
// [Listen] binds the redirect address (127.0.0.1:8080 by default) before the browser is opened, serves until the
// token arrives, and is shut down by the caller.
package server
