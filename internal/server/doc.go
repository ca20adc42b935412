// Package server runs the short-lived local HTTP server that completes the
// OAuth2 authorization-code flow.
//
// # Routing
//
// [CallbackRouter] mounts a [Handler]'s routes as GET patterns on an
// [http.ServeMux] behind a [Middleware] stack. [RequestLogger] is the only
// middleware in use.
//
// # OAuth Callback Handler
//
// [OAuthHandler] validates the state parameter, exchanges the authorization
// code through an [Exchanger] and sends the result through a channel. It
// only processes one callback.
//
// [AwaitToken] serves the handler on the redirect URI's address (see
// [RedirectTarget]) and shuts the server down once a result arrives.
package server
