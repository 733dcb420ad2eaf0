// Package common contains shared constants and the error taxonomy used across
// gophauth components.
package common

// Cookie names used to carry session artifacts between client and server.
const (
	AccessTokenCookieName  = "access_token"
	RefreshTokenCookieName = "refresh_token"
)

// RequestIDHeaderName is echoed back on every HTTP response.
const RequestIDHeaderName = "X-Request-ID"
