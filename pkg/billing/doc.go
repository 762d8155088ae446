// Package billing exposes the upstream billing source of truth to the
// entitlement engine as a narrow signal: a boolean "is this user on a paid
// tier" plus change notifications.
//
// Two providers ship with the package. StaticProvider lets the host push the
// signal in directly; PaddleProvider derives it from verified Paddle
// subscription webhooks. Both keep the signal locally so entitlement
// decisions never block on network I/O.
package billing
