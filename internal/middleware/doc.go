// Package middleware provides HTTP middleware for the lens API server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics keyed by route template
package middleware
