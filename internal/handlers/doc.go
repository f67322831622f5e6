// Package handlers provides HTTP request handlers for the lens API.
//
// It includes handlers for:
//   - Catalog range queries and single-record lookups
//   - Serving original image bytes
//   - Triggering a discovery run
//   - Health checks and version information
package handlers
