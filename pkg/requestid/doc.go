// Package requestid assigns every HTTP request a stable identifier.
//
// Middleware reads the X-Request-ID header, generates a UUID when the header
// is missing or malformed, echoes it back on the response, and stores it in
// the request context. ContextKey exposes the context key so the logger can
// inject the id into every record of the request.
package requestid
