// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation. Requests without the configured key get 401
//     {"error":"Unauthorized"}; an unset key rejects everything.
//   - rayid: generates a RayID for every request, stores it in the context
//     locals and echoes it in the X-Ray-ID response header for tracing.
//
// RayID is registered first so that even rejected requests are traceable.
package middleware
