// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header. Disabled when no key is configured.
//   - rayid: assigns a ray id to every request, stores it in the fiber locals
//     read by logger.WithRayID and echoes it in the X-Ray-ID response header.
//
// Register rayid first so every later log line carries the id.
package middleware
