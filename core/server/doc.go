// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application from this configuration:
// listen port, request body limit and the optional API key that protects
// every route.
package server
