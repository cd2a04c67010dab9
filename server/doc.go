// Package server holds the HTTP plumbing shared by the route and middleware
// packages: JSON error responses built from errors.AppError.
//
// Subpackages:
//
//   - server/endpoint: the login callback, logout and health routes
//   - server/middleware: session injection, RequireAuth and RequireRoles
//     guards, request IDs, request logging and panic recovery
//
// Everything is offered for both net/http and Gin.
package server
