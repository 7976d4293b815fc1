// Package handler turns HTTP requests into service calls.
//
// Each route handler binds and validates its payload through the validation
// package, calls one service method and renders the result through a fixed
// projection from response.go. Handlers never write error bodies themselves:
// returned errors go to the global error handler in the middleware package.
package handler
