// Package api exposes the card, original content and auth services over
// HTTP. Handlers decode and validate requests, call a service and map its
// errors to status codes and client-safe messages.
package api
