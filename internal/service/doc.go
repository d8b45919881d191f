// Package service contains the application use cases: card generation and
// management, original content management, user registration and the
// error log for failed generations.
//
// Services depend on the store interfaces and on generation.Client, never on
// a concrete database or AI provider. Multi-row writes run through a
// store.Transactor. Card reads go through a CardCache that is shared by every
// service that mutates cards, so a write anywhere invalidates the user's
// cached pages.
//
// Errors returned to callers are one of:
//   - *domain.ValidationError for bad input
//   - *generation.Error of KindGeneration for AI failures
//   - store sentinels (ErrCardNotFound, ErrEmailExists, ...)
//   - ErrNotOwned and ErrInvalidCredentials
//   - *ServiceError for everything operational
package service
