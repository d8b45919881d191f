// Package domain contains the core business entities of TenXCards: users,
// the original content they submit, the flashcards derived from it, and the
// error logs recorded when generation fails. Entities validate their own
// invariants and report input problems as ValidationError.
package domain
