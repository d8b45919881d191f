// Package gemini implements generation.Client on top of Google's Gemini API.
//
// The system message of a prompt becomes the Gemini system instruction and
// the remaining messages are sent as user contents. The model is asked for
// an application/json response so its text can be handed straight to
// generation.ParseCards.
//
// Provider failures are translated into the generation error taxonomy:
// HTTP errors reported by the SDK become network errors, blocked or empty
// responses become validation errors, and anything else is wrapped as an
// unknown error. Retrying is left to generation.RetryingClient.
package gemini
