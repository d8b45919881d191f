// Package generation holds the provider-independent half of AI card
// generation: building the chat prompt, the Client contract implemented by
// the OpenRouter and Gemini adapters, a retry layer for transient provider
// failures, and the parser that turns model output into card candidates.
//
// Every failure in this package is an *Error tagged with a Kind, so callers
// can tell validation, network, unknown and generation failures apart with
// KindOf instead of inspecting concrete types.
package generation
