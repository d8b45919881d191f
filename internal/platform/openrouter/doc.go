// Package openrouter implements generation.Client over the OpenRouter chat
// completions HTTP API.
package openrouter
