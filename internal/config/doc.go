// Package config handles configuration loading, parsing, and validation
// from a .env file, an optional config.yaml and TENXCARDS_ environment
// variables. Secrets such as the OpenRouter API key are resolved once here
// and passed explicitly to the components that need them.
package config
