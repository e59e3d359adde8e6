// Package suggest asks large language models for translations of words
// the dictionary does not know yet. Providers for OpenAI and Gemini are
// available, and any provider can be wrapped in a circuit breaker so a
// failing API is not queried word after word.
package suggest
