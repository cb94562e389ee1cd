// Package gemini implements the generation.ModelClient interface using
// Google's Gemini API.
package gemini
