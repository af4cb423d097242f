// Package googleai provides an ai.Generator backed by Google Gemini.
//
// Requests are sent in JSON mode with the instruction and the batch payload as
// two text parts of a single user turn. Gemini returns the indicator array
// bare, without a wrapping object.
package googleai
