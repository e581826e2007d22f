// Package sanitizer provides input normalization functions for parking data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings rather than errors.
//
// Normalization includes:
//   - License plates: Trim, collapse inner whitespace, uppercase
//   - Phone numbers: Convert to E.164 format (+[country][number])
//   - Strings: Collapse whitespace, trim leading/trailing spaces
//   - Names and addresses: Lowercase, replace special characters with underscores
package sanitizer
