// Package errors provides structured, coded errors for wtree.
//
// Each error has a stable code (e.g., "W001") mapped to a category and a
// short message. Errors compare equal under errors.Is when their codes
// match, so a package can expose a sentinel built with New and callers can
// test for it regardless of detail or wrapped cause.
//
// # Error Codes
//
//   - W001-W009: lifecycle, misuse, template and render errors
//   - W010-W019: configuration and CLI errors
//
// # Usage
//
//	err := errors.New("W001").
//	    WithDetail(`field "count" is not part of the state`).
//	    WithSuggestion("Declare the field in Options.State")
//
//	fmt.Println(err.Format())
package errors
