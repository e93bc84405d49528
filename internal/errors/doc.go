// Package errors provides coded, actionable errors for hybrids.
//
// Every error carries a code (e.g. "E102") that maps to a registered
// template with a category, a short message, a longer explanation and a
// documentation link.
//
// # Error Categories
//
//   - definition: invalid property descriptors, match specifications, tags
//   - runtime: circular computed dependencies, getter failures, nil hosts
//   - config: unreadable or malformed configuration files
//   - fixture: scenario files the CLI cannot load or execute
//
// # Usage
//
//	err := errors.New("E101").
//	    WithDetail(`parent property "parent" got int`).
//	    WithSuggestion("Use hybrid.ByTag, hybrid.ByRef or hybrid.ByFunc")
//
//	fmt.Println(err.Format())
//
// Errors compare by code with the standard library:
//
//	if stderrors.Is(err, errors.New("E102")) { ... }
package errors
