// Package errors provides structured, coded errors for prsh.
//
// Every error raised by the runtime, the store or the configuration loader is
// a *PrshError built from a registered code. Codes map to:
//   - a short message describing the error
//   - a longer explanation
//   - a category (runtime, store, config, cli)
//
// # Usage
//
//	err := errors.New("E101").
//	    WithSuggestion("Move the dispatch into a listener or an event handler")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: Reducers may not dispatch actions
//	//
//	//   A reducer called Dispatch on the store it is reducing for.
//	//
//	//   Hint: Move the dispatch into a listener or an event handler
//
// PrshError supports errors.Is and errors.As: two PrshErrors match under
// errors.Is when their codes match, and Wrap exposes the underlying cause.
package errors
