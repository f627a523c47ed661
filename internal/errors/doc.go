// Package errors provides coded errors and diagnostics for renderstate.
//
// Every diagnostic the store, the adapters and the tooling emit carries a
// short code (e.g. "R001") that maps to a registered template:
//
//   - a category (state, producer, snapshot, config, cli)
//   - a short message
//   - a longer explanation and, where useful, a hint
//
// # Usage
//
//	err := errors.New("R020").
//	    WithDetail(`unexpected token at offset 12`).
//	    Wrap(decodeErr)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R020: Snapshot could not be decoded
//	//
//	//   unexpected token at offset 12
//
// Inconsistent-state codes (R001-R003) are never returned to callers; they are
// logged as slog attributes via Attr.
package errors
