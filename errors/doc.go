// Package errors provides standardized error handling for the UMF message library.
//
// # Error Classification
//
// Errors fall into three classes:
//
//   - Transient: a message handler ran out of time or was cancelled; a
//     redelivery may succeed
//   - Invalid: malformed wire text, a route string that cannot be parsed, or a
//     message missing one of its required fields
//   - Fatal: bad configuration detected at startup
//
// Message validation itself never returns an error; Message.Validate reports a
// boolean. Callers that want a reason use Message.Check, which returns an
// invalid-class error wrapping ErrMissingField.
//
// # Error Wrapping Pattern
//
// All wrapping follows the format
//
//	"component.method: action failed: %w"
//
// and the classified wrappers keep the chain reachable through errors.Is and
// errors.As:
//
//	if err := msg.UnmarshalJSON(data); err != nil {
//	    if errors.IsInvalid(err) {
//	        // drop the frame, it will never decode
//	    }
//	}
package errors
