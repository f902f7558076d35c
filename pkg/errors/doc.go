// Package errors provides structured error types for better observability
// and programmatic error handling across the exporter.
//
// Every failure below the snapshotter is classified with an ErrorCode so the
// control loop can decide, by code alone, whether a failure is recoverable
// for the current cycle or terminal for the process.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTimeout,
//	    "command exceeded its time limit",
//	    ctx.Err(),
//	    map[string]any{
//	        "command": "multipathd show maps json",
//	        "timeout": "2s",
//	    },
//	)
//
//	if errors.IsCode(err, errors.ErrCodeTimeout) {
//	    // no usable output
//	}
package errors
