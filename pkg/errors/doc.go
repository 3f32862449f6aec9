// Package errors carries a classification code and structured context on
// every error that may cross a process boundary. The server renders these
// fields into its JSON error envelope, and the CLI maps codes to exit
// behavior, so a failure keeps its meaning from the point of origin to
// whoever reads it:
//
//	if doc == nil {
//	    return errors.NewWithContext(
//	        errors.ErrCodeNotFound,
//	        "scenario not found",
//	        map[string]any{"id": id},
//	    )
//	}
//
// Wrap and WrapWithContext do the same for failures with an underlying
// cause; Code recovers the classification anywhere up the wrap chain.
package errors
