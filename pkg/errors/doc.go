// Package errors provides structured error types for the XGBoostJob client.
//
// Every failure surfaced by the client carries one of a small set of codes
// (INVALID_ARGUMENT, NOT_FOUND, CONFLICT, TRANSPORT, TIMEOUT, EMPTY_STATE)
// so callers can branch on the class of failure without string matching:
//
//	job, err := c.Get(ctx, "xgb-1", "ml")
//	if errors.IsCode(err, errors.ErrCodeNotFound) {
//	    // job was deleted or never created
//	}
//
// Context carries the entity and namespace involved:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTransport,
//	    "failed to get XGBoostJob",
//	    cause,
//	    map[string]any{
//	        "name":      name,
//	        "namespace": namespace,
//	    },
//	)
package errors
