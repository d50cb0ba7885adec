// Package attrs defines telemetry attribute keys shared by the dodkit
// middlewares, so metrics and traces agree on naming.
package attrs

const (
	// AttrService is the name of the invoked service.
	AttrService = "service"
	// AttrArgsCount is the number of arguments passed to an invocation.
	AttrArgsCount = "args.count"
	// AttrRejected marks invocations refused by a call limiter.
	AttrRejected = "rejected"
	// AttrError marks invocations that returned an error.
	AttrError = "error"
)
