package driven

import "context"

// ConnectivityProbe reports whether the remote document service is
// reachable. Implementations must return promptly; the router calls it
// once per routed operation.
type ConnectivityProbe interface {
	Connected(ctx context.Context) bool
}

// ConnectivityReporter accepts reachability observed outside the probe,
// such as a remote call that never got a response.
type ConnectivityReporter interface {
	Report(connected bool)
}
