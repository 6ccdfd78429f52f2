package ratelimit

// DefaultScope is consulted when no policy row matches the requested scope.
const DefaultScope = "global"

// Hardcoded fallback when neither the scope nor "global" has an enabled row,
// or when the store is unreachable.
const (
	DefaultWindowMs    = 60000
	DefaultMaxRequests = 100
)

type Policy struct {
	Scope       string
	WindowMs    int64
	MaxRequests int
}

func defaultPolicy(scope string) Policy {
	return Policy{
		Scope:       scope,
		WindowMs:    DefaultWindowMs,
		MaxRequests: DefaultMaxRequests,
	}
}
