package advisors

import "context"

// Advisor is the shared shape of every stage: input in, validated output
// or nil out. A nil *Out with a nil error is a legitimate response (used
// only by Crisis); a non-nil error always means "apply the fallback".
type Advisor[In, Out any] interface {
	Invoke(ctx context.Context, in In) (*Out, error)
}

// NullAdvisor always returns a nil output with no error; useful as the
// Crisis stage's collaborator in deployments that never want injected
// crises, and in tests exercising the fallback-on-failure path for every
// other stage by wrapping an error-returning stand-in instead.
type NullAdvisor[In, Out any] struct{}

func (NullAdvisor[In, Out]) Invoke(context.Context, In) (*Out, error) {
	return nil, nil
}

// FailingAdvisor always returns Err; wiring one into every stage makes
// the pipeline apply each stage's fallback.
type FailingAdvisor[In, Out any] struct{ Err error }

func (f FailingAdvisor[In, Out]) Invoke(context.Context, In) (*Out, error) {
	return nil, f.Err
}
