package server

import "context"

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CheckFunc adapts a plain ping function, e.g. a driver's VerifyConnectivity.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}
