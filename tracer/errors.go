package tracer

import "errors"

var (
	ErrNoQueues = errors.New("tracer: device did not provide any integrator queues")
)
