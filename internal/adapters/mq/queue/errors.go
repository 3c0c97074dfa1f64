package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrQueueFull   = errors.New("rescore queue full")
	ErrQueueClosed = errors.New("rescore queue closed")
)
