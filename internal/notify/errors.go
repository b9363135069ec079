package notify

import "errors"

var (
	ErrQueueFull        = errors.New("notification queue is full")
	ErrUnexpectedStatus = errors.New("unexpected webhook status")
)
