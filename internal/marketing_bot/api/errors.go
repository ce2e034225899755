package api

import "errors"

var (
	// ErrCompletionFailed is returned when the completion provider gave no usable reply.
	ErrCompletionFailed = errors.New("completion failed")
	// ErrBadStatus is returned when a remote endpoint answered with an unexpected HTTP status.
	ErrBadStatus = errors.New("unexpected http status")
	// ErrUnexpectedLayout is returned when the benchmark page has neither labelled nor enough tables.
	ErrUnexpectedLayout = errors.New("unexpected benchmark page layout")
)
