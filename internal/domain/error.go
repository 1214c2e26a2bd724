package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound = errors.New("entity not found")
	// ErrConditionFailed reports a conditional write whose expected prior
	// state did not hold. Workers treat it as a benign race.
	ErrConditionFailed = errors.New("conditional update failed")
	// ErrInsufficientCapacity is returned by the cold tier when an expedited
	// retrieval cannot be satisfied under current load.
	ErrInsufficientCapacity = errors.New("retrieval tier capacity exceeded")
	// ErrRetrievalNotReady reports a retrieval job that has not completed.
	ErrRetrievalNotReady = errors.New("retrieval job not ready")
	ErrMalformedMessage  = errors.New("malformed channel message")
	ErrInvalidArgument   = errors.New("invalid argument")
)
