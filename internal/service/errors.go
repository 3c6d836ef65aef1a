package service

import "errors"

var (
	ErrNotFound               = errors.New("error not found")
	ErrRebalanceInProgress    = errors.New("error rebalance already in progress")
	ErrRebalanceNotExecuted   = errors.New("error rebalance was not executed")
	ErrRebalanceAlreadyUndone = errors.New("error rebalance already undone")
)
