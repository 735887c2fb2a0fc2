package domain

import "errors"

var (
	ErrNoRecords      = errors.New("no campaign records to analyze")
	ErrInvalidBudget  = errors.New("budget must be greater than zero")
	ErrRunNotFound    = errors.New("analysis run not found")
	ErrBatchNotFound  = errors.New("ingestion batch not found")
	ErrUnknownSource  = errors.New("unknown source kind")
	ErrInvalidRecord  = errors.New("invalid campaign record")
	ErrMissingColumns = errors.New("missing required columns")
)
