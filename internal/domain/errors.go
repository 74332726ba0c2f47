package domain

import "errors"

var (
	// ErrNotAQuery signals that a free-text message is not a financial
	// question; callers fall through to generic conversation.
	ErrNotAQuery = errors.New("not a data query")

	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrNoMaterial       = errors.New("extraction yielded no material")
	ErrEmptyExtraction  = errors.New("extraction yielded no fields")
	ErrUploadFailed     = errors.New("attachment upload failed")
	ErrBudgetNotSet     = errors.New("no budget configured")
)
