package domain

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidAmount       = errors.New("amount must be a positive number")
	ErrEquipmentNotFound   = errors.New("equipment not found")
	ErrItemNotFound        = errors.New("inventory item not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrRecordNotFound      = errors.New("service record not found")
	ErrCategoryNotFound    = errors.New("sop category not found")
	ErrDocumentNotFound    = errors.New("sop document not found")

	// ErrStorage marks a failed read or write of the backing store. The
	// operation that returned it must be treated as not applied.
	ErrStorage = errors.New("storage failure")
)
