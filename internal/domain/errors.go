package domain

import "errors"

// Типизированные исходы операций движка бронирования.
// Ошибки конкретных операций оборачивают одну из них через %w.
var (
	ErrNotFound       = errors.New("not found")
	ErrSlotConflict   = errors.New("slot conflict")
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidCode    = errors.New("invalid compensation code")
	ErrForbidden      = errors.New("forbidden")
)
