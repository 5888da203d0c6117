package expiry

import "errors"

var (
	// ErrAlreadyCancelled возвращается, когда бронь отменили раньше
	ErrAlreadyCancelled = errors.New("expiry: booking already cancelled")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("expiry: internal error")
)
