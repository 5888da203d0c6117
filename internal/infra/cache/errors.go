package cache

import "errors"

var (
	// ErrUnavailable возвращается, когда Redis недоступен
	ErrUnavailable = errors.New("cache: redis unavailable")
)
