package notifier

import "errors"

var (
	// ErrConnect возвращается, когда не удалось подключиться к брокеру
	ErrConnect = errors.New("notifier: failed to connect to broker")

	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("notifier: failed to publish event")

	// ErrClosed возвращается при публикации через закрытый publisher
	ErrClosed = errors.New("notifier: publisher is closed")
)
