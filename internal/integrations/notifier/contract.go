package notifier

import "context"

// Sender доставляет одно событие по routing key
type Sender interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

// Metrics счетчик недоставленных событий
type Metrics interface {
	IncNotificationFailed(event string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
