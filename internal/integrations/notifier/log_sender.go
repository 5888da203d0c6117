package notifier

import (
	"context"
	"encoding/json"
)

// LogSender пишет события в лог вместо брокера, используется при выключенных уведомлениях
type LogSender struct {
	logger Logger
}

// NewLogSender создает отправителя в лог
func NewLogSender(logger Logger) *LogSender {
	return &LogSender{logger: logger}
}

// PublishJSON логирует событие
func (s *LogSender) PublishJSON(_ context.Context, routingKey string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.logger.Info("Notification %s: %s", routingKey, body)
	return nil
}
