package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

// DefaultTimeout время на доставку одной пачки событий
const DefaultTimeout = 5 * time.Second

// Notifier рассылает доменные события после коммита.
// Отправка идет в отдельной горутине и никогда не блокирует запрос:
// ошибка доставки только логируется и считается в метриках.
type Notifier struct {
	sender  Sender
	metrics Metrics
	logger  Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// New создает notifier, timeout <= 0 заменяется на DefaultTimeout
func New(sender Sender, metrics Metrics, timeout time.Duration, logger Logger) *Notifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Notifier{
		sender:  sender,
		metrics: metrics,
		logger:  logger,
		timeout: timeout,
	}
}

// Publish отправляет события в фоне в порядке передачи
func (n *Notifier) Publish(events ...domain.Event) {
	if len(events) == 0 {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		// контекст запроса к этому моменту уже может быть отменен
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		for _, e := range events {
			if err := n.sender.PublishJSON(ctx, e.EventName(), e); err != nil {
				n.logger.Error("Notifier: failed to deliver %s: %v", e.EventName(), err)
				n.metrics.IncNotificationFailed(e.EventName())
			}
		}
	}()
}

// Wait дожидается завершения всех начатых отправок
func (n *Notifier) Wait() {
	n.wg.Wait()
}
