package mail

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultSendTimeout = 30 * time.Second

// Dispatcher delivers each message on its own goroutine. Failures are logged
// and dropped; there is no retry.
type Dispatcher struct {
	mail    Mail
	timeout time.Duration
	log     *zap.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(m Mail, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		mail:    m,
		timeout: defaultSendTimeout,
		log:     log.With(zap.String("component", "mail")),
	}
}

func (d *Dispatcher) Dispatch(msg Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.mail.Send(ctx, msg); err != nil {
			d.log.Error("Failed to send email",
				zap.Error(err),
				zap.Strings("to", msg.To),
				zap.String("subject", msg.Subject),
			)
			return
		}

		d.log.Info("Email sent",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	}()
}

// Close waits for in-flight sends, then closes the underlying Mail.
func (d *Dispatcher) Close() error {
	d.wg.Wait()
	return d.mail.Close()
}
