package event

import (
	"context"

	"github.com/viant/procos/service/messaging"
)

// Listener consumes events from a queue and hands them to a handler on a
// dedicated goroutine.
type Listener struct {
	queue    messaging.Queue[Event]
	handler  func(*Event)
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewListener creates a stopped listener.
func NewListener(queue messaging.Queue[Event], handler func(*Event)) *Listener {
	ctx, cancelFn := context.WithCancel(context.Background())
	return &Listener{
		queue:    queue,
		handler:  handler,
		ctx:      ctx,
		cancelFn: cancelFn,
	}
}

// Start begins consuming in the background.
func (l *Listener) Start() {
	go func() {
		for {
			msg, err := l.queue.Consume(l.ctx)
			if err != nil {
				// Context cancellation is the shutdown path.
				return
			}
			if msg == nil {
				continue
			}
			_ = msg.Ack()
			l.handler(msg.T())
		}
	}()
}

// Stop terminates the consuming goroutine.
func (l *Listener) Stop() {
	l.cancelFn()
}
