package orchestration

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ottokiosk/otto-core/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const sessionEventQueueCapacity = 64

// sessionEventLoop is the single consumer of session events. The presence
// tick and the session workers post events here; only the loop's handler
// touches session state.
type sessionEventLoop struct {
	queue   chan eventQueueItem
	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once

	started atomic.Bool
}

func newSessionEventLoop() *sessionEventLoop {
	return &sessionEventLoop{
		queue:   make(chan eventQueueItem, sessionEventQueueCapacity),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (loop *sessionEventLoop) CanIngest() bool {
	if loop == nil {
		return false
	}

	select {
	case <-loop.closeCh:
		return false
	default:
		return true
	}
}

func (loop *sessionEventLoop) StartLoop(baseCtx context.Context, handle func(context.Context, events.Event)) (started bool) {
	if loop == nil || handle == nil || !loop.CanIngest() {
		return false
	}

	loop.startOnce.Do(func() {
		started = true
		loop.started.Store(true)
		go func() {
			defer close(loop.done)

			for {
				select {
				case <-loop.closeCh:
					return
				case queuedEvent := <-loop.queue:
					if !loop.CanIngest() {
						return
					}
					loop.processQueuedEvent(baseCtx, queuedEvent, handle)
				}
			}
		}()
	})

	return started
}

func (loop *sessionEventLoop) Stop() {
	if loop == nil {
		return
	}

	loop.endOnce.Do(func() { close(loop.closeCh) })
}

func (loop *sessionEventLoop) Clear() {
	if loop == nil {
		return
	}

	for {
		select {
		case <-loop.queue:
		default:
			return
		}
	}
}

func (loop *sessionEventLoop) AwaitDone() {
	if loop == nil {
		return
	}

	if loop.started.Load() {
		<-loop.done
	}
}

type eventQueueItem struct {
	event    events.Event
	queuedAt time.Time
}

func (loop *sessionEventLoop) Ingest(event events.Event) bool {
	if loop == nil || !loop.CanIngest() {
		return false
	}

	queueItem := eventQueueItem{event: event, queuedAt: time.Now()}
	select {
	case <-loop.closeCh:
		return false
	case loop.queue <- queueItem:
		return true
	}
}

func (loop *sessionEventLoop) processQueuedEvent(
	baseContext context.Context,
	queuedEvent eventQueueItem,
	handle func(context.Context, events.Event),
) {
	if loop == nil || handle == nil {
		return
	}

	ctx, span := tracer.Start(baseContext, "process session event")
	defer span.End()

	queuedTime := time.Since(queuedEvent.queuedAt).Seconds()
	span.AddEvent("taken out of queue", trace.WithAttributes(attribute.Float64("session_event.queued_time", queuedTime)))
	span.SetAttributes(
		attribute.String("session_event.kind", string(queuedEvent.event.Kind())),
		attribute.Float64("session_event.queued_time", queuedTime),
	)

	handle(ctx, queuedEvent.event)
}

func (loop *sessionEventLoop) queuedEventCount() int {
	if loop == nil {
		return 0
	}

	return len(loop.queue)
}
