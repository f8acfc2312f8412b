// Package nats publishes domain events on a NATS subject tree and delivers
// them once to subscribers.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/utils/codec"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/idempotency"
	"github.com/Felo0o0/PrimeSecure/utils/random"
	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker"
)

// Event is the envelope every published payload travels in.
type Event[T any] struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Service    string    `json:"service"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       T         `json:"data"`
}

// Handler processes one delivered event. Data is left encoded for the
// handler to decode into the type the subject carries.
type Handler func(Event[json.RawMessage]) error

// NATSManager owns the connection, the publish breaker and the tracker that
// drops redelivered events.
type NATSManager struct {
	nc             *nats.Conn
	mu             sync.Mutex
	logger         *log.Log
	breaker        *gobreaker.CircuitBreaker
	tracker        *idempotency.Tracker[string]
	subs           map[string]*nats.Subscription
	prefix         string
	service        string
	timeout        time.Duration
	retention      time.Duration
	maxReconnects  int
	reconnectWait  time.Duration
	connectOptions []nats.Option
}

func newManager(opts ...Option) *NATSManager {
	w := &NATSManager{
		logger:        log.NewBasicLogger(false),
		subs:          make(map[string]*nats.Subscription),
		prefix:        constant.DefaultEventPrefix,
		service:       constant.DefaultServiceName,
		timeout:       constant.DefaultEventTimeout,
		retention:     constant.DefaultIdempotencyTTL,
		maxReconnects: DefaultMaxReconnects,
		reconnectWait: DefaultReconnectWait,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.tracker = idempotency.NewTracker[string](w.retention)
	return w
}

// NewNATSManager connects to url. The connection retries forever once
// established; the first dial fails after the configured timeout.
func NewNATSManager(url string, opts ...Option) (*NATSManager, error) {
	w := newManager(opts...)

	natsOpts := append([]nats.Option{
		nats.Name(w.service),
		nats.Timeout(w.timeout),
		nats.MaxReconnects(w.maxReconnects),
		nats.ReconnectWait(w.reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				w.logger.Warn("nats disconnected", log.Err(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			w.logger.Info("nats reconnected", log.String("url", nc.ConnectedUrl()))
		}),
	}, w.connectOptions...)

	nc, err := nats.Connect(url, natsOpts...)
	if err != nil {
		w.tracker.Close()
		return nil, blame.EventPublishError(url, fmt.Errorf("connect: %w", err))
	}
	w.nc = nc
	w.logger.Info("nats connected", log.String("url", nc.ConnectedUrl()), log.String("prefix", w.prefix))
	return w, nil
}

// Subject qualifies name with the manager's prefix.
func (w *NATSManager) Subject(name string) string {
	if w.prefix == "" {
		return name
	}
	return w.prefix + "." + strings.TrimPrefix(name, ".")
}

// NewEvent wraps payload in an envelope addressed to name.
func (w *NATSManager) NewEvent(name string, payload any) Event[any] {
	return Event[any]{
		ID:         random.GenerateUUIDString(),
		Subject:    w.Subject(name),
		Service:    w.service,
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	}
}

// EncodeMsg builds the wire message for an event.
func EncodeMsg(event Event[any]) (*nats.Msg, error) {
	data, err := codec.Encode(event, codec.JSON)
	if err != nil {
		return nil, err
	}
	msg := nats.NewMsg(event.Subject)
	msg.Data = data
	msg.Header.Set(constant.MessageIdHeader, event.ID)
	return msg, nil
}

// Publish sends payload as an event on the prefixed subject name and waits
// for the server to acknowledge the flush.
func (w *NATSManager) Publish(ctx context.Context, name string, payload any) error {
	if err := ctx.Err(); err != nil {
		return blame.EventPublishError(w.Subject(name), err)
	}
	if w.nc == nil || w.nc.IsClosed() {
		return blame.EventPublishError(w.Subject(name), errors.New(ConnectionFailedMessage))
	}

	event := w.NewEvent(name, payload)
	msg, err := EncodeMsg(event)
	if err != nil {
		return err
	}

	publish := func() (any, error) {
		if err := w.nc.PublishMsg(msg); err != nil {
			return nil, err
		}
		flushCtx, cancel := context.WithTimeout(ctx, w.timeout)
		defer cancel()
		return nil, w.nc.FlushWithContext(flushCtx)
	}
	if w.breaker != nil {
		_, err = w.breaker.Execute(publish)
	} else {
		_, err = publish()
	}
	if err != nil {
		w.logger.Warn("event publish failed", log.String("subject", event.Subject), log.Err(err))
		return blame.EventPublishError(event.Subject, err)
	}

	w.logger.Debug("event published",
		log.String("subject", event.Subject),
		log.String(constant.MessageIdHeader, event.ID))
	return nil
}

// Subscribe delivers events on the prefixed subject name, which may use the
// NATS wildcards, to handler. Each event id is handled once.
func (w *NATSManager) Subscribe(name string, handler Handler) (*nats.Subscription, error) {
	subject := w.Subject(name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.nc == nil {
		return nil, blame.EventPublishError(subject, errors.New(ConnectionFailedMessage))
	}
	if _, exists := w.subs[subject]; exists {
		return nil, blame.EventPublishError(subject, fmt.Errorf("already subscribed"))
	}

	sub, err := w.nc.Subscribe(subject, w.wrap(handler))
	if err != nil {
		return nil, blame.EventPublishError(subject, err)
	}
	if err := w.nc.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, blame.EventPublishError(subject, err)
	}
	w.subs[subject] = sub
	w.logger.Info("subscribed", log.String("subject", subject))
	return sub, nil
}

// wrap decodes, deduplicates and guards handler against panics.
func (w *NATSManager) wrap(handler Handler) nats.MsgHandler {
	return func(msg *nats.Msg) {
		event, err := codec.Decode[Event[json.RawMessage]](msg.Data, codec.JSON)
		if err != nil {
			w.logger.Warn("dropping undecodable event", log.String("subject", msg.Subject), log.Err(err))
			return
		}
		id := msg.Header.Get(constant.MessageIdHeader)
		if id == "" {
			id = event.ID
		}
		if id == "" {
			w.logger.Warn("dropping event without id", log.String("subject", msg.Subject))
			return
		}
		if !w.tracker.MarkIfNew(id) {
			w.logger.Debug("duplicate event", log.String(constant.MessageIdHeader, id))
			return
		}

		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("panic in event handler",
					log.String(constant.MessageIdHeader, id),
					log.Any("panic", r),
					log.String("stack", string(debug.Stack())))
			}
		}()
		if err := handler(event); err != nil {
			w.logger.Warn("event handler failed", log.String(constant.MessageIdHeader, id), log.Err(err))
		}
	}
}

// Ping fails unless the connection is up.
func (w *NATSManager) Ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.nc != nil && w.nc.IsConnected() {
		return nil
	}
	return errors.New(ConnectionFailedMessage)
}

// Close drains subscriptions and the connection.
func (w *NATSManager) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	for subject, sub := range w.subs {
		if uerr := sub.Unsubscribe(); uerr != nil && !errors.Is(uerr, nats.ErrConnectionClosed) {
			w.logger.Warn("unsubscribe failed", log.String("subject", subject), log.Err(uerr))
		}
	}
	w.subs = make(map[string]*nats.Subscription)

	if w.nc != nil && !w.nc.IsClosed() {
		err = w.nc.Drain()
	}
	w.tracker.Close()
	return err
}
