// Package service runs the background workers that mirror occupancy to
// other systems: the broker publisher and the Redis population mirror.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/iliyamo/igloo-rooms/internal/queue"
	"github.com/iliyamo/igloo-rooms/internal/room"
)

// DefaultPublishBuffer bounds the events waiting for the broker.
const DefaultPublishBuffer = 1024

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// OccupancyPublisher forwards committed room changes to a durable queue.
// Observe never blocks the room layer: when the buffer is full the event
// is dropped and counted.
type OccupancyPublisher struct {
	url      string
	queue    string
	serverID string
	log      *zap.Logger

	events  chan q.OccupancyEvent
	dropped atomic.Int64
}

// NewOccupancyPublisher returns a publisher; call Run to start delivering.
func NewOccupancyPublisher(url, queueName, serverID string, buffer int, log *zap.Logger) *OccupancyPublisher {
	if queueName == "" {
		queueName = q.DefaultQueueName
	}
	if buffer <= 0 {
		buffer = DefaultPublishBuffer
	}
	return &OccupancyPublisher{
		url:      url,
		queue:    queueName,
		serverID: serverID,
		log:      log,
		events:   make(chan q.OccupancyEvent, buffer),
	}
}

// Observe is a room.Observer.
func (p *OccupancyPublisher) Observe(c room.Change) {
	select {
	case p.events <- p.toEvent(c):
	default:
		if n := p.dropped.Add(1); n == 1 || n%100 == 0 {
			p.log.Warn("occupancy publish buffer full, dropping", zap.Int64("dropped", n))
		}
	}
}

// Dropped is the number of events lost to a full buffer.
func (p *OccupancyPublisher) Dropped() int64 { return p.dropped.Load() }

func (p *OccupancyPublisher) toEvent(c room.Change) q.OccupancyEvent {
	at := c.At
	if at.IsZero() {
		at = time.Now()
	}
	return q.OccupancyEvent{
		ServerID:   p.serverID,
		Kind:       string(c.Kind),
		OccupantID: c.OccupantID,
		RoomID:     c.RoomID,
		GroupKind:  c.GroupKind,
		GroupID:    c.GroupID,
		Seat:       c.Seat,
		At:         at.UTC().Format(time.RFC3339),
	}
}

// Run dials the broker and publishes until ctx is done, reconnecting with
// backoff.  Events observed while disconnected wait in the buffer.
func (p *OccupancyPublisher) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		err := p.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.log.Warn("occupancy publisher disconnected", zap.Error(err), zap.Duration("retry_in", backoff))
		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (p *OccupancyPublisher) session(ctx context.Context) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	p.log.Info("occupancy publisher connected", zap.String("queue", p.queue))

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	return p.pump(ctx, ch, closed)
}

// pump publishes buffered events on ch until ctx is done, the connection
// closes or a publish fails.  The event whose publish failed is lost.
func (p *OccupancyPublisher) pump(ctx context.Context, ch channel, closed <-chan *amqp.Error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr, ok := <-closed:
			if !ok || amqpErr == nil {
				return errors.New("connection closed")
			}
			return amqpErr
		case ev := <-p.events:
			if err := p.publish(ctx, ch, ev); err != nil {
				p.log.Warn("publish failed", zap.String("kind", ev.Kind), zap.Error(err))
				return err
			}
		}
	}
}

func (p *OccupancyPublisher) publish(ctx context.Context, ch channel, ev q.OccupancyEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}
