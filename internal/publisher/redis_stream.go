// Package publisher fans operational events out to Redis streams so
// downstream consumers (alerting, dashboards) can tail ingest activity
// without polling the API.
package publisher

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/oncourt/internal/anomaly"
	"github.com/fortuna/oncourt/internal/jobs"
)

const (
	// AnomalyStream carries feed-quality anomalies from ingestion.
	AnomalyStream = "oncourt.anomalies"

	// JobStream carries build/update job lifecycle events.
	JobStream = "oncourt.jobs"

	publishTimeout = 5 * time.Second
	bufferSize     = 256
)

// RedisStreamPublisher appends events to Redis streams. Publishing is
// asynchronous through a bounded buffer; when the buffer is full events
// are dropped with a log line rather than stalling ingestion.
type RedisStreamPublisher struct {
	client *redis.Client
	queue  chan streamEntry
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

type streamEntry struct {
	stream string
	data   []byte
}

// NewRedisStreamPublisher creates a publisher on an existing client and
// starts its drain loop.
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	p := &RedisStreamPublisher{
		client: client,
		queue:  make(chan streamEntry, bufferSize),
		done:   make(chan struct{}),
	}
	go p.drain()
	return p
}

// Close stops accepting events and flushes the buffer. Events arriving
// after Close are dropped; sinks may fire during shutdown in any order.
func (p *RedisStreamPublisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
}

// OnAnomaly implements anomaly.Sink.
func (p *RedisStreamPublisher) OnAnomaly(ev anomaly.Event) {
	p.publish(AnomalyStream, ev)
}

// OnJobEvent implements jobs.EventSink.
func (p *RedisStreamPublisher) OnJobEvent(ev jobs.Event) {
	p.publish(JobStream, ev)
}

func (p *RedisStreamPublisher) publish(stream string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[publisher] marshal for %s failed: %v", stream, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		log.Printf("[publisher] closed, dropping event for %s", stream)
		return
	}
	select {
	case p.queue <- streamEntry{stream: stream, data: data}:
	default:
		log.Printf("[publisher] buffer full, dropping event for %s", stream)
	}
}

func (p *RedisStreamPublisher) drain() {
	defer close(p.done)
	for entry := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: entry.stream,
			Values: map[string]interface{}{
				"data":      string(entry.data),
				"timestamp": time.Now().Unix(),
			},
		}).Err()
		cancel()
		if err != nil {
			log.Printf("[publisher] xadd to %s failed: %v", entry.stream, err)
		}
	}
}
