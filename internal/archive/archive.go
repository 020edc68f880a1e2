// Package archive batches completed-flow summaries into JSONL and ships
// them zstd-compressed to object storage. Archival is best effort and
// never user-visible: transient upload failures are re-buffered for the
// next flush, anything else is logged and the batch dropped.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/sotoasobi/camp-linebot-go/internal/logger"
	"github.com/sotoasobi/camp-linebot-go/internal/r2client"
)

// Entry is one archived flow completion.
type Entry struct {
	Flow      string            `json:"flow"`
	UserID    string            `json:"user_id"`
	Fields    map[string]string `json:"fields"`
	CreatedAt int64             `json:"created_at"`
}

const (
	defaultFlushPeriod = 5 * time.Minute
	defaultMaxBuffered = 200
	uploadTimeout      = 30 * time.Second
)

// Recorder buffers entries and flushes them in the background.
type Recorder struct {
	client *r2client.Client
	prefix string
	logger *logger.Logger

	mu      sync.Mutex
	entries []Entry

	flushPeriod time.Duration
	maxBuffered int

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewRecorder creates a transcript recorder flushing to the given R2
// client under prefix. The background flush loop starts immediately.
func NewRecorder(client *r2client.Client, prefix string, log *logger.Logger) *Recorder {
	r := &Recorder{
		client:      client,
		prefix:      prefix,
		logger:      log.WithModule("archive"),
		flushPeriod: defaultFlushPeriod,
		maxBuffered: defaultMaxBuffered,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go r.flushLoop()
	return r
}

// RecordCompletion buffers one completed flow. Non-blocking; when the
// buffer is full the oldest entry is dropped.
func (r *Recorder) RecordCompletion(flow, userID string, fields map[string]string) {
	entry := Entry{
		Flow:      flow,
		UserID:    userID,
		Fields:    fields,
		CreatedAt: time.Now().Unix(),
	}

	r.mu.Lock()
	if len(r.entries) >= r.maxBuffered {
		r.entries = r.entries[1:]
	}
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
}

// Close flushes pending entries and stops the background loop.
func (r *Recorder) Close() {
	r.stopOnce.Do(func() {
		close(r.stop)
		<-r.done
	})
}

func (r *Recorder) flushLoop() {
	defer close(r.done)
	ticker := time.NewTicker(r.flushPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.flush()
		case <-r.stop:
			r.flush()
			return
		}
	}
}

// flush compresses the pending batch and uploads it under a unique key.
func (r *Recorder) flush() {
	r.mu.Lock()
	batch := r.entries
	r.entries = nil
	r.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	body, err := encodeBatch(batch)
	if err != nil {
		r.logger.WithError(err).Error("failed to encode transcript batch")
		return
	}

	key := fmt.Sprintf("%s/%s/%s.jsonl.zst",
		r.prefix, time.Now().UTC().Format("2006-01-02"), uuid.NewString())

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	if _, err := r.client.Upload(ctx, key, bytes.NewReader(body), "application/zstd"); err != nil {
		if r2client.IsTransient(err) {
			// Re-buffer so the next tick retries; RecordCompletion's
			// cap still bounds memory.
			r.requeue(batch)
			r.logger.WithError(err).WithField("entries", len(batch)).Warn("transient upload failure, batch re-buffered")
			return
		}
		r.logger.WithError(err).WithField("entries", len(batch)).Error("failed to upload transcript batch")
		return
	}
	r.logger.WithField("entries", len(batch)).WithField("key", key).Debug("transcript batch uploaded")
}

// requeue puts a failed batch back at the front of the buffer,
// trimming to the cap from the oldest end.
func (r *Recorder) requeue(batch []Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	merged := append(batch, r.entries...)
	if len(merged) > r.maxBuffered {
		merged = merged[len(merged)-r.maxBuffered:]
	}
	r.entries = merged
}

// encodeBatch renders entries as zstd-compressed JSONL.
func encodeBatch(batch []Entry) ([]byte, error) {
	var buf bytes.Buffer
	encoder, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("create encoder: %w", err)
	}

	enc := json.NewEncoder(encoder)
	for _, e := range batch {
		if err := enc.Encode(e); err != nil {
			_ = encoder.Close()
			return nil, fmt.Errorf("encode entry: %w", err)
		}
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}
