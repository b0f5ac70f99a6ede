package store

import (
	"log/slog"
	"sync"
	"time"
)

const recorderQueue = 256

type keyEvent struct {
	label string
	at    time.Time
}

// Recorder writes key presses for one session from a background goroutine.
// Record never blocks; presses arriving while the queue is full are dropped.
type Recorder struct {
	sessions *SessionRepository
	session  *Session
	logger   *slog.Logger

	events  chan keyEvent
	done    chan struct{}
	once    sync.Once
	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewRecorder starts a session in s and the goroutine that records into it.
func NewRecorder(s *Store, now time.Time, logger *slog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sess, err := s.Sessions().Start(now)
	if err != nil {
		return nil, err
	}

	r := &Recorder{
		sessions: s.Sessions(),
		session:  sess,
		logger:   logger,
		events:   make(chan keyEvent, recorderQueue),
		done:     make(chan struct{}),
	}
	go r.run()

	logger.Info("stats session started", "session", sess.ID)
	return r, nil
}

// SessionID returns the id of the recorded session.
func (r *Recorder) SessionID() string {
	return r.session.ID
}

// Record queues one key press.
func (r *Recorder) Record(label string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	select {
	case r.events <- keyEvent{label: label, at: at}:
	default:
		r.dropped++
		if r.dropped == 1 || r.dropped%100 == 0 {
			r.logger.Warn("stats queue full, dropping key press", "dropped", r.dropped)
		}
	}
}

func (r *Recorder) run() {
	defer close(r.done)
	for ev := range r.events {
		if err := r.sessions.RecordKey(r.session.ID, ev.label, ev.at); err != nil {
			r.logger.Error("failed to record key press", "label", ev.label, "error", err)
		}
	}
}

// Close drains pending presses and ends the session.
func (r *Recorder) Close(now time.Time) error {
	var err error
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.events)
		r.mu.Unlock()

		<-r.done
		err = r.sessions.End(r.session.ID, now)
	})
	return err
}
