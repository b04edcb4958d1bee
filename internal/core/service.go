package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/csv2sql/internal/logging"
	"github.com/JonMunkholm/csv2sql/internal/metrics"
)

// ErrVerificationDisabled is returned by Service.Verify when no backend is set.
var ErrVerificationDisabled = errors.New("verification disabled")

// Verifier checks that a generated statement is accepted by a database engine.
type Verifier interface {
	Name() string
	Verify(ctx context.Context, sql string) error
}

// ServiceConfig tunes a Service. Zero values fall back to defaults.
type ServiceConfig struct {
	SessionTTL    time.Duration
	MaxInputBytes int64
	PreviewRows   int
	VerifyTimeout time.Duration
	Naming        NameFunc
}

const (
	DefaultSessionTTL    = time.Hour
	DefaultVerifyTimeout = 5 * time.Second
)

// Service holds editing sessions for the web frontend. Each session is an
// immutable State that is swapped whole under the session lock.
type Service struct {
	cfg      ServiceConfig
	verifier Verifier
	limiter  *Limiter
	metrics  *metrics.Recorder
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	mu       sync.Mutex
	state    State
	lastSeen time.Time
}

// ServiceOption customises NewService.
type ServiceOption func(*Service)

// WithVerifier enables Service.Verify. limiter may be nil for no bound.
func WithVerifier(v Verifier, limiter *Limiter) ServiceOption {
	return func(s *Service) {
		s.verifier = v
		s.limiter = limiter
	}
}

// WithMetrics records parse, generate and verify metrics on m.
func WithMetrics(m *metrics.Recorder) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service.
func NewService(cfg ServiceConfig, opts ...ServiceOption) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = DefaultPreviewRows
	}
	if cfg.VerifyTimeout <= 0 {
		cfg.VerifyTimeout = DefaultVerifyTimeout
	}
	if cfg.Naming == nil {
		cfg.Naming = NormalizeColumnName
	}

	s := &Service{
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PreviewRows is the configured grid size.
func (s *Service) PreviewRows() int { return s.cfg.PreviewRows }

// VerifierName returns the verification backend name, or "" when disabled.
func (s *Service) VerifierName() string {
	if s.verifier == nil {
		return ""
	}
	return s.verifier.Name()
}

// NewSession starts an empty editing session and returns its id.
func (s *Service) NewSession() (string, State) {
	id := uuid.New().String()
	st := NewState(s.cfg.Naming)

	s.mu.Lock()
	s.sessions[id] = &session{state: st, lastSeen: s.now()}
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(n)
	return id, st
}

// Get returns the current state of a session.
func (s *Service) Get(id string) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()
	return sess.state, nil
}

// Delete drops a session. Deleting an unknown id is not an error.
func (s *Service) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetActiveSessions(n)
}

// SessionCount is the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// UpdateInput reparses a session's input.
func (s *Service) UpdateInput(ctx context.Context, id, text string, opts ParseOptions) (State, error) {
	if s.cfg.MaxInputBytes > 0 && int64(len(text)) > s.cfg.MaxInputBytes {
		return State{}, fmt.Errorf("%w: exceeds %d bytes", ErrInputTooLarge, s.cfg.MaxInputBytes)
	}

	return s.update(id, func(st State) (State, error) {
		start := time.Now()
		next := st.WithInput(text, opts)
		s.metrics.ObserveParse(time.Since(start), len(next.Parsed.Rows), len(next.Parsed.Errors))

		logging.FromContext(ctx).Debug("input parsed",
			"fields", len(next.Parsed.Fields),
			"rows", len(next.Parsed.Rows),
			"parse_errors", len(next.Parsed.Errors),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return next, nil
	})
}

// SetConfig changes one field's configuration.
func (s *Service) SetConfig(ctx context.Context, id, field string, cfg ColumnConfig) (State, error) {
	return s.update(id, func(st State) (State, error) {
		return st.WithConfig(field, cfg)
	})
}

// Generate produces SQL for a session. The returned State carries the SQL;
// on failure the error is returned as well as recorded in State.Err.
func (s *Service) Generate(ctx context.Context, id string) (State, error) {
	var genErr error
	st, err := s.update(id, func(st State) (State, error) {
		if st.Parsed.Empty() {
			genErr = ErrEmptyInput
			return st, nil
		}
		start := time.Now()
		next := st.Generate()
		genErr = next.Err
		s.metrics.ObserveGenerate(time.Since(start), MapError(next.Err).Code)
		return next, nil
	})
	if err != nil {
		return State{}, err
	}
	if genErr != nil {
		logging.FromContext(ctx).Info("generation failed", "error", genErr)
		return st, genErr
	}
	logging.FromContext(ctx).Info("sql generated",
		"columns", len(IncludedColumns(st.Parsed.Fields, st.Configs)),
		"rows", len(st.Parsed.Rows),
	)
	return st, nil
}

// Verify runs the session's last generated SQL through the verifier.
func (s *Service) Verify(ctx context.Context, id string) error {
	if s.verifier == nil {
		return ErrVerificationDisabled
	}
	st, err := s.Get(id)
	if err != nil {
		return err
	}
	if st.SQL == "" {
		return ErrEmptyInput
	}
	if err := ValidateIdentifiers(st.Parsed.Fields, st.Configs); err != nil {
		return err
	}
	return s.VerifySQL(ctx, st.SQL)
}

// VerifySQL checks an arbitrary statement, bounded by the limiter and timeout.
func (s *Service) VerifySQL(ctx context.Context, sql string) error {
	if s.verifier == nil {
		return ErrVerificationDisabled
	}
	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx); err != nil {
			return err
		}
		defer s.limiter.Release()
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.VerifyTimeout)
	defer cancel()

	start := time.Now()
	err := s.verifier.Verify(ctx, sql)
	s.metrics.ObserveVerify(s.verifier.Name(), time.Since(start), err)
	return err
}

// WaitForVerifications blocks until in-flight verifications finish.
func (s *Service) WaitForVerifications(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.WaitForDrain(ctx)
}

func (s *Service) lookup(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *Service) update(id string, fn func(State) (State, error)) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	next, err := fn(sess.state)
	if err != nil {
		return sess.state, err
	}
	sess.state = next
	sess.lastSeen = s.now()
	return next, nil
}
