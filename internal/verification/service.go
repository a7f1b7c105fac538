package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rollcall/internal/identity"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/audit"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

var (
	verifyOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rollcall_verification_outcomes_total",
		Help: "Identity verification attempts by outcome",
	}, []string{"outcome"})
	verifyDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rollcall_verification_duration_ms",
		Help:    "Latency of identity verification attempts in milliseconds",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks SessionStore

// DefaultVerifyTimeout bounds one directory verification call. A call that
// exceeds it counts as a verification failure, not an infrastructure error.
const DefaultVerifyTimeout = 5 * time.Second

// Service runs one verification attempt end to end: load templates, match
// the live sample under a bounded timeout, and track consecutive failures
// until the session is exhausted.
type Service struct {
	directory      identity.Directory
	sessions       SessionStore
	limit          int
	timeout        time.Duration
	logger         *slog.Logger
	auditPublisher audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithAttemptLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

func New(directory identity.Directory, sessions SessionStore, opts ...Option) (*Service, error) {
	if directory == nil {
		return nil, errors.New("identity directory is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	s := &Service{
		directory: directory,
		sessions:  sessions,
		limit:     DefaultAttemptLimit,
		timeout:   DefaultVerifyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Verify matches liveSample against the enrolled templates. sessionKey
// identifies one check-in interaction; consecutive failures under the same
// key accumulate until the limit.
//
// The returned error is non-nil only for infrastructure failures; every
// verification outcome, including exhaustion, is a Result kind.
func (s *Service) Verify(ctx context.Context, sessionKey string, liveSample []byte) (Result, error) {
	start := time.Now()
	result, err := s.verify(ctx, sessionKey, liveSample)
	if err == nil {
		verifyOutcomes.WithLabelValues(result.Outcome.String()).Inc()
		verifyDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}
	return result, err
}

func (s *Service) verify(ctx context.Context, sessionKey string, liveSample []byte) (Result, error) {
	failures, err := s.sessions.Failures(ctx, sessionKey)
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification session")
	}
	session := Session{Key: sessionKey, Failures: failures, Limit: s.limit}
	if session.State() == SessionExhausted {
		return Result{Outcome: OutcomeExhausted}, nil
	}

	templates, err := s.directory.ListEnrolled(ctx)
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "identity directory unavailable")
	}
	if len(templates) == 0 {
		return Result{Outcome: OutcomeNoEnrolledIdentity}, nil
	}

	vctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	token, err := s.directory.Verify(vctx, liveSample, templates)
	switch {
	case err == nil:
		// Success destroys the session; a stale counter must not bleed
		// into the next interaction.
		if rerr := s.sessions.Reset(ctx, sessionKey); rerr != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "failed to reset verification session", "error", rerr)
		}
		return Result{Outcome: OutcomeVerified, Token: token}, nil

	case errors.Is(err, sentinel.ErrNoMatch), errors.Is(err, context.DeadlineExceeded):
		return s.recordFailure(ctx, session)

	default:
		return Result{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "identity verification failed")
	}
}

// Reset discards the session, for callers abandoning the interaction.
func (s *Service) Reset(ctx context.Context, sessionKey string) error {
	if err := s.sessions.Reset(ctx, sessionKey); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset verification session")
	}
	return nil
}

func (s *Service) recordFailure(ctx context.Context, session Session) (Result, error) {
	count, err := s.sessions.RecordFailure(ctx, session.Key)
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record verification failure")
	}
	session.Failures = count

	if session.State() == SessionExhausted {
		audit.Log(ctx, s.logger, s.auditPublisher, audit.Event{
			Category:  audit.CategorySecurity,
			Timestamp: requestcontext.Now(ctx),
			Action:    audit.ActionVerificationExhausted,
			Outcome:   OutcomeExhausted.String(),
			RequestID: requestcontext.RequestID(ctx),
		})
		return Result{Outcome: OutcomeExhausted}, nil
	}

	audit.Log(ctx, s.logger, s.auditPublisher, audit.Event{
		Category:  audit.CategorySecurity,
		Timestamp: requestcontext.Now(ctx),
		Action:    audit.ActionVerificationFailed,
		Outcome:   OutcomeFailed.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return Result{Outcome: OutcomeFailed, Remaining: session.Remaining()}, nil
}
