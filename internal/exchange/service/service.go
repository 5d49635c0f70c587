package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"diyivi/internal/catalog"
	"diyivi/internal/exchange/metrics"
	"diyivi/internal/exchange/models"
	"diyivi/internal/exchange/store"
	"diyivi/internal/platform/tracer"
	"diyivi/internal/session"
	"diyivi/internal/verifier"
	"diyivi/internal/yivi"
	dErrors "diyivi/pkg/domain-errors"
	"diyivi/pkg/secrets"
)

const defaultSessionTTL = 15 * time.Minute

// Service drives the exchange session lifecycle: creation from attribute
// group keys, exactly-once resolution through the verifier, polling, and
// initiator cancellation.
type Service struct {
	store    store.Store
	catalog  *catalog.Catalog
	verifier verifier.Verifier
	signer   *verifier.RequestSigner
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   *tracer.Tracer
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Service)

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithSessionTTL configures how long a session stays open for a response.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock injects a clock, used by tests to drive expiry.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.now = clock
	}
}

func NewService(st store.Store, cat *catalog.Catalog, vf verifier.Verifier, signer *verifier.RequestSigner, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:    st,
		catalog:  cat,
		verifier: vf,
		signer:   signer,
		logger:   logger,
		tracer:   tracer.New("diyivi/exchange"),
		ttl:      defaultSessionTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create opens a new exchange session for the given attribute group keys and
// returns the session id, the initiator secret, and the signed disclosure
// request for the responder.
func (s *Service) Create(ctx context.Context, groupKeys []string) (*models.CreateResult, error) {
	if len(groupKeys) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least one attribute group is required")
	}

	attributes, err := s.catalog.Expand(groupKeys)
	if err != nil {
		return nil, err
	}
	condiscon, err := yivi.Build(attributes)
	if err != nil {
		return nil, err
	}

	id, err := secrets.Token(8)
	if err != nil {
		return nil, err
	}
	secret, err := secrets.Token(16)
	if err != nil {
		return nil, err
	}
	secretHash, err := secrets.Hash(secret)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &models.Session{
		Session:             session.New(id, now, s.ttl),
		InitiatorSecretHash: secretHash,
		GroupKeys:           append([]string(nil), groupKeys...),
		Attributes:          attributes,
		Request:             condiscon,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not persist exchange session")
	}

	requestJWT, err := s.signer.SignDisclosureRequest(condiscon)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementSessionsCreated()
	}
	s.logger.InfoContext(ctx, "exchange session created",
		"session_id", id,
		"groups", groupKeys,
		"expires_at", sess.ExpiresAt,
	)

	return &models.CreateResult{
		ID:         id,
		Secret:     secret,
		ExpiresAt:  sess.ExpiresAt,
		RequestJWT: requestJWT,
	}, nil
}

// Describe returns the responder view of a live session, including a freshly
// signed disclosure request JWT.
func (s *Service) Describe(ctx context.Context, id string) (*models.ResponderView, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.EnsureActive(s.now()); err != nil {
		return nil, err
	}
	requestJWT, err := s.signer.SignDisclosureRequest(sess.Request)
	if err != nil {
		return nil, err
	}
	return &models.ResponderView{
		Status:     sess.Status,
		Attributes: sess.Attributes,
		RequestJWT: requestJWT,
	}, nil
}

// SubmitDisclosure validates the responder's proof against the session's
// ConDisCon and resolves the session exactly once. Of two concurrent
// submissions exactly one succeeds; the other fails with already_resolved.
func (s *Service) SubmitDisclosure(ctx context.Context, id, proof string) (map[yivi.Attribute]yivi.TranslatedString, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveSubmitLatency(time.Since(start).Seconds())
		}
	}()

	values, err := s.submitDisclosure(ctx, id, proof)
	if err != nil {
		if s.metrics != nil {
			code := string(dErrors.CodeInternal)
			var domainErr *dErrors.Error
			if errors.As(err, &domainErr) {
				code = string(domainErr.Code)
			}
			s.metrics.IncrementSubmitRejected(code)
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementSessionsResolved()
	}
	return values, nil
}

func (s *Service) submitDisclosure(ctx context.Context, id, proof string) (map[yivi.Attribute]yivi.TranslatedString, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Fail fast before invoking the verifier; the transition below re-checks
	// under the store lock.
	if err := sess.EnsureActive(s.now()); err != nil {
		return nil, err
	}

	ctx, end := s.tracer.Start(ctx, "exchange.verify_disclosure",
		attribute.String("session.id", id))
	disclosed, err := s.verifier.VerifyDisclosure(ctx, sess.Request, proof)
	end(err)
	if err != nil {
		s.logger.WarnContext(ctx, "disclosure rejected",
			"session_id", id,
			"error", err,
		)
		return nil, err
	}

	values := flatten(disclosed)

	resolved, err := s.store.Update(ctx, id, func(current *models.Session) error {
		if err := current.Resolve(s.now()); err != nil {
			return err
		}
		at := s.now()
		current.DisclosedValues = values
		current.ResolvedAt = &at
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "exchange session resolved",
		"session_id", id,
		"attributes", len(resolved.DisclosedValues),
	)
	return resolved.DisclosedValues, nil
}

// Get returns the initiator polling view. The initiator secret authorizes
// access; the session id alone does not.
func (s *Service) Get(ctx context.Context, id, secret string) (*models.InitiatorView, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := secrets.Verify(secret, sess.InitiatorSecretHash); err != nil {
		return nil, dErrors.New(dErrors.CodeSessionNotFound, "session not found")
	}
	sess.ExpireIfDue(s.now())
	return &models.InitiatorView{
		Status:          sess.Status,
		ExpiresAt:       sess.ExpiresAt,
		DisclosedValues: sess.DisclosedValues,
	}, nil
}

// Cancel ends a session before resolution. Initiator-only; fails with
// already_resolved once a disclosure has been accepted.
func (s *Service) Cancel(ctx context.Context, id, secret string) error {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := secrets.Verify(secret, sess.InitiatorSecretHash); err != nil {
		return dErrors.New(dErrors.CodeSessionNotFound, "session not found")
	}
	_, err = s.store.Update(ctx, id, func(current *models.Session) error {
		return current.Cancel(s.now())
	})
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncrementSessionsCancelled()
	}
	s.logger.InfoContext(ctx, "exchange session cancelled", "session_id", id)
	return nil
}

// Sweep reclaims expired sessions and reports how many were removed.
func (s *Service) Sweep(ctx context.Context) int {
	removed := s.store.SweepExpired(ctx, s.now())
	if removed > 0 {
		if s.metrics != nil {
			s.metrics.AddSessionsSwept(removed)
		}
		s.logger.InfoContext(ctx, "swept expired exchange sessions", "count", removed)
	}
	return removed
}

// flatten collapses the verifier's per-conjunction result sets into the
// attribute to value mapping stored on the session. Later occurrences of the
// same attribute overwrite earlier ones, matching the verifier's guarantee
// that one attribute is disclosed at most once per session.
func flatten(disclosed [][]yivi.DisclosedAttribute) map[yivi.Attribute]yivi.TranslatedString {
	values := make(map[yivi.Attribute]yivi.TranslatedString)
	for _, set := range disclosed {
		for _, attr := range set {
			values[attr.ID] = attr.Value
		}
	}
	return values
}
