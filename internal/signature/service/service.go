package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"diyivi/internal/catalog"
	"diyivi/internal/platform/tracer"
	"diyivi/internal/session"
	"diyivi/internal/signature/metrics"
	"diyivi/internal/signature/models"
	"diyivi/internal/signature/store"
	"diyivi/internal/verifier"
	"diyivi/internal/yivi"
	dErrors "diyivi/pkg/domain-errors"
	"diyivi/pkg/secrets"
)

const (
	defaultSessionTTL = 15 * time.Minute
	maxMessageLength  = 4096
)

// Service drives the signature session lifecycle. It mirrors the exchange
// service, with a message supplied at creation and a signature artifact,
// bound to exactly that message, returned on resolution.
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
		tracer:   tracer.New("diyivi/signature"),
		ttl:      defaultSessionTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create opens a signature session for the given message, conditioned on
// disclosure of the named attribute groups.
func (s *Service) Create(ctx context.Context, message string, groupKeys []string) (*models.CreateResult, error) {
	if message == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "message to sign must not be empty")
	}
	if len(message) > maxMessageLength {
		return nil, dErrors.New(dErrors.CodeBadRequest, "message to sign is too long")
	}

	// Signature sessions may require no attribute disclosure at all; groups
	// only constrain who can produce the signature.
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
		Message:             message,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not persist signature session")
	}

	requestJWT, err := s.signer.SignSignatureRequest(message, condiscon)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementSessionsCreated()
	}
	s.logger.InfoContext(ctx, "signature session created",
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

// Describe returns the signer view of a live session.
func (s *Service) Describe(ctx context.Context, id string) (*models.ResponderView, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.EnsureActive(s.now()); err != nil {
		return nil, err
	}
	requestJWT, err := s.signer.SignSignatureRequest(sess.Message, sess.Request)
	if err != nil {
		return nil, err
	}
	return &models.ResponderView{
		Status:     sess.Status,
		Message:    sess.Message,
		Attributes: sess.Attributes,
		RequestJWT: requestJWT,
	}, nil
}

// SubmitSignature validates the signer's proof, checks that the signed
// payload binds to the session's message, and resolves the session exactly
// once.
func (s *Service) SubmitSignature(ctx context.Context, id, proof string) (*yivi.SignedMessage, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveSubmitLatency(time.Since(start).Seconds())
		}
	}()

	signature, err := s.submitSignature(ctx, id, proof)
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
		s.metrics.IncrementSessionsSigned()
	}
	return signature, nil
}

func (s *Service) submitSignature(ctx context.Context, id, proof string) (*yivi.SignedMessage, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.EnsureActive(s.now()); err != nil {
		return nil, err
	}

	ctx, end := s.tracer.Start(ctx, "signature.verify_signature",
		attribute.String("session.id", id))
	signature, disclosed, err := s.verifier.VerifySignature(ctx, sess.Message, sess.Request, proof)
	end(err)
	if err != nil {
		s.logger.WarnContext(ctx, "signature rejected",
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
		current.Signature = signature
		current.DisclosedValues = values
		current.ResolvedAt = &at
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "signature session resolved", "session_id", id)
	return resolved.Signature, nil
}

// Get returns the initiator polling view. The initiator secret authorizes
// access.
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
		Message:         sess.Message,
		Signature:       sess.Signature,
		DisclosedValues: sess.DisclosedValues,
	}, nil
}

// Cancel ends a session before resolution.
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
	s.logger.InfoContext(ctx, "signature session cancelled", "session_id", id)
	return nil
}

// Sweep reclaims expired sessions and reports how many were removed.
func (s *Service) Sweep(ctx context.Context) int {
	removed := s.store.SweepExpired(ctx, s.now())
	if removed > 0 {
		if s.metrics != nil {
			s.metrics.AddSessionsSwept(removed)
		}
		s.logger.InfoContext(ctx, "swept expired signature sessions", "count", removed)
	}
	return removed
}

func flatten(disclosed [][]yivi.DisclosedAttribute) map[yivi.Attribute]yivi.TranslatedString {
	values := make(map[yivi.Attribute]yivi.TranslatedString)
	for _, set := range disclosed {
		for _, attr := range set {
			values[attr.ID] = attr.Value
		}
	}
	return values
}
