package service

// Unit tests for the exchange service: lifecycle invariants, error
// propagation across the store and verifier boundaries, and expiry edges.
// The real in-memory store is used so transition semantics are exercised end
// to end; only the verifier is mocked.

//go:generate mockgen -source=../../verifier/verifier.go -destination=../../verifier/mocks/mocks.go -package=mocks Verifier

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"diyivi/internal/catalog"
	"diyivi/internal/exchange/store"
	"diyivi/internal/session"
	"diyivi/internal/verifier"
	"diyivi/internal/verifier/mocks"
	"diyivi/internal/yivi"
	dErrors "diyivi/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockVerifier *mocks.MockVerifier
	service      *Service
	now          time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockVerifier = mocks.NewMockVerifier(s.ctrl)
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	clock := func() time.Time { return s.now }
	s.service = NewService(
		store.New(store.WithClock(clock)),
		catalog.New(catalog.Default()),
		s.mockVerifier,
		verifier.NewRequestSigner("test_secret_key", "diyivi", time.Minute),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithSessionTTL(15*time.Minute),
		WithClock(clock),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) create(groups ...string) (string, string) {
	result, err := s.service.Create(context.Background(), groups)
	s.Require().NoError(err)
	return result.ID, result.Secret
}

func disclosedResult(ids ...yivi.Attribute) [][]yivi.DisclosedAttribute {
	set := make([]yivi.DisclosedAttribute, len(ids))
	for i, id := range ids {
		set[i] = yivi.DisclosedAttribute{
			ID:       id,
			Status:   "PRESENT",
			RawValue: "value",
			Value:    yivi.TranslatedString{"en": "value"},
		}
	}
	return [][]yivi.DisclosedAttribute{set}
}

func (s *ServiceSuite) TestCreate() {
	s.Run("returns token shapes and request JWT", func() {
		result, err := s.service.Create(context.Background(), []string{"name", "email"})
		s.Require().NoError(err)
		s.Regexp("^[0-9a-f]{16}$", result.ID)
		s.Regexp("^[0-9a-f]{32}$", result.Secret)
		s.NotEmpty(result.RequestJWT)
		s.Equal(s.now.Add(15*time.Minute), result.ExpiresAt)
	})

	s.Run("unknown group fails without creating a session", func() {
		_, err := s.service.Create(context.Background(), []string{"name", "shoe-size"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnknownGroup))
	})

	s.Run("empty group list is rejected", func() {
		_, err := s.service.Create(context.Background(), nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestDescribeGroupsRequestByCredential() {
	id, _ := s.create("name", "birthdate", "email")

	view, err := s.service.Describe(context.Background(), id)
	s.Require().NoError(err)
	s.Equal(session.StatusCreated, view.Status)
	s.Len(view.Attributes, 3)
	s.NotEmpty(view.RequestJWT)
}

func (s *ServiceSuite) TestSubmitDisclosureResolves() {
	id, secret := s.create("name")

	s.mockVerifier.EXPECT().
		VerifyDisclosure(gomock.Any(), gomock.Any(), "proof-jwt").
		Return(disclosedResult("irma-demo.gemeente.personalData.fullname"), nil)

	values, err := s.service.SubmitDisclosure(context.Background(), id, "proof-jwt")
	s.Require().NoError(err)
	s.Equal("value", values["irma-demo.gemeente.personalData.fullname"]["en"])

	view, err := s.service.Get(context.Background(), id, secret)
	s.Require().NoError(err)
	s.Equal(session.StatusResolved, view.Status)
	s.Len(view.DisclosedValues, 1)
}

func (s *ServiceSuite) TestSubmitDisclosureExactlyOnce() {
	id, secret := s.create("name")

	s.mockVerifier.EXPECT().
		VerifyDisclosure(gomock.Any(), gomock.Any(), "first-proof").
		Return(disclosedResult("irma-demo.gemeente.personalData.fullname"), nil)

	first, err := s.service.SubmitDisclosure(context.Background(), id, "first-proof")
	s.Require().NoError(err)

	// The second attempt is rejected before the verifier is consulted.
	_, err = s.service.SubmitDisclosure(context.Background(), id, "second-proof")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAlreadyResolved))

	view, err := s.service.Get(context.Background(), id, secret)
	s.Require().NoError(err)
	s.Equal(first, view.DisclosedValues, "first disclosure must remain unchanged")
}

func (s *ServiceSuite) TestSubmitDisclosureProofRejected() {
	id, _ := s.create("name")

	s.mockVerifier.EXPECT().
		VerifyDisclosure(gomock.Any(), gomock.Any(), "bad-proof").
		Return(nil, dErrors.New(dErrors.CodeProofInvalid, "proof rejected"))

	_, err := s.service.SubmitDisclosure(context.Background(), id, "bad-proof")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeProofInvalid))

	view, err := s.service.Describe(context.Background(), id)
	s.Require().NoError(err)
	s.Equal(session.StatusCreated, view.Status, "rejected proof must leave the session open")
}

func (s *ServiceSuite) TestSubmitAfterExpiry() {
	id, secret := s.create("name")

	s.now = s.now.Add(16 * time.Minute)

	_, err := s.service.SubmitDisclosure(context.Background(), id, "late-proof")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSessionExpired))

	view, err := s.service.Get(context.Background(), id, secret)
	s.Require().NoError(err)
	s.Equal(session.StatusExpired, view.Status)
}

func (s *ServiceSuite) TestSubmitUnknownSession() {
	_, err := s.service.SubmitDisclosure(context.Background(), "ffffffffffffffff", "proof")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSessionNotFound))
}

func (s *ServiceSuite) TestGetRequiresInitiatorSecret() {
	id, _ := s.create("name")

	_, err := s.service.Get(context.Background(), id, "00000000000000000000000000000000")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSessionNotFound), "wrong secret must not reveal the session")
}

func (s *ServiceSuite) TestCancel() {
	s.Run("initiator cancels a live session", func() {
		id, secret := s.create("name")
		s.Require().NoError(s.service.Cancel(context.Background(), id, secret))

		view, err := s.service.Get(context.Background(), id, secret)
		s.Require().NoError(err)
		s.Equal(session.StatusCancelled, view.Status)

		_, err = s.service.SubmitDisclosure(context.Background(), id, "proof")
		s.True(dErrors.HasCode(err, dErrors.CodeCancelled))
	})

	s.Run("cancel after resolution fails", func() {
		id, secret := s.create("name")
		s.mockVerifier.EXPECT().
			VerifyDisclosure(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(disclosedResult("irma-demo.gemeente.personalData.fullname"), nil)
		_, err := s.service.SubmitDisclosure(context.Background(), id, "proof")
		s.Require().NoError(err)

		err = s.service.Cancel(context.Background(), id, secret)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyResolved))
	})

	s.Run("wrong secret cannot cancel", func() {
		id, _ := s.create("name")
		err := s.service.Cancel(context.Background(), id, "00000000000000000000000000000000")
		s.True(dErrors.HasCode(err, dErrors.CodeSessionNotFound))
	})
}

func (s *ServiceSuite) TestSweep() {
	id, _ := s.create("name")
	s.create("email")

	s.now = s.now.Add(time.Hour)
	s.Equal(2, s.service.Sweep(context.Background()))

	_, err := s.service.Describe(context.Background(), id)
	s.True(dErrors.HasCode(err, dErrors.CodeSessionNotFound))
}
