package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"diyivi/internal/exchange/models"
	"diyivi/internal/platform/middleware"
	"diyivi/internal/reply"
	"diyivi/internal/transport/http/shared"
	respond "diyivi/internal/transport/http/shared/json"
	"diyivi/internal/yivi"
	dErrors "diyivi/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the exchange operations the transport layer needs.
type Service interface {
	Create(ctx context.Context, groupKeys []string) (*models.CreateResult, error)
	Describe(ctx context.Context, id string) (*models.ResponderView, error)
	SubmitDisclosure(ctx context.Context, id, proof string) (map[yivi.Attribute]yivi.TranslatedString, error)
	Get(ctx context.Context, id, secret string) (*models.InitiatorView, error)
	Cancel(ctx context.Context, id, secret string) error
}

// Handler exposes exchange sessions over HTTP. The session id travels in the
// path; it is never inferred from any other context.
type Handler struct {
	logger   *slog.Logger
	exchange Service
}

// New creates a new exchange Handler.
func New(exchange Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, exchange: exchange}
}

// Register registers the exchange routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/exchanges/", h.handleCreate)
	r.Get("/exchanges/{id}/", h.handleDescribe)
	r.Post("/exchanges/{id}/respond/", h.handleRespond)
	r.Get("/exchanges/{id}/result/", h.handleResult)
	r.Post("/exchanges/{id}/cancel/", h.handleCancel)
}

type createRequest struct {
	Groups []string `json:"groups"`
}

type createResponse struct {
	ID         string    `json:"id"`
	Secret     string    `json:"initiator_secret"`
	ExpiresAt  time.Time `json:"expires_at"`
	RequestJWT string    `json:"request_jwt"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode create exchange request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.exchange.Create(ctx, req.Groups)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create exchange",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "exchange created",
		"request_id", middleware.GetRequestID(ctx),
		"session_id", result.ID,
		"device", middleware.GetDeviceFingerprint(ctx),
	)

	respond.WriteJSON(w, http.StatusCreated, createResponse{
		ID:         result.ID,
		Secret:     result.Secret,
		ExpiresAt:  result.ExpiresAt,
		RequestJWT: result.RequestJWT,
	})
}

type describeResponse struct {
	Status     string           `json:"status"`
	Attributes []yivi.Attribute `json:"attributes"`
	RequestJWT string           `json:"request_jwt"`
}

func (h *Handler) handleDescribe(w http.ResponseWriter, r *http.Request) {
	view, err := h.exchange.Describe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, describeResponse{
		Status:     string(view.Status),
		Attributes: view.Attributes,
		RequestJWT: view.RequestJWT,
	})
}

type respondRequest struct {
	DisclosureResult string `json:"disclosure_result"`
}

type respondResponse struct {
	DisclosedValues map[yivi.Attribute]yivi.TranslatedString `json:"disclosed_values"`
}

func (h *Handler) handleRespond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.DisclosureResult == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "disclosure_result is required"))
		return
	}

	values, err := h.exchange.SubmitDisclosure(ctx, chi.URLParam(r, "id"), req.DisclosureResult)
	if err != nil {
		h.logger.WarnContext(ctx, "disclosure submission failed",
			"request_id", middleware.GetRequestID(ctx),
			"session_id", chi.URLParam(r, "id"),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, respondResponse{DisclosedValues: values})
}

type displayLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type resultResponse struct {
	Status          string                                   `json:"status"`
	ExpiresAt       time.Time                                `json:"expires_at"`
	DisclosedValues map[yivi.Attribute]yivi.TranslatedString `json:"disclosed_values,omitempty"`
	Display         []displayLine                            `json:"display,omitempty"`
}

func (h *Handler) handleResult(w http.ResponseWriter, r *http.Request) {
	view, err := h.exchange.Get(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("secret"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, resultResponse{
		Status:          string(view.Status),
		ExpiresAt:       view.ExpiresAt,
		DisclosedValues: view.DisclosedValues,
		Display:         displayLines(view.DisclosedValues, r.URL.Query().Get("lang")),
	})
}

// displayLines renders the disclosed values as labelled lines in the requested
// language. Grouped attributes such as address render as one joint line.
func displayLines(disclosed map[yivi.Attribute]yivi.TranslatedString, lang string) []displayLine {
	if len(disclosed) == 0 {
		return nil
	}
	if lang == "" {
		lang = "nl"
	}
	lines := reply.Assemble(reply.Localize(disclosed, lang), reply.DefaultRules())
	out := make([]displayLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, displayLine{Label: line.Label, Value: line.Value})
	}
	return out
}

type cancelRequest struct {
	Secret string `json:"initiator_secret"`
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.exchange.Cancel(r.Context(), chi.URLParam(r, "id"), req.Secret); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
