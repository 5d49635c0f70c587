package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"diyivi/internal/platform/middleware"
	"diyivi/internal/reply"
	"diyivi/internal/signature/models"
	"diyivi/internal/transport/http/shared"
	respond "diyivi/internal/transport/http/shared/json"
	"diyivi/internal/yivi"
	dErrors "diyivi/pkg/domain-errors"
)

// Service defines the signature operations the transport layer needs.
type Service interface {
	Create(ctx context.Context, message string, groupKeys []string) (*models.CreateResult, error)
	Describe(ctx context.Context, id string) (*models.ResponderView, error)
	SubmitSignature(ctx context.Context, id, proof string) (*yivi.SignedMessage, error)
	Get(ctx context.Context, id, secret string) (*models.InitiatorView, error)
	Cancel(ctx context.Context, id, secret string) error
}

// Handler exposes signature sessions over HTTP.
type Handler struct {
	logger    *slog.Logger
	signature Service
}

// New creates a new signature Handler.
func New(signature Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, signature: signature}
}

// Register registers the signature routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/signatures/", h.handleCreate)
	r.Get("/signatures/{id}/", h.handleDescribe)
	r.Post("/signatures/{id}/respond/", h.handleRespond)
	r.Get("/signatures/{id}/result/", h.handleResult)
	r.Post("/signatures/{id}/cancel/", h.handleCancel)
}

type createRequest struct {
	Message string   `json:"message"`
	Groups  []string `json:"groups"`
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
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.signature.Create(ctx, req.Message, req.Groups)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create signature request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "signature request created",
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
	Message    string           `json:"message"`
	Attributes []yivi.Attribute `json:"attributes"`
	RequestJWT string           `json:"request_jwt"`
}

func (h *Handler) handleDescribe(w http.ResponseWriter, r *http.Request) {
	view, err := h.signature.Describe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, describeResponse{
		Status:     string(view.Status),
		Message:    view.Message,
		Attributes: view.Attributes,
		RequestJWT: view.RequestJWT,
	})
}

type respondRequest struct {
	SignatureResult string `json:"signature_result"`
}

type respondResponse struct {
	Signature *yivi.SignedMessage `json:"signature"`
}

func (h *Handler) handleRespond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.SignatureResult == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "signature_result is required"))
		return
	}

	signature, err := h.signature.SubmitSignature(ctx, chi.URLParam(r, "id"), req.SignatureResult)
	if err != nil {
		h.logger.WarnContext(ctx, "signature submission failed",
			"request_id", middleware.GetRequestID(ctx),
			"session_id", chi.URLParam(r, "id"),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, respondResponse{Signature: signature})
}

type displayLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type resultResponse struct {
	Status          string                                   `json:"status"`
	ExpiresAt       time.Time                                `json:"expires_at"`
	Message         string                                   `json:"message"`
	Signature       *yivi.SignedMessage                      `json:"signature,omitempty"`
	DisclosedValues map[yivi.Attribute]yivi.TranslatedString `json:"disclosed_values,omitempty"`
	Display         []displayLine                            `json:"display,omitempty"`
}

func (h *Handler) handleResult(w http.ResponseWriter, r *http.Request) {
	view, err := h.signature.Get(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("secret"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, resultResponse{
		Status:          string(view.Status),
		ExpiresAt:       view.ExpiresAt,
		Message:         view.Message,
		Signature:       view.Signature,
		DisclosedValues: view.DisclosedValues,
		Display:         displayLines(view.DisclosedValues, r.URL.Query().Get("lang")),
	})
}

// displayLines renders the signer's disclosed identity as labelled lines in
// the requested language.
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
	if err := h.signature.Cancel(r.Context(), chi.URLParam(r, "id"), req.Secret); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
