package handlers

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/omkarinteriors/contact-api/internal/models"
	"github.com/omkarinteriors/contact-api/internal/services"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Notifier delivers a submission to the site owner
type Notifier interface {
	Notify(ctx context.Context, sub *models.EnrichedSubmission) error
}

// Ledger records a submission. Its error is logged, never returned to clients.
type Ledger interface {
	Append(ctx context.Context, sub *models.EnrichedSubmission) error
}

// ContactHandler handles contact form submissions
type ContactHandler struct {
	notifier  Notifier
	ledger    Ledger
	timestamp func() string
	logger    *zap.SugaredLogger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(notifier Notifier, ledger Ledger, logger *zap.SugaredLogger) *ContactHandler {
	return &ContactHandler{
		notifier:  notifier,
		ledger:    ledger,
		timestamp: services.NowIST,
		logger:    logger,
	}
}

// Submit handles POST /api/contact
// The email is sent first; the ledger is only written once it succeeded.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	sub, err := services.ParseSubmission(body)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			respondJSON(w, http.StatusUnprocessableEntity, models.ValidationErrorResponse{OK: false, Errors: verr.Fields})
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	enriched := &models.EnrichedSubmission{
		Submission: *sub,
		ID:         uuid.New(),
		IP:         clientIP(r),
		UserAgent:  userAgent(r),
		Timestamp:  h.timestamp(),
	}

	// Side effects must not be cut short by a client that hangs up
	ctx := context.WithoutCancel(r.Context())

	if err := h.notifier.Notify(ctx, enriched); err != nil {
		h.logger.Errorw("Failed to send notification",
			"submission_id", enriched.ID,
			"error", err,
		)
		respondError(w, http.StatusInternalServerError, "Failed to send message.")
		return
	}

	h.record(ctx, enriched)

	h.logger.Infow("Contact submission handled",
		"submission_id", enriched.ID,
		"has_phone", enriched.Phone != nil,
	)

	respondJSON(w, http.StatusOK, models.SuccessResponse{OK: true, Message: "Message sent successfully!"})
}

// record appends to the ledger and discards the outcome after logging it
func (h *ContactHandler) record(ctx context.Context, sub *models.EnrichedSubmission) {
	err := h.ledger.Append(ctx, sub)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrLedgerNotConfigured):
		h.logger.Warnw("Ledger not configured, submission not recorded", "submission_id", sub.ID)
	default:
		h.logger.Errorw("Failed to record submission", "submission_id", sub.ID, "error", err)
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get("User-Agent"); ua != "" {
		return ua
	}
	return "Unknown"
}
