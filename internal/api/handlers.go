package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/wagate/internal/gateway"
	"github.com/dmitrymomot/wagate/internal/store"
	"github.com/dmitrymomot/wagate/internal/transport"
	"github.com/dmitrymomot/wagate/pkg/logger"
	"github.com/dmitrymomot/wagate/pkg/validator"
	"github.com/dmitrymomot/wagate/pkg/webhook"
)

// SessionManager is the part of gateway.Manager used by the handlers.
type SessionManager interface {
	InitSession(ctx context.Context, id string) (*gateway.Handle, error)
	Client(id string) *gateway.Handle
	Sessions() []string
	Logout(ctx context.Context, id string) error
	SendMessage(ctx context.Context, id, to string, p gateway.Payload) (string, error)
}

const (
	maxRecipientLen = 128
	maxButtons      = 3
)

// A bare phone number with optional leading plus, or a full JID.
var recipientPattern = regexp.MustCompile(`^\+?[0-9]{5,20}$|^[0-9A-Za-z._:-]+@[0-9A-Za-z.-]+$`)

type handlers struct {
	sessions SessionManager
	store    store.Store
	log      *slog.Logger

	signingSecret string
	signatureAge  time.Duration
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// wrap renders errors returned by fn.
func (h *handlers) wrap(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			renderError(h.log, w, r, err)
		}
	}
}

type createSessionResponse struct {
	SessionID string  `json:"sessionId"`
	Status    string  `json:"status"`
	QR        *string `json:"qr"`
}

func (h *handlers) createSession(w http.ResponseWriter, r *http.Request) error {
	id, err := gateway.ResolveSessionID(r.URL.Query().Get("sessionId"))
	if err != nil {
		return err
	}
	if _, err := h.sessions.InitSession(r.Context(), id); err != nil {
		return err
	}

	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		return err
	}
	resp := createSessionResponse{SessionID: rec.ID, Status: rec.Status.String()}
	if rec.LastQRCode != "" {
		resp.QR = &rec.LastQRCode
	}
	return writeJSON(w, http.StatusOK, resp)
}

type sessionStatusResponse struct {
	SessionID       string     `json:"sessionId"`
	Status          string     `json:"status"`
	Ready           bool       `json:"ready"`
	LastConnectedAt *time.Time `json:"lastConnectedAt"`
}

func (h *handlers) sessionStatus(w http.ResponseWriter, r *http.Request) error {
	id, err := gateway.ResolveSessionID(r.URL.Query().Get("sessionId"))
	if err != nil {
		return err
	}
	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		return err
	}

	handle := h.sessions.Client(id)
	return writeJSON(w, http.StatusOK, sessionStatusResponse{
		SessionID:       rec.ID,
		Status:          rec.Status.String(),
		Ready:           handle != nil && handle.Ready(),
		LastConnectedAt: rec.LastConnectedAt,
	})
}

type sessionView struct {
	store.Session
	Live  bool `json:"live"`
	Ready bool `json:"ready"`
}

func (h *handlers) listSessions(w http.ResponseWriter, r *http.Request) error {
	records, err := h.store.List(r.Context())
	if err != nil {
		return err
	}

	out := make([]sessionView, 0, len(records))
	for _, rec := range records {
		v := sessionView{Session: rec}
		if handle := h.sessions.Client(rec.ID); handle != nil {
			v.Live = true
			v.Ready = handle.Ready()
		}
		// The QR payload is large; fetch it through /create-session.
		v.LastQRCode = ""
		out = append(out, v)
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"sessions": out,
		"live":     len(h.sessions.Sessions()),
	})
}

type logoutRequest struct {
	SessionID string `json:"sessionId"`
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) error {
	var req logoutRequest
	if err := bindJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		return err
	}
	id, err := gateway.ResolveSessionID(req.SessionID)
	if err != nil {
		return err
	}
	if err := h.sessions.Logout(r.Context(), id); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{
		"sessionId": id,
		"status":    store.StatusDisconnected.String(),
	})
}

type sendRequest struct {
	SessionID string             `json:"sessionId"`
	To        string             `json:"to"`
	Type      string             `json:"type"`
	Message   string             `json:"message"`
	URL       string             `json:"url"`
	Caption   string             `json:"caption"`
	Title     string             `json:"title"`
	Footer    string             `json:"footer"`
	Buttons   []transport.Button `json:"buttons"`
}

// validate checks the fields every send needs plus the ones the chosen type
// reads. Unknown types pass through and are rejected by the manager.
func (req sendRequest) validate() error {
	rules := []validator.Rule{
		validator.Required("to", req.To),
		validator.Required("type", req.Type),
	}
	if strings.TrimSpace(req.To) != "" {
		rules = append(rules,
			validator.MaxLen("to", req.To, maxRecipientLen),
			validator.Matches("to", strings.TrimSpace(req.To), recipientPattern, "a phone number or a WhatsApp address"),
		)
	}

	switch gateway.MessageType(req.Type) {
	case gateway.TypeText:
		rules = append(rules, validator.Required("message", req.Message))
	case gateway.TypeImage, gateway.TypeDocument:
		rules = append(rules, validator.ValidURLWithScheme("url", req.URL, []string{"http", "https"}))
	case gateway.TypeButtons:
		rules = append(rules,
			validator.Required("message", req.Message),
			validator.RequiredSlice("buttons", req.Buttons),
			validator.MaxLenSlice("buttons", req.Buttons, maxButtons),
		)
		for i, b := range req.Buttons {
			field := "buttons[" + strconv.Itoa(i) + "]"
			rules = append(rules,
				validator.Required(field+".id", b.ID),
				validator.Required(field+".text", b.Text),
			)
		}
	}
	return validator.Apply(rules...)
}

type sendResponse struct {
	SessionID string `json:"sessionId"`
	To        string `json:"to"`
	MessageID string `json:"messageId"`
}

func (h *handlers) send(w http.ResponseWriter, r *http.Request) error {
	var req sendRequest
	if err := bindJSON(r, &req); err != nil {
		if errors.Is(err, errEmptyBody) {
			return invalidJSON(err)
		}
		return err
	}
	if err := req.validate(); err != nil {
		return err
	}
	id, err := gateway.ResolveSessionID(req.SessionID)
	if err != nil {
		return err
	}

	msgID, err := h.sessions.SendMessage(r.Context(), id, req.To, gateway.Payload{
		Type:    gateway.MessageType(req.Type),
		Message: req.Message,
		URL:     req.URL,
		Caption: req.Caption,
		Title:   req.Title,
		Footer:  req.Footer,
		Buttons: req.Buttons,
	})
	if err != nil {
		return err
	}

	h.log.InfoContext(r.Context(), "message accepted",
		logger.SessionID(id),
		logger.MessageID(msgID),
		slog.String("type", req.Type),
	)
	return writeJSON(w, http.StatusOK, sendResponse{
		SessionID: id,
		To:        gateway.NormalizeRecipient(req.To),
		MessageID: msgID,
	})
}

type webhookEchoResponse struct {
	Received bool            `json:"received"`
	Body     json.RawMessage `json:"body"`
}

// webhookEcho lets external callers verify connectivity and the shared secret.
// With a signing secret configured the raw body must carry a valid signature.
func (h *handlers) webhookEcho(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return err
	}

	if h.signingSecret != "" {
		sig := webhook.SignatureFromHeader(r.Header)
		if err := webhook.VerifySignature(h.signingSecret, body, sig, h.signatureAge); err != nil {
			return errors.Join(ErrInvalidSignature, err)
		}
	}

	resp := webhookEchoResponse{Received: true, Body: json.RawMessage("null")}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		if !json.Valid([]byte(trimmed)) {
			return ErrInvalidJSON
		}
		resp.Body = json.RawMessage(trimmed)
	}

	h.log.InfoContext(r.Context(), "webhook received", slog.Int("bytes", len(body)))
	return writeJSON(w, http.StatusOK, resp)
}
