package forwarder

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/wagate/internal/transport"
	"github.com/dmitrymomot/wagate/pkg/logger"
	"github.com/dmitrymomot/wagate/pkg/webhook"
)

// Payload is the JSON body posted for every inbound message.
type Payload struct {
	SessionID string `json:"sessionId"`
	From      string `json:"from"`
	To        string `json:"to"`
	Body      string `json:"body"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ID        string `json:"id"`
}

// NewPayload builds the webhook body for msg received by sessionID.
func NewPayload(sessionID string, msg transport.InboundMessage) Payload {
	p := Payload{
		SessionID: sessionID,
		From:      msg.From,
		To:        msg.To,
		Body:      msg.Body,
		Type:      msg.Type,
		ID:        msg.ID,
	}
	if !msg.Timestamp.IsZero() {
		p.Timestamp = msg.Timestamp.Unix()
	}
	return p
}

// Forwarder posts inbound messages to the configured webhook, at most once each.
type Forwarder struct {
	cfg     Config
	sender  *webhook.Sender
	breaker *webhook.CircuitBreaker
	log     *slog.Logger
	wg      sync.WaitGroup
}

// Option configures a Forwarder.
type Option func(*Forwarder)

func WithLogger(l *slog.Logger) Option {
	return func(f *Forwarder) {
		if l != nil {
			f.log = l
		}
	}
}

// WithSender replaces the default webhook sender.
func WithSender(s *webhook.Sender) Option {
	return func(f *Forwarder) {
		if s != nil {
			f.sender = s
		}
	}
}

func New(cfg Config, opts ...Option) *Forwarder {
	f := &Forwarder{
		cfg: cfg,
		log: logger.Noop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.sender == nil {
		f.sender = webhook.NewSender()
	}
	if cfg.BreakerFailures > 0 {
		f.breaker = webhook.NewCircuitBreaker(cfg.BreakerFailures, 1, cfg.BreakerCooldown)
	}
	f.log = f.log.With(logger.Component("forwarder"))
	return f
}

// Forward delivers msg in the background and returns immediately.
// Delivery errors are logged and never reach the caller.
func (f *Forwarder) Forward(sessionID string, msg transport.InboundMessage) {
	if !f.cfg.Enabled() {
		return
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		if err := f.Deliver(context.Background(), sessionID, msg); err != nil {
			attrs := []any{logger.SessionID(sessionID), logger.MessageID(msg.ID), logger.Error(err)}
			if errors.Is(err, webhook.ErrCircuitOpen) {
				f.log.Warn("webhook delivery skipped", attrs...)
				return
			}
			f.log.Error("webhook delivery failed", attrs...)
		}
	}()
}

// Deliver posts msg synchronously. A disabled forwarder returns nil.
func (f *Forwarder) Deliver(ctx context.Context, sessionID string, msg transport.InboundMessage) error {
	if !f.cfg.Enabled() {
		return nil
	}

	opts := []webhook.SendOption{
		webhook.WithTimeout(f.cfg.Timeout),
		webhook.WithHeader(f.cfg.AuthHeader, f.cfg.AuthToken),
		webhook.WithOnDelivery(func(res webhook.DeliveryResult) {
			f.log.Debug("webhook delivered",
				logger.SessionID(sessionID),
				logger.MessageID(msg.ID),
				logger.Duration(res.Duration),
				slog.Int("status_code", res.StatusCode),
				slog.Bool("success", res.Success),
			)
		}),
	}
	if f.cfg.SigningSecret != "" {
		opts = append(opts, webhook.WithSignature(f.cfg.SigningSecret))
	}
	if f.breaker != nil {
		opts = append(opts, webhook.WithCircuitBreaker(f.breaker))
	}

	return f.sender.Send(ctx, f.cfg.TargetURL, NewPayload(sessionID, msg), opts...)
}

// Wait blocks until background deliveries started by Forward finish.
func (f *Forwarder) Wait() {
	f.wg.Wait()
}
