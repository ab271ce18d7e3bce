package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

// natsConn is the part of *nats.Conn the publisher uses.
type natsConn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes BuildCompleted messages as JSON on a core NATS
// subject.
type NATSPublisher struct {
	conn    natsConn
	subject string
}

// NewNATSPublisher connects to the configured server. The connection
// reconnects on its own; a publish while disconnected is buffered by the
// client library.
func NewNATSPublisher(cfg *config.NotifyConfig) (*NATSPublisher, error) {
	if cfg == nil {
		return nil, errors.ConfigError("notify configuration is required").Build()
	}
	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("sitegraph"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", logfields.Error(err))
			}
		}),
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotify, "failed to connect to NATS").
			Warning().
			Retryable().
			WithContext("url", cfg.NATSURL).
			Build()
	}

	slog.Info("NATS publisher initialized", slog.String("url", cfg.NATSURL), slog.String("subject", cfg.Subject))
	return &NATSPublisher{conn: conn, subject: cfg.Subject}, nil
}

// Publish sends msg and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, msg BuildCompleted) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal build notification").Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.WrapError(err, errors.CategoryNotify, "failed to publish build notification").
			Warning().
			WithContext("subject", p.subject).
			Build()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryNotify, "failed to flush build notification").
			Warning().
			Retryable().
			WithContext("subject", p.subject).
			Build()
	}

	slog.Debug("Published build notification",
		logfields.BuildID(msg.BuildID),
		logfields.Outcome(msg.Outcome),
		slog.String("subject", p.subject))
	return nil
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

// New returns a NATS publisher when cfg is set and a NoopPublisher otherwise.
func New(cfg *config.NotifyConfig) (Publisher, error) {
	if cfg == nil || cfg.NATSURL == "" {
		return NoopPublisher{}, nil
	}
	return NewNATSPublisher(cfg)
}
