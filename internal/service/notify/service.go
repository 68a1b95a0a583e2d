// Package notify delivers operator notifications over WhatsApp.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
	client "github.com/mamadbah2/dyecalc/pkg/clients/whatsapp"
)

// Notifier describes the outbound operations the scheduler relies on.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
	Broadcast(ctx context.Context, message string) error
}

// WhatsAppNotifier is the production implementation backed by WhatsApp Cloud API.
type WhatsAppNotifier struct {
	client     client.Sender
	recipients []string
	logger     *zap.Logger
}

// NewWhatsAppNotifier wires a notifier. recipients is a comma separated list of phone numbers.
func NewWhatsAppNotifier(c client.Sender, recipients string, logger *zap.Logger) *WhatsAppNotifier {
	n := &WhatsAppNotifier{client: c, recipients: splitRecipients(recipients), logger: logger}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	return n
}

// SendOutbound pushes a single text message.
func (n *WhatsAppNotifier) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	id, err := n.client.SendText(ctxWithTimeout, req)
	if err != nil {
		return fmt.Errorf("notify %s: %w", req.To, err)
	}
	n.logger.Debug("whatsapp message accepted", zap.String("to", req.To), zap.String("message_id", id))
	return nil
}

// Broadcast sends message to every configured recipient and joins the failures.
// A rejected access token stops the run since no later send can succeed.
func (n *WhatsAppNotifier) Broadcast(ctx context.Context, message string) error {
	if len(n.recipients) == 0 {
		return errors.New("no notification recipients configured")
	}

	var errs []error
	for i, to := range n.recipients {
		if err := n.SendOutbound(ctx, models.OutboundMessageRequest{To: to, Message: message}); err != nil {
			errs = append(errs, err)
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.Unauthorized() {
				n.logger.Error("whatsapp access token rejected, skipping remaining recipients",
					zap.Int("code", apiErr.Code), zap.Int("skipped", len(n.recipients)-i-1))
				break
			}
			n.logger.Error("failed to deliver notification", zap.String("to", to), zap.Error(err))
			continue
		}
		n.logger.Info("notification delivered", zap.String("to", to))
	}
	return errors.Join(errs...)
}

func splitRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
