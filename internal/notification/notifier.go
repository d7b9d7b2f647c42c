// Package notification reacts to domain events with outbound email. It has
// no HTTP surface of its own.
package notification

import (
	"context"

	"crm_backend/internal/email"
	"crm_backend/internal/events"
	"crm_backend/platform/logger"
)

// Notifier emails the operations inbox when a lead converts. A delivery
// failure is logged and swallowed; notification is best effort and never
// fails the conversion that triggered it.
type Notifier struct {
	sender   email.Sender
	notifyTo string
	log      *logger.Logger
}

func NewNotifier(sender email.Sender, notifyTo string, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, notifyTo: notifyTo, log: log}
}

// Register subscribes the notifier to the events it reacts to.
func (n *Notifier) Register(bus events.Bus) {
	bus.Subscribe(events.LeadConverted{}.EventName(), events.HandlerFunc(n.onLeadConverted))
}

func (n *Notifier) onLeadConverted(ctx context.Context, event events.Event) error {
	converted, ok := event.(events.LeadConverted)
	if !ok {
		return nil
	}
	if n.notifyTo == "" {
		return nil
	}

	err := n.sender.SendLeadConvertedEmail(ctx, n.notifyTo, converted.Company, converted.LeadID, converted.PostSaleID)
	if err != nil {
		n.log.Error("lead converted email failed", "leadId", converted.LeadID, "error", err)
	}
	return nil
}
