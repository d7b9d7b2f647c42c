// Package email delivers outbound notification mail.
package email

import "context"

// Sender delivers the emails this service produces.
type Sender interface {
	// SendLeadConvertedEmail notifies the operations inbox that a lead was
	// moved into the post-sale pipeline.
	SendLeadConvertedEmail(ctx context.Context, toEmail, company string, leadID, postSaleID int64) error
}

// NoopSender is used when no SMTP server is configured. Sends succeed and go
// nowhere.
type NoopSender struct{}

func (NoopSender) SendLeadConvertedEmail(context.Context, string, string, int64, int64) error {
	return nil
}

var _ Sender = NoopSender{}
