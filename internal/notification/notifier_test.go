package notification

import (
	"context"
	"errors"
	"testing"

	"crm_backend/internal/events"
	platformevents "crm_backend/platform/events"
	"crm_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	to       string
	company  string
	leadID   int64
	postSale int64
	calls    int
	err      error
}

func (s *recordingSender) SendLeadConvertedEmail(_ context.Context, toEmail, company string, leadID, postSaleID int64) error {
	s.calls++
	s.to = toEmail
	s.company = company
	s.leadID = leadID
	s.postSale = postSaleID
	return s.err
}

func TestNotifier_EmailsOnLeadConverted(t *testing.T) {
	sender := &recordingSender{}
	bus := platformevents.NewInMemoryBus(logger.New("development"))
	NewNotifier(sender, "ops@empresa.com.br", logger.New("development")).Register(bus)

	err := bus.PublishSync(context.Background(), events.LeadConverted{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     7,
		PostSaleID: 12,
		Company:    "Acme Ltda",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "ops@empresa.com.br", sender.to)
	assert.Equal(t, "Acme Ltda", sender.company)
	assert.Equal(t, int64(7), sender.leadID)
	assert.Equal(t, int64(12), sender.postSale)
}

func TestNotifier_DeliveryFailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	bus := platformevents.NewInMemoryBus(logger.New("development"))
	NewNotifier(sender, "ops@empresa.com.br", logger.New("development")).Register(bus)

	err := bus.PublishSync(context.Background(), events.LeadConverted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    7,
		Company:   "Acme Ltda",
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, sender.calls)
}

func TestNotifier_NoInboxConfigured(t *testing.T) {
	sender := &recordingSender{}
	bus := platformevents.NewInMemoryBus(logger.New("development"))
	NewNotifier(sender, "", logger.New("development")).Register(bus)

	err := bus.PublishSync(context.Background(), events.LeadConverted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    7,
		Company:   "Acme Ltda",
	})

	require.NoError(t, err)
	assert.Zero(t, sender.calls)
}

func TestNotifier_IgnoresOtherEvents(t *testing.T) {
	sender := &recordingSender{}
	bus := platformevents.NewInMemoryBus(logger.New("development"))
	NewNotifier(sender, "ops@empresa.com.br", logger.New("development")).Register(bus)

	err := bus.PublishSync(context.Background(), events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    7,
		Company:   "Acme Ltda",
	})

	require.NoError(t, err)
	assert.Zero(t, sender.calls)
}
