package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// MockNotifier logs alerts instead of delivering them. Swap for a real
// channel (Slack, email) without touching the handlers.
type MockNotifier struct{}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Publish(ctx context.Context, message string) error {
	log.Info().Str("channel", "mock").Msg("ALERT: " + message)
	return nil
}
