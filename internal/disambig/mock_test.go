package disambig

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/brandscout-cli/pkg/llm"
)

// mockLLMClient implements llm.Client for testing.
type mockLLMClient struct {
	mock.Mock
}

func (m *mockLLMClient) CreateMessage(ctx context.Context, req llm.MessageRequest) (*llm.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.MessageResponse), args.Error(1)
}
