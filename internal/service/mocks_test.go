package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tabletalk/rules-qa/internal/domain"
	"github.com/tabletalk/rules-qa/internal/index"
	"github.com/tabletalk/rules-qa/internal/llm"
)

// MockSessionManager mocks the SessionManager interface
type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) AppendUserTurn(ctx context.Context, sessionKey, text string) ([]domain.Turn, error) {
	args := m.Called(ctx, sessionKey, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Turn), args.Error(1)
}

func (m *MockSessionManager) AppendAssistantTurn(ctx context.Context, sessionKey string, turns []domain.Turn, text string) ([]domain.Turn, error) {
	args := m.Called(ctx, sessionKey, turns, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Turn), args.Error(1)
}

func (m *MockSessionManager) History(ctx context.Context, sessionKey string) ([]domain.Turn, error) {
	args := m.Called(ctx, sessionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Turn), args.Error(1)
}

func (m *MockSessionManager) Reset(ctx context.Context, sessionKey string) error {
	args := m.Called(ctx, sessionKey)
	return args.Error(0)
}

// MockRetriever mocks the Retriever interface
type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Init(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRetriever) Ingest(ctx context.Context, texts []string, metadatas []map[string]string) (int, error) {
	args := m.Called(ctx, texts, metadatas)
	return args.Int(0), args.Error(1)
}

func (m *MockRetriever) Search(ctx context.Context, query string, k int) ([]domain.DocumentChunk, error) {
	args := m.Called(ctx, query, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentChunk), args.Error(1)
}

func (m *MockRetriever) Status(ctx context.Context, forceLoad bool) *index.Status {
	args := m.Called(ctx, forceLoad)
	return args.Get(0).(*index.Status)
}

// MockProvider mocks llm.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) DefaultModel() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockProvider) Generate(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	args := m.Called(ctx, req, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}
