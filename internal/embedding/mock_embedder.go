package embedding

import "github.com/stretchr/testify/mock"

// MockEmbedder is a mock implementation of Embedder using testify/mock.
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockEmbedder) Prepare(corpus []string) error {
	args := m.Called(corpus)
	return args.Error(0)
}

func (m *MockEmbedder) Dimension() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockEmbedder) Embed(text string) ([]float64, error) {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockEmbedder) EmbedBatch(texts []string) ([][]float64, error) {
	args := m.Called(texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float64), args.Error(1)
}
