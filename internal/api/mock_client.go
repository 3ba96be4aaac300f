package api

import (
	"context"
	"io"
	"path/filepath"
	"sync"

	apierrors "github.com/diogo/docwrangler/internal/errors"
	"github.com/diogo/docwrangler/internal/models"
)

// MockDocWranglerClient is a mock implementation of DocWranglerClientInterface for testing
type MockDocWranglerClient struct {
	// Mock return values
	BaseURLVal    string
	DecisionVal   *models.Decision
	QueryErr      error
	UploadVal     *models.UploadResult
	UploadErr     error
	HealthVal     *models.HealthStatus
	HealthErr     error
	NotConfigured bool

	// QueryFunc, when set, replaces DecisionVal/QueryErr.
	QueryFunc func(ctx context.Context, query string) (*models.Decision, error)

	mu sync.Mutex
	// Call recorders
	Queries     []string
	Uploads     []string
	HealthCalls int
}

// Ensure MockDocWranglerClient implements DocWranglerClientInterface
var _ DocWranglerClientInterface = (*MockDocWranglerClient)(nil)

func (m *MockDocWranglerClient) SendQuery(ctx context.Context, query string) (*models.Decision, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, query)
	fn := m.QueryFunc
	m.mu.Unlock()

	if m.NotConfigured {
		return nil, apierrors.ErrNotConfigured
	}
	if fn != nil {
		return fn(ctx, query)
	}
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	if m.DecisionVal == nil {
		return &models.Decision{Query: query}, nil
	}
	return m.DecisionVal, nil
}

func (m *MockDocWranglerClient) UploadDocument(ctx context.Context, path string) (*models.UploadResult, error) {
	m.mu.Lock()
	m.Uploads = append(m.Uploads, path)
	m.mu.Unlock()

	return m.upload(filepath.Base(path))
}

func (m *MockDocWranglerClient) UploadReader(ctx context.Context, r io.Reader, fileName string) (*models.UploadResult, error) {
	n, _ := io.Copy(io.Discard, r)

	m.mu.Lock()
	m.Uploads = append(m.Uploads, fileName)
	m.mu.Unlock()

	res, err := m.upload(fileName)
	if res != nil && res.Size == 0 {
		res.Size = n
	}
	return res, err
}

func (m *MockDocWranglerClient) upload(fileName string) (*models.UploadResult, error) {
	if m.NotConfigured {
		return nil, apierrors.ErrNotConfigured
	}
	if m.UploadErr != nil {
		return nil, m.UploadErr
	}
	if m.UploadVal != nil {
		res := *m.UploadVal
		return &res, nil
	}
	return &models.UploadResult{FileName: fileName}, nil
}

func (m *MockDocWranglerClient) Health(ctx context.Context) (*models.HealthStatus, error) {
	m.mu.Lock()
	m.HealthCalls++
	m.mu.Unlock()

	if m.NotConfigured {
		return nil, apierrors.ErrNotConfigured
	}
	if m.HealthErr != nil {
		return nil, m.HealthErr
	}
	if m.HealthVal == nil {
		return &models.HealthStatus{Status: "healthy"}, nil
	}
	return m.HealthVal, nil
}

func (m *MockDocWranglerClient) BaseURL() string {
	return m.BaseURLVal
}

func (m *MockDocWranglerClient) IsConfigured() bool {
	return !m.NotConfigured
}

// QueryCount returns how many queries were sent
func (m *MockDocWranglerClient) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}
