package interview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/okfngroup/hr-selfservice/internal/config"
	"github.com/okfngroup/hr-selfservice/internal/models"
)

// MockStore is a mock implementation of the storage.Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Put(ctx context.Context, collection, id string, doc any) error {
	args := m.Called(ctx, collection, id, doc)
	return args.Error(0)
}

func (m *MockStore) Add(ctx context.Context, collection string, doc any) (string, error) {
	args := m.Called(ctx, collection, doc)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, collection, id string, out any) error {
	args := m.Called(ctx, collection, id, out)
	return args.Error(0)
}

func (m *MockStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func chatBackend(t *testing.T, reply string, capture *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if capture != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
}

func testConfig(baseURL string) config.InterviewConfig {
	return config.InterviewConfig{
		APIBaseURL:  baseURL,
		APIKey:      "test-key",
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}
}

func TestService_Chat(t *testing.T) {
	var req chatRequest
	backend := chatBackend(t, "퇴사를 결정하시게 된 가장 큰 이유는 무엇입니까?", &req)
	defer backend.Close()

	svc := NewService(testConfig(backend.URL), new(MockStore))
	reply, err := svc.Chat(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, "퇴사를 결정하시게 된 가장 큰 이유는 무엇입니까?", reply)
	// First message is always the fixed system prompt.
	assert.Len(t, req.Messages, 1)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "exit interview")
}

func TestService_Chat_MapsModelRoleToAssistant(t *testing.T) {
	var req chatRequest
	backend := chatBackend(t, "알겠습니다.", &req)
	defer backend.Close()

	svc := NewService(testConfig(backend.URL), new(MockStore))
	_, err := svc.Chat(context.Background(), []models.Message{
		{Role: "model", Content: "안녕하세요"},
		{Role: "user", Content: "업무강도/시간"},
	})

	assert.NoError(t, err)
	assert.Len(t, req.Messages, 3)
	assert.Equal(t, "assistant", req.Messages[1].Role)
	assert.Equal(t, "user", req.Messages[2].Role)
}

func TestService_Chat_APIError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer backend.Close()

	svc := NewService(testConfig(backend.URL), new(MockStore))
	_, err := svc.Chat(context.Background(), nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestService_Chat_MissingAPIKey(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:0")
	cfg.APIKey = ""
	svc := NewService(cfg, new(MockStore))

	_, err := svc.Chat(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API key not configured")
}

func TestService_Complete_SavesAndSummarizes(t *testing.T) {
	var req chatRequest
	backend := chatBackend(t, "①핵심 퇴사 사유: 업무강도", &req)
	defer backend.Close()

	transcript := []models.Message{
		{Role: "model", Content: "이유는 무엇입니까?"},
		{Role: "user", Content: "업무강도/시간"},
	}

	var saved models.InterviewLog
	store := new(MockStore)
	store.On("Add", mock.Anything, "interview_logs", mock.AnythingOfType("models.InterviewLog")).
		Run(func(args mock.Arguments) { saved = args.Get(2).(models.InterviewLog) }).
		Return("log-1", nil)
	store.On("Update", mock.Anything, "interview_logs", "log-1",
		map[string]any{"summary": "①핵심 퇴사 사유: 업무강도"}).Return(nil)

	svc := NewService(testConfig(backend.URL), store)
	id, err := svc.Complete(context.Background(), "u@okfngroup.com", transcript)

	assert.NoError(t, err)
	assert.Equal(t, "log-1", id)
	assert.Equal(t, "u@okfngroup.com", saved.ApplicantID)
	assert.Equal(t, transcript, saved.FullTranscript)
	// The summarization request embeds the transcript.
	assert.True(t, strings.Contains(req.Messages[0].Content, "업무강도/시간"))
	store.AssertExpectations(t)
}

func TestService_Complete_SummarizationFailureIsBestEffort(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	store := new(MockStore)
	store.On("Add", mock.Anything, "interview_logs", mock.Anything).Return("log-2", nil)

	svc := NewService(testConfig(backend.URL), store)
	id, err := svc.Complete(context.Background(), "u@okfngroup.com", []models.Message{
		{Role: "user", Content: "기타"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "log-2", id)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Complete_EmptyTranscript(t *testing.T) {
	store := new(MockStore)
	svc := NewService(testConfig("http://127.0.0.1:0"), store)

	_, err := svc.Complete(context.Background(), "u@okfngroup.com", nil)

	assert.Error(t, err)
	store.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}
