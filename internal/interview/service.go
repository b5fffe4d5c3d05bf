// Package interview drives the AI exit interview: a fixed prompt template fed
// to a chat-completions API, with message history forwarded as-is, plus
// transcript persistence and post-interview summarization.
package interview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/okfngroup/hr-selfservice/internal/config"
	"github.com/okfngroup/hr-selfservice/internal/models"
	"github.com/okfngroup/hr-selfservice/internal/storage"
)

const interviewLogCollection = "interview_logs"

const systemPrompt = `You are a friendly and professional HR representative for OK Financial Group, conducting an AI-powered exit interview with a departing employee. Your name is 김민지.

The interview has a structured flow. Follow these steps precisely.

**Step 1: Initial Greeting and Opening Question**
- If the conversation history is empty, this is the beginning of the interview.
- Start by introducing yourself and expressing regret for their departure.
- Your first and only question in this initial message MUST be: "퇴사를 결정하시게 된 가장 큰 이유는 무엇입니까?" (What is the biggest reason for your decision to leave?)
- DO NOT ask any other questions in this first turn.

**Step 2: Acknowledging the Reason and Follow-up**
- The user will respond with one of the predefined reasons: "적성불일치, 업무강도/시간, 결혼/출산/육아, 직원 간 관계, 급여/복리후생, 건강문제/가족간병, 원거리발령/통근시간, 조직문화, 학업/유학/창업, 거주지 이전/이민, 인사적 불만(승진/평가/배치 등), 기타"
- If the user's response is "기타" (Other), you MUST ask them to elaborate on the specific reason.
- For any other reason, acknowledge their choice empathetically and ask one or two open-ended follow-up questions to understand their experience better.
- Keep the conversation natural and empathetic.

**Step 3: Final Confirmation Questions**
- After the resignation reason has been sufficiently explored, transition to the final confirmation items.
- Ask the following two questions, one by one, waiting for the answer to the first before asking the second.
  1. "혹시 회사에서 제공하는 가족건강검진은 받으셨는지요?"
  2. "네, 알겠습니다. 그리고 개인자산관리시스템에 등록된 개인 자산(PC, 모니터, 노트북 등)은 모두 반납 처리하셨는지 확인 부탁드립니다."

**Step 4: Closing the Interview**
- Once the confirmation questions are answered, you MUST end the conversation with the following exact phrase, without any additions or changes:
"그동안의 노고에 감사드리며, 앞날을 응원하며 면담을 종료합니다."`

const summaryPrompt = `다음은 퇴사자와의 면담 내용 전문입니다. 이 내용을 바탕으로 인사담당자가 빠르게 파악할 수 있도록 ①핵심 퇴사 사유, ②회사에 대한 긍정적 피드백, ③개선 및 건의사항 세 가지 항목으로 구분하여 요약해주세요.

---면담 전문---
`

// Service talks to the chat-completions API and persists transcripts.
type Service struct {
	cfg        config.InterviewConfig
	store      storage.Store
	httpClient *http.Client
}

// NewService creates an interview service
func NewService(cfg config.InterviewConfig, store storage.Store) *Service {
	return &Service{
		cfg:   cfg,
		store: store,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat forwards the conversation history under the fixed system prompt and
// returns the next interviewer message.
func (s *Service) Chat(ctx context.Context, history []models.Message) (string, error) {
	msgs := make([]chatMessage, 0, len(history)+1)
	msgs = append(msgs, chatMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		role := m.Role
		if role != "user" {
			// The API expects "assistant" for model turns.
			role = "assistant"
		}
		msgs = append(msgs, chatMessage{Role: role, Content: m.Content})
	}
	return s.complete(ctx, msgs, s.cfg.Temperature)
}

// Complete saves the full transcript, then attempts summarization and writes
// the summary back onto the saved document. Summarization is best effort:
// its failure never fails the save.
func (s *Service) Complete(ctx context.Context, applicantID string, transcript []models.Message) (string, error) {
	if len(transcript) == 0 {
		return "", errors.New("no transcript to save")
	}

	doc := models.InterviewLog{
		ApplicantID:    applicantID,
		FullTranscript: transcript,
		CreatedAt:      time.Now().UTC(),
	}
	id, err := s.store.Add(ctx, interviewLogCollection, doc)
	if err != nil {
		return "", fmt.Errorf("save interview log: %w", err)
	}
	logrus.Infof("[interview] transcript %s saved for %s", id, applicantID)

	summary, err := s.summarize(ctx, transcript)
	if err != nil {
		logrus.Warnf("[interview] summarization failed for %s: %v", id, err)
		return id, nil
	}
	if err := s.store.Update(ctx, interviewLogCollection, id, map[string]any{"summary": summary}); err != nil {
		logrus.Warnf("[interview] could not store summary for %s: %v", id, err)
	}
	return id, nil
}

func (s *Service) summarize(ctx context.Context, transcript []models.Message) (string, error) {
	var sb strings.Builder
	for i, m := range transcript {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
	}
	msgs := []chatMessage{{Role: "user", Content: summaryPrompt + sb.String()}}
	return s.complete(ctx, msgs, 0.5)
}

func (s *Service) complete(ctx context.Context, msgs []chatMessage, temperature float64) (string, error) {
	if s.cfg.APIKey == "" {
		return "", errors.New("API key not configured")
	}

	payload, err := json.Marshal(chatRequest{
		Model:       s.cfg.Model,
		Messages:    msgs,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(s.cfg.APIBaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("chat API returned %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("chat API returned %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.New("chat API returned no message")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
