package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sashabaranov/go-openai"
)

// TranslateCall records one TranslateBatch invocation
type TranslateCall struct {
	Texts      []string
	SourceLang string
	TargetLang string
}

// MockTranslator mocks the batch translator
type MockTranslator struct {
	// Translate produces the result for one batch; when nil every text is
	// returned as "<target>:<text>"
	Translate func(texts []string) []string
	Calls     []TranslateCall
}

// TranslateBatch records the call and returns the mocked result
func (m *MockTranslator) TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string) []string {
	m.Calls = append(m.Calls, TranslateCall{
		Texts:      append([]string(nil), texts...),
		SourceLang: sourceLang,
		TargetLang: targetLang,
	})

	if m.Translate != nil {
		return m.Translate(texts)
	}

	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = fmt.Sprintf("%s:%s", targetLang, text)
	}
	return out
}

// ChatServer is a fake chat-completion endpoint. Each request is answered
// by Reply with the index of the request and the user prompt.
type ChatServer struct {
	*httptest.Server

	mu      sync.Mutex
	prompts []string
}

// ChatReply is what the fake endpoint sends back for one request. A
// non-zero Status sends Body as an error response instead of a completion.
type ChatReply struct {
	Content string
	Status  int
	Body    string
}

// NewChatServer starts a fake chat-completion server closed with the test
func NewChatServer(t *testing.T, reply func(n int, prompt string) ChatReply) *ChatServer {
	t.Helper()

	s := &ChatServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []openai.ChatCompletionMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var prompt string
		if len(req.Messages) > 0 {
			prompt = req.Messages[len(req.Messages)-1].Content
		}

		s.mu.Lock()
		n := len(s.prompts)
		s.prompts = append(s.prompts, prompt)
		s.mu.Unlock()

		rep := reply(n, prompt)
		if rep.Status != 0 {
			w.WriteHeader(rep.Status)
			fmt.Fprint(w, rep.Body)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: rep.Content},
			}},
		})
	}))
	t.Cleanup(s.Close)

	return s
}

// Prompts returns the prompts received so far
func (s *ChatServer) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

// PromptInput returns the JSON input list embedded at the end of a prompt
func PromptInput(prompt string) ([]string, error) {
	i := strings.LastIndex(prompt, "Input:\n")
	if i < 0 {
		return nil, fmt.Errorf("prompt has no input section")
	}

	var texts []string
	if err := json.Unmarshal([]byte(prompt[i+len("Input:\n"):]), &texts); err != nil {
		return nil, fmt.Errorf("prompt input is not a JSON list: %w", err)
	}
	return texts, nil
}

// JSONList encodes texts as a JSON array string
func JSONList(texts []string) string {
	data, _ := json.Marshal(texts)
	return string(data)
}
