//go:build unit
// +build unit

package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }

type chatRequest struct {
	Model    string `json:"model"`
	Stream   bool   `json:"stream"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// fakeServer answers /chat/completions like an OpenAI-compatible server
func fakeServer(t *testing.T, withUsage bool, captured *chatRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if captured != nil {
			*captured = req
		}

		if req.Stream {
			w.Header().Set("Content-Type", "text/event-stream")
			for _, piece := range []string{"Xin ", "chào ", "quý khách"} {
				fmt.Fprintf(w, "data: {\"id\":\"1\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", piece)
			}
			fmt.Fprint(w, "data: {\"id\":\"1\",\"choices\":[{\"index\":0,\"delta\":{},\"finish_reason\":\"stop\"}]}\n\n")
			fmt.Fprint(w, "data: [DONE]\n\n")
			return
		}

		usage := `{"prompt_tokens":0,"completion_tokens":0,"total_tokens":0}`
		if withUsage {
			usage = `{"prompt_tokens":12,"completion_tokens":4,"total_tokens":16}`
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"1","object":"chat.completion","model":%q,"choices":[{"index":0,"message":{"role":"assistant","content":"Xin chào quý khách"},"finish_reason":"stop"}],"usage":%s}`, req.Model, usage)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestModel(t *testing.T, baseURL string) modelreg.ChatModel {
	t.Helper()

	factory, err := NewChatModelFactory(&config.InferenceSettings{BaseURL: baseURL, APIKey: "EMPTY", TimeoutSeconds: 5}, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	factory.(*chatModelFactory).counter = wordCounter{}

	model, err := factory.New(modelreg.NewModelArgs("meta-llama/Meta-Llama-3-8B-Instruct", "output/run_a", "llama3"))
	require.NoError(t, err)
	return model
}

func userMessage(content string) []modelreg.ChatMessage {
	return []modelreg.ChatMessage{{Role: "user", Content: content}}
}

func TestOpenAIChatModel_Chat(t *testing.T) {
	var captured chatRequest
	srv := fakeServer(t, true, &captured)
	model := newTestModel(t, srv.URL+"/v1")

	resp, err := model.Chat(context.Background(), userMessage("Lãi suất bao nhiêu?"), "Bạn là trợ lý ngân hàng.")
	require.NoError(t, err)

	assert.Equal(t, "Xin chào quý khách", resp.Text)
	assert.Equal(t, resp.Text, resp.GeneratedText)
	assert.Equal(t, modelreg.Usage{PromptTokens: 12, CompletionTokens: 4, TotalTokens: 16}, resp.Usage)

	assert.Equal(t, "run_a", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestOpenAIChatModel_UsageFallback(t *testing.T) {
	srv := fakeServer(t, false, nil)
	model := newTestModel(t, srv.URL+"/v1")

	resp, err := model.Chat(context.Background(), userMessage("một hai ba"), "")
	require.NoError(t, err)
	assert.Equal(t, modelreg.Usage{PromptTokens: 3, CompletionTokens: 4, TotalTokens: 7}, resp.Usage)
}

func TestOpenAIChatModel_StreamChat(t *testing.T) {
	srv := fakeServer(t, false, nil)
	model := newTestModel(t, srv.URL+"/v1")

	var chunks []string
	resp, err := model.StreamChat(context.Background(), userMessage("chào"), "", func(_ context.Context, chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Xin ", "chào ", "quý khách"}, chunks)
	assert.Equal(t, "Xin chào quý khách", resp.Text)
	assert.Equal(t, 4, resp.Usage.CompletionTokens)
}

func TestOpenAIChatModel_StreamAborted(t *testing.T) {
	srv := fakeServer(t, false, nil)
	model := newTestModel(t, srv.URL+"/v1")

	stop := errors.New("client gone")
	_, err := model.StreamChat(context.Background(), userMessage("chào"), "", func(context.Context, string) error {
		return stop
	})
	assert.ErrorIs(t, err, stop)
}

func TestOpenAIChatModel_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"model run_a not found"}}`)
	}))
	t.Cleanup(srv.Close)
	model := newTestModel(t, srv.URL+"/v1")

	_, err := model.Chat(context.Background(), userMessage("chào"), "")
	assert.ErrorContains(t, err, "model run_a not found")

	_, err = model.Chat(context.Background(), []modelreg.ChatMessage{{Role: "bot", Content: "x"}}, "")
	assert.Error(t, err)

	_, err = model.Chat(context.Background(), nil, "")
	assert.Error(t, err)
}

func TestServedModelName(t *testing.T) {
	assert.Equal(t, "run_a", ServedModelName(modelreg.NewModelArgs("base", "output/run_a", "llama3")))
	assert.Equal(t, "base", ServedModelName(modelreg.NewModelArgs("base", "", "llama3")))
}

func TestTokenCounter_Empty(t *testing.T) {
	counter := NewTokenCounter("", testutil.SetupTestLogger(t))
	assert.Equal(t, 0, counter.Count(""))
}
