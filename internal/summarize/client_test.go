package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/neurorouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muqadas1234/compliance-policy-ai/internal/model"
	"github.com/Muqadas1234/compliance-policy-ai/internal/redact"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatServer(t *testing.T, reply func(req chatRequest) (int, string)) (*httptest.Server, *[]chatRequest) {
	t.Helper()
	var seen []chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = append(seen, req)

		status, content := reply(req)
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(content))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func testConfig(url string) Config {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.APIURL = url
	cfg.APIKey = "sk-test"
	return cfg
}

var travelCandidate = []model.PolicyCandidate{{
	PolicyID: "FIN-001",
	Title:    "Travel and Expense Policy",
	Text:     "Expenses over $2,000 require Finance Director approval.",
}}

func TestClientSummarizeLocal(t *testing.T) {
	srv, seen := chatServer(t, func(chatRequest) (int, string) {
		return http.StatusOK, "  - Director approval required.\nOverall: needs review.  "
	})

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, redact.ModeLocal, c.Mode())

	got, err := c.Summarize(context.Background(), "Business class flight, $3,500.", travelCandidate)
	require.NoError(t, err)
	assert.Equal(t, "- Director approval required.\nOverall: needs review.", got)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, "gpt-4o", req.Model)
	assert.InDelta(t, 0.2, req.Temperature, 1e-9)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, SystemPrompt, req.Messages[0].Content)
	assert.Contains(t, req.Messages[1].Content, "Document:\nBusiness class flight, $3,500.")
	assert.Contains(t, req.Messages[1].Content, "FIN-001 - Travel and Expense Policy\nExpenses over $2,000")
	assert.True(t, strings.HasSuffix(req.Messages[1].Content, Instruction))
}

func TestClientRedactsForCloud(t *testing.T) {
	srv, seen := chatServer(t, func(req chatRequest) (int, string) {
		return http.StatusOK, "- <<EMAIL_1>> booked business class without approval."
	})

	cfg := testConfig(srv.URL)
	cfg.Redact.Mode = "always"
	c, err := NewClient(cfg)
	require.NoError(t, err)

	got, err := c.Summarize(context.Background(), "jane.doe@acme-corp.com booked business class for $3,500.", travelCandidate)
	require.NoError(t, err)
	assert.Equal(t, "- jane.doe@acme-corp.com booked business class without approval.", got)

	require.Len(t, *seen, 1)
	sent := (*seen)[0].Messages[1].Content
	assert.NotContains(t, sent, "jane.doe@acme-corp.com")
	assert.Contains(t, sent, "<<EMAIL_1>>")
	assert.Contains(t, sent, "$3,500")
}

func TestClientRejectsLeak(t *testing.T) {
	srv, _ := chatServer(t, func(chatRequest) (int, string) {
		return http.StatusOK, "- jane.doe@acme-corp.com booked business class."
	})

	cfg := testConfig(srv.URL)
	cfg.Redact.Mode = "always"
	c, err := NewClient(cfg)
	require.NoError(t, err)

	_, err = c.Summarize(context.Background(), "jane.doe@acme-corp.com booked business class.", nil)
	assert.ErrorIs(t, err, ErrLeak)
}

func TestClientRateLimited(t *testing.T) {
	srv, _ := chatServer(t, func(chatRequest) (int, string) {
		return http.StatusTooManyRequests, `{"error":"slow down"}`
	})

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = c.Summarize(context.Background(), "doc", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, neurorouter.ErrRateLimited))
}

func TestClientHTTPError(t *testing.T) {
	srv, _ := chatServer(t, func(chatRequest) (int, string) {
		return http.StatusInternalServerError, "boom"
	})

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = c.Summarize(context.Background(), "doc", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500: boom")
}

func TestClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = c.Summarize(context.Background(), "doc", nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClientHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = c.Summarize(ctx, "doc", nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewClientRejectsBadRedactConfig(t *testing.T) {
	cfg := testConfig("http://localhost:1")
	cfg.Redact.ExtraPatterns = []redact.ExtraPatternDef{{Name: "x", Regex: "("}}
	_, err := NewClient(cfg)
	assert.Error(t, err)
}
