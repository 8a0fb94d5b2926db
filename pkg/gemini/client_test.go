package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContent(t *testing.T) {
	var gotPath string
	var gotBody GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(GenerateResponse{
			Candidates: []Candidate{{
				Content:      Content{Role: "model", Parts: []Part{{Text: "[{\"description\": \"rice\"}]"}}},
				FinishReason: "STOP",
			}},
			UsageMetadata: &UsageMetadata{PromptTokenCount: 12, CandidatesTokenCount: 8},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.GenerateContent(context.Background(), "flash-test", GenerateRequest{
		Contents:         []Content{{Role: "user", Parts: []Part{{Text: "analyze this"}}}},
		GenerationConfig: &GenerationConfig{ResponseMIMEType: "application/json"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/models/flash-test:generateContent", gotPath)
	assert.Equal(t, "analyze this", gotBody.Contents[0].Parts[0].Text)
	assert.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMIMEType)

	assert.Equal(t, `[{"description": "rice"}]`, resp.Text())
	assert.False(t, resp.Blocked())
	assert.Equal(t, 12, resp.UsageMetadata.PromptTokenCount)
}

func TestGenerateContentStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "quota"}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	_, err := client.GenerateContent(context.Background(), "flash-test", GenerateRequest{})
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Contains(t, se.Body, "quota")
}

func TestResponseText(t *testing.T) {
	empty := &GenerateResponse{}
	assert.Empty(t, empty.Text())

	multi := &GenerateResponse{Candidates: []Candidate{{
		Content: Content{Parts: []Part{{Text: "part one "}, {Text: "part two"}}},
	}}}
	assert.Equal(t, "part one part two", multi.Text())
}

func TestResponseBlocked(t *testing.T) {
	tests := []struct {
		name string
		resp GenerateResponse
		want bool
	}{
		{"clean", GenerateResponse{Candidates: []Candidate{{FinishReason: "STOP"}}}, false},
		{"safety finish", GenerateResponse{Candidates: []Candidate{{FinishReason: "SAFETY"}}}, true},
		{"prompt blocked", GenerateResponse{PromptFeedback: &PromptFeedback{BlockReason: "SAFETY"}}, true},
		{"no candidates no feedback", GenerateResponse{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.Blocked())
		})
	}
}
