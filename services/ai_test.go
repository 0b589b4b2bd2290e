package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFencing(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain json", `{"issueType":"pothole"}`, `{"issueType":"pothole"}`},
		{"fenced", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced with language", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"leading whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripFencing(tt.input))
		})
	}
}

func TestTranscribeAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, "missing file part", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"पानी का पाइप टूट गया है","language":"hi"}`))
	}))
	defer server.Close()

	client := NewAIClient("", "claude-sonnet-4-20250514", server.URL)

	tr, err := client.TranscribeAudio(context.Background(), []byte("fake-audio"), "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, "पानी का पाइप टूट गया है", tr.Text)
	assert.Equal(t, "hi", tr.Language)
}

func TestTranscribeAudioServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewAIClient("", "claude-sonnet-4-20250514", server.URL)

	_, err := client.TranscribeAudio(context.Background(), []byte("fake-audio"), "audio/wav")
	assert.Error(t, err)
}

func TestTranscribeAudioUnconfigured(t *testing.T) {
	client := NewAIClient("", "claude-sonnet-4-20250514", "")

	_, err := client.TranscribeAudio(context.Background(), []byte("fake-audio"), "audio/wav")
	assert.Error(t, err)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".mp3", extensionFor("audio/mpeg"))
	assert.Equal(t, ".wav", extensionFor("audio/wav"))
	assert.Equal(t, ".ogg", extensionFor("audio/ogg"))
	assert.Equal(t, ".bin", extensionFor("application/octet-stream"))
	assert.Equal(t, ".jpg", extensionForMedia("image/jpeg"))
	assert.Equal(t, ".png", extensionForMedia("image/png"))
}
