package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ImageDetection is the result of classifying an issue photo.
type ImageDetection struct {
	IssueType           string  `json:"issueType"`
	Confidence          float64 `json:"confidence"`
	Description         string  `json:"description"`
	Severity            string  `json:"severity"`
	SuggestedDepartment string  `json:"suggestedDepartment"`
}

// Transcription is the result of transcribing a voice note.
type Transcription struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// VoiceExtraction is the structured issue data pulled out of a
// transcribed voice note.
type VoiceExtraction struct {
	IssueType   string `json:"issueType"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// AIService is the external AI collaborator. All three calls are
// best-effort: callers treat any error as "no AI input available".
type AIService interface {
	ClassifyImage(ctx context.Context, image []byte, mimeType string) (*ImageDetection, error)
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (*Transcription, error)
	ExtractIssueText(ctx context.Context, text, language string) (*VoiceExtraction, error)
}

// AIClient implements AIService using the Anthropic API for image
// classification and text extraction, and a Whisper-compatible HTTP
// endpoint for speech-to-text.
type AIClient struct {
	api           *anthropic.Client
	model         anthropic.Model
	transcribeURL string
	httpClient    *http.Client
}

// NewAIClient creates an AI client. transcribeURL may be empty, in
// which case TranscribeAudio always fails (and voice input degrades
// to defaults).
func NewAIClient(apiKey, model, transcribeURL string) *AIClient {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &AIClient{
		api:           &client,
		model:         anthropic.Model(model),
		transcribeURL: transcribeURL,
		httpClient:    &http.Client{Timeout: 60 * time.Second},
	}
}

const classifySystemPrompt = `You classify photos of civic problems reported to a municipality. Return ONLY a JSON object with these fields:
- "issueType": one of "pothole", "garbage", "streetlight", "water_leakage", "road_damage", "other"
- "confidence": your confidence in the classification, a number between 0 and 1
- "description": a short one-sentence description of the problem visible in the photo
- "severity": one of "low", "medium", "high", "critical"
- "suggestedDepartment": the municipal department best suited to handle it, or empty string

Rules:
- If the photo shows no recognizable civic problem, use "other" with low confidence
- Return valid JSON only, no markdown fencing or explanation`

const extractSystemPrompt = `You extract structured civic issue data from a citizen's transcribed voice note. Return ONLY a JSON object with these fields:
- "issueType": one of "pothole", "garbage", "streetlight", "water_leakage", "road_damage", "other"
- "location": the place mentioned in the note, or empty string if none
- "description": a short description of the reported problem
- "priority": one of "low", "medium", "high", "critical", judged from urgency in the note

Rules:
- The note may be in any language; always answer with English field values except "location", which keeps the original wording
- Return valid JSON only, no markdown fencing or explanation`

// ClassifyImage sends the photo to the model and parses the detection.
func (c *AIClient) ClassifyImage(ctx context.Context, image []byte, mimeType string) (*ImageDetection, error) {
	encoded := base64.StdEncoding.EncodeToString(image)

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: classifySystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mimeType, encoded),
				anthropic.NewTextBlock("Classify the civic problem in this photo."),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call: %w", err)
	}

	text, err := firstTextBlock(msg)
	if err != nil {
		return nil, err
	}

	var det ImageDetection
	if err := json.Unmarshal([]byte(stripFencing(text)), &det); err != nil {
		return nil, fmt.Errorf("parse classification response: %w", err)
	}
	det.Confidence = clamp01(det.Confidence)
	return &det, nil
}

// TranscribeAudio posts the voice note to the configured
// Whisper-compatible endpoint.
func (c *AIClient) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (*Transcription, error) {
	if c.transcribeURL == "" {
		return nil, fmt.Errorf("transcription endpoint not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "audio"+extensionFor(mimeType))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.transcribeURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("transcription call: status %d: %s", resp.StatusCode, raw)
	}

	var tr Transcription
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parse transcription response: %w", err)
	}
	return &tr, nil
}

// ExtractIssueText pulls structured issue fields out of transcribed text.
func (c *AIClient) ExtractIssueText(ctx context.Context, text, language string) (*VoiceExtraction, error) {
	var sb strings.Builder
	if language != "" {
		sb.WriteString("Note language: ")
		sb.WriteString(language)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Voice note transcript:\n\n")
	sb.WriteString(text)

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: extractSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(sb.String())),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call: %w", err)
	}

	out, err := firstTextBlock(msg)
	if err != nil {
		return nil, err
	}

	var ext VoiceExtraction
	if err := json.Unmarshal([]byte(stripFencing(out)), &ext); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}
	return &ext, nil
}

func firstTextBlock(msg *anthropic.Message) (string, error) {
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in API response")
}

// stripFencing removes markdown code fencing the model sometimes wraps
// around JSON output.
func stripFencing(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/ogg":
		return ".ogg"
	case "audio/webm":
		return ".webm"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return ".m4a"
	}
	return ".bin"
}
