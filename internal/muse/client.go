// Package muse turns natural-language scene descriptions into presets by
// asking an OpenAI-compatible chat completion endpoint for a JSON object
// and decoding it with the same validation as any other preset input.
package muse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"vibe/internal/engine"
)

const (
	defaultTimeout = 25 * time.Second
	defaultModel   = "gpt-4o-mini"
	replyBodyLimit = 1 << 20
)

// systemPrompt pins the reply format. The decoder rejects anything partial
// or out of vocabulary, so the schema here mirrors engine.DecodePreset.
const systemPrompt = `You design presets for a real-time audio-reactive 3D music visualizer.
Reply with a single JSON object and nothing else. Every field is required:
{
  "mode": one of "orbit", "wave", "grid", "chaos", "ferrofluid", "surface",
  "geometry": one of "box", "sphere", "tetrahedron", "octahedron", "torus", "cone",
  "primaryColor": "#rrggbb",
  "secondaryColor": "#rrggbb",
  "backgroundColor": "#rrggbb",
  "particleSize": number between 0.1 and 5,
  "rotationSpeed": number between 0 and 5,
  "sensitivity": number between 0 and 3,
  "bloomIntensity": number between 0 and 3,
  "description": a short name for the look
}
Pick values that evoke the user's description. Dark backgrounds usually read best.`

// Client calls a chat-completion endpoint and parses the reply into a
// preset. A failed call leaves the caller's current preset untouched.
type Client struct {
	url    string
	key    string
	model  string
	http   *http.Client
	logger *log.Logger
}

// New returns a Client for the given completions URL. key may be empty for
// local endpoints. A nil logger falls back to the process default.
func New(url, key string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		url:    url,
		key:    key,
		model:  defaultModel,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: logger,
	}
}

// SetModel overrides the completion model name.
func (c *Client) SetModel(model string) {
	if model != "" {
		c.model = model
	}
}

// Configured reports whether an endpoint URL is set.
func (c *Client) Configured() bool { return c.url != "" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate asks the endpoint to express description as a preset.
func (c *Client) Generate(ctx context.Context, description string) (*engine.Preset, error) {
	if c.url == "" {
		return nil, fmt.Errorf("muse: no endpoint configured")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("muse: empty description")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: description},
		},
		Temperature: 0.9,
	})
	if err != nil {
		return nil, fmt.Errorf("muse: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("muse: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("muse: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, replyBodyLimit))
	if err != nil {
		return nil, fmt.Errorf("muse: read reply: %w", err)
	}

	var reply chatResponse
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("muse: decode reply: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if reply.Error != nil && reply.Error.Message != "" {
			return nil, fmt.Errorf("muse: endpoint: %s", reply.Error.Message)
		}
		return nil, fmt.Errorf("muse: endpoint returned %s", resp.Status)
	}
	if len(reply.Choices) == 0 {
		return nil, fmt.Errorf("muse: reply carried no choices")
	}

	raw, err := extractJSON(reply.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("muse: %w", err)
	}
	preset, err := engine.DecodePreset(raw)
	if err != nil {
		return nil, fmt.Errorf("muse: %w", err)
	}

	c.logger.Printf("muse: %q -> %s/%s %q",
		description, preset.Mode, preset.Geometry, preset.Description)
	return preset, nil
}

// extractJSON returns the first balanced JSON object embedded in s. Models
// like to wrap the object in prose or a code fence.
func extractJSON(s string) ([]byte, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil, fmt.Errorf("reply carried no JSON object")
	}
	depth := 0
	inStr := false
	esc := false
	for i := start; i < len(s); i++ {
		switch ch := s[i]; {
		case esc:
			esc = false
		case inStr:
			if ch == '\\' {
				esc = true
			} else if ch == '"' {
				inStr = false
			}
		case ch == '"':
			inStr = true
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return []byte(s[start : i+1]), nil
			}
		}
	}
	return nil, fmt.Errorf("unterminated JSON object in reply")
}
