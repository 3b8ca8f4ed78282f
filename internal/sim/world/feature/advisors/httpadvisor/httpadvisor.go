// Package httpadvisor is the reference Advisor[In,Out] collaborator: it
// performs the transport described in the external interfaces section
// against a configurable LLM endpoint. It is not part of the deterministic
// core — the core only ever calls the Advisor[In,Out] interface — so every
// failure mode here (transport error, non-2xx, non-JSON, missing field)
// surfaces as a Go error and the pipeline applies that stage's fallback.
package httpadvisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// Client is a generic HTTP-backed advisor. In/Out are the stage's typed
// input and output records; RequiredFields and Schema gate what counts as
// a valid response before it is ever unmarshaled into Out.
type Client[In, Out any] struct {
	HTTP           *http.Client
	Endpoint       string
	APIKey         string
	SystemPrompt   string
	RequiredFields []string
	Schema         *jsonschema.Schema

	// AllowNullLiteral permits the literal text "null" to be treated as a
	// successful nil response instead of a parse failure. Only the Crisis
	// stage's client sets this.
	AllowNullLiteral bool
}

type chatRequest struct {
	System string `json:"system"`
	User   string `json:"user"`
}

type chatResponse struct {
	Text string `json:"text"`
}

// Invoke performs the transport: system prompt plus a user message of the
// form "TICK INPUT DATA:\n<pretty-JSON>\n\nAnalyze and respond with valid
// JSON only.", then parses the response per the fence-stripping/null rules.
func (c *Client[In, Out]) Invoke(ctx context.Context, in In) (*Out, error) {
	payload, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("httpadvisor: marshal input: %w", err)
	}
	userMsg := fmt.Sprintf("TICK INPUT DATA:\n%s\n\nAnalyze and respond with valid JSON only.", payload)

	reqBody, err := json.Marshal(chatRequest{System: c.SystemPrompt, User: userMsg})
	if err != nil {
		return nil, fmt.Errorf("httpadvisor: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("httpadvisor: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpadvisor: transport: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpadvisor: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("httpadvisor: status %d: %s", resp.StatusCode, string(body))
	}

	var wrapped chatResponse
	text := string(body)
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Text != "" {
		text = wrapped.Text
	}

	return c.parse(text)
}

func (c *Client[In, Out]) parse(text string) (*Out, error) {
	clean := stripFence(text)

	if c.AllowNullLiteral && clean == "null" {
		return nil, nil
	}

	var any any
	if err := json.Unmarshal([]byte(clean), &any); err != nil {
		return nil, fmt.Errorf("httpadvisor: response is not JSON: %w", err)
	}

	for _, field := range c.RequiredFields {
		if !gjson.Get(clean, field).Exists() {
			return nil, fmt.Errorf("httpadvisor: missing required field %q", field)
		}
	}

	if c.Schema != nil {
		if err := c.Schema.Validate(any); err != nil {
			return nil, fmt.Errorf("httpadvisor: schema validation: %w", err)
		}
	}

	var out Out
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("httpadvisor: decode: %w", err)
	}
	return &out, nil
}

// stripFence removes a leading/trailing triple-backtick fence and an
// optional leading language tag (e.g. "```json").
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		firstLine := s[:nl]
		if !strings.ContainsAny(firstLine, "{[\"") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
