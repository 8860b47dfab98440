package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mohitbansal25082006/MannSahay-sub001/internal/config"
)

const systemPrompt = `You are a content moderation reviewer for a peer-support mental health community.
Evaluate the content against these policy categories: harassment, hate_speech, sexual_content, spam, doxxing, violence_threat, misinformation_harmful.
Expressions of personal distress or self-harm ideation are NOT policy violations; a separate system handles them.
Respond with ONLY a JSON object in exactly this shape:
{"violates_policy":true|false,"violation_types":["..."],"severity":"low|medium|high|critical","confidence":0.0-1.0,"explanation":"...","recommended_action":"allow|flag|hide|remove"}
Confidence is your certainty in the verdict, 0 to 1. Use "remove" only for severe, unambiguous violations.`

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
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type provider struct {
	name   string
	apiURL string
	apiKey string
	model  string
}

// Client submits content to an external chat-completions service and
// interprets the verdict. Providers are tried in order; every failure mode
// (transport, timeout, bad status, unparseable output) collapses to the safe
// default so a classifier outage never blocks publishing.
type Client struct {
	providers  []provider
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	var providers []provider
	if cfg.GLMAPIKey != "" {
		providers = append(providers, provider{"glm", cfg.GLMAPIURL, cfg.GLMAPIKey, cfg.GLMModel})
	}
	if cfg.DeepSeekAPIKey != "" {
		providers = append(providers, provider{"deepseek", cfg.DeepSeekAPIURL, cfg.DeepSeekAPIKey, cfg.DeepSeekModel})
	}
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, provider{"openai", cfg.OpenAIAPIURL, cfg.OpenAIAPIKey, cfg.OpenAIModel})
	}

	return &Client{
		providers:  providers,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

// Classify returns a policy verdict for the given content. reason is the
// reporter-supplied context when the call comes from a report, empty on the
// create path. language is a hint ("en", "hi"); it never changes the response
// shape. Classify never returns an error: on total failure the safe default
// verdict comes back and the failure is logged.
func (c *Client) Classify(ctx context.Context, content, reason, language string) Verdict {
	if len(c.providers) == 0 {
		slog.Warn("no classification provider configured, using safe default")
		return SafeDefault()
	}

	prompt := buildUserPrompt(content, reason, language)

	for _, p := range c.providers {
		start := time.Now()
		verdict, err := c.classifyWith(ctx, p, prompt)
		if err == nil {
			return verdict
		}
		slog.Error("classification attempt failed",
			"action", "classify",
			"provider", p.name,
			"error", err.Error(),
			"latency_ms", float64(time.Since(start).Milliseconds()),
		)
		if ctx.Err() != nil {
			break
		}
	}

	return SafeDefault()
}

func buildUserPrompt(content, reason, language string) string {
	var b strings.Builder
	if language != "" {
		fmt.Fprintf(&b, "Content language hint: %s\n", language)
	}
	if reason != "" {
		fmt.Fprintf(&b, "A community member reported this content. Report reason: %s\n", reason)
	}
	b.WriteString("Content to review:\n")
	b.WriteString(content)
	return b.String()
}

func (c *Client) classifyWith(ctx context.Context, p provider, prompt string) (Verdict, error) {
	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Verdict{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(payload))
	if err != nil {
		return Verdict{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Verdict{}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Verdict{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Verdict{}, fmt.Errorf("classification API error: status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return Verdict{}, err
	}
	if len(completion.Choices) == 0 {
		return Verdict{}, errors.New("empty completion from classification API")
	}

	verdict, err := DecodeVerdict(completion.Choices[0].Message.Content)
	if err != nil {
		return Verdict{}, fmt.Errorf("undecodable verdict: %w", err)
	}
	return verdict, nil
}
