package ai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	genai "google.golang.org/genai"
)

type Gemini struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

type GeminiOption func(*genai.ClientConfig)

// WithGeminiBaseURL points the SDK at another host, e.g. an httptest server.
func WithGeminiBaseURL(u string) GeminiOption {
	return func(c *genai.ClientConfig) {
		if u != "" {
			c.HTTPOptions.BaseURL = u
		}
	}
}

func WithGeminiHTTPClient(hc *http.Client) GeminiOption {
	return func(c *genai.ClientConfig) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

func NewGemini(ctx context.Context, apiKey, model string, opts ...GeminiOption) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	model = strings.TrimPrefix(strings.TrimSpace(model), "models/")
	if model == "" {
		model = DefaultModel
	}
	cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	for _, o := range opts {
		o(cfg)
	}
	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Gemini{client: c, model: model, log: slog.Default()}, nil
}

func (g *Gemini) WithLogger(l *slog.Logger) *Gemini {
	if l != nil {
		g.log = l
	}
	return g
}

func (g *Gemini) Model() string { return g.model }

// Ask sends prompt as a single user turn and returns the response text.
func (g *Gemini) Ask(ctx context.Context, prompt string) (string, error) {
	const op = "ask"
	if strings.TrimSpace(prompt) == "" {
		return "", newError(KindInvalidInput, op, "prompt is empty", nil)
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &Error{Kind: KindStatus, Op: op, Msg: "gemini API call failed", Status: apiErr.Code, Body: apiErr.Message}
		}
		return "", newError(KindTransport, op, "gemini API call failed", err)
	}
	g.log.InfoContext(ctx, "direct prompt answered", "model", g.model, "candidates", len(res.Candidates))
	return strings.TrimSpace(res.Text()), nil
}
