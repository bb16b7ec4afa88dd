package main

import (
	"context"
	"log/slog"

	"github.com/thywilljoshua/pdf-chat/internal/ai"
	"github.com/thywilljoshua/pdf-chat/internal/chat"
	"github.com/thywilljoshua/pdf-chat/internal/config"
)

// newService builds the chat service and its Gemini clients from cfg.
func newService(ctx context.Context, cfg *config.Config, log *slog.Logger) (*chat.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	files, err := ai.NewFileAPI(cfg.APIKey, cfg.Model, ai.WithBaseURL(cfg.BaseURL), ai.WithLogger(log))
	if err != nil {
		return nil, err
	}

	opts := []chat.Option{chat.WithLogger(log)}
	g, err := ai.NewGemini(ctx, cfg.APIKey, cfg.Model, ai.WithGeminiBaseURL(cfg.BaseURL))
	if err != nil {
		log.Warn("direct prompts disabled", "error", err)
	} else {
		opts = append(opts, chat.WithAsker(g.WithLogger(log)))
	}
	if cfg.Greetings {
		opts = append(opts, chat.WithCannedReplies(chat.DefaultGreetings()))
	}
	return chat.NewService(files, opts...)
}
