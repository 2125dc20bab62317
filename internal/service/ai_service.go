package service

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"dentsim_backend/internal/config"
	"dentsim_backend/internal/util"
	"dentsim_backend/pkg/monitoring"

	openai "github.com/sashabaranov/go-openai"
)

// ChatMessage is one entry of the bounded context window handed to the
// generation service. Role is "system", "user" or "assistant".
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator is the boundary to the external text-generation service. The
// core treats it as opaque: potentially slow, potentially failing, never
// holding locks on session or learner state while it runs.
type Generator interface {
	Generate(ctx context.Context, messages []ChatMessage) (string, error)
}

// AIService calls an OpenAI-compatible chat-completions API.
type AIService struct {
	mu     sync.RWMutex
	client *openai.Client
	cfg    config.AIConfig
}

func NewAIService(cfg config.AIConfig) *AIService {
	s := &AIService{}
	s.Reconfigure(cfg)
	return s
}

// Reconfigure swaps the upstream settings at runtime; used by config
// hot-reload.
func (s *AIService) Reconfigure(cfg config.AIConfig) {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	s.mu.Lock()
	s.client = openai.NewClientWithConfig(clientCfg)
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *AIService) Generate(ctx context.Context, messages []ChatMessage) (string, error) {
	s.mu.RLock()
	client := s.client
	cfg := s.cfg
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:    cfg.Model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, req)
	monitoring.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", classifyUpstreamError(err)
	}
	if len(resp.Choices) == 0 {
		return "", util.ErrUpstreamUnavailable
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyUpstreamError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return util.ErrUpstreamTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return util.ErrUpstreamTimeout
	}
	return util.ErrUpstreamUnavailable
}
