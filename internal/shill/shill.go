// Package shill generates one-line promotional blurbs through an
// OpenAI-compatible chat completion endpoint.
package shill

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const prompt = "You are a charismatic, eloquent and relentlessly upbeat crypto enthusiast. " +
	"In one short, punchy sentence, hype $SCR (Scroll). Use different wording every time."

const maxTokens = 8192

var ErrNoChoice = errors.New("no choice returned")

type Generator struct {
	client *openai.Client
	model  string
	pick   func(n int) int
}

func NewGenerator(apiKey, baseURL, model string) *Generator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Generator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		pick:   rand.Intn,
	}
}

// Generate asks the model for shill text and returns one line of it.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoice
	}

	lines := splitLines(resp.Choices[0].Message.Content)
	if len(lines) == 0 {
		return "", ErrNoChoice
	}
	return lines[g.pick(len(lines))], nil
}

// splitLines strips "1. " to "20. " list markers and returns the non-blank lines.
func splitLines(text string) []string {
	for i := 1; i <= 20; i++ {
		text = strings.ReplaceAll(text, fmt.Sprintf("%d. ", i), "")
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
