// Package openai generates report text through the OpenAI chat API.
// Optional: the report service works without it.
package openai

import (
	"context"
	"errors"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
)

// Client wraps the OpenAI chat completion API for report generation.
type Client struct {
	client *goopenai.Client
	model  string
}

// NewClient creates an OpenAI client.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = goopenai.GPT3Dot5Turbo
	}
	return &Client{client: goopenai.NewClient(apiKey), model: model}
}

// Generate runs one chat completion over the prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
