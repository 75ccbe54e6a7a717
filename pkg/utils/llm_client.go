package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// LLMClientInterface is the opaque "prompt in, JSON out" collaborator.
// Implementations return a JSON document or an error; they never validate its shape.
type LLMClientInterface interface {
	GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error)
}

var ErrEmptyCompletion = errors.New("model returned no content")

// NewLLMClient picks the provider implementation by name.
func NewLLMClient(provider, apiKey, model string) (LLMClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIClient(apiKey, model), nil
	case "gemini":
		return NewGeminiClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s. Use 'openai' or 'gemini'", provider)
	}
}

// CleanJSONResponse strips markdown fences and chatter around the first JSON
// object or array in a model response.
func CleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	switch {
	case objStart != -1 && (arrStart == -1 || objStart < arrStart):
		if end := findMatching(response, objStart, '{', '}'); end != -1 {
			response = response[objStart : end+1]
		}
	case arrStart != -1:
		if end := findMatching(response, arrStart, '[', ']'); end != -1 {
			response = response[arrStart : end+1]
		}
	}

	return strings.TrimSpace(response)
}

// findMatching returns the index of the delimiter closing the one at start,
// skipping over string literals, or -1.
func findMatching(s string, start int, open, close byte) int {
	if start >= len(s) || s[start] != open {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
