package lib

import (
	"awm/src/config"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrAIRateLimited = errors.New("rate limit exceeded")
var ErrAICreditsExhausted = errors.New("credits exhausted")

var jsonFence = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// AIChatCompletion sends a single system/user prompt pair to the configured
// OpenAI-compatible gateway and returns the raw assistant message content.
func AIChatCompletion(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	apiKey := config.AIGatewayKey()
	if apiKey == "" {
		return "", errors.New("AI gateway key is not configured")
	}
	payload := map[string]any{
		"model": config.AIModel(),
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature": 0.7,
	}
	b, err := json.Marshal(&payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.AIGatewayURL(), bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[AI] Request failed: %s\n", err.Error())
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[AI] Gateway error: %d %s\n", resp.StatusCode, string(body))
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return "", ErrAIRateLimited
		case http.StatusPaymentRequired:
			return "", ErrAICreditsExhausted
		}
		return "", fmt.Errorf("AI gateway error: %d", resp.StatusCode)
	}
	content := gjson.GetBytes(body, "choices.0.message.content").String()
	if content == "" {
		return "", errors.New("empty completion")
	}
	return content, nil
}

// ExtractJSONBlock pulls the JSON document out of a model response, handling
// markdown code fences and leading prose.
func ExtractJSONBlock(content string) string {
	if m := jsonFence.FindStringSubmatch(content); len(m) == 2 {
		return m[1]
	}
	if start, end := strings.Index(content, "["), strings.LastIndex(content, "]"); start >= 0 && end > start {
		return content[start : end+1]
	}
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
