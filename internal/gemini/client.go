// Package gemini invokes the generative language service to produce document
// artifacts. The client is cache-transparent: callers are expected to consult
// the artifact cache before invoking and to store results after a success.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Operation selects which artifact the model produces.
type Operation string

const (
	OperationSummarize Operation = "summarize"
	OperationKeyPoints Operation = "extract-key-points"
)

// --- Artifact prompts ---
// The templates are fixed; only the document text appended below them is
// user-controlled input.
const (
	SummaryPrompt   = "Please provide a 3-sentence summary in simple English:\n\n"
	KeyPointsPrompt = "Provide exactly 5 key points as bolded bullets (**text**):\n\n"
)

// promptTextCap bounds how much document text is embedded in a prompt,
// independently of the extractor's byte ceiling.
const promptTextCap = 15000

const (
	DefaultModel   = "gemini-1.5-flash"
	DefaultTimeout = 120 * time.Second
)

// Client calls the Gemini API with a per-invocation credential. It performs no
// retries; retry policy belongs to the caller.
type Client struct {
	model   string
	timeout time.Duration
}

// NewClient creates a gateway client. Zero values fall back to DefaultModel
// and DefaultTimeout.
func NewClient(model string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{model: model, timeout: timeout}
}

// Invoke generates the artifact for op over text. An empty credential fails
// fast with ErrAuth before any network round-trip; all other failures are
// classified into the gateway taxonomy.
func (c *Client) Invoke(ctx context.Context, op Operation, text, credential string) (string, error) {
	if strings.TrimSpace(credential) == "" {
		return "", gatewayErrf(ErrAuth, "missing API key")
	}
	prompt, err := BuildPrompt(op, text)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  credential,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", classify(err)
	}

	slog.Info("Calling generative model.", "operation", string(op), "model", c.model)
	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", classify(err)
	}

	artifact, blocked := responseText(resp)
	if blocked != "" {
		return "", gatewayErrf(ErrContentPolicy, "%s", blocked)
	}
	if strings.TrimSpace(artifact) == "" {
		return "", gatewayErrf(ErrEmptyResponse, "model returned no usable content")
	}
	return strings.TrimSpace(artifact), nil
}

// BuildPrompt assembles the fixed instruction for op with at most
// promptTextCap bytes of document text.
func BuildPrompt(op Operation, text string) (string, error) {
	if len(text) > promptTextCap {
		text = text[:promptTextCap]
	}
	switch op {
	case OperationSummarize:
		return SummaryPrompt + text, nil
	case OperationKeyPoints:
		return KeyPointsPrompt + text, nil
	default:
		return "", fmt.Errorf("unknown operation %q", op)
	}
}

// responseText walks the first candidate's parts and concatenates their text.
// A non-empty blocked message means the service declined to generate for
// policy reasons.
func responseText(resp *genai.GenerateContentResponse) (text, blocked string) {
	if resp == nil {
		return "", ""
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		if fb.BlockReasonMessage != "" {
			return "", fb.BlockReasonMessage
		}
		return "", fmt.Sprintf("prompt blocked: %s", fb.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", ""
	}
	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety ||
		cand.FinishReason == genai.FinishReasonProhibitedContent {
		return "", fmt.Sprintf("generation stopped: %s", cand.FinishReason)
	}
	if cand.Content == nil {
		return "", ""
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String(), ""
}

// classify maps transport and protocol failures onto the gateway taxonomy so
// raw SDK errors never propagate to callers.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return gatewayErrf(ErrAuth, "service rejected the API key (HTTP %d)", apiErr.Code)
		case apiErr.Code == 429:
			return gatewayErrf(ErrRateLimit, "API quota exceeded, retry later")
		case apiErr.Code == 400 && mentionsAPIKey(apiErr.Message):
			return gatewayErrf(ErrAuth, "API key not valid")
		default:
			return gatewayErrf(ErrNetwork, "service error (HTTP %d): %s", apiErr.Code, apiErr.Message)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return gatewayErrf(ErrNetwork, "request timed out")
	}

	lower := strings.ToLower(err.Error())
	switch {
	case mentionsAPIKey(lower):
		return gatewayErrf(ErrAuth, "API key not valid")
	case strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "resource_exhausted"):
		return gatewayErrf(ErrRateLimit, "API quota exceeded, retry later")
	default:
		return gatewayErrf(ErrNetwork, "%v", err)
	}
}

func mentionsAPIKey(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "api key")
}
