package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestInvoke_EmptyCredentialFailsFast(t *testing.T) {
	c := NewClient("", 0)

	for _, credential := range []string{"", "   ", "\t\n"} {
		_, err := c.Invoke(context.Background(), OperationSummarize, "some text", credential)
		require.ErrorIs(t, err, ErrAuth)
	}
}

func TestInvoke_UnknownOperation(t *testing.T) {
	c := NewClient("", 0)

	_, err := c.Invoke(context.Background(), Operation("translate"), "text", "key")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrAuth)
}

func TestBuildPrompt_Templates(t *testing.T) {
	p, err := BuildPrompt(OperationSummarize, "document body")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(p, SummaryPrompt))
	require.True(t, strings.HasSuffix(p, "document body"))

	p, err = BuildPrompt(OperationKeyPoints, "document body")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(p, KeyPointsPrompt))
}

func TestBuildPrompt_CapsDocumentText(t *testing.T) {
	long := strings.Repeat("a", promptTextCap+5000)

	p, err := BuildPrompt(OperationSummarize, long)
	require.NoError(t, err)
	require.Len(t, p, len(SummaryPrompt)+promptTextCap)
}

func TestClassify_APIErrorCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"unauthorized", genai.APIError{Code: 401, Message: "unauthorized"}, ErrAuth},
		{"forbidden", genai.APIError{Code: 403, Message: "forbidden"}, ErrAuth},
		{"bad api key", genai.APIError{Code: 400, Message: "API key not valid. Please pass a valid API key."}, ErrAuth},
		{"quota", genai.APIError{Code: 429, Message: "Resource has been exhausted"}, ErrRateLimit},
		{"server error", genai.APIError{Code: 500, Message: "internal"}, ErrNetwork},
		{"bad request", genai.APIError{Code: 400, Message: "invalid argument"}, ErrNetwork},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, classify(tc.err), tc.want)
		})
	}
}

func TestClassify_PlainErrors(t *testing.T) {
	require.ErrorIs(t, classify(errors.New("API key expired")), ErrAuth)
	require.ErrorIs(t, classify(errors.New("quota exceeded for this project")), ErrRateLimit)
	require.ErrorIs(t, classify(errors.New("RESOURCE_EXHAUSTED: slow down")), ErrRateLimit)
	require.ErrorIs(t, classify(errors.New("connection reset by peer")), ErrNetwork)
	require.ErrorIs(t, classify(fmt.Errorf("call failed: %w", context.DeadlineExceeded)), ErrNetwork)
}

func TestResponseText_ConcatenatesParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Hello "},
				{Text: "world."},
			}},
		}},
	}

	text, blocked := responseText(resp)
	require.Empty(t, blocked)
	require.Equal(t, "Hello world.", text)
}

func TestResponseText_PromptBlocked(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
			BlockReason: genai.BlockedReasonSafety,
		},
	}

	text, blocked := responseText(resp)
	require.Empty(t, text)
	require.NotEmpty(t, blocked)
}

func TestResponseText_SafetyFinish(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonSafety,
		}},
	}

	text, blocked := responseText(resp)
	require.Empty(t, text)
	require.NotEmpty(t, blocked)
}

func TestResponseText_EmptyResponse(t *testing.T) {
	text, blocked := responseText(nil)
	require.Empty(t, text)
	require.Empty(t, blocked)

	text, blocked = responseText(&genai.GenerateContentResponse{})
	require.Empty(t, text)
	require.Empty(t, blocked)
}

func TestGatewayError_MessageOmitsNothingUseful(t *testing.T) {
	err := gatewayErrf(ErrRateLimit, "API quota exceeded, retry later")
	require.ErrorIs(t, err, ErrRateLimit)
	require.Contains(t, err.Error(), "quota")

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	require.Equal(t, ErrRateLimit, gwErr.Kind)
}
