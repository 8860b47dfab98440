package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	glmURL      = "https://glm.test/chat/completions"
	deepseekURL = "https://deepseek.test/chat/completions"
)

func testConfig() *config.Config {
	return &config.Config{
		GLMAPIKey:      "glm-key",
		GLMAPIURL:      glmURL,
		GLMModel:       "glm-4-flash",
		DeepSeekAPIKey: "ds-key",
		DeepSeekAPIURL: deepseekURL,
		DeepSeekModel:  "deepseek-chat",
		AITimeout:      2 * time.Second,
	}
}

func completionBody(t *testing.T, content string) string {
	t.Helper()
	b, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	require.NoError(t, err)
	return string(b)
}

func newMockedClient(t *testing.T, cfg *config.Config) *Client {
	t.Helper()
	c := NewClient(cfg)
	httpmock.ActivateNonDefault(c.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestClassifySuccess(t *testing.T) {
	c := newMockedClient(t, testConfig())

	verdict := `{"violates_policy":true,"violation_types":["harassment"],"severity":"high","confidence":0.9,"explanation":"abusive","recommended_action":"hide"}`
	httpmock.RegisterResponder(http.MethodPost, glmURL,
		httpmock.NewStringResponder(200, completionBody(t, verdict)))

	v := c.Classify(context.Background(), "you are awful", "", "en")
	assert.True(t, v.ViolatesPolicy)
	assert.Equal(t, ActionHide, v.RecommendedAction)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestClassifyFallsBackToNextProvider(t *testing.T) {
	c := newMockedClient(t, testConfig())

	httpmock.RegisterResponder(http.MethodPost, glmURL,
		httpmock.NewStringResponder(500, "upstream exploded"))
	verdict := `{"violates_policy":false,"violation_types":[],"severity":"low","confidence":0.8,"explanation":"ok","recommended_action":"allow"}`
	httpmock.RegisterResponder(http.MethodPost, deepseekURL,
		httpmock.NewStringResponder(200, completionBody(t, verdict)))

	v := c.Classify(context.Background(), "hello world", "", "en")
	assert.False(t, v.ViolatesPolicy)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestClassifyAllProvidersFailYieldsSafeDefault(t *testing.T) {
	c := newMockedClient(t, testConfig())

	httpmock.RegisterResponder(http.MethodPost, glmURL,
		httpmock.NewErrorResponder(context.DeadlineExceeded))
	httpmock.RegisterResponder(http.MethodPost, deepseekURL,
		httpmock.NewStringResponder(503, "unavailable"))

	v := c.Classify(context.Background(), "anything", "", "en")
	assert.Equal(t, SafeDefault(), v)
}

func TestClassifyUnparseableOutputYieldsSafeDefault(t *testing.T) {
	c := newMockedClient(t, testConfig())

	httpmock.RegisterResponder(http.MethodPost, glmURL,
		httpmock.NewStringResponder(200, completionBody(t, "I'd rather talk about the weather.")))
	httpmock.RegisterResponder(http.MethodPost, deepseekURL,
		httpmock.NewStringResponder(200, `{"choices":[]}`))

	v := c.Classify(context.Background(), "anything", "", "en")
	assert.Equal(t, SafeDefault(), v)
}

func TestClassifyNoProvidersConfigured(t *testing.T) {
	c := NewClient(&config.Config{AITimeout: time.Second})

	v := c.Classify(context.Background(), "anything", "", "en")
	assert.Equal(t, SafeDefault(), v)
}

func TestClassifyThreadsReasonAndLanguageIntoPrompt(t *testing.T) {
	c := newMockedClient(t, testConfig())

	var captured chatRequest
	verdict := `{"violates_policy":false,"violation_types":[],"severity":"low","confidence":1,"explanation":"ok","recommended_action":"allow"}`
	httpmock.RegisterResponder(http.MethodPost, glmURL,
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&captured); err != nil {
				return nil, err
			}
			return httpmock.NewStringResponse(200, completionBody(t, verdict)), nil
		})

	c.Classify(context.Background(), "some post body", "harassment", "hi")

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	user := captured.Messages[1].Content
	assert.Contains(t, user, "some post body")
	assert.Contains(t, user, "harassment")
	assert.Contains(t, user, "hi")
}

func TestClassifyHonorsCanceledContext(t *testing.T) {
	c := newMockedClient(t, testConfig())

	httpmock.RegisterResponder(http.MethodPost, glmURL,
		httpmock.NewErrorResponder(context.Canceled))
	httpmock.RegisterResponder(http.MethodPost, deepseekURL,
		httpmock.NewStringResponder(200, completionBody(t, `{"violates_policy":true,"recommended_action":"remove"}`)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// canceled caller context stops the provider chain; no verdict is invented
	v := c.Classify(ctx, "anything", "", "en")
	assert.Equal(t, SafeDefault(), v)
}
