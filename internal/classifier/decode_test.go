package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVerdictDirectObject(t *testing.T) {
	raw := `{"violates_policy":true,"violation_types":["harassment"],"severity":"high","confidence":0.92,"explanation":"targeted insults","recommended_action":"hide"}`

	v, err := DecodeVerdict(raw)
	require.NoError(t, err)
	assert.True(t, v.ViolatesPolicy)
	assert.Equal(t, []string{"harassment"}, v.ViolationTypes)
	assert.Equal(t, SeverityHigh, v.Severity)
	assert.InDelta(t, 0.92, v.Confidence, 0.001)
	assert.Equal(t, ActionHide, v.RecommendedAction)
}

func TestDecodeVerdictFencedJSON(t *testing.T) {
	raw := "```json\n{\"violates_policy\":false,\"violation_types\":[],\"severity\":\"low\",\"confidence\":0.8,\"explanation\":\"fine\",\"recommended_action\":\"allow\"}\n```"

	v, err := DecodeVerdict(raw)
	require.NoError(t, err)
	assert.False(t, v.ViolatesPolicy)
	assert.Equal(t, ActionAllow, v.RecommendedAction)
}

func TestDecodeVerdictBareFences(t *testing.T) {
	raw := "```\n{\"violates_policy\":true,\"recommended_action\":\"remove\",\"explanation\":\"spam\",\"confidence\":1}\n```"

	v, err := DecodeVerdict(raw)
	require.NoError(t, err)
	assert.Equal(t, ActionRemove, v.RecommendedAction)
}

func TestDecodeVerdictEmbeddedInProse(t *testing.T) {
	raw := `Sure! Here is my analysis of the content:
{"violates_policy": true, "violation_types": ["spam"], "severity": "medium", "confidence": 0.7, "explanation": "repeated promotional links", "recommended_action": "flag"}
Let me know if you need anything else.`

	v, err := DecodeVerdict(raw)
	require.NoError(t, err)
	assert.True(t, v.ViolatesPolicy)
	assert.Equal(t, ActionFlag, v.RecommendedAction)
}

func TestDecodeVerdictWrapperWithList(t *testing.T) {
	raw := `{"results":[{"violates_policy":true,"violation_types":["hate_speech"],"severity":"critical","confidence":0.99,"explanation":"slurs","recommended_action":"remove"}],"model":"x"}`

	v, err := DecodeVerdict(raw)
	require.NoError(t, err)
	assert.True(t, v.ViolatesPolicy)
	assert.Equal(t, ActionRemove, v.RecommendedAction)
	assert.Equal(t, SeverityCritical, v.Severity)
}

func TestDecodeVerdictWrapperWithObject(t *testing.T) {
	raw := `{"analysis":{"violates_policy":false,"violation_types":[],"severity":"low","confidence":0.6,"explanation":"ok","recommended_action":"allow"}}`

	v, err := DecodeVerdict(raw)
	require.NoError(t, err)
	assert.False(t, v.ViolatesPolicy)
}

func TestDecodeVerdictGarbage(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"I am not able to help with that.",
		"{]{]",
		"[1,2,3]",
		`{"temperature": 0.7, "tokens": 42}`,
	} {
		_, err := DecodeVerdict(raw)
		assert.Error(t, err, "input %q should not decode", raw)
	}
}

func TestDecodeVerdictNormalization(t *testing.T) {
	raw := `{"violates_policy":true,"violation_types":null,"severity":"EXTREME","confidence":3.5,"explanation":"x","recommended_action":"NUKE IT"}`

	v, err := DecodeVerdict(raw)
	require.NoError(t, err)
	// unknown action on a violating verdict degrades to flag, never remove
	assert.Equal(t, ActionFlag, v.RecommendedAction)
	assert.Equal(t, SeverityLow, v.Severity)
	assert.Equal(t, 1.0, v.Confidence)
	assert.NotNil(t, v.ViolationTypes)
}

func TestSafeDefaultNeverRemoves(t *testing.T) {
	v := SafeDefault()
	assert.False(t, v.ViolatesPolicy)
	assert.Equal(t, ActionAllow, v.RecommendedAction)
	assert.Zero(t, v.Confidence)
	assert.Equal(t, "automatic review unavailable", v.Explanation)
}
