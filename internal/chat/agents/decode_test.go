package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedcraft/server/internal/chat/model"
)

func TestDecodeJSONValid(t *testing.T) {
	out, err := decodeJSON[intentWire]("intent", `{"type":"ASK_POST","confidence":0.92,"reasoning":"question about article"}`)
	require.NoError(t, err)
	assert.Equal(t, "ASK_POST", out.Type)
	assert.InDelta(t, 0.92, out.Confidence, 1e-9)
}

func TestDecodeJSONStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"type\":\"GENERAL\",\"confidence\":0.5,\"reasoning\":\"chit chat\"}\n```"
	out, err := decodeJSON[intentWire]("intent", raw)
	require.NoError(t, err)
	assert.Equal(t, "GENERAL", out.Type)
}

func TestDecodeJSONRepairsBrokenOutput(t *testing.T) {
	// single quotes and unquoted keys, the usual model sloppiness
	raw := `{type: 'REQ_SOCIAL_POST', confidence: 0.8, reasoning: 'wants a post'}`
	out, err := decodeJSON[intentWire]("intent", raw)
	require.NoError(t, err)
	assert.Equal(t, "REQ_SOCIAL_POST", out.Type)
}

func TestDecodeJSONRejectsUnknownEnum(t *testing.T) {
	_, err := decodeJSON[intentWire]("intent", `{"type":"MAKE_COFFEE","confidence":0.9,"reasoning":"?"}`)
	var serr *SchemaValidationError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "intent", serr.Agent)
}

func TestDecodeJSONRejectsConfidenceOutOfRange(t *testing.T) {
	_, err := decodeJSON[intentWire]("intent", `{"type":"GENERAL","confidence":1.7,"reasoning":"?"}`)
	var serr *SchemaValidationError
	require.ErrorAs(t, err, &serr)
}

func TestDecodeJSONRejectsEmptyOutput(t *testing.T) {
	_, err := decodeJSON[intentWire]("intent", "   ")
	var serr *SchemaValidationError
	require.ErrorAs(t, err, &serr)
}

func TestSocialIntentWireValidation(t *testing.T) {
	_, err := decodeJSON[socialIntentWire]("social_intent", `{"action":"DELETE","confidence":0.4,"reasoning":"?"}`)
	var serr *SchemaValidationError
	require.ErrorAs(t, err, &serr)

	out, err := decodeJSON[socialIntentWire]("social_intent", `{"action":"EDIT","confidence":0.4,"reasoning":"change request"}`)
	require.NoError(t, err)
	assert.Equal(t, string(model.SocialActionEdit), out.Action)
}

func TestPlatformWireValidation(t *testing.T) {
	// unknown platform rejected
	_, err := decodeJSON[platformWire]("platform", `{"platform":"myspace","confidence":0.9,"needs_clarification":false}`)
	var serr *SchemaValidationError
	require.ErrorAs(t, err, &serr)

	// no platform and no clarification is contradictory
	_, err = decodeJSON[platformWire]("platform", `{"platform":"","confidence":0.9,"needs_clarification":false}`)
	require.ErrorAs(t, err, &serr)

	// empty platform is fine when clarification is requested
	out, err := decodeJSON[platformWire]("platform", `{"platform":"","confidence":0.3,"needs_clarification":true,"message":"Which platform?","suggested_options":["twitter","linkedin"]}`)
	require.NoError(t, err)
	assert.True(t, out.NeedsClarification)
	assert.Len(t, out.SuggestedOptions, 2)
}

func TestGenerationWireValidation(t *testing.T) {
	_, err := decodeJSON[generationWire]("post_creator", `{"message":"here","structured_post":{"post_content":""}}`)
	var serr *SchemaValidationError
	require.ErrorAs(t, err, &serr)

	out, err := decodeJSON[generationWire]("post_creator", `{"message":"draft ready","structured_post":{"post_content":"Big news!","code_examples":["x := 1"]}}`)
	require.NoError(t, err)
	res := out.toResult()
	require.NotNil(t, res.StructuredPost)
	assert.Equal(t, "Big news!", res.StructuredPost.PostContent)
	assert.Equal(t, []string{"x := 1"}, res.StructuredPost.CodeExamples)
}

func TestSelectorWireValidation(t *testing.T) {
	// neither selection nor clarification
	_, err := decodeJSON[selectorWire]("post_selector", `{"selected_post_id":"","confidence":0.5,"reasoning":"?","message":""}`)
	var serr *SchemaValidationError
	require.ErrorAs(t, err, &serr)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}
