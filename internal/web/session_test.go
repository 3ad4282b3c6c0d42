package web

import (
	"testing"

	"github.com/Lllllllleong/processdocumentflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDocuments(t *testing.T) {
	assert.Equal(t, MsgNoDocuments, ValidateDocuments(nil))
	assert.Equal(t, MsgInvalidText, ValidateDocuments([]models.Document{{Text: "a"}, {Text: "  "}}))
	assert.Empty(t, ValidateDocuments([]models.Document{{Text: "a"}}))
}

func TestSession_HappyPath(t *testing.T) {
	s := &Session{}
	require.NoError(t, s.StartLoading())
	assert.Equal(t, LoadingDocuments, s.State)
	assert.False(t, s.CanSendToLLM())

	require.NoError(t, s.DocumentsLoaded([]models.Document{{ID: "1", Text: "a"}}, "prompt"))
	assert.Equal(t, DocumentsLoaded, s.State)
	assert.True(t, s.CanSendToLLM())

	require.NoError(t, s.StartLLM())
	assert.Equal(t, LoadingLLM, s.State)
	assert.False(t, s.CanSendToLLM())

	require.NoError(t, s.LLMResponded(""))
	assert.Equal(t, LLMResponded, s.State)
	assert.Equal(t, MsgProcessingDone, s.GrokResponse)
}

func TestSession_ValidationGateBlocksLLM(t *testing.T) {
	s := &Session{}
	require.NoError(t, s.StartLoading())
	require.NoError(t, s.DocumentsLoaded([]models.Document{{ID: "1", Text: ""}}, "p"))
	assert.Equal(t, MsgInvalidText, s.ValidationError)
	assert.False(t, s.CanSendToLLM())

	assert.ErrorIs(t, s.StartLLM(), ErrValidation)
	assert.Equal(t, DocumentsLoaded, s.State)
}

func TestSession_InvalidTransitions(t *testing.T) {
	s := &Session{}
	assert.ErrorIs(t, s.StartLLM(), ErrInvalidTransition)
	assert.ErrorIs(t, s.DocumentsLoaded(nil, ""), ErrInvalidTransition)
	assert.ErrorIs(t, s.LLMResponded("x"), ErrInvalidTransition)
	assert.ErrorIs(t, s.Fail("x"), ErrInvalidTransition)

	require.NoError(t, s.StartLoading())
	assert.ErrorIs(t, s.StartLoading(), ErrInvalidTransition)
}

func TestSession_FailureKeepsDocuments(t *testing.T) {
	s := &Session{}
	require.NoError(t, s.StartLoading())
	require.NoError(t, s.DocumentsLoaded([]models.Document{{ID: "1", Text: "a"}}, "p"))
	require.NoError(t, s.StartLLM())
	require.NoError(t, s.Fail(MsgLLMError))

	assert.Equal(t, Failed, s.State)
	assert.Len(t, s.Documents, 1)
	assert.True(t, s.CanSendToLLM())
}

func TestParseState(t *testing.T) {
	for _, st := range []State{Idle, LoadingDocuments, DocumentsLoaded, LoadingLLM, LLMResponded, Failed} {
		assert.Equal(t, st, ParseState(st.String()))
	}
	assert.Equal(t, Idle, ParseState("bogus"))
}
