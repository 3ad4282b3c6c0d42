package services

import (
	"testing"

	"github.com/Lllllllleong/processdocumentflow/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAssemblePrompt(t *testing.T) {
	docs := []models.Document{{Text: "A"}, {Text: "B"}}
	assert.Equal(t, "Documento 1 (Desconhecido):\nA\n\n---\nDocumento 2 (Desconhecido):\nB\n\n", AssemblePrompt(docs))
}

func TestAssemblePrompt_WithTypes(t *testing.T) {
	docs := []models.Document{
		{ID: "1", Type: "Apelação", Text: "razões"},
	}
	assert.Equal(t, "Documento 1 (Apelação):\nrazões\n\n", AssemblePrompt(docs))
}

func TestAssemblePrompt_Empty(t *testing.T) {
	assert.Equal(t, "", AssemblePrompt(nil))
	assert.Equal(t, "", AssemblePrompt([]models.Document{}))
}
