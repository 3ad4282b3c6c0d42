package services

import (
	"fmt"
	"strings"

	"github.com/Lllllllleong/processdocumentflow/internal/models"
)

// PromptSeparator is written between consecutive document blocks.
const PromptSeparator = "---\n"

// UnknownType labels a document whose type the API did not report.
const UnknownType = "Desconhecido"

// AssemblePrompt concatenates document texts in order, each block headed by its 1-based
// index and type. An empty slice yields "".
func AssemblePrompt(docs []models.Document) string {
	blocks := make([]string, 0, len(docs))
	for i, doc := range docs {
		docType := doc.Type
		if docType == "" {
			docType = UnknownType
		}
		blocks = append(blocks, fmt.Sprintf("Documento %d (%s):\n%s\n\n", i+1, docType, doc.Text))
	}
	return strings.Join(blocks, PromptSeparator)
}
