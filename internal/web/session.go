// Package web renders the process lookup form and drives its per-session state machine.
// The state travels with the page in hidden fields, so nothing is shared between users.
package web

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Lllllllleong/processdocumentflow/internal/models"
)

// State is the position of a session in the lookup flow.
type State int

const (
	Idle State = iota
	LoadingDocuments
	DocumentsLoaded
	LoadingLLM
	LLMResponded
	Failed
)

var stateNames = map[State]string{
	Idle:             "idle",
	LoadingDocuments: "loading-documents",
	DocumentsLoaded:  "documents-loaded",
	LoadingLLM:       "loading-llm",
	LLMResponded:     "llm-responded",
	Failed:           "error",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState is the inverse of String. Unknown names map to Idle.
func ParseState(name string) State {
	for s, n := range stateNames {
		if n == name {
			return s
		}
	}
	return Idle
}

// User-facing messages.
const (
	MsgNoDocuments    = "Nenhum documento encontrado para o número do processo fornecido."
	MsgInvalidText    = "Um ou mais documentos não possuem texto válido."
	MsgDocumentsError = "Erro ao processar a solicitação."
	MsgLLMError       = "Erro ao processar a solicitação no Grok."
	MsgProcessingDone = "Processamento concluído."
)

var (
	// ErrInvalidTransition is returned when an action is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrValidation is returned by StartLLM when the documents fail the validation gate.
	ErrValidation = errors.New("documents failed validation")
)

// ValidateDocuments returns a warning when there are no documents or any has blank text,
// and "" when the documents may be sent to the model.
func ValidateDocuments(docs []models.Document) string {
	if len(docs) == 0 {
		return MsgNoDocuments
	}
	for _, d := range docs {
		if strings.TrimSpace(d.Text) == "" {
			return MsgInvalidText
		}
	}
	return ""
}

// Session is everything the page shows for one user.
type Session struct {
	State         State
	ProcessNumber string
	RequestType   string

	Documents    []models.Document
	GrokText     string
	GrokResponse string

	Error           string
	ValidationError string
}

func (s *Session) transitionError(action string) error {
	return fmt.Errorf("%w: cannot %s from state %s", ErrInvalidTransition, action, s.State)
}

// StartLoading begins a document lookup and clears the previous results.
func (s *Session) StartLoading() error {
	if s.State == LoadingDocuments || s.State == LoadingLLM {
		return s.transitionError("load documents")
	}
	s.State = LoadingDocuments
	s.Documents = nil
	s.GrokText = ""
	s.GrokResponse = ""
	s.Error = ""
	s.ValidationError = ""
	return nil
}

// DocumentsLoaded records the lookup result and runs the validation gate.
func (s *Session) DocumentsLoaded(docs []models.Document, grokText string) error {
	if s.State != LoadingDocuments {
		return s.transitionError("finish loading documents")
	}
	s.State = DocumentsLoaded
	s.Documents = docs
	s.GrokText = grokText
	s.ValidationError = ValidateDocuments(docs)
	return nil
}

// Fail ends a loading state with an error message. Documents already loaded stay visible.
func (s *Session) Fail(msg string) error {
	if s.State != LoadingDocuments && s.State != LoadingLLM {
		return s.transitionError("fail")
	}
	s.State = Failed
	s.Error = msg
	return nil
}

// StartLLM begins the model call if the documents pass the validation gate.
func (s *Session) StartLLM() error {
	switch s.State {
	case DocumentsLoaded, LLMResponded, Failed:
	default:
		return s.transitionError("send to LLM")
	}
	if len(s.Documents) == 0 && s.State == Failed {
		return s.transitionError("send to LLM")
	}
	s.Error = ""
	s.GrokResponse = ""
	if msg := ValidateDocuments(s.Documents); msg != "" {
		s.ValidationError = msg
		return ErrValidation
	}
	s.ValidationError = ""
	s.State = LoadingLLM
	return nil
}

// LLMResponded records the model's answer.
func (s *Session) LLMResponded(answer string) error {
	if s.State != LoadingLLM {
		return s.transitionError("finish LLM call")
	}
	if answer == "" {
		answer = MsgProcessingDone
	}
	s.State = LLMResponded
	s.GrokResponse = answer
	return nil
}

// CanSendToLLM reports whether the "send to LLM" action is enabled.
func (s *Session) CanSendToLLM() bool {
	switch s.State {
	case DocumentsLoaded, LLMResponded, Failed:
		return len(s.Documents) > 0 && s.ValidationError == ""
	}
	return false
}
