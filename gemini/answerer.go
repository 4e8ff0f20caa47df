// Package gemini answers questions against the knowledge base using Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/docprimer"
	"google.golang.org/genai"
)

// Ensure Answerer implements docprimer.Answerer at compile time.
var _ docprimer.Answerer = (*Answerer)(nil)

// NoDocumentsAnswer is returned without calling the model when retrieval
// finds nothing and no extra context was supplied.
const NoDocumentsAnswer = "The documents provided do not contain information about this question."

// Answerer implements docprimer.Answerer using Google Gemini.
type Answerer struct {
	client       *genai.Client
	docs         docprimer.Retriever
	model        string
	systemPrompt string
	limit        int
}

// Option configures an Answerer.
type Option func(*Answerer)

// WithModel sets the Gemini model name.
func WithModel(model string) Option {
	return func(a *Answerer) {
		if model != "" {
			a.model = model
		}
	}
}

// WithSystemPrompt sets the system instruction sent with every request.
func WithSystemPrompt(prompt string) Option {
	return func(a *Answerer) {
		if prompt != "" {
			a.systemPrompt = prompt
		}
	}
}

// WithRetrieveLimit sets how many index documents are put in the prompt.
func WithRetrieveLimit(n int) Option {
	return func(a *Answerer) {
		if n > 0 {
			a.limit = n
		}
	}
}

// NewAnswerer creates a new Answerer.
func NewAnswerer(client *genai.Client, docs docprimer.Retriever, opts ...Option) *Answerer {
	a := &Answerer{
		client:       client,
		docs:         docs,
		model:        docprimer.DefaultModel,
		systemPrompt: docprimer.DefaultSystemPrompt,
		limit:        docprimer.DefaultRetrieve,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Answer retrieves the documents most relevant to query and asks the model
// to answer from them. extraContext is appended to the question.
func (a *Answerer) Answer(ctx context.Context, query, extraContext string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", docprimer.Errorf(docprimer.EINVALID, "question required")
	}

	docs, err := a.docs.Retrieve(ctx, query, a.limit)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 && extraContext == "" {
		return NoDocumentsAnswer, nil
	}
	if a.client == nil {
		return "", docprimer.Errorf(docprimer.EINTERNAL, "gemini client not configured")
	}

	prompt := BuildUserPrompt(docs, docprimer.ContextualQuestion(query, extraContext))
	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(a.systemPrompt),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", docprimer.Errorf(docprimer.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(systemPrompt string) *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing documentation and question.
func BuildUserPrompt(docs []*docprimer.Document, question string) string {
	var sb strings.Builder
	sb.WriteString("<documents>\n")
	if len(docs) > 0 {
		sb.WriteString(docprimer.FormatDocuments(docs))
		sb.WriteString("\n")
	}
	sb.WriteString("</documents>\n\n")
	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}
