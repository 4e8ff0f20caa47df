package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docprimer"
	"github.com/fwojciec/docprimer/augment"
	"github.com/fwojciec/docprimer/gemini"
	"github.com/fwojciec/docprimer/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerer_Answer(t *testing.T) {
	t.Parallel()

	t.Run("reports a miss without calling the model when nothing is retrieved", func(t *testing.T) {
		t.Parallel()

		docs := &mock.Retriever{
			RetrieveFn: func(context.Context, string, int) ([]*docprimer.Document, error) {
				return nil, nil
			},
		}

		answer, err := gemini.NewAnswerer(nil, docs).Answer(context.Background(), "what is this?", "")

		require.NoError(t, err)
		assert.Equal(t, gemini.NoDocumentsAnswer, answer)
		assert.True(t, augment.NewPhraseDetector().IndicatesMiss(answer))
	})

	t.Run("passes query and retrieve limit to the retriever", func(t *testing.T) {
		t.Parallel()

		var gotQuery string
		var gotLimit int
		docs := &mock.Retriever{
			RetrieveFn: func(_ context.Context, query string, limit int) ([]*docprimer.Document, error) {
				gotQuery, gotLimit = query, limit
				return nil, nil
			},
		}

		_, err := gemini.NewAnswerer(nil, docs, gemini.WithRetrieveLimit(3)).
			Answer(context.Background(), "deploy?", "")

		require.NoError(t, err)
		assert.Equal(t, "deploy?", gotQuery)
		assert.Equal(t, 3, gotLimit)
	})

	t.Run("propagates retriever error", func(t *testing.T) {
		t.Parallel()

		expectedErr := docprimer.Errorf(docprimer.EINTERNAL, "database error")
		docs := &mock.Retriever{
			RetrieveFn: func(context.Context, string, int) ([]*docprimer.Document, error) {
				return nil, expectedErr
			},
		}

		_, err := gemini.NewAnswerer(nil, docs).Answer(context.Background(), "what is this?", "")

		require.Error(t, err)
		assert.Equal(t, docprimer.EINTERNAL, docprimer.ErrorCode(err))
		assert.Contains(t, docprimer.ErrorMessage(err), "database error")
	})

	t.Run("returns error when question empty", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewAnswerer(nil, nil).Answer(context.Background(), "  ", "")

		require.Error(t, err)
		assert.Equal(t, docprimer.EINVALID, docprimer.ErrorCode(err))
		assert.Contains(t, docprimer.ErrorMessage(err), "question required")
	})

	t.Run("returns error when extra context needs a model and none is configured", func(t *testing.T) {
		t.Parallel()

		docs := &mock.Retriever{
			RetrieveFn: func(context.Context, string, int) ([]*docprimer.Document, error) {
				return nil, nil
			},
		}

		_, err := gemini.NewAnswerer(nil, docs).Answer(context.Background(), "q", "live context")

		assert.Equal(t, docprimer.EINTERNAL, docprimer.ErrorCode(err))
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig(docprimer.DefaultSystemPrompt)

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Equal(t, docprimer.DefaultSystemPrompt, config.SystemInstruction.Parts[0].Text)
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.4, *config.Temperature, 0.001)
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	t.Run("contains documents and question", func(t *testing.T) {
		t.Parallel()

		docs := []*docprimer.Document{
			{Path: "start.md", SourceURL: "https://docs.example.com/start", Content: "HTMX is a library."},
		}

		prompt := gemini.BuildUserPrompt(docs, "What is HTMX?")

		assert.Contains(t, prompt, "<documents>")
		assert.Contains(t, prompt, "## Document: https://docs.example.com/start")
		assert.Contains(t, prompt, "HTMX is a library.")
		assert.Contains(t, prompt, "</documents>")
		assert.Contains(t, prompt, "Question: What is HTMX?")
	})

	t.Run("carries live context in the question", func(t *testing.T) {
		t.Parallel()

		prompt := gemini.BuildUserPrompt(nil, docprimer.ContextualQuestion("How?", "Use the flag."))

		assert.Contains(t, prompt, "Question: How?\nRelevant Context: Use the flag.")
	})

	t.Run("does not contain system instruction", func(t *testing.T) {
		t.Parallel()

		prompt := gemini.BuildUserPrompt([]*docprimer.Document{{Path: "a.md", Content: "x"}}, "question")

		assert.NotContains(t, prompt, docprimer.DefaultSystemPrompt)
	})
}
