package chat

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finance-assistant/internal/domain"
	"github.com/dvloznov/finance-assistant/internal/llm"
	"github.com/dvloznov/finance-assistant/internal/store"
)

// fakeAsker records prompts and replies with a fixed answer.
type fakeAsker struct {
	answer  string
	prompts []string
	params  []llm.Params
}

func (f *fakeAsker) Ask(_ context.Context, prompt string, params llm.Params) string {
	f.prompts = append(f.prompts, prompt)
	f.params = append(f.params, params)
	return f.answer
}

func loadedStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New()
	_, err := s.Ingest(context.Background(), store.RawTable{
		Columns: domain.RequiredColumns,
		Rows: [][]string{
			{"2024-01-05", "Coffee Shop", "4.50", "Food"},
			{"2024-01-06", "Coffee Shop", "4.50", "Food"},
			{"2024-02-01", "Rent Co", "1200.00", "Housing"},
			{"2024-02-03", "Grocer", "30.00", "Food"},
		},
	})
	require.NoError(t, err)
	return s
}

func TestService_Answer(t *testing.T) {
	asker := &fakeAsker{answer: "You spent 39.00 on Food."}
	svc := NewService(loadedStore(t), asker)

	reply, err := svc.Answer(context.Background(), "  How much did I spend on food?  ")
	require.NoError(t, err)

	assert.Equal(t, "You spent 39.00 on Food.", reply.Answer)
	require.Len(t, asker.prompts, 1)
	assert.Equal(t, llm.DefaultParams(), asker.params[0])

	prompt := asker.prompts[0]
	assert.Contains(t, prompt, "Question: How much did I spend on food?")
	assert.Contains(t, prompt, `"spending_by_category": {`)
	assert.Contains(t, prompt, `"Housing": 1200.00`)
	assert.Contains(t, prompt, `"fastest_growing_category": {`)

	out, err := json.Marshal(reply)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"answer": "You spent 39.00 on Food.",
		"context_used": {
			"spending_by_category": {"Housing": 1200.00, "Food": 39.00},
			"top_merchants": {"Rent Co": 1200.00, "Grocer": 30.00, "Coffee Shop": 9.00},
			"monthly_totals": {"2024-01": 9.00, "2024-02": 1230.00},
			"fastest_growing_category": {"month": "2024-02", "category": "Food", "growth_pct": 233.33},
			"top_expenses_week": {"Rent Co (2024-02-01)": 1200.00, "Grocer (2024-02-03)": 30.00}
		}
	}`, string(out))
}

func TestService_AnswerSanitizesMarkup(t *testing.T) {
	asker := &fakeAsker{answer: "ok"}
	svc := NewService(loadedStore(t), asker)

	_, err := svc.Answer(context.Background(), "<script>alert(1)</script><b>Top</b> merchants?")
	require.NoError(t, err)

	require.Len(t, asker.prompts, 1)
	assert.Contains(t, asker.prompts[0], "Question: Top merchants?")
	assert.NotContains(t, asker.prompts[0], "<b>")
	assert.NotContains(t, asker.prompts[0], "script")
}

func TestService_AnswerKeepsPunctuation(t *testing.T) {
	asker := &fakeAsker{answer: "ok"}

	_, err := NewService(store.New(), asker).Answer(context.Background(), "What's my rent & food spend?")
	require.NoError(t, err)

	require.Len(t, asker.prompts, 1)
	assert.Contains(t, asker.prompts[0], "Question: What's my rent & food spend?")
}

func TestService_AnswerEmptyQuestion(t *testing.T) {
	tests := []struct {
		name     string
		question string
	}{
		{"blank", ""},
		{"whitespace", "   \n\t"},
		{"only markup", "<p> </p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asker := &fakeAsker{}
			_, err := NewService(store.New(), asker).Answer(context.Background(), tt.question)

			assert.ErrorIs(t, err, ErrEmptyQuestion)
			assert.Empty(t, asker.prompts)
		})
	}
}

func TestService_AnswerWithoutData(t *testing.T) {
	asker := &fakeAsker{answer: "No data yet."}

	reply, err := NewService(store.New(), asker).Answer(context.Background(), "anything?")
	require.NoError(t, err)

	assert.Equal(t, "No data yet.", reply.Answer)
	out, err := json.Marshal(reply.ContextUsed)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"spending_by_category": {},
		"top_merchants": {},
		"monthly_totals": {},
		"fastest_growing_category": {},
		"top_expenses_week": {}
	}`, string(out))
}

func TestBuildContext_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildContext(ctx, loadedStore(t).Current())
	assert.ErrorIs(t, err, context.Canceled)
}
