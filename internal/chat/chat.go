package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/finance-assistant/internal/llm"
	"github.com/dvloznov/finance-assistant/internal/logger"
	"github.com/dvloznov/finance-assistant/internal/metrics"
	"github.com/dvloznov/finance-assistant/internal/store"
)

// Number of entries included in the chat context.
const (
	contextTopMerchants = 5
	contextTopExpenses  = 3
)

// ErrEmptyQuestion is returned when the question is blank after sanitizing.
var ErrEmptyQuestion = errors.New("question is empty")

// Asker is the generative client the service answers through.
type Asker interface {
	Ask(ctx context.Context, prompt string, params llm.Params) string
}

// Context is the data summary handed to the model with the question.
type Context struct {
	SpendingByCategory     metrics.Breakdown `json:"spending_by_category"`
	TopMerchants           metrics.Breakdown `json:"top_merchants"`
	MonthlyTotals          metrics.Breakdown `json:"monthly_totals"`
	FastestGrowingCategory metrics.Growth    `json:"fastest_growing_category"`
	TopExpensesWeek        metrics.Breakdown `json:"top_expenses_week"`
}

// Reply is the answer together with the summary it was grounded on.
type Reply struct {
	Answer      string  `json:"answer"`
	ContextUsed Context `json:"context_used"`
}

// Service answers questions about the current dataset.
type Service struct {
	source   metrics.SnapshotSource
	asker    Asker
	params   llm.Params
	sanitize *bluemonday.Policy
}

// NewService creates a chat service reading snapshots from source.
func NewService(source metrics.SnapshotSource, asker Asker) *Service {
	return &Service{
		source:   source,
		asker:    asker,
		params:   llm.DefaultParams(),
		sanitize: bluemonday.StrictPolicy(),
	}
}

// Answer strips markup from the question, builds the data summary from one
// snapshot and asks the model.
func (s *Service) Answer(ctx context.Context, question string) (Reply, error) {
	question = strings.TrimSpace(html.UnescapeString(s.sanitize.Sanitize(question)))
	if question == "" {
		return Reply{}, ErrEmptyQuestion
	}

	summary, err := BuildContext(ctx, s.source.Current())
	if err != nil {
		return Reply{}, fmt.Errorf("Answer: build context: %w", err)
	}

	prompt, err := instruction(question, summary)
	if err != nil {
		return Reply{}, fmt.Errorf("Answer: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Debug().
		Int("question_len", len(question)).
		Int("categories", len(summary.SpendingByCategory)).
		Msg("Asking LLM")

	return Reply{
		Answer:      s.asker.Ask(ctx, prompt, s.params),
		ContextUsed: summary,
	}, nil
}

// BuildContext computes every summary field from the same snapshot.
func BuildContext(ctx context.Context, snap store.Snapshot) (Context, error) {
	var c Context
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.SpendingByCategory = metrics.SpendByCategory(snap)
		return nil
	})
	g.Go(func() error {
		c.TopMerchants = metrics.TopMerchants(snap, contextTopMerchants)
		return nil
	})
	g.Go(func() error {
		c.MonthlyTotals = metrics.MonthlyTotals(snap)
		return nil
	})
	g.Go(func() error {
		c.FastestGrowingCategory = metrics.FastestGrowingCategory(snap)
		return nil
	})
	g.Go(func() error {
		c.TopExpensesWeek = metrics.LatestWeekTopExpenses(snap, contextTopExpenses)
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return Context{}, err
	}
	return c, nil
}

func instruction(question string, summary Context) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode context: %w", err)
	}
	return "You are a personal finance assistant.\n" +
		"Use the following transaction summary (JSON) to answer the user's question.\n\n" +
		"Transaction Summary:\n" + string(data) + "\n\n" +
		"Question: " + question + "\n\n" +
		"Answer clearly, using the numbers from the data only.", nil
}
