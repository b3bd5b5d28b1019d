package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianshen/stacklens/internal/catalog"
)

// ErrAborted is returned when the user cancels the quiz.
var ErrAborted = errors.New("quiz aborted")

// Runner asks the questions interactively with huh selects.
type Runner struct {
	accessible bool
	ask        func(ctx context.Context, f *huh.Form) error
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithAccessible switches huh to its line-based accessible mode, used when
// stdin is not a terminal.
func WithAccessible(on bool) RunnerOption {
	return func(r *Runner) { r.accessible = on }
}

// WithAsk replaces the function that runs the form.
func WithAsk(fn func(ctx context.Context, f *huh.Form) error) RunnerOption {
	return func(r *Runner) { r.ask = fn }
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{ask: func(ctx context.Context, f *huh.Form) error { return f.RunWithContext(ctx) }}
	for _, o := range opts {
		o(r)
	}
	return r
}

// NewForm builds one group per question, binding each select to answers[i].
func NewForm(questions []catalog.Question, answers []int) *huh.Form {
	groups := make([]*huh.Group, 0, len(questions))
	for i, q := range questions {
		opts := make([]huh.Option[int], 0, len(q.Choices))
		for j, c := range q.Choices {
			opts = append(opts, huh.NewOption(c, j))
		}
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[int]().
				Title(fmt.Sprintf("%d/%d  %s", i+1, len(questions), q.Prompt)).
				Description(q.Tech).
				Options(opts...).
				Value(&answers[i]),
		))
	}
	return huh.NewForm(groups...)
}

// Run asks every question and scores the answers.
func (r *Runner) Run(ctx context.Context, questions []catalog.Question) (Result, error) {
	if len(questions) == 0 {
		return Score(nil, nil), nil
	}
	answers := make([]int, len(questions))
	form := NewForm(questions, answers).WithAccessible(r.accessible)
	if err := r.ask(ctx, form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return Result{}, ErrAborted
		}
		return Result{}, fmt.Errorf("running quiz: %w", err)
	}
	return Score(questions, answers), nil
}
