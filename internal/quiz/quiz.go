// Package quiz builds and scores a short multiple-choice self-check from
// the detected stack.
package quiz

import (
	"github.com/julianshen/stacklens/internal/catalog"
	"github.com/julianshen/stacklens/internal/techstack"
)

// DefaultQuestions is the quiz length used when none is configured.
const DefaultQuestions = 5

// QuestionLookup returns the catalog questions for a technology name.
type QuestionLookup func(tech string) []catalog.Question

// Build picks up to n questions for the stack. Technologies take turns in
// stack order so that one well-covered technology does not crowd out the
// rest. The result depends only on its inputs.
func Build(stack techstack.TechStack, lookup QuestionLookup, n int) []catalog.Question {
	if n <= 0 {
		n = DefaultQuestions
	}

	var pools [][]catalog.Question
	seen := map[string]bool{}
	for _, name := range stack.Names() {
		key := catalog.Key(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		if qs := lookup(key); len(qs) > 0 {
			pools = append(pools, qs)
		}
	}

	out := []catalog.Question{}
	for round := 0; len(out) < n; round++ {
		added := false
		for _, pool := range pools {
			if round < len(pool) && len(out) < n {
				out = append(out, pool[round])
				added = true
			}
		}
		if !added {
			break
		}
	}
	return out
}

// Miss is a wrongly answered or unanswered question.
type Miss struct {
	Question catalog.Question `json:"question"`
	Given    int              `json:"given"`
}

// Result is the outcome of a quiz.
type Result struct {
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Missed  []Miss `json:"missed"`
}

// Score compares answers (choice indexes) with the questions. Missing
// answers count as wrong and are reported with Given -1.
func Score(questions []catalog.Question, answers []int) Result {
	r := Result{Total: len(questions), Missed: []Miss{}}
	for i, q := range questions {
		given := -1
		if i < len(answers) {
			given = answers[i]
		}
		if given == q.Answer {
			r.Correct++
			continue
		}
		r.Missed = append(r.Missed, Miss{Question: q, Given: given})
	}
	return r
}
