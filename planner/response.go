package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/tripgraph/log"
)

// generateResponse produces the short natural-language reply for runs that
// end without a full itinerary. This node must never fail the overall
// request: when the model call itself fails, it falls back to a
// deterministic summary built from whatever state holds.
func (p *Planner) generateResponse(ctx context.Context, state TripState) (TripState, error) {
	if state.UserQuery == "" {
		state.Response = "I didn't receive a question. Tell me where you'd like to go and when, and I'll help plan your trip."
		state.CompletedSteps = append(state.CompletedSteps, StepResponseGeneration)
		return state, nil
	}

	prompt := buildResponsePrompt(state)

	cctx, cancel := p.callContext(ctx)
	defer cancel()

	completion, err := llms.GenerateFromSinglePrompt(cctx, p.model, prompt)
	if err != nil {
		log.Warn("response generation failed, using fallback: %v", err)
		state.Errors = append(state.Errors, fmt.Sprintf("response generation error: %v", err))
		state.Response = fallbackResponse(state)
		state.CompletedSteps = append(state.CompletedSteps, StepResponseGeneration)
		return state, nil
	}

	state.Response = strings.TrimSpace(completion)
	if state.Response == "" {
		state.Response = fallbackResponse(state)
	}
	state.CompletedSteps = append(state.CompletedSteps, StepResponseGeneration)
	return state, nil
}

// fallbackResponse assembles a best-effort reply without the model. When
// errors occurred, the reply names them explicitly rather than presenting
// partial data as complete.
func fallbackResponse(s TripState) string {
	var sb strings.Builder

	if s.HasResults() {
		sb.WriteString("Here is what I found:\n")
		sb.WriteString(formatSearchSummary(s))
	} else {
		sb.WriteString("I'm sorry - I couldn't find anything for your request.")
	}

	if len(s.Errors) > 0 {
		sb.WriteString("\n\nSome steps didn't go smoothly:\n")
		for _, e := range s.Errors {
			sb.WriteString("- " + e + "\n")
		}
	}

	return strings.TrimSpace(sb.String())
}
