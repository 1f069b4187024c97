package orchestratornode

import (
	"context"

	"github.com/rs/zerolog/log"

	contractx "github.com/roamfit/roamfit/agent/contract"
)

// SummarizeHistory gathers workout history context for generation. A summary
// failure degrades to a canned placeholder instead of ending the workflow.
func SummarizeHistory(ctx context.Context, in *GraphState, summarizer contractx.Summarizer) (*GraphState, error) {
	if in.failed() || in.Input.SkipHistory {
		return in, nil
	}

	summary, err := summarizer.Summarize(ctx, in.Input.HistoryLimit)
	if err != nil {
		log.Warn().Err(err).Msg("history summary failed, continuing without history")
		summary = contractx.DegradedHistory()
	}

	in.History = &summary
	return in, nil
}
