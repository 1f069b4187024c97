package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/detection.txt
	detectionRaw string

	//go:embed template/generation.txt
	generationRaw string

	//go:embed template/summary.txt
	summaryRaw string
)

// PromptSet holds loaded prompt content. Generation and Summary are
// fmt.Sprintf templates; Detection is used verbatim.
type PromptSet struct {
	Detection  string
	Generation string
	Summary    string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// Safe to call concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Detection:  strings.TrimSpace(detectionRaw),
		Generation: strings.TrimSpace(generationRaw),
		Summary:    strings.TrimSpace(summaryRaw),
	}
}
