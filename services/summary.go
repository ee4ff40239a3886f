package services

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"paperqa_backend/models"
	"paperqa_backend/pkg/logging"
)

const (
	// summaryPromptLimit caps how much of the paper goes into the summary
	// prompt; papers longer than this are truncated from the front.
	summaryPromptLimit = 8000

	summaryNotStated    = "Not clearly stated."
	summaryUnparseable  = "Unable to parse"
	summaryNoContent    = "No content available"
	summaryInstructions = `Summarize the following research paper into a JSON object with exactly these keys:
"title_and_authors", "abstract", "problem_statement", "methodology", "key_results", "conclusion".
Each key maps to an object with "title" and "content" string fields.
If a section is not clearly stated in the paper, set its content to "Not clearly stated.".
Respond with JSON only, no surrounding text.`
)

// SummaryService turns extracted paper text into the fixed six-section
// structured summary. It never fails ingestion: every error path degrades
// to a sentinel-filled summary.
type SummaryService struct {
	generator Generator
}

func NewSummaryService(generator Generator) *SummaryService {
	return &SummaryService{generator: generator}
}

func (s *SummaryService) GenerateSummary(ctx context.Context, text string) models.PaperSummary {
	if len(text) > summaryPromptLimit {
		// back off to a rune boundary so the prompt stays valid UTF-8
		cut := summaryPromptLimit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	prompt := summaryInstructions + "\n\nPaper:\n" + text
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		logging.Logger.Warn("summary generation failed", "error", err)
		return models.FallbackSummary(summaryNotStated)
	}

	var summary models.PaperSummary
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &summary); err != nil {
		logging.Logger.Warn("summary output not valid JSON", "error", err)
		return models.FallbackSummary(summaryUnparseable)
	}

	fillMissingSections(&summary)
	return summary
}

// fillMissingSections gives empty sections their default title and the
// no-content sentinel so the response shape stays stable.
func fillMissingSections(s *models.PaperSummary) {
	defaults := models.FallbackSummary(summaryNoContent)
	fix := func(got, def *models.SummarySection) {
		if got.Title == "" {
			got.Title = def.Title
		}
		if strings.TrimSpace(got.Content) == "" {
			got.Content = summaryNoContent
		}
	}
	fix(&s.TitleAndAuthors, &defaults.TitleAndAuthors)
	fix(&s.Abstract, &defaults.Abstract)
	fix(&s.ProblemStatement, &defaults.ProblemStatement)
	fix(&s.Methodology, &defaults.Methodology)
	fix(&s.KeyResults, &defaults.KeyResults)
	fix(&s.Conclusion, &defaults.Conclusion)
}

// stripCodeFences unwraps ```json ... ``` blocks that models often emit
// despite the JSON-only instruction.
func stripCodeFences(raw string) string {
	out := strings.TrimSpace(raw)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}
