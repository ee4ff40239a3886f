package models

// SummarySection is one titled block of the structured paper summary.
type SummarySection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PaperSummary holds the six fixed sections produced for every paper.
// Sections the model could not fill carry sentinel content; callers must
// not treat sentinel text as a real answer.
type PaperSummary struct {
	TitleAndAuthors  SummarySection `json:"title_and_authors"`
	Abstract         SummarySection `json:"abstract"`
	ProblemStatement SummarySection `json:"problem_statement"`
	Methodology      SummarySection `json:"methodology"`
	KeyResults       SummarySection `json:"key_results"`
	Conclusion       SummarySection `json:"conclusion"`
}

// NamedSection pairs a summary section with its stable JSON key, used when
// sections are embedded individually into the summary collection.
type NamedSection struct {
	Key     string
	Section SummarySection
}

var sectionTitles = []NamedSection{
	{Key: "title_and_authors", Section: SummarySection{Title: "Title & Authors"}},
	{Key: "abstract", Section: SummarySection{Title: "Abstract"}},
	{Key: "problem_statement", Section: SummarySection{Title: "Problem Statement"}},
	{Key: "methodology", Section: SummarySection{Title: "Methodology"}},
	{Key: "key_results", Section: SummarySection{Title: "Key Results"}},
	{Key: "conclusion", Section: SummarySection{Title: "Conclusion"}},
}

// Named returns the six sections in their fixed order.
func (s PaperSummary) Named() []NamedSection {
	return []NamedSection{
		{Key: "title_and_authors", Section: s.TitleAndAuthors},
		{Key: "abstract", Section: s.Abstract},
		{Key: "problem_statement", Section: s.ProblemStatement},
		{Key: "methodology", Section: s.Methodology},
		{Key: "key_results", Section: s.KeyResults},
		{Key: "conclusion", Section: s.Conclusion},
	}
}

// FallbackSummary returns a summary with every section set to the given
// sentinel content, keeping the default titles.
func FallbackSummary(content string) PaperSummary {
	var s PaperSummary
	fill := func(ns NamedSection) SummarySection {
		return SummarySection{Title: ns.Section.Title, Content: content}
	}
	s.TitleAndAuthors = fill(sectionTitles[0])
	s.Abstract = fill(sectionTitles[1])
	s.ProblemStatement = fill(sectionTitles[2])
	s.Methodology = fill(sectionTitles[3])
	s.KeyResults = fill(sectionTitles[4])
	s.Conclusion = fill(sectionTitles[5])
	return s
}
