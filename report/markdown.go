package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"docanalyzer/analyzer"
)

// Markdown renders the report as a markdown document.
func Markdown(r Report) string {
	var sb strings.Builder

	title := r.Metadata.Title
	if title == "" {
		title = filepath.Base(r.Source)
	}
	if title == "" || title == "." {
		title = "Document"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	writeDocument(&sb, r)
	writeStatistics(&sb, r)
	writeSentiment(&sb, r)
	writeKeywords(&sb, r)
	writeSummary(&sb, r)
	writeQuestions(&sb, r)

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func writeDocument(sb *strings.Builder, r Report) {
	sb.WriteString("| Document | |\n|---|---|\n")
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(sb, "| %s | %s |\n", k, escapeCell(v))
		}
	}
	row("Source", r.Source)
	row("Format", string(r.Format))
	row("Pages", fmt.Sprint(r.Metadata.Pages))
	row("Author", r.Metadata.Author)
	row("Subject", r.Metadata.Subject)
	sb.WriteString("\n")
}

func writeStatistics(sb *strings.Builder, r Report) {
	s := r.Statistics
	sb.WriteString("## Text Statistics\n\n| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(sb, "| Words | %d |\n", s.WordCount)
	fmt.Fprintf(sb, "| Sentences | %d |\n", s.SentenceCount)
	fmt.Fprintf(sb, "| Characters | %d |\n", s.CharacterCount)
	fmt.Fprintf(sb, "| Avg word length | %.2f |\n", s.AverageWordLength)
	fmt.Fprintf(sb, "| Avg sentence length | %.2f |\n", s.AverageSentenceLength)
	fmt.Fprintf(sb, "| Readability | %.2f/100 (%s) |\n\n", r.Readability, r.ReadabilityLevel)
}

func writeSentiment(sb *strings.Builder, r Report) {
	s := r.Sentiment
	sb.WriteString("## Sentiment\n\n")
	fmt.Fprintf(sb, "Polarity %.3f, subjectivity %.3f.\n\n", s.Polarity, s.Subjectivity)

	switch s.Label {
	case analyzer.SentimentPositive:
		sb.WriteString("**Positive sentiment**: the document has a positive tone.\n\n")
	case analyzer.SentimentNegative:
		sb.WriteString("**Negative sentiment**: the document has a negative tone.\n\n")
	default:
		sb.WriteString("**Neutral sentiment**: the document has a neutral tone.\n\n")
	}
	if r.Subjectivity == "subjective" {
		sb.WriteString("**Subjective content**: the document contains personal opinions.\n\n")
	} else {
		sb.WriteString("**Objective content**: the document presents factual information.\n\n")
	}
}

func writeKeywords(sb *strings.Builder, r Report) {
	sb.WriteString("## Top Keywords\n\n")
	if len(r.Keywords) == 0 {
		sb.WriteString("_No keywords found._\n\n")
		return
	}
	for i, kw := range r.Keywords {
		fmt.Fprintf(sb, "%d. **%s** (%d)\n", i+1, kw.Term, kw.Frequency)
	}
	sb.WriteString("\n")
}

func writeSummary(sb *strings.Builder, r Report) {
	sb.WriteString("## Summary\n\n")
	if r.Summary == "" {
		sb.WriteString("_No text to summarize._\n\n")
		return
	}
	fmt.Fprintf(sb, "%s\n\n", r.Summary)
	fmt.Fprintf(sb, "_%d words, compression rate %.1f%%_\n\n", r.SummaryWords, r.CompressionRate)
}

func writeQuestions(sb *strings.Builder, r Report) {
	if len(r.Questions) == 0 {
		return
	}
	sb.WriteString("## Questions\n\n")
	for _, q := range r.Questions {
		fmt.Fprintf(sb, "**Q:** %s\n\n", q.Question)
		fmt.Fprintf(sb, "**A:** %s _(confidence %.3f)_\n\n", q.Answer.Answer, q.Answer.Confidence)
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
