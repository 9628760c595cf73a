package keyword

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(DefaultRules())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestAnalyzeBookingInquiry(t *testing.T) {
	c := newTestClassifier(t)

	analysis := c.Analyze("I want to book a tour for 4 people next month", "Booking question")

	if analysis.Category != "booking" {
		t.Fatalf("expected category booking, got %q", analysis.Category)
	}
	if analysis.Sentiment != domain.SentimentNeutral {
		t.Fatalf("expected neutral sentiment, got %q", analysis.Sentiment)
	}
	if analysis.IsUrgent {
		t.Fatalf("expected non-urgent inquiry")
	}
	if analysis.Confidence < 0.5 {
		t.Fatalf("expected confidence >= 0.5, got %f", analysis.Confidence)
	}
}

func TestAnalyzeEmptyTextFallsBackToGeneral(t *testing.T) {
	c := newTestClassifier(t)

	analysis := c.Analyze("", "")

	if analysis.Category != domain.CategoryGeneral {
		t.Fatalf("expected category general, got %q", analysis.Category)
	}
	if analysis.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %f", analysis.Confidence)
	}
	if len(analysis.KeywordsFound) != 0 {
		t.Fatalf("expected no matched categories, got %v", analysis.KeywordsFound)
	}
}

func TestAnalyzeNoKeywordMatches(t *testing.T) {
	c := newTestClassifier(t)

	analysis := c.Analyze("xyzzy qwerty plugh", "")

	if analysis.Category != domain.CategoryGeneral {
		t.Fatalf("expected category general, got %q", analysis.Category)
	}
	if analysis.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %f", analysis.Confidence)
	}
}

func TestAnalyzeConfidenceIsClamped(t *testing.T) {
	c := newTestClassifier(t)

	// Short text, many keyword hits: raw density exceeds 1.0.
	analysis := c.Analyze("book reserve reservation availability", "")

	if analysis.Confidence != 1.0 {
		t.Fatalf("expected clamped confidence 1.0, got %f", analysis.Confidence)
	}
}

func TestAnalyzeConfidenceWithinBounds(t *testing.T) {
	c := newTestClassifier(t)

	texts := []string{
		"",
		"hello there",
		"book a tour",
		"price cost fee payment money",
		strings.Repeat("where is the hotel ", 50),
		"urgent refund now terrible",
	}
	for _, text := range texts {
		analysis := c.Analyze(text, "")
		if analysis.Confidence < 0 || analysis.Confidence > 1 {
			t.Fatalf("confidence out of bounds for %q: %f", text, analysis.Confidence)
		}
	}
}

func TestAnalyzeNegativeSentimentOutweighsPositive(t *testing.T) {
	c := newTestClassifier(t)

	analysis := c.Analyze("This is a terrible disappointing experience, I want a refund now!", "")

	if analysis.Sentiment != domain.SentimentNegative {
		t.Fatalf("expected negative sentiment, got %q", analysis.Sentiment)
	}
}

func TestAnalyzePositiveSentiment(t *testing.T) {
	c := newTestClassifier(t)

	analysis := c.Analyze("The tour was amazing and the guide was excellent", "")

	if analysis.Sentiment != domain.SentimentPositive {
		t.Fatalf("expected positive sentiment, got %q", analysis.Sentiment)
	}
}

func TestAnalyzeMixedSentimentPrefersNegativeOnMajority(t *testing.T) {
	c := newTestClassifier(t)

	analysis := c.Analyze("great start but terrible awful ending", "")

	if analysis.Sentiment != domain.SentimentNegative {
		t.Fatalf("expected negative sentiment on majority, got %q", analysis.Sentiment)
	}
}

func TestAnalyzeUrgencyIndependentOfCategory(t *testing.T) {
	c := newTestClassifier(t)

	for _, text := range []string{
		"emergency please help",
		"need an answer asap about the hotel",
		"where do we meet? urgent",
	} {
		analysis := c.Analyze(text, "")
		if !analysis.IsUrgent {
			t.Fatalf("expected urgent flag for %q", text)
		}
	}
}

func TestAnalyzeSubjectContributesToScore(t *testing.T) {
	c := newTestClassifier(t)

	withoutSubject := c.Analyze("hello, quick question about my trip", "")
	withSubject := c.Analyze("hello, quick question about my trip", "cancel my reservation")

	if withSubject.Category == domain.CategoryGeneral && withoutSubject.Category != domain.CategoryGeneral {
		t.Fatalf("subject text should contribute matches")
	}
	found := false
	for _, cat := range withSubject.KeywordsFound {
		if cat == "cancellation" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected cancellation among matched categories, got %v", withSubject.KeywordsFound)
	}
}

func TestAnalyzeKeywordsFoundListsEveryScoringCategory(t *testing.T) {
	c := newTestClassifier(t)

	analysis := c.Analyze("how much does the hotel room cost", "")

	want := map[string]bool{"pricing": false, "accommodation": false}
	for _, cat := range analysis.KeywordsFound {
		if _, ok := want[cat]; ok {
			want[cat] = true
		}
	}
	for cat, seen := range want {
		if !seen {
			t.Fatalf("expected %s in keywords_found, got %v", cat, analysis.KeywordsFound)
		}
	}
}

func TestAnalyzeTieBreakIsStable(t *testing.T) {
	c := newTestClassifier(t)

	// "book" (booking) and "people" (group_size) each score one; the
	// earlier rule-table entry must win every time.
	for i := 0; i < 10; i++ {
		analysis := c.Analyze("book for people", "")
		if analysis.Category != "booking" {
			t.Fatalf("expected stable tie-break to booking, got %q", analysis.Category)
		}
	}
}

func TestLoadRulesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `
categories:
  - name: booking
    patterns:
      - '\b(book|reserve)\b'
sentiment:
  positive:
    - '\b(great)\b'
  negative:
    - '\b(terrible)\b'
urgency:
  - '\b(urgent)\b'
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	c, err := New(rules)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	analysis := c.Analyze("I want to book urgent", "")
	if analysis.Category != "booking" {
		t.Fatalf("expected booking, got %q", analysis.Category)
	}
	if !analysis.IsUrgent {
		t.Fatalf("expected urgent flag")
	}
}

func TestLoadRulesRejectsEmptyCategories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("categories: []\n"), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	if _, err := LoadRules(path); err == nil {
		t.Fatalf("expected error for empty categories")
	}
}

func TestNewRejectsInvalidPattern(t *testing.T) {
	rules := Rules{
		Categories: []CategoryRule{{Name: "broken", Patterns: []string{"("}}},
	}
	if _, err := New(rules); err == nil {
		t.Fatalf("expected compile error")
	}
}
