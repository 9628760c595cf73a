package keyword

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

// Classifier scores inquiry text against fixed keyword pattern tables.
// It is stateless after construction and safe for concurrent use.
type Classifier struct {
	categories []compiledCategory
	positive   []*regexp.Regexp
	negative   []*regexp.Regexp
	urgency    []*regexp.Regexp
}

type compiledCategory struct {
	name     string
	patterns []*regexp.Regexp
}

// New compiles the rule table. Pattern compilation errors are surfaced at
// startup rather than per request.
func New(rules Rules) (*Classifier, error) {
	c := &Classifier{}

	for _, cat := range rules.Categories {
		compiled := compiledCategory{name: cat.Name}
		for _, p := range cat.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("compile pattern %q for category %s: %w", p, cat.Name, err)
			}
			compiled.patterns = append(compiled.patterns, re)
		}
		c.categories = append(c.categories, compiled)
	}

	var err error
	if c.positive, err = compileAll(rules.Sentiment.Positive); err != nil {
		return nil, fmt.Errorf("compile positive sentiment patterns: %w", err)
	}
	if c.negative, err = compileAll(rules.Sentiment.Negative); err != nil {
		return nil, fmt.Errorf("compile negative sentiment patterns: %w", err)
	}
	if c.urgency, err = compileAll(rules.Urgency); err != nil {
		return nil, fmt.Errorf("compile urgency patterns: %w", err)
	}
	return c, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Analyze maps the message plus optional subject onto a category,
// a density-based confidence score, a sentiment label and an urgency flag.
// Malformed or empty input degrades to category "general" with confidence
// zero; Analyze never fails.
func (c *Classifier) Analyze(message, subject string) domain.Analysis {
	text := strings.ToLower(message)
	if subject != "" {
		text += " " + strings.ToLower(subject)
	}

	primary := domain.CategoryGeneral
	bestScore := 0
	var keywordsFound []string
	for _, cat := range c.categories {
		score := 0
		for _, re := range cat.patterns {
			score += len(re.FindAllStringIndex(text, -1))
		}
		if score > 0 {
			keywordsFound = append(keywordsFound, cat.name)
		}
		// Strictly-greater keeps the first category at the max.
		if score > bestScore {
			bestScore = score
			primary = cat.name
		}
	}

	confidence := 0.0
	if bestScore > 0 {
		denom := float64(len(strings.Fields(text))) / 10
		if denom < 1 {
			denom = 1
		}
		confidence = float64(bestScore) / denom
		if confidence > 1 {
			confidence = 1
		}
	}

	return domain.Analysis{
		Category:      primary,
		Confidence:    confidence,
		Sentiment:     c.sentiment(text),
		IsUrgent:      matchesAny(c.urgency, text),
		KeywordsFound: keywordsFound,
	}
}

func (c *Classifier) sentiment(text string) domain.Sentiment {
	positive := countMatches(c.positive, text)
	negative := countMatches(c.negative, text)

	switch {
	case negative > positive:
		return domain.SentimentNegative
	case positive > 0:
		return domain.SentimentPositive
	default:
		return domain.SentimentNeutral
	}
}

func countMatches(patterns []*regexp.Regexp, text string) int {
	total := 0
	for _, re := range patterns {
		total += len(re.FindAllStringIndex(text, -1))
	}
	return total
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
