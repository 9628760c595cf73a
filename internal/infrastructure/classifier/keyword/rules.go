package keyword

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryRule is one intent category with its keyword pattern groups.
// Category order matters: when two categories score the same, the first
// one in the list wins.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// SentimentRules holds the positive/negative pattern groups.
type SentimentRules struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// Rules is the full classifier rule table. Loadable from YAML so the
// keyword vocabulary can be tuned without a release.
type Rules struct {
	Categories []CategoryRule `yaml:"categories"`
	Sentiment  SentimentRules `yaml:"sentiment"`
	Urgency    []string       `yaml:"urgency"`
}

// DefaultRules returns the built-in rule table.
func DefaultRules() Rules {
	return Rules{
		Categories: []CategoryRule{
			{Name: "booking", Patterns: []string{
				`\b(book|reserve|reservation|availability)\b`,
				`\b(available|free|open)\b`,
				`\b(when|date|schedule)\b`,
			}},
			{Name: "pricing", Patterns: []string{
				`\b(price|cost|fee|payment|money|expensive|cheap)\b`,
				`\b(how much|total|amount)\b`,
				`\b(\$|usd|dollar|currency)\b`,
			}},
			{Name: "location", Patterns: []string{
				`\b(where|location|place|destination)\b`,
				`\b(address|directions|map)\b`,
				`\b(meet|pickup|departure)\b`,
			}},
			{Name: "duration", Patterns: []string{
				`\b(how long|duration|time|hours|days)\b`,
				`\b(start|end|finish)\b`,
			}},
			{Name: "cancellation", Patterns: []string{
				`\b(cancel|refund|change|modify)\b`,
				`\b(policy|terms|conditions)\b`,
			}},
			{Name: "requirements", Patterns: []string{
				`\b(need|require|bring|pack)\b`,
				`\b(equipment|gear|clothing)\b`,
				`\b(fitness|health|medical)\b`,
			}},
			{Name: "weather", Patterns: []string{
				`\b(weather|rain|sun|temperature|climate)\b`,
				`\b(season|month|best time)\b`,
			}},
			{Name: "group_size", Patterns: []string{
				`\b(group|people|participants|capacity)\b`,
				`\b(maximum|minimum|limit)\b`,
			}},
			{Name: "transportation", Patterns: []string{
				`\b(transport|travel|flight|bus|car)\b`,
				`\b(airport|pickup|drop off)\b`,
			}},
			{Name: "accommodation", Patterns: []string{
				`\b(hotel|stay|accommodation|lodge)\b`,
				`\b(room|bed|sleep)\b`,
			}},
		},
		Sentiment: SentimentRules{
			Positive: []string{`\b(great|excellent|amazing|wonderful|perfect|love|excited)\b`},
			Negative: []string{`\b(bad|terrible|awful|disappointed|angry|frustrated|horrible)\b`},
		},
		Urgency: []string{`\b(urgent|emergency|asap|immediately|now|quick)\b`},
	}
}

// LoadRules reads a YAML rule table from path.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules yaml: %w", err)
	}
	if len(rules.Categories) == 0 {
		return Rules{}, fmt.Errorf("rules file %s defines no categories", path)
	}
	return rules, nil
}
