package classify

import (
	"strings"
)

// Category is the single bucket a work item is assigned to.
type Category string

const (
	Bug         Category = "Bug"
	UX          Category = "UX"
	TestingQA   Category = "Testing/QA"
	Frontend    Category = "Frontend"
	Backend     Category = "Backend"
	Investigate Category = "Investigate"
	Other       Category = "Other"
)

// All lists every category in default priority order.
var All = []Category{Bug, UX, TestingQA, Frontend, Backend, Investigate, Other}

// Keyword tiers. Matching is substring containment against the lower-cased title.
var (
	UXKeywords = []string{"ux", "user experience", "usability", "wireframe", "mockup", "prototype"}

	QAKeywords = []string{
		"sqa", "software quality", "quality assurance", "qa engineer", "qa lead",
		"test", "testing", "qa", "automate", "validation", "regression",
		"deployment", "health check", "scripts",
	}

	FrontendKeywords = []string{
		"frontend", "fe", "ui", "button", "screen", "angular", "saffron", "component",
		"window", "tab", "grid", "upload", "branding", "text", "alerts", "breadcrumbs",
		"scroll", "menus", "welcome", "settings",
	}

	BackendKeywords = []string{
		"backend", "api", "service", "endpoint", "database", "deprecate", "workflow",
		"lambda", "aws", "postgresql", "server", "ultratax", "taxassistant", "metrics", "email",
	}
)

// UXTag forces the UX category regardless of title content.
const UXTag = "uxe"

// Input is the normalized view of a work item the rules evaluate.
type Input struct {
	Title string   // lower-cased
	Type  string   // as supplied
	Tags  []string // lower-cased, trimmed
}

func newInput(title, workItemType string, tags []string) Input {
	in := Input{
		Title: strings.ToLower(title),
		Type:  strings.TrimSpace(workItemType),
	}
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			in.Tags = append(in.Tags, t)
		}
	}
	return in
}

// Rule pairs a predicate with the category it yields.
type Rule struct {
	Category Category
	Match    func(Input) bool
}

// TypeIs matches the work item type exactly.
func TypeIs(workItemType string) func(Input) bool {
	return func(in Input) bool {
		return in.Type == workItemType
	}
}

// TitleContainsAny matches when the title contains any of the keywords.
func TitleContainsAny(keywords ...string) func(Input) bool {
	return func(in Input) bool {
		for _, k := range keywords {
			if strings.Contains(in.Title, k) {
				return true
			}
		}
		return false
	}
}

// HasTag matches when the tag set contains the given tag.
func HasTag(tag string) func(Input) bool {
	return func(in Input) bool {
		for _, t := range in.Tags {
			if t == tag {
				return true
			}
		}
		return false
	}
}

// AnyOf combines predicates belonging to the same tier.
func AnyOf(preds ...func(Input) bool) func(Input) bool {
	return func(in Input) bool {
		for _, p := range preds {
			if p(in) {
				return true
			}
		}
		return false
	}
}

// Classifier evaluates an ordered rule chain; the first matching rule wins.
type Classifier struct {
	rules []Rule
}

// Option customizes the rule chain.
type Option func(*config)

type config struct {
	investigateFirst bool
}

// WithInvestigateFirst checks the Investigate type right after Bug, before any title keyword tier.
func WithInvestigateFirst() Option {
	return func(c *config) { c.investigateFirst = true }
}

// WithInvestigateOrder is WithInvestigateFirst driven by a flag.
func WithInvestigateOrder(first bool) Option {
	return func(c *config) { c.investigateFirst = first }
}

// New builds a Classifier with the default priority chain.
func New(opts ...Option) *Classifier {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	investigate := Rule{Category: Investigate, Match: TypeIs("Investigate")}

	rules := []Rule{{Category: Bug, Match: TypeIs("Bug")}}
	if cfg.investigateFirst {
		rules = append(rules, investigate)
	}
	rules = append(rules,
		Rule{Category: UX, Match: AnyOf(HasTag(UXTag), TitleContainsAny(UXKeywords...))},
		Rule{Category: TestingQA, Match: TitleContainsAny(QAKeywords...)},
		Rule{Category: Frontend, Match: TitleContainsAny(FrontendKeywords...)},
		Rule{Category: Backend, Match: TitleContainsAny(BackendKeywords...)},
	)
	if !cfg.investigateFirst {
		rules = append(rules, investigate)
	}

	return &Classifier{rules: rules}
}

// NewWithRules builds a Classifier from an explicit chain.
func NewWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of the chain in evaluation order.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Classify assigns exactly one category. It never fails; Other is the fallback.
func (c *Classifier) Classify(title, workItemType string, tags []string) Category {
	if c == nil {
		return Default.Classify(title, workItemType, tags)
	}
	in := newInput(title, workItemType, tags)
	for _, r := range c.rules {
		if r.Match != nil && r.Match(in) {
			return r.Category
		}
	}
	return Other
}

// Default is the classifier with the standard chain.
var Default = New()

// Classify uses the default chain.
func Classify(title, workItemType string, tags []string) Category {
	return Default.Classify(title, workItemType, tags)
}
