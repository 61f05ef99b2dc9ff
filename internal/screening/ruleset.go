package screening

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights splits the overall fit score across the five criteria. They are
// product heuristics, not structural constants, so they live in the ruleset.
type Weights struct {
	Skills     float64 `yaml:"skills" json:"skills"`
	Seniority  float64 `yaml:"seniority" json:"seniority"`
	Domain     float64 `yaml:"domain" json:"domain"`
	Location   float64 `yaml:"location" json:"location"`
	Experience float64 `yaml:"experience" json:"experience"`
}

// Tiers are the recommendation cutoffs, checked highest first.
type Tiers struct {
	StrongHire float64 `yaml:"strong_hire" json:"strong_hire"`
	Hire       float64 `yaml:"hire" json:"hire"`
	Maybe      float64 `yaml:"maybe" json:"maybe"`
}

// Ruleset is the versioned vocabulary and tuning data behind the screening
// heuristics. The zero value is unusable; start from DefaultRuleset.
type Ruleset struct {
	Skills         []string          `yaml:"skills" json:"skills"`
	Aliases        map[string]string `yaml:"aliases" json:"aliases"`
	SeniorKeywords []string          `yaml:"senior_keywords" json:"senior_keywords"`
	MidKeywords    []string          `yaml:"mid_keywords" json:"mid_keywords"`
	JuniorKeywords []string          `yaml:"junior_keywords" json:"junior_keywords"`
	DomainKeywords []string          `yaml:"domain_keywords" json:"domain_keywords"`
	Weights        Weights           `yaml:"weights" json:"weights"`
	Tiers          Tiers             `yaml:"tiers" json:"tiers"`
}

func DefaultRuleset() *Ruleset {
	return &Ruleset{
		Skills: []string{
			// frontend
			"react", "next.js", "nextjs", "typescript", "javascript", "tailwind",
			"redux", "vite", "webpack",
			// backend
			"node", "express", "fastapi", "flask", "django", "go", "gin", "python",
			// db/devops
			"postgresql", "postgres", "mysql", "mongodb", "prisma", "docker",
			"kubernetes", "aws", "gcp", "cloudflare",
		},
		Aliases: map[string]string{
			"nextjs":   "next.js",
			"js":       "javascript",
			"ts":       "typescript",
			"postgres": "postgresql",
			"node.js":  "node",
			"nodejs":   "node",
		},
		SeniorKeywords: []string{"senior", "lead", "principal", "architect", "manager", "director", "cto", "vp"},
		MidKeywords:    []string{"mid", "intermediate", "experienced"},
		JuniorKeywords: []string{"junior", "entry", "graduate", "intern", "trainee"},
		DomainKeywords: []string{"frontend", "backend", "full-stack", "mobile", "web", "api", "database", "cloud", "devops"},
		Weights: Weights{
			Skills:     0.35,
			Seniority:  0.20,
			Domain:     0.15,
			Location:   0.10,
			Experience: 0.20,
		},
		Tiers: Tiers{
			StrongHire: 0.8,
			Hire:       0.6,
			Maybe:      0.4,
		},
	}
}

// LoadRuleset overlays a YAML file onto the defaults. Absent keys keep their
// default values.
func LoadRuleset(path string) (*Ruleset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset %s: %w", path, err)
	}
	rs := DefaultRuleset()
	if err := yaml.Unmarshal(raw, rs); err != nil {
		return nil, fmt.Errorf("parse ruleset %s: %w", path, err)
	}
	if err := rs.validate(); err != nil {
		return nil, fmt.Errorf("ruleset %s: %w", path, err)
	}
	return rs, nil
}

func (r *Ruleset) validate() error {
	if len(r.Skills) == 0 {
		return fmt.Errorf("skills vocabulary is empty")
	}
	total := r.Weights.Skills + r.Weights.Seniority + r.Weights.Domain +
		r.Weights.Location + r.Weights.Experience
	if total <= 0 {
		return fmt.Errorf("criterion weights sum to %v", total)
	}
	if r.Tiers.StrongHire < r.Tiers.Hire || r.Tiers.Hire < r.Tiers.Maybe {
		return fmt.Errorf("tier cutoffs out of order: %+v", r.Tiers)
	}
	return nil
}

func (r *Ruleset) skillSet() map[string]bool {
	set := make(map[string]bool, len(r.Skills))
	for _, s := range r.Skills {
		set[s] = true
	}
	return set
}
