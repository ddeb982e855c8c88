package matching

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
)

// KeywordRules drives the rule-based submitter classifier. Instances are
// built once at startup and never mutated afterwards.
type KeywordRules struct {
	MayorKeywords     []string `yaml:"mayor_keywords"`
	CommitteeKeywords []string `yaml:"committee_keywords"`
}

// DefaultRules returns the built-in keyword tables.
func DefaultRules() KeywordRules {
	return sortRules(KeywordRules{
		MayorKeywords: []string{
			"市長",
			"町長",
			"村長",
			"区長",
			"知事",
			"首長",
		},
		CommitteeKeywords: []string{
			"委員会",
			"委員長",
			"審査会",
		},
	})
}

// sortRules orders mayor keywords longest first so suffix checks in IsMayor
// stay a plain scan.
func sortRules(rules KeywordRules) KeywordRules {
	sort.Slice(rules.MayorKeywords, func(i, j int) bool {
		return len(rules.MayorKeywords[i]) > len(rules.MayorKeywords[j])
	})
	return rules
}

// LoadRules reads keyword rules from a YAML file. Missing sections fall back
// to the defaults so a partial file stays usable.
func LoadRules(path string) (KeywordRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KeywordRules{}, fmt.Errorf("read keyword rules: %w", err)
	}
	rules := KeywordRules{}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return KeywordRules{}, fmt.Errorf("parse keyword rules: %w", err)
	}
	defaults := DefaultRules()
	if len(rules.MayorKeywords) == 0 {
		rules.MayorKeywords = defaults.MayorKeywords
	}
	if len(rules.CommitteeKeywords) == 0 {
		rules.CommitteeKeywords = defaults.CommitteeKeywords
	}
	return sortRules(rules), nil
}

// IsMayor reports whether the name equals or ends with a mayor keyword.
func (r KeywordRules) IsMayor(name string) bool {
	normalized := Normalize(name)
	if normalized == "" {
		return false
	}
	for _, kw := range r.MayorKeywords {
		if normalized == kw || strings.HasSuffix(normalized, kw) {
			return true
		}
	}
	return false
}

// IsCommittee reports whether the name contains a committee keyword.
func (r KeywordRules) IsCommittee(name string) bool {
	normalized := Normalize(name)
	for _, kw := range r.CommitteeKeywords {
		if kw != "" && strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// judgmentLabels maps every accepted input label, canonical and localized,
// to the closed judgment vocabulary. Read-only after init.
var judgmentLabels = map[string]entities.Judgment{
	"approve": entities.JudgmentApprove,
	"oppose":  entities.JudgmentOppose,
	"abstain": entities.JudgmentAbstain,
	"absent":  entities.JudgmentAbsent,
	"賛成":      entities.JudgmentApprove,
	"反対":      entities.JudgmentOppose,
	"棄権":      entities.JudgmentAbstain,
	"欠席":      entities.JudgmentAbsent,
	"賛":       entities.JudgmentApprove,
	"否":       entities.JudgmentOppose,
}

// ParseJudgment resolves a display label to its canonical judgment value.
func ParseJudgment(label string) (entities.Judgment, bool) {
	j, ok := judgmentLabels[strings.ToLower(Normalize(label))]
	return j, ok
}
