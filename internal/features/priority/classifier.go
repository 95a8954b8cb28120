// Package priority derives a complaint's severity from its tags.
package priority

import "strings"

type Level string

const (
	Low      Level = "LOW"
	Medium   Level = "MEDIUM"
	High     Level = "HIGH"
	Critical Level = "CRITICAL"
)

var tiers = map[Level]int{Low: 1, Medium: 2, High: 3, Critical: 4}

// Tier returns the numeric tier (1-4), 0 for an unknown level.
func (l Level) Tier() int {
	return tiers[l]
}

func (l Level) Valid() bool {
	return l.Tier() != 0
}

// Rule is the fixed tier and weight a known tag contributes.
type Rule struct {
	Tag    string `json:"tag"`
	Level  Level  `json:"level"`
	Weight int    `json:"weight"`
}

var table = []Rule{
	{"Sexual Harassment", Critical, 5},
	{"Violence", Critical, 5},
	{"Threat To Life", Critical, 5},
	{"Data Breach", Critical, 4},
	{"Fraud", Critical, 4},
	{"Safety Hazard", Critical, 4},

	{"Harassment", High, 4},
	{"Discrimination", High, 4},
	{"Retaliation", High, 3},
	{"Bullying", High, 3},
	{"Misconduct", High, 3},
	{"Policy Violation", High, 3},

	{"Management Issue", Medium, 2},
	{"Payroll", Medium, 2},
	{"Workload", Medium, 2},
	{"Communication", Medium, 2},
	{"Workplace Environment", Medium, 2},

	{"Facilities", Low, 2},
	{"Minor Defect", Low, 1},
	{"Suggestion", Low, 1},
	{"General Feedback", Low, 1},
}

var index = func() map[string]Rule {
	m := make(map[string]Rule, len(table))
	for _, r := range table {
		m[normalize(r.Tag)] = r
	}
	return m
}()

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Table returns a copy of the static tag table.
func Table() []Rule {
	out := make([]Rule, len(table))
	copy(out, table)
	return out
}

func Known(tag string) bool {
	_, ok := index[normalize(tag)]
	return ok
}

// Classify maps a tag set to a level by weighted average of the known tags.
// Unknown tags are ignored and repeated tags count once.
func Classify(tags []string) Level {
	seen := make(map[string]struct{}, len(tags))
	var sum, weights int

	for _, tag := range tags {
		key := normalize(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rule, ok := index[key]
		if !ok {
			continue
		}
		sum += rule.Level.Tier() * rule.Weight
		weights += rule.Weight
	}

	if weights == 0 {
		return Low
	}
	return fromAverage(float64(sum) / float64(weights))
}

func fromAverage(avg float64) Level {
	switch {
	case avg >= 3.5:
		return Critical
	case avg >= 2.5:
		return High
	case avg >= 1.5:
		return Medium
	}
	return Low
}
