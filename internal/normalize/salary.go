package normalize

import "strings"

// salaryBases maps fuzzy title substrings to annual base salaries (USD).
// Ordered most-specific first: the first matching entry wins.
var salaryBases = []struct {
	keyword string
	base    int
}{
	{"senior software engineer", 120000},
	{"staff engineer", 150000},
	{"software engineer", 95000},
	{"data scientist", 105000},
	{"data analyst", 70000},
	{"product manager", 110000},
	{"project manager", 85000},
	{"registered nurse", 75000},
	{"accountant", 60000},
	{"designer", 72000},
	{"customer service", 38000},
	{"developer", 90000},
	{"engineer", 85000},
	{"manager", 80000},
}

// defaultSalaryBase applies when no title keyword matches.
const defaultSalaryBase = 55000

// cityMultipliers are static cost-of-living adjustments keyed by city.
var cityMultipliers = map[string]float64{
	"san francisco": 1.4,
	"new york":      1.35,
	"seattle":       1.25,
	"boston":        1.2,
	"washington":    1.15,
	"los angeles":   1.15,
	"austin":        1.1,
	"denver":        1.05,
	"chicago":       1.05,
	"atlanta":       1.0,
	"dallas":        1.0,
	"phoenix":       0.95,
}

const (
	salarySpreadLow  = 0.9
	salarySpreadHigh = 1.2
)

// EstimateSalary synthesizes an annual salary range from the static base
// table keyed by fuzzy title substring match, scaled by the city
// cost-of-living multiplier. Falls back to flat base values when no title
// keyword matches, so the result is never empty.
func EstimateSalary(title, city string) (int, int) {
	base := defaultSalaryBase
	lowerTitle := strings.ToLower(title)
	for _, e := range salaryBases {
		if strings.Contains(lowerTitle, e.keyword) {
			base = e.base
			break
		}
	}

	mult := 1.0
	if m, ok := cityMultipliers[strings.ToLower(strings.TrimSpace(city))]; ok {
		mult = m
	}

	adjusted := float64(base) * mult
	return int(adjusted * salarySpreadLow), int(adjusted * salarySpreadHigh)
}
