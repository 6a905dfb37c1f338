package ai

import (
	"math"
	"strings"
)

// modelRates holds prices in cents per million tokens.
type modelRates struct {
	inputCents  float64
	outputCents float64
}

// costTable is ordered most-specific prefix first so versioned model names
// ("gpt-4o-mini-2024-07-18") match their family. Estimates only; providers
// change prices.
var costTable = []struct {
	prefix string
	rates  modelRates
}{
	{"gpt-4o-mini", modelRates{15, 60}},
	{"gpt-4o", modelRates{250, 1000}},
	{"gpt-4.1-nano", modelRates{10, 40}},
	{"gpt-4.1-mini", modelRates{40, 160}},
	{"gpt-4.1", modelRates{200, 800}},
	{"o4-mini", modelRates{110, 440}},
}

// EstimateCostCents estimates the cost of a call in whole cents, rounding
// up so sub-cent calls still register. Unknown models cost zero.
func EstimateCostCents(model string, usage Usage) int64 {
	for _, entry := range costTable {
		if !strings.HasPrefix(model, entry.prefix) {
			continue
		}
		exact := float64(usage.PromptTokens)*entry.rates.inputCents/1e6 +
			float64(usage.CompletionTokens)*entry.rates.outputCents/1e6
		if exact == 0 {
			return 0
		}
		return int64(math.Ceil(exact))
	}
	return 0
}
