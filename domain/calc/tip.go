package calc

// tipTiers are the suggested tip percentages always included in the
// response, independent of the requested percent.
var tipTiers = []float64{10, 15, 20, 25}

// TipSuggestion is one precomputed tip tier (value type).
type TipSuggestion struct {
	Percent   float64
	TipAmount float64
	Total     float64
}

// TipResult holds the outcome of a tip calculation (value type).
type TipResult struct {
	TipAmount    float64
	TotalAmount  float64
	PerPerson    float64
	TipPerPerson float64
	Suggestions  []TipSuggestion
}

// Tip computes a tip and per-person split, plus the standard suggestion
// table. splitCount must be >= 1; the edge layer validates it.
func Tip(billAmount, tipPercent float64, splitCount int) (TipResult, error) {
	tip := billAmount * tipPercent / 100
	total := billAmount + tip
	if !finite(tip, total) {
		return TipResult{}, ErrNotFinite
	}

	suggestions := make([]TipSuggestion, 0, len(tipTiers))
	for _, pct := range tipTiers {
		t := billAmount * pct / 100
		if !finite(t, billAmount+t) {
			return TipResult{}, ErrNotFinite
		}
		suggestions = append(suggestions, TipSuggestion{
			Percent:   pct,
			TipAmount: Round(t, 2),
			Total:     Round(billAmount+t, 2),
		})
	}

	return TipResult{
		TipAmount:    Round(tip, 2),
		TotalAmount:  Round(total, 2),
		PerPerson:    Round(total/float64(splitCount), 2),
		TipPerPerson: Round(tip/float64(splitCount), 2),
		Suggestions:  suggestions,
	}, nil
}
