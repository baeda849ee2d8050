package calc

// Random number types.
const (
	RandomInteger = "integer"
	RandomFloat   = "float"
)

// RandomResult holds a batch of generated numbers with summary
// statistics (value type).
type RandomResult struct {
	Numbers []float64
	Sum     float64
	Average float64
}

// RandomNumbers maps raw unsigned 32-bit draws into uniform numbers in
// [min, max]. One draw is consumed per number. Integers use the inclusive
// floor trick (min + draw mod span); floats scale the draw into the
// continuous range. The caller supplies one draw per requested number;
// min < max, integer bounds within ±2^53, and the draw count are
// validated at the edge.
func RandomNumbers(draws []uint32, min, max float64, typ string) RandomResult {
	numbers := make([]float64, 0, len(draws))
	sum := 0.0

	for _, d := range draws {
		var n float64
		if typ == RandomFloat {
			n = min + (max-min)*(float64(d)/float64(1<<32))
			n = Round(n, 6)
		} else {
			span := int64(max) - int64(min) + 1
			n = float64(int64(min) + int64(d)%span)
		}
		numbers = append(numbers, n)
		sum += n
	}

	avg := 0.0
	if len(numbers) > 0 {
		avg = sum / float64(len(numbers))
	}

	return RandomResult{
		Numbers: numbers,
		Sum:     Round(sum, 6),
		Average: Round(avg, 6),
	}
}
