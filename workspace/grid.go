package workspace

// LengthRange is one link's candidate values for a brute-force grid search.
type LengthRange struct {
	Min  float64
	Max  float64
	Step float64
}

// Values expands the range into its candidate values, inclusive of both ends
// up to floating rounding.
func (r LengthRange) Values() []float64 {
	if r.Step <= 0 || r.Max < r.Min {
		return nil
	}
	var values []float64
	for v := r.Min; v <= r.Max+r.Step/2; v += r.Step {
		values = append(values, v)
	}
	return values
}

// Grid builds the cartesian product of per-link candidate ranges. The result
// grows multiplicatively with each range, which is the point of a brute-force
// search, but callers should keep an eye on the sizes they ask for.
func Grid(ranges []LengthRange) [][]float64 {
	if len(ranges) == 0 {
		return nil
	}
	candidates := [][]float64{{}}
	for _, r := range ranges {
		values := r.Values()
		next := make([][]float64, 0, len(candidates)*len(values))
		for _, prefix := range candidates {
			for _, v := range values {
				candidate := make([]float64, 0, len(prefix)+1)
				candidate = append(candidate, prefix...)
				candidate = append(candidate, v)
				next = append(next, candidate)
			}
		}
		candidates = next
	}
	return candidates
}
