package similarity

import "movierec/internal/types"

// Factory tries calculators in priority order.
type Factory struct {
	calculators []Calculator
}

func NewFactory(calculators ...Calculator) *Factory {
	if len(calculators) == 0 {
		calculators = []Calculator{
			ratingCalculator{},
			yearCalculator{},
			genreCalculator{},
			actorCalculator{},
			directorCalculator{},
		}
	}
	ordered := append([]Calculator(nil), calculators...)
	sortByPriority(ordered)
	return &Factory{calculators: ordered}
}

// BestReason returns the first reason produced, or the default reason.
func (f *Factory) BestReason(target, candidate types.MovieRecord) types.SimilarityReason {
	for _, calculator := range f.calculators {
		if reason := calculator.Calculate(target, candidate); reason != nil {
			return *reason
		}
	}
	return types.SimilarityReason{Type: types.ReasonDefault, Reason: defaultReasonText}
}
