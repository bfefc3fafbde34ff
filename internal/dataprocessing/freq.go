package dataprocessing

import (
	"time"

	b3errors "b3data/internal/errors"
	"b3data/pkg/contracts/domain"
)

// InferFrequency derives the single sampling frequency of a time index.
// The index must be strictly increasing with one fixed step throughout;
// irregular or gapped sampling is rejected, not interpolated.
func InferFrequency(index []time.Time) (domain.Frequency, error) {
	if len(index) < 2 {
		return "", b3errors.NewFormatError(
			"no frequency of the provided data could be detected, " +
				"please provide data with at least two timestamps")
	}
	step := index[1].Sub(index[0])
	if step <= 0 {
		return "", b3errors.NewFormatError(
			"no frequency of the provided data could be detected, " +
				"the time index must be strictly increasing")
	}
	for i := 2; i < len(index); i++ {
		if index[i].Sub(index[i-1]) != step {
			return "", b3errors.NewFormatError(
				"no frequency of the provided data could be detected, "+
					"please provide data with a specific frequency (e.g. 'H' or 'T'), "+
					"found steps %v and %v", step, index[i].Sub(index[i-1]))
		}
	}
	freq, err := domain.FrequencyFor(step)
	if err != nil {
		return "", b3errors.NewFormatError("no frequency alias describes the sampling step: %v", err)
	}
	return freq, nil
}
