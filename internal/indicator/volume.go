package indicator

import "errors"

// SMASeries computes a simple moving average over `period` values,
// including the current one, aligned with the input. Positions without a
// full window are NaN.
func SMASeries(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := nanSlice(len(values))
	if len(values) < period {
		return out, nil
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out, nil
}
