package field

import "math"

// Correlation returns the Pearson correlation coefficient of two equal-shape
// fields. It returns 0 when either field is constant.
func Correlation(a, b *Scalar) (float64, error) {
	if err := CheckShape(a, b); err != nil {
		return 0, err
	}
	ma, mb := a.Mean(), b.Mean()
	var cov, va, vb float64
	for i := range a.values {
		da := a.values[i] - ma
		db := b.values[i] - mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return 0, nil
	}
	return cov / math.Sqrt(va*vb), nil
}
