package core

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// ln10 is the natural logarithm of 10, used for log base conversions.
const ln10 = math.Ln10

// FastLinearToDB is an approximate LinearToDB for analysis paths where a few
// thousandths of a dB do not matter. Returns -Inf for zero and NaN for
// negative values, like the exact version.
func FastLinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * approx.FastLog(linear) / ln10
}

// FastDBToLinear is the approximate inverse of FastLinearToDB.
func FastDBToLinear(db float64) float64 {
	return approx.FastExp(db * ln10 / 20)
}
