package transform

import (
	"errors"
	"fmt"
	"math"

	"gdpetl/internal/etlerr"
	"gdpetl/internal/gdp"
)

var ErrAlreadyBillions = errors.New("dataset is already in billions")

// MillionsToBillions converts a value in millions to billions rounded to 2
// decimals, halves round to even.
//
// The value is scaled to tens of millions (the unit of the last kept decimal)
// before rounding, so whole millions are exact at the rounding step.
func MillionsToBillions(millions float64) float64 {
	return math.RoundToEven(millions/10) / 100
}

// ToBillions converts every value of dataset in place and marks it as being
// in billions. It refuses a dataset that has already been converted.
func ToBillions(dataset *gdp.Dataset) error {
	if dataset.Unit != gdp.Millions {
		return etlerr.New(
			etlerr.StageTransform, etlerr.KindTransform,
			fmt.Errorf("%w (unit %s)", ErrAlreadyBillions, dataset.Unit),
		)
	}
	for i := range dataset.Records {
		dataset.Records[i].Value = MillionsToBillions(dataset.Records[i].Value)
	}
	dataset.Unit = gdp.Billions
	return nil
}
