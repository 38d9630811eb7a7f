package coresim

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type Tid int

// Tftick is an amount of simulated time, in seconds
type Tftick float64

func (f Tftick) String() string {
	return fmt.Sprintf("%.3fs", f)
}

type Number interface {
	constraints.Integer | constraints.Float
}

func avg[T Number](list []T) float64 {
	if len(list) == 0 {
		return 0
	}

	var sum T
	sum = 0
	for _, val := range list {
		sum += val
	}
	return float64(sum) / float64(len(list))
}
