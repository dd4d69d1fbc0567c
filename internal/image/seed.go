package image

import (
	"math"
	"math/rand"
)

// RandomSeed picks a seed uniformly in [0, 2^31-1).
func RandomSeed() int64 {
	return rand.Int63n(math.MaxInt32)
}
