package nn

import (
	"math"
	"math/rand"
	"sync"
)

// Weight initialization keeps its own seeded source so model
// construction is reproducible and independent of the global RNG.
var (
	initMu  sync.Mutex
	initRNG = rand.New(rand.NewSource(42))
)

// SeedInit reseeds the initializer RNG.
func SeedInit(seed int64) {
	initMu.Lock()
	defer initMu.Unlock()
	initRNG = rand.New(rand.NewSource(seed))
}

// xavierUniform fills data with U(-a, a) where a = sqrt(6/(fanIn+fanOut)).
func xavierUniform(data []float32, fanIn, fanOut int) {
	limit := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))
	initMu.Lock()
	defer initMu.Unlock()
	for i := range data {
		data[i] = (initRNG.Float32()*2 - 1) * limit
	}
}

func fill(data []float32, value float32) {
	for i := range data {
		data[i] = value
	}
}
