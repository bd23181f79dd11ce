package util

import (
	"math/rand"
	"sync"
	"time"
)

// Randomizer is the subset of *rand.Rand the engine draws from. It is not
// safe for concurrent use unless the implementation says otherwise.
type Randomizer interface {
	Float64() float64
	Intn(n int) int
	Int63() int64
	Perm(n int) []int
}

func NewRandomizer(seed int64) Randomizer {
	return rand.New(rand.NewSource(seed))
}

// Derive returns an independent randomizer seeded from r, so that work split
// across goroutines stays reproducible for a given parent seed.
func Derive(r Randomizer) Randomizer {
	return NewRandomizer(r.Int63())
}

func TimeSeed() int64 {
	return time.Now().UnixNano()
}

// SeedSource hands out seeds for independent sessions.
type SeedSource struct {
	lock *sync.Mutex
	r    Randomizer
}

func NewSeedSource(seed int64) *SeedSource {
	if seed == 0 {
		seed = TimeSeed()
	}
	return &SeedSource{
		lock: &sync.Mutex{},
		r:    NewRandomizer(seed),
	}
}

func (s *SeedSource) Next() int64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.r.Int63()
}

func RandomFloatIn(r Randomizer, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}
