package prize

import (
	"hash/fnv"
	"math/rand"
)

// Rarity roll boundaries, cumulative over a uniform [0,1) draw.
const (
	ultimateCeiling  = 0.01
	legendaryCeiling = 0.05
	superRareCeiling = 0.15
	rareCeiling      = 0.40
)

// DeterministicSeedValue hashes a root seed and label into a non-zero seed so
// each subsystem draws from an independent, reproducible stream.
func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// NewDeterministicRNG derives a rand stream for the given label.
func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))
}

// RollRarity draws a rarity from the weighted buckets. A nil rng falls back
// to the global source.
func RollRarity(rng *rand.Rand) Rarity {
	roll := randomFloat(rng)
	switch {
	case roll < ultimateCeiling:
		return RarityUltimate
	case roll < legendaryCeiling:
		return RarityLegendary
	case roll < superRareCeiling:
		return RaritySuperRare
	case roll < rareCeiling:
		return RarityRare
	default:
		return RarityCommon
	}
}

// RollClass picks uniformly from themes when provided, otherwise from the
// full class list.
func RollClass(rng *rand.Rand, themes []Class) Class {
	pool := themes
	if len(pool) == 0 {
		pool = Classes
	}
	return pool[randomIndex(rng, len(pool))]
}

func randomFloat(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}

func randomIndex(rng *rand.Rand, n int) int {
	if n <= 1 {
		return 0
	}
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}
