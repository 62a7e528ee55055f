package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"time"

	"lukechampine.com/frand"
)

// Source is the randomness a session draws spawns from.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// Seeder produces a fresh Source each time a session starts or resets.
type Seeder func() Source

type entropySource struct{}

func (entropySource) IntN(n int) int   { return frand.Intn(n) }
func (entropySource) Float64() float64 { return frand.Float64() }

// EntropySource draws from the system entropy pool.
func EntropySource() Source {
	return entropySource{}
}

// EntropySeeder is the Seeder for normal play.
func EntropySeeder() Seeder {
	return EntropySource
}

// SeededSource returns a deterministic ChaCha8 generator for seed.
func SeededSource(seed uint64) Source {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return rand.New(rand.NewChaCha8(key))
}

// SeededSeeder restarts the same deterministic sequence on every reset.
func SeededSeeder(seed uint64) Seeder {
	return func() Source { return SeededSource(seed) }
}

// DateKey returns the calendar date of t as YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DailySeed derives the 32-byte daily key as HMAC-SHA256(salt, DateKey(date)).
func DailySeed(date time.Time, salt string) [32]byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

// DailySource returns the generator shared by every player on date.
func DailySource(date time.Time, salt string) Source {
	return rand.New(rand.NewChaCha8(DailySeed(date, salt)))
}

// DailySeeder replays the date's sequence from the start on every reset.
func DailySeeder(date time.Time, salt string) Seeder {
	key := DailySeed(date, salt)
	return func() Source { return rand.New(rand.NewChaCha8(key)) }
}
