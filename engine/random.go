package engine

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// GenerateRandomNumbers derives a verifiable batch of uint64s from the client
// seed, the server seed and a timestamp. Revealing the server seed afterwards
// lets a player replay the hash chain and audit every outcome.
func GenerateRandomNumbers(
	clientSeed string,
	serverSeed string,
	timestamp uint64,
	amount uint64,
) []uint64 {
	postfix := fmt.Sprintf("%d%s%s", timestamp, clientSeed, serverSeed)

	result := make([]uint64, amount)
	for i := uint64(0); i < amount; i++ {
		hash := blake2b.Sum256([]byte(fmt.Sprintf("%d", i) + postfix))
		result[i] = binary.BigEndian.Uint64(hash[:8])
	}

	return result
}

// Source adapts the same hash chain to the games randomness interface.
// Numbers are drawn lazily, one blake2b hash per call, so a round consumes
// exactly as many as it needs.
type Source struct {
	postfix string
	counter uint64
}

func NewSource(clientSeed string, serverSeed string, nonce uint64) *Source {
	return &Source{postfix: fmt.Sprintf("%d%s%s", nonce, clientSeed, serverSeed)}
}

func (s *Source) next() uint64 {
	hash := blake2b.Sum256([]byte(fmt.Sprintf("%d", s.counter) + s.postfix))
	s.counter++
	return binary.BigEndian.Uint64(hash[:8])
}

// Float64 returns a uniform number in [0, 1) with 53 bits of precision.
func (s *Source) Float64() float64 {
	return float64(s.next()>>11) / (1 << 53)
}

func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("Intn: n must be positive")
	}
	return int(s.next() % uint64(n))
}
