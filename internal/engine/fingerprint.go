package engine

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the board, score and move count. Two daily sessions fed
// the same directions on the same date have equal fingerprints.
func (s *Session) Fingerprint() uint64 {
	return Fingerprint(s.board, s.score, s.moves)
}

// Fingerprint hashes a position with xxhash.
func Fingerprint(b Board, score, moves int) uint64 {
	d := xxhash.New()
	var buf [8]byte
	write := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		//nolint:errcheck // xxhash.Digest.Write never fails
		d.Write(buf[:])
	}

	write(len(b))
	for _, row := range b {
		for _, v := range row {
			write(v)
		}
	}
	write(score)
	write(moves)
	return d.Sum64()
}
