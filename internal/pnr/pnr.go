// Package pnr generates passenger name records.
package pnr

import "math/rand/v2"

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	DefaultSize   = 8
	DefaultPrefix = "BT"
)

// New generates a PNR of the given size using uppercase alphanumeric
// characters, starting with the given prefix.
func New(size int, prefix string) string {
	code := []byte(prefix)
	for i := 0; i < size-len(prefix); i++ {
		code = append(code, alphabet[rand.IntN(len(alphabet))])
	}
	return string(code)
}

// Generate returns a PNR with the default size and prefix.
func Generate() string {
	return New(DefaultSize, DefaultPrefix)
}
