package codegen

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/qsketch/qsketch/internal/circuit"
)

// Fingerprint returns the SHA3-256 hex digest of the circuit's canonical
// QASM form. Because QASM generation is deterministic, equal circuits have
// equal fingerprints; the store and simulation results use it to tie
// artifacts back to the exact circuit that produced them.
func Fingerprint(c *circuit.Circuit) (string, error) {
	qasm, err := QASM(c)
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256([]byte(qasm))
	return hex.EncodeToString(sum[:]), nil
}
