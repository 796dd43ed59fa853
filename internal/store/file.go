// Package store persists circuits as versioned JSON files. Saves are
// atomic (temp file plus rename), and every file carries a SHA3-256
// checksum so corruption is detected before a damaged circuit reaches the
// model.
package store

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	"github.com/qsketch/qsketch/internal/circuit"
)

// FormatVersion is the current circuit file schema version. Readers accept
// any version up to this one; files from a newer version are rejected
// rather than misread.
const FormatVersion = 1

type placementRecord struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Qubits   []int     `json:"qubits"`
	Params   []float64 `json:"params,omitempty"`
	Position int       `json:"position"`
}

type filePayload struct {
	FormatVersion int               `json:"format_version"`
	NumQubits     int               `json:"num_qubits"`
	Placements    []placementRecord `json:"placements"`
	Checksum      string            `json:"checksum,omitempty"`
}

// checksum computes the SHA3-256 digest of the payload with its checksum
// field blanked, so the digest covers exactly the circuit content.
func (p filePayload) checksum() (string, error) {
	p.Checksum = ""
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Encode serializes a circuit into the file format. The circuit is
// validated first; placements are stored in insertion order so a round trip
// preserves ordering exactly.
func Encode(c *circuit.Circuit) ([]byte, error) {
	if c == nil {
		return nil, circuit.NewValidationError("circuit is nil")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	payload := filePayload{
		FormatVersion: FormatVersion,
		NumQubits:     c.NumQubits(),
		Placements:    make([]placementRecord, 0, c.NumPlacements()),
	}
	for _, p := range c.Placements() {
		payload.Placements = append(payload.Placements, placementRecord{
			ID:       p.ID.String(),
			Kind:     string(p.Kind),
			Qubits:   p.Qubits,
			Params:   p.Params,
			Position: p.Position,
		})
	}

	sum, err := payload.checksum()
	if err != nil {
		return nil, err
	}
	payload.Checksum = sum

	return json.MarshalIndent(payload, "", "    ")
}

// Decode parses the file format back into a circuit. Every placement
// re-passes structural validation, since files are untrusted input.
func Decode(data []byte) (*circuit.Circuit, error) {
	var payload filePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, circuit.NewValidationError("circuit file is not valid JSON: %v", err)
	}

	if payload.FormatVersion < 1 {
		return nil, circuit.NewValidationError("circuit file has no format version")
	}
	if payload.FormatVersion > FormatVersion {
		return nil, circuit.NewValidationError(
			"circuit file format version %d is newer than supported version %d",
			payload.FormatVersion, FormatVersion)
	}

	if payload.Checksum != "" {
		want, err := payload.checksum()
		if err != nil {
			return nil, err
		}
		if payload.Checksum != want {
			return nil, circuit.NewValidationError("circuit file checksum mismatch")
		}
	}

	placements := make([]circuit.Placement, 0, len(payload.Placements))
	for i, rec := range payload.Placements {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			return nil, circuit.NewValidationError("placement %d has invalid id %q", i, rec.ID)
		}
		placements = append(placements, circuit.Placement{
			ID:       id,
			Kind:     circuit.GateKind(rec.Kind),
			Qubits:   rec.Qubits,
			Params:   rec.Params,
			Position: rec.Position,
		})
	}

	c := circuit.New()
	c.Restore(payload.NumQubits, placements)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes the circuit to path atomically: the payload goes to a
// temporary file in the same directory, which is renamed over the target.
// A failed save never leaves a partial file behind.
func Save(c *circuit.Circuit, path string) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing circuit file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing circuit file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing circuit file: %w", err)
	}
	return nil
}

// Load reads a circuit from path.
func Load(path string) (*circuit.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, circuit.NewNotFoundError("circuit file %s does not exist", path)
		}
		return nil, fmt.Errorf("reading circuit file: %w", err)
	}
	return Decode(data)
}
