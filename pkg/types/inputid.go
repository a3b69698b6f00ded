package types

import (
	"crypto/sha1"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// InputID is a Git-style SHA-1 content hash (20 bytes) of an almanac input.
// Two runs over byte-identical inputs share an InputID.
type InputID [20]byte

// ComputeInputID computes the Git blob hash: SHA-1("blob {len}\0{content}").
func ComputeInputID(content []byte) InputID {
	header := fmt.Sprintf("blob %d\x00", len(content))
	h := sha1.New()
	h.Write([]byte(header))
	h.Write(content)

	var id InputID
	copy(id[:], h.Sum(nil))
	return id
}

// Hex returns 40-character hex string.
func (id InputID) Hex() string {
	return hex.EncodeToString(id[:])
}

// String implements Stringer (returns Hex()).
func (id InputID) String() string {
	return id.Hex()
}

// Short returns the first 12 hex characters, for display.
func (id InputID) Short() string {
	return id.Hex()[:12]
}

// ParseInputID parses 40-char hex string to InputID.
func ParseInputID(hexStr string) (InputID, error) {
	if len(hexStr) != 40 {
		return InputID{}, fmt.Errorf("invalid input ID length: expected 40, got %d", len(hexStr))
	}

	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return InputID{}, fmt.Errorf("invalid hex string: %w", err)
	}

	var id InputID
	copy(id[:], decoded)
	return id, nil
}

// MarshalJSON implements json.Marshaler.
func (id InputID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Hex())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *InputID) UnmarshalJSON(data []byte) error {
	var hexStr string
	if err := json.Unmarshal(data, &hexStr); err != nil {
		return err
	}

	parsed, err := ParseInputID(hexStr)
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}

// Value implements driver.Valuer for SQL serialization.
func (id InputID) Value() (driver.Value, error) {
	return id.Hex(), nil
}

// Scan implements sql.Scanner for SQL deserialization.
func (id *InputID) Scan(value interface{}) error {
	if value == nil {
		return fmt.Errorf("cannot scan nil into InputID")
	}

	var hexStr string
	switch v := value.(type) {
	case string:
		hexStr = v
	case []byte:
		hexStr = string(v)
	default:
		return fmt.Errorf("cannot scan type %T into InputID", value)
	}

	parsed, err := ParseInputID(hexStr)
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}
