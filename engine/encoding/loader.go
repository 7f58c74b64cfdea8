package encoding

import (
	"encoding/json"
	"fmt"
	"os"
)

// mappingsFile is the on-disk shape of the encoding catalog.
type mappingsFile struct {
	Brands map[string]int `json:"brands"`
	Models map[string]int `json:"models"`
}

// LoadFile reads the encoding catalog from a JSON mappings file. Called once
// at startup; the resulting Table is shared read-only across requests.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("encoding: read mappings %s: %w", path, err)
	}
	var mf mappingsFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("encoding: parse mappings %s: %w", path, err)
	}
	return NewTable(mf.Brands, mf.Models), nil
}
