// Package manifest reads the package.json of a working copy.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// FileName is the manifest file looked up in every working copy.
const FileName = "package.json"

// Reader implements contract.ManifestReader over the local filesystem.
type Reader struct{}

var _ contract.ManifestReader = Reader{} // Compile-time check

// Read implements the ManifestReader interface.
func (Reader) Read(dir string) (schema.Manifest, error) {
	return Read(dir)
}

// Read parses the manifest in dir.
func Read(dir string) (schema.Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return schema.Manifest{}, fmt.Errorf("%w: %s", contract.ErrManifestMissing, path)
	} else if err != nil {
		return schema.Manifest{}, fmt.Errorf("%w: %s: %v", contract.ErrManifestInvalid, path, err)
	}
	return Parse(data)
}

// Parse decodes manifest content. Only a JSON object is accepted.
func Parse(data []byte) (schema.Manifest, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return schema.Manifest{}, fmt.Errorf("%w: %v", contract.ErrManifestInvalid, err)
	}
	if raw == nil {
		return schema.Manifest{}, fmt.Errorf("%w: manifest is not an object", contract.ErrManifestInvalid)
	}

	var m schema.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return schema.Manifest{}, fmt.Errorf("%w: %v", contract.ErrManifestInvalid, err)
	}
	m.Raw = raw
	return m, nil
}
