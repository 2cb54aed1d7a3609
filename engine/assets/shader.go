package assets

import (
	"fmt"
	"os"
)

// LoadShader reads a compiled SPIR-V module. The bytecode is opaque to the
// engine; it only checks that the blob is non-empty and word-aligned.
func LoadShader(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader %s: %w", path, err)
	}
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("shader %s is not valid SPIR-V (%d bytes)", path, len(data))
	}
	return data, nil
}
