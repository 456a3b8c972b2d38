package util

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/edsrzf/mmap-go"
)

// ReadSource returns the contents of a source file.
//
// The file is mapped read-only and copied out so the mapping can be released
// before returning. Empty files and files that cannot be mapped are read with
// os.ReadFile instead.
func ReadSource(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("failed to read %q: is a directory", filePath)
	}
	if stat.Size() == 0 {
		return []byte{}, nil
	}

	mapped, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		slog.Debug("mmap failed, using fallback", "file", filePath, "size", stat.Size(), "error", err)
		data, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read file %q: mmap error: %v, read error: %w", filePath, err, readErr)
		}
		return data, nil
	}

	data := make([]byte, len(mapped))
	copy(data, mapped)
	if err := mapped.Unmap(); err != nil {
		return nil, fmt.Errorf("failed to unmap file %q: %w", filePath, err)
	}
	return data, nil
}

// WriteSource replaces the file contents, keeping its permission bits.
func WriteSource(filePath string, data []byte) error {
	mode := os.FileMode(0o644)
	if stat, err := os.Stat(filePath); err == nil {
		mode = stat.Mode().Perm()
	}
	if err := os.WriteFile(filePath, data, mode); err != nil {
		return fmt.Errorf("failed to write file %q: %w", filePath, err)
	}
	return nil
}
