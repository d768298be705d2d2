package sim

import (
	"os"

	"github.com/pkg/errors"
)

// LoadImage initializes every memory device under root from the contents
// of the file at path. The file is read once and the same bytes are handed
// to each device.
//
// It returns false with a nil error when no memory device exists anywhere in
// the tree; nothing is read or mutated in that case. An unreadable file or
// contents rejected by a device yield a *LoadError.
func LoadImage(root State, path string) (bool, error) {
	memories := Scan(root).Memories
	if len(memories) == 0 {
		return false, nil
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return false, &LoadError{Path: path, Err: errors.Wrap(err, "reading memory image")}
	}
	for i, m := range memories {
		if err := m.LoadImage(contents); err != nil {
			return false, &LoadError{Path: path, Err: errors.Wrapf(err, "memory device %d", i)}
		}
	}
	return true, nil
}
