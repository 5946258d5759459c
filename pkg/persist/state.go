package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// StateFilePerm is the mode of a saved state file.
const StateFilePerm os.FileMode = 0o644

// StatePath returns the file that SaveState and LoadState use.
func StatePath(dir, basename string, codec Codec) string {
	return filepath.Join(dir, basename+codec.Extension())
}

// Exists reports whether a state file is present.
func Exists(dir, basename string, codec Codec) (bool, error) {
	_, err := os.Stat(StatePath(dir, basename, codec))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat state file: %w", err)
	}
}

// SaveState saves the given state to a file in the specified directory.
// The state is written to a temporary file first and renamed into place, so a
// failed save leaves any previous file intact. The saved file has mode
// StateFilePerm.
func SaveState(dir, basename string, codec Codec, state any) (err error) {
	file, err := os.CreateTemp(dir, "."+basename+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create state file: %w", err)
	}

	tmpPath := file.Name()

	defer func() {
		if err != nil {
			file.Close()
			os.Remove(tmpPath)
		}
	}()

	err = codec.Encode(file, state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	err = file.Chmod(StateFilePerm)
	if err != nil {
		return fmt.Errorf("chmod state file: %w", err)
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close state file: %w", err)
	}

	err = os.Rename(tmpPath, StatePath(dir, basename, codec))
	if err != nil {
		return fmt.Errorf("rename state file: %w", err)
	}

	return nil
}

// LoadState loads state from a file in the specified directory.
// The filename is constructed from the basename and the codec's extension.
// The state parameter must be a pointer to the target value.
func LoadState(dir, basename string, codec Codec, state any) error {
	file, err := os.Open(StatePath(dir, basename, codec))
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	err = codec.Decode(file, state)
	if err != nil {
		return fmt.Errorf("decode state: %w", err)
	}

	return nil
}
