package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ppdeploy/internal/ports"

	"github.com/google/renameio/v2"
)

// OsFileSystem reads and writes the host file system. Writes go through a
// temporary file in the target directory and a rename.
type OsFileSystem struct{}

func ProvideOsFileSystem() *OsFileSystem {
	return &OsFileSystem{}
}

func (f *OsFileSystem) ReadFile(path string) ([]byte, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}

// WriteFile replaces path atomically. A new file gets the mode of accessMode
// exactly, regardless of the umask. An existing file keeps its current mode,
// so patching a checkout never changes the permissions git gave it.
func (f *OsFileSystem) WriteFile(path string, content []byte, accessMode ports.AccessMode) error {
	path, err := expandHome(path)
	if err != nil {
		return err
	}

	if err := f.EnsureDirExists(path); err != nil {
		return fmt.Errorf("failed to ensure directory exists: %w", err)
	}

	if err := renameio.WriteFile(path, content, getOsFileModeForAccessMode(accessMode), renameio.IgnoreUmask()); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (f *OsFileSystem) EnsureDirExists(path string) error {
	path, err := expandHome(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return nil
}

func (f *OsFileSystem) FileExists(path string) (bool, error) {
	path, err := expandHome(path)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check if file exists: %w", err)
}

func (f *OsFileSystem) RemoveAll(path string) error {
	path, err := expandHome(path)
	if err != nil {
		return err
	}

	clean := filepath.Clean(path)
	if clean == "/" || clean == "." {
		return fmt.Errorf("refusing to remove %s", path)
	}
	if err := os.RemoveAll(clean); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func getOsFileModeForAccessMode(accessMode ports.AccessMode) os.FileMode {
	switch accessMode {
	case ports.ReadWrite:
		return 0600
	case ports.ReadWriteExecute:
		return 0700
	case ports.ReadAllWriteOwner:
		return 0644
	default:
		return 0600
	}
}

var _ ports.FileSystem = (*OsFileSystem)(nil)
