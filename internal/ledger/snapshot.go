package ledger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// budgetFileVersion is the tag leading every snapshot file. Readers
// reject any file that does not start with exactly these bytes.
const budgetFileVersion = "1.0.0"

// SaveBudget writes the version tag followed by a byte-for-byte copy of
// the working store to path. The file is staged next to the target and
// published with a rename, so a half-written snapshot is never visible
// under the target name.
func (e *Engine) SaveBudget(path string) error {
	if path == "" {
		return validationf("save path required")
	}
	source, err := os.Open(e.path)
	if err != nil {
		return fmt.Errorf("open working store: %w", err)
	}
	defer source.Close()

	err = publishFile(path, func(w io.Writer) error {
		if _, err := io.WriteString(w, budgetFileVersion); err != nil {
			return err
		}
		_, err := io.Copy(w, source)
		return err
	})
	if err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	e.log.Info("budget saved", zap.String("path", path))
	e.setDirty(false)
	return nil
}

// LoadBudget replaces the working store with the snapshot at path. The
// version tag is checked before the working store is touched; a
// mismatch fails the whole operation and leaves the current budget
// as it was.
func (e *Engine) LoadBudget(ctx context.Context, path string) error {
	if path == "" {
		return validationf("load path required")
	}
	source, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer source.Close()

	tag := make([]byte, len(budgetFileVersion))
	if _, err := io.ReadFull(source, tag); err != nil {
		return formatf("snapshot too short for version tag: %v", err)
	}
	if !bytes.Equal(tag, []byte(budgetFileVersion)) {
		return formatf("snapshot version %q, want %q", tag, budgetFileVersion)
	}

	if err := e.Close(); err != nil {
		return fmt.Errorf("close working store: %w", err)
	}
	copyErr := publishFile(e.path, func(w io.Writer) error {
		_, err := io.Copy(w, source)
		return err
	})
	// Reopen whichever file is now at the working path; a failed
	// publish leaves the previous store in place.
	if err := e.reopen(ctx); err != nil {
		return fmt.Errorf("reopen working store: %w", err)
	}
	if copyErr != nil {
		return fmt.Errorf("load budget: %w", copyErr)
	}
	e.log.Info("budget loaded", zap.String("path", path))
	e.setDirty(false)
	return nil
}

// NewBudget discards the working store and recreates a blank one from
// the embedded schema and reference data.
func (e *Engine) NewBudget(ctx context.Context) error {
	if err := e.Close(); err != nil {
		return fmt.Errorf("close working store: %w", err)
	}
	if err := os.Remove(e.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("discard working store: %w", err)
	}
	if err := e.reopen(ctx); err != nil {
		return err
	}
	e.log.Info("blank budget created")
	e.setDirty(false)
	return nil
}

// publishFile stages content in a temp file beside dst and renames it
// into place once fully written and synced.
func publishFile(dst string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".tmp*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(name)
	}
	if err := write(tmp); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Rename(name, dst); err != nil {
		_ = os.Remove(name)
		return err
	}
	return nil
}
