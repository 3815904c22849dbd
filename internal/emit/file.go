package emit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Artifact file names, fixed by the benchmark consumers.
const (
	SQLFileName     = "commerce_load.sql"
	SchemaFileName  = "commerce_schema.sql"
	CatalogFileName = "stores_catalog.json"
	SalesFileName   = "sales_docs.json"
)

// writeFileAtomic writes to a temp file in the target directory and
// renames it into place, so a failed run never publishes a partial
// artifact.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriterSize(tmp, 1<<20)
	if err := write(w); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish %s: %w", path, err)
	}
	return nil
}
