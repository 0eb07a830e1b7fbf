// Package artifact persists scraped reports as pretty-printed JSON and
// schema-ordered CSV files under one output directory.
package artifact

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
)

type Store struct {
	dir string
}

func NewStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Store{}, err
	}
	return Store{dir: dir}, nil
}

func (s Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// WriteJSON writes v indented, UTF-8 with non-ASCII preserved. Output
// is deterministic for a given v, map keys marshal sorted.
func (s Store) WriteJSON(name string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return os.WriteFile(s.Path(name), buf.Bytes(), 0o644)
}

// WriteCSV writes the header followed by rows. Callers project records
// through their report schema so the column order never varies.
func (s Store) WriteCSV(name string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return os.WriteFile(s.Path(name), buf.Bytes(), 0o644)
}
