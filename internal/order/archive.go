package order

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid"
)

// Archive persists order snapshots as pretty-printed JSON files, one per
// order, in a single directory. Archived records are write-once.
type Archive struct {
	dir string
}

func NewArchive(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o775); err != nil {
		return nil, fmt.Errorf("archive: create dir %s: %w", dir, err)
	}
	return &Archive{dir: dir}, nil
}

// Store writes a delivered order under a collision-proof name and returns
// the basename. Order ids have second resolution, so the name carries a
// random suffix to keep same-second deliveries apart.
func (a *Archive) Store(o *Order) (string, error) {
	suffix := uuid.Must(uuid.NewV4()).String()[:6]
	name := fmt.Sprintf("order-%s-%s.json", o.ID, suffix)
	if err := a.write(name, o); err != nil {
		return "", err
	}
	return name, nil
}

// Export writes the order under its plain id, overwriting any previous
// export of the same order. Returns the basename even when the write
// fails, so callers can report the attempted file.
func (a *Archive) Export(o *Order) (string, error) {
	name := fmt.Sprintf("order-%s.json", o.ID)
	return name, a.write(name, o)
}

// Load reads an archived order back by basename.
func (a *Archive) Load(name string) (*Order, error) {
	data, err := os.ReadFile(filepath.Join(a.dir, name))
	if err != nil {
		return nil, fmt.Errorf("archive: read %s: %w", name, err)
	}
	var o Order
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("archive: decode %s: %w", name, err)
	}
	return &o, nil
}

func (a *Archive) write(name string, o *Order) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("archive: marshal order %s: %w", o.ID, err)
	}
	if err := os.WriteFile(filepath.Join(a.dir, name), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("archive: write %s: %w", name, err)
	}
	return nil
}
