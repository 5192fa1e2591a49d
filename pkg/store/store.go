// Package store persists the annotation collection: one row per diagram,
// holding the image name, the raw annotation record, and the annotation
// state once work on the diagram has started.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/diagramlab/diagram-annotator/pkg/diagram"
	"github.com/diagramlab/diagram-annotator/pkg/logging"
	"github.com/diagramlab/diagram-annotator/pkg/model"
	"github.com/diagramlab/diagram-annotator/pkg/parse"
)

// Row is one diagram in the collection. Diagram is nil until annotation
// of the row has started.
type Row struct {
	ImageName  string            `json:"image_name"`
	Annotation *model.Annotation `json:"annotation"`
	Diagram    *diagram.Diagram  `json:"diagram"`
}

// Collection is the persisted working set. Row order is the annotation
// order and survives save/load.
type Collection struct {
	Path string `json:"-"`
	Rows []*Row `json:"rows"`
}

// Open loads the collection at path, or returns an empty collection bound
// to that path when the file does not exist yet.
func Open(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logging.Debug("starting a new collection", "path", path)
		return &Collection{Path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading collection %s: %w", path, err)
	}

	c := &Collection{Path: path}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decoding collection %s: %w", path, err)
	}
	return c, nil
}

// Merge scans a directory of per-diagram annotation files (<image>.json)
// and appends rows for images not yet in the collection. New files are
// appended in name order so runs are reproducible. Returns the number of
// rows added.
func (c *Collection) Merge(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading annotation directory %s: %w", dir, err)
	}

	known := make(map[string]bool, len(c.Rows))
	for _, row := range c.Rows {
		known[row.ImageName] = true
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	added := 0
	for _, name := range names {
		image := strings.TrimSuffix(name, ".json")
		if known[image] {
			continue
		}
		ann, err := parse.LoadAnnotation(filepath.Join(dir, name))
		if err != nil {
			logging.Warn("skipping unreadable annotation", "file", name, "error", err)
			continue
		}
		c.Rows = append(c.Rows, &Row{ImageName: image, Annotation: ann})
		known[image] = true
		added++
	}

	if added > 0 {
		logging.Info("merged new annotation files", "dir", dir, "added", added)
	}
	return added, nil
}

// Save writes the collection atomically: a temp file in the same
// directory is renamed over the target so a crash mid-write never leaves
// a truncated collection.
func (c *Collection) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}

	dir := filepath.Dir(c.Path)
	tmp, err := os.CreateTemp(dir, ".collection-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing collection temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing collection %s: %w", c.Path, err)
	}
	return nil
}

// CompleteCount returns the number of rows whose diagram carries the
// aggregate complete flag.
func (c *Collection) CompleteCount() int {
	n := 0
	for _, row := range c.Rows {
		if row.Diagram != nil && row.Diagram.Complete {
			n++
		}
	}
	return n
}
