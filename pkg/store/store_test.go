package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/diagramlab/diagram-annotator/pkg/diagram"
	"github.com/diagramlab/diagram-annotator/pkg/model"
)

const annotationJSON = `{
  "blobs": {
    "B0": {"id": "B0", "polygon": [[0,0],[10,0],[10,10]]}
  },
  "text": {
    "T0": {"id": "T0", "rectangle": [[0,40],[20,50]]}
  },
  "imageConsts": {
    "I0": {"id": "I0"}
  }
}`

func writeAnnotationDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"0002.png.json", "0001.png.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(annotationJSON), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.json")
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Rows) != 0 {
		t.Errorf("expected empty collection, got %d rows", len(c.Rows))
	}
}

func TestMergeAddsNewFilesInNameOrder(t *testing.T) {
	dir := writeAnnotationDir(t)
	c := &Collection{Path: filepath.Join(t.TempDir(), "collection.json")}

	added, err := c.Merge(dir)
	if err != nil {
		t.Fatal(err)
	}
	if added != 2 {
		t.Fatalf("expected 2 rows added, got %d", added)
	}
	if c.Rows[0].ImageName != "0001.png" || c.Rows[1].ImageName != "0002.png" {
		t.Errorf("unexpected row order: %s, %s", c.Rows[0].ImageName, c.Rows[1].ImageName)
	}

	// A second merge is a no-op.
	added, err = c.Merge(dir)
	if err != nil {
		t.Fatal(err)
	}
	if added != 0 {
		t.Errorf("re-merging the same directory must add nothing, got %d", added)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := writeAnnotationDir(t)
	path := filepath.Join(t.TempDir(), "collection.json")

	c := &Collection{Path: path}
	if _, err := c.Merge(dir); err != nil {
		t.Fatal(err)
	}

	d, err := diagram.New(c.Rows[0].Annotation, c.Rows[0].ImageName)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.OpenLayer(diagram.LayerLayout, false); err != nil {
		t.Fatal(err)
	}
	if err := d.Layout.AddEdge("B0", "I0", model.EdgeGrouping); err != nil {
		t.Fatal(err)
	}
	if err := d.Layout.AddEdge("T0", "I0", model.EdgeGrouping); err != nil {
		t.Fatal(err)
	}
	if err := d.CompleteLayer(diagram.LayerLayout, false); err != nil {
		t.Fatal(err)
	}
	c.Rows[0].Diagram = d

	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	restored, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(restored.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(restored.Rows))
	}
	if restored.Rows[1].Diagram != nil {
		t.Error("the untouched row must keep a nil diagram")
	}

	rd := restored.Rows[0].Diagram
	if rd == nil {
		t.Fatal("the annotated row must keep its diagram")
	}
	if !rd.GroupComplete {
		t.Error("group_complete must survive persistence")
	}
	if !rd.Layout.Frozen() {
		t.Error("the frozen layout must stay frozen")
	}
	if rd.Layout.EdgeCount() != 2 {
		t.Errorf("expected 2 layout edges, got %d", rd.Layout.EdgeCount())
	}
}

func TestCompleteCount(t *testing.T) {
	c := &Collection{
		Rows: []*Row{
			{ImageName: "a.png"},
			{ImageName: "b.png", Diagram: &diagram.Diagram{Complete: true}},
			{ImageName: "c.png", Diagram: &diagram.Diagram{}},
		},
	}
	if got := c.CompleteCount(); got != 1 {
		t.Errorf("expected 1 complete row, got %d", got)
	}
}
