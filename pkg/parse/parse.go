package parse

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/diagramlab/diagram-annotator/pkg/logging"
	"github.com/diagramlab/diagram-annotator/pkg/model"
)

// LoadAnnotation reads one per-diagram annotation record from a JSON file.
func LoadAnnotation(path string) (*model.Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading annotation %s: %w", path, err)
	}
	var ann model.Annotation
	if err := json.Unmarshal(data, &ann); err != nil {
		return nil, fmt.Errorf("parsing annotation %s: %w", path, err)
	}
	return &ann, nil
}

// Extract flattens an annotation record into an ordered element id list
// and an id-to-kind mapping. Buckets are visited in the canonical order
// and ids within a bucket are sorted, so extraction is deterministic for
// a given record. Ids that appear in no recognized bucket are excluded
// from the mapping; missing buckets contribute nothing.
func Extract(ann *model.Annotation) ([]string, map[string]model.Kind) {
	var elements []string
	kinds := make(map[string]model.Kind)

	for _, bucket := range model.ElementBuckets {
		shapes := ann.Bucket(bucket)
		if len(shapes) == 0 {
			continue
		}
		ids := make([]string, 0, len(shapes))
		for id := range shapes {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if _, seen := kinds[id]; seen {
				logging.Debug("duplicate element id across buckets", "id", id)
				continue
			}
			elements = append(elements, id)
			kinds[id] = bucket
		}
	}

	return elements, kinds
}
