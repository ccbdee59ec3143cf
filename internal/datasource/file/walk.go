package file

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// DiscoverJSON walks root recursively and returns every regular file with a
// .json extension (case-insensitive), in lexical walk order.
//
// The order is deterministic and is the driver's discovery order: files are
// transformed and committed one at a time in exactly this sequence, which in
// turn fixes last-write-wins outcomes for dimension upserts across files.
func DiscoverJSON(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return out, nil
}
