package templates

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// exportFile is the YAML layout for template import/export.
type exportFile struct {
	Templates []Template `yaml:"templates"`
}

// Export writes the templates of s to w as YAML, defaults first.
func Export(w io.Writer, s Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(exportFile{Templates: s.Sorted()}); err != nil {
		return fmt.Errorf("failed to encode templates: %w", err)
	}
	return enc.Close()
}

// Import reads templates written by Export. Duplicate ids keep the last
// entry.
func Import(r io.Reader) (Snapshot, error) {
	var file exportFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode templates: %w", err)
	}

	out := make(Snapshot, len(file.Templates))
	for i, t := range file.Templates {
		if t.ID == "" {
			return nil, fmt.Errorf("template %d has no id", i)
		}
		if t.Name == "" {
			t.Name = t.ID
		}
		out[t.ID] = t
	}
	return out, nil
}
