package analysis

import (
	"fmt"
	"strings"

	"github.com/tordrt/fdnorm/internal/fd"
)

// ParsePreview parses a preview dependency "[relation:] A, B -> C".
// Without a relation qualifier the dependency applies to every relation
// holding all of its attributes.
func ParsePreview(s string) (string, fd.Dependency, error) {
	relation := ""
	if name, rest, ok := strings.Cut(s, ":"); ok {
		relation = strings.TrimSpace(name)
		s = rest
	}
	dep, err := fd.ParseDependency(s)
	if err != nil {
		return "", fd.Dependency{}, err
	}
	return relation, dep, nil
}

// ApplyPreview adds the preview dependencies to the proposed overlay of the
// relations they apply to. It fails if a dependency applies to none.
func ApplyPreview(relations []fd.Relation, specs []string) ([]fd.Relation, error) {
	out := make([]fd.Relation, len(relations))
	copy(out, relations)

	for _, spec := range specs {
		name, dep, err := ParsePreview(spec)
		if err != nil {
			return nil, err
		}

		applied := false
		for i := range out {
			if name != "" && out[i].Name != name {
				continue
			}
			if !out[i].Columns.ContainsAll(dep.Attributes()) {
				if name != "" {
					unknown := dep.Attributes().Minus(out[i].Columns)
					return nil, fmt.Errorf("dependency %q references unknown attributes %s of %s: %w",
						spec, unknown, name, fd.ErrInvalidRelation)
				}
				continue
			}
			out[i] = out[i].WithAdditional(dep)
			applied = true
		}
		if !applied {
			return nil, fmt.Errorf("dependency %q applies to no analyzed relation", spec)
		}
	}
	return out, nil
}

// Exclude drops the relations named in names
func Exclude(relations []fd.Relation, names []string) []fd.Relation {
	if len(names) == 0 {
		return relations
	}

	excluded := make(map[string]bool, len(names))
	for _, n := range names {
		excluded[n] = true
	}

	kept := make([]fd.Relation, 0, len(relations))
	for _, r := range relations {
		if !excluded[r.Name] {
			kept = append(kept, r)
		}
	}
	return kept
}
