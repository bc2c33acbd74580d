package formatter

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/fdnorm/internal/analysis"
	"github.com/tordrt/fdnorm/internal/fd"
)

// YAMLFormatter formats reports as a YAML document
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

type yamlDependency struct {
	LHS       []string `yaml:"lhs,flow"`
	RHS       []string `yaml:"rhs,flow"`
	Key       bool     `yaml:"key,omitempty"`
	CatalogID *int     `yaml:"catalog_id,omitempty"`
}

type yamlRelation struct {
	Name         string           `yaml:"name"`
	Attributes   []string         `yaml:"attributes,flow"`
	Origin       *yamlDependency  `yaml:"origin,omitempty"`
	Dependencies []yamlDependency `yaml:"dependencies,omitempty"`
}

type yamlReport struct {
	Relation      string           `yaml:"relation"`
	Skipped       string           `yaml:"skipped,omitempty"`
	NormalForm    string           `yaml:"normal_form,omitempty"`
	Attributes    []string         `yaml:"attributes,flow"`
	Keys          [][]string       `yaml:"candidate_keys,omitempty,flow"`
	NonKey        []string         `yaml:"non_key,omitempty,flow"`
	Dependencies  []yamlDependency `yaml:"dependencies,omitempty"`
	Cover         []string         `yaml:"canonical_cover,omitempty"`
	Target        string           `yaml:"target,omitempty"`
	Decomposition []yamlRelation   `yaml:"decomposition,omitempty"`
}

// Format writes the reports as a YAML sequence
func (f *YAMLFormatter) Format(reports []analysis.Report) error {
	docs := make([]yamlReport, 0, len(reports))
	for i := range reports {
		docs = append(docs, toYAMLReport(&reports[i]))
	}

	enc := yaml.NewEncoder(f.writer)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func toYAMLReport(r *analysis.Report) yamlReport {
	out := yamlReport{
		Relation:   r.Name(),
		Attributes: r.Relation.Columns.Slice(),
	}
	if r.Skipped {
		out.Skipped = r.Err.Error()
		return out
	}

	out.NormalForm = r.NormalForm.String()
	for _, k := range r.Keys {
		out.Keys = append(out.Keys, k.Slice())
	}
	out.NonKey = r.NonKey.Slice()
	out.Dependencies = toYAMLDependencies(r.Relation.FDs)
	for _, d := range r.Cover {
		out.Cover = append(out.Cover, d.String())
	}

	if r.Decomposed() {
		out.Target = r.Target.String()
		for _, d := range r.Decomposition {
			origin := toYAMLDependency(d.OriginFD)
			out.Decomposition = append(out.Decomposition, yamlRelation{
				Name:         d.Name,
				Attributes:   d.Columns.Slice(),
				Origin:       &origin,
				Dependencies: toYAMLDependencies(d.FDs),
			})
		}
	}
	return out
}

func toYAMLDependencies(deps []fd.Dependency) []yamlDependency {
	out := make([]yamlDependency, 0, len(deps))
	for _, d := range deps {
		out = append(out, toYAMLDependency(d))
	}
	return out
}

func toYAMLDependency(d fd.Dependency) yamlDependency {
	out := yamlDependency{LHS: d.LHS.Slice(), RHS: d.RHS.Slice(), Key: d.IsKey}
	if d.CatalogID != fd.Unpersisted {
		id := d.CatalogID
		out.CatalogID = &id
	}
	return out
}
