package plan

import (
	"io"

	"gopkg.in/yaml.v3"
)

// Report is the serializable form of a manifest's plan
type Report struct {
	Manifest   string       `yaml:"manifest"`
	CreateDirs []string     `yaml:"create_dirs,omitempty"`
	CopyDirs   []CopyReport `yaml:"copy_dirs,omitempty"`
	CopyFiles  []CopyReport `yaml:"copy_files,omitempty"`
}

// CopyReport is one copy action in a report
type CopyReport struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// NewReport builds the sorted report of p
func NewReport(manifest string, p *Plan) Report {
	r := Report{
		Manifest:   manifest,
		CreateDirs: p.CreateDirList(),
	}
	for _, c := range p.CopyDirList() {
		r.CopyDirs = append(r.CopyDirs, CopyReport{From: c.From, To: c.To})
	}
	for _, c := range p.CopyFileList() {
		r.CopyFiles = append(r.CopyFiles, CopyReport{From: c.From, To: c.To})
	}
	return r
}

// Reports converts tree plan entries into reports
func Reports(entries []Entry) []Report {
	reports := make([]Report, 0, len(entries))
	for _, e := range entries {
		reports = append(reports, NewReport(e.Manifest, e.Plan))
	}
	return reports
}

// WriteYAML writes reports as a YAML sequence
func WriteYAML(w io.Writer, reports []Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return err
	}
	return enc.Close()
}
