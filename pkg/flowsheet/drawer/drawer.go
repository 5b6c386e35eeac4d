// Package drawer renders a flowsheet to a graphviz DOT file.
package drawer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	colors "gopkg.in/go-playground/colors.v1"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
)

const dotTemplate = `digraph "{{.Name}}" {
	{{range $k, $v := .Attributes}}{{$k}}="{{$v}}";
	{{end}}
	{{- range $s := .Statements}}
	"{{.Source}}" {{if .Target}}-> "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} ]{{else}}[ {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} ]{{end}};
	{{- end}}
}
`

type description struct {
	Name       string
	Attributes map[string]string
	Statements []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	EdgeAttributes   map[string]string
}

var (
	lossesColor      = mustHex("#d62728")
	electricityColor = mustHex("#daa520")
	defaultColor     = mustHex("#000000")
)

func mustHex(hex string) colors.Color {
	c, err := colors.ParseHEX(hex)
	if err != nil {
		panic(err)
	}

	return c
}

// Render writes the system as <system name>.dot into dir, creating the
// directory if needed.
func Render(s *flowsheet.System, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "unable to render system %s", s.Name())
	}

	fileName := filepath.Join(dir, strings.ReplaceAll(s.Name(), " ", "_")+".dot")
	file, err := os.Create(fileName)
	if err != nil {
		return "", errors.Wrapf(err, "unable to render system %s", s.Name())
	}
	defer file.Close()

	desc, err := generateDOT(s)
	if err != nil {
		return "", errors.Wrapf(err, "unable to render system %s", s.Name())
	}

	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return "", errors.Wrap(err, "unable to parse the DOT template")
	}
	if err := tpl.Execute(file, desc); err != nil {
		return "", errors.Wrapf(err, "unable to render system %s", s.Name())
	}

	return fileName, nil
}

func generateDOT(s *flowsheet.System) (description, error) {
	desc := description{
		Name: s.Name(),
		Attributes: map[string]string{
			"rankdir": "LR",
		},
		Statements: make([]statement, 0),
	}

	boundaryVertices := []string{flowsheet.InputBoundary, flowsheet.OutputBoundary}
	for _, vertex := range boundaryVertices {
		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceAttributes: map[string]string{"shape": "plaintext"},
		})
	}
	for _, vertex := range s.DeviceNames() {
		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceAttributes: map[string]string{"shape": "box"},
		})
	}

	adjacencyMap, err := s.Graph().AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to walk the flowsheet graph")
	}

	// One DOT edge per graph edge, labelled with every flow it carries.
	// Targets are sorted so the rendered file is stable across runs.
	for _, source := range append(boundaryVertices, s.DeviceNames()...) {
		targets := make([]string, 0, len(adjacencyMap[source]))
		for target := range adjacencyMap[source] {
			targets = append(targets, target)
		}
		sort.Strings(targets)
		for _, target := range targets {
			names := flowNamesBetween(s, source, target)
			desc.Statements = append(desc.Statements, statement{
				Source: source,
				Target: target,
				EdgeAttributes: map[string]string{
					"label":     strings.Join(names, "\\n"),
					"color":     edgeColor(names).ToHEX().String(),
					"fontcolor": edgeColor(names).ToHEX().String(),
				},
			})
		}
	}

	return desc, nil
}

func flowNamesBetween(s *flowsheet.System, from, to string) []string {
	var names []string
	for _, r := range s.Flows() {
		if r.From == from && r.To == to {
			names = append(names, r.Flow.Name())
		}
	}

	return names
}

func edgeColor(flowNames []string) colors.Color {
	for _, name := range flowNames {
		lower := strings.ToLower(name)
		switch {
		case strings.Contains(lower, "losses"):
			return lossesColor
		case strings.Contains(lower, "electricity"):
			return electricityColor
		}
	}

	return defaultColor
}
