package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/synmap/synmap-go/pkg/table"
)

// funcMap provides helper functions available to all templates.
var funcMap = template.FuncMap{
	"quote":      strconv.Quote,
	"hexByte":    func(v uint8) string { return fmt.Sprintf("0x%02X", v) },
	"rangeLit":   rangeLit,
	"nodeLit":    nodeLit,
	"sortedKeys": sortedKeys,
}

// templates holds all parsed code generation templates.
var templates = template.Must(template.New("").Funcs(funcMap).Parse(
	tableTmpl +
		registryTmpl,
))

// renderTemplate executes a named template into the builder.
func renderTemplate(b *strings.Builder, name string, data any) {
	if err := templates.ExecuteTemplate(b, name, data); err != nil {
		panic(fmt.Sprintf("template %s: %v", name, err))
	}
}

// --- Template data types ---

// tableData holds data for the table template.
type tableData struct {
	Package string
	Source  string
	GoName  string
	Table   *table.Table
}

// registryEntry is one generated device constructor.
type registryEntry struct {
	Name   string
	GoName string
}

// registryData holds data for the registry template.
type registryData struct {
	Package string
	Entries []registryEntry
}

// GenerateTable renders the Go source of one device table.
func GenerateTable(pkg, source, goName string, t *table.Table) (code string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	var b strings.Builder
	renderTemplate(&b, "table", tableData{Package: pkg, Source: source, GoName: goName, Table: t})
	return b.String(), nil
}

// GenerateRegistry renders the function registering every generated table.
func GenerateRegistry(pkg string, entries []registryEntry) (code string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	var b strings.Builder
	renderTemplate(&b, "registry", registryData{Package: pkg, Entries: entries})
	return b.String(), nil
}

// --- Literal helpers ---

func sortedKeys(m map[string]*table.RangeDef) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func rangeLit(r *table.RangeDef) string {
	var b strings.Builder
	b.WriteString("{\n")
	if r.Enumerable != nil {
		fmt.Fprintf(&b, "Enumerable: table.Bool(%t),\n", *r.Enumerable)
	}
	if r.Icon != "" {
		fmt.Fprintf(&b, "Icon: %q,\n", r.Icon)
	}
	b.WriteString("Subranges: []table.SubrangeDef{\n")
	for _, s := range r.Subranges {
		b.WriteString(subrangeLit(s))
		b.WriteString(",\n")
	}
	b.WriteString("},\n}")
	return b.String()
}

func subrangeLit(s table.SubrangeDef) string {
	fields := []string{fmt.Sprintf("Lower: %d", s.Lower)}
	if s.Upper != nil {
		fields = append(fields, fmt.Sprintf("Upper: table.Int64(%d)", *s.Upper))
	}
	if s.Label != "" {
		fields = append(fields, fmt.Sprintf("Label: %q", s.Label))
	}
	if len(s.Enum) > 0 {
		fields = append(fields, "Enum: "+stringsLit(s.Enum))
	}
	if s.Offset != nil {
		fields = append(fields, fmt.Sprintf("Offset: table.Int64(%d)", *s.Offset))
	}
	if s.Base != 0 {
		fields = append(fields, fmt.Sprintf("Base: %d", s.Base))
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

func stringsLit(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = strconv.Quote(s)
	}
	return "[]string{" + strings.Join(q, ", ") + "}"
}

func repeatLit(r *table.RepeatDef) string {
	fields := []string{fmt.Sprintf("Count: %d", r.Count)}
	if r.Stride != 0 {
		fields = append(fields, fmt.Sprintf("Stride: 0x%X", uint32(r.Stride)))
	}
	if r.Label != "" {
		fields = append(fields, fmt.Sprintf("Label: %q", r.Label))
	}
	if r.First != nil {
		fields = append(fields, fmt.Sprintf("First: table.Int(%d)", *r.First))
	}
	return "&table.RepeatDef{" + strings.Join(fields, ", ") + "}"
}

// nodeLit renders a parameter on one line and a group as a block.
func nodeLit(n *table.NodeDef) string {
	head := []string{fmt.Sprintf("Label: %q", n.Label)}
	if n.Address != nil {
		head = append(head, fmt.Sprintf("Address: table.At(0x%X)", uint32(*n.Address)))
	}
	if n.Repeat != nil {
		head = append(head, "Repeat: "+repeatLit(n.Repeat))
	}

	if !n.IsGroup() {
		fields := append(head, fmt.Sprintf("Range: %q", n.Range))
		if len(n.Views) > 0 {
			fields = append(fields, "Views: "+stringsLit(n.Views))
		}
		if n.Default != 0 {
			fields = append(fields, fmt.Sprintf("Default: %d", n.Default))
		}
		if n.Bits != 0 {
			fields = append(fields, fmt.Sprintf("Bits: %d", n.Bits))
		}
		if n.Signed {
			fields = append(fields, "Signed: true")
		}
		return "{" + strings.Join(fields, ", ") + "}"
	}

	var b strings.Builder
	b.WriteString("{\n")
	for _, f := range head {
		b.WriteString(f)
		b.WriteString(",\n")
	}
	b.WriteString("Children: []*table.NodeDef{\n")
	for _, c := range n.Children {
		b.WriteString(nodeLit(c))
		b.WriteString(",\n")
	}
	b.WriteString("},\n}")
	return b.String()
}

// --- Template definitions ---

const tableTmpl = `{{define "table"}}// Code generated by synmap-tablegen from {{.Source}}. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/synmap/synmap-go/pkg/device"
	"github.com/synmap/synmap-go/pkg/table"
)

{{$t := .Table -}}
// {{.GoName}}Table is the {{quote $t.Name}} device table.
var {{.GoName}}Table = &table.Table{
	Name: {{quote $t.Name}},
{{- with $t.Description}}
	Description: {{quote .}},
{{- end}}
{{- with $t.Author}}
	Author: {{quote .}},
{{- end}}
	Manufacturer: {{hexByte $t.Manufacturer}},
	Model: {{hexByte $t.Model}},
{{- with $t.DeviceNumber}}
	DeviceNumber: {{.}},
{{- end}}
	Framing: {{quote $t.Framing}},
{{- with $t.AddressFormat}}
	AddressFormat: {{quote .}},
{{- end}}
	Ranges: map[string]*table.RangeDef{
{{- range $name := sortedKeys $t.Ranges}}
		{{quote $name}}: {{rangeLit (index $t.Ranges $name)}},
{{- end}}
	},
	Nodes: []*table.NodeDef{
{{- range $t.Nodes}}
		{{nodeLit .}},
{{- end}}
	},
}

// New{{.GoName}} builds a fresh {{quote $t.Name}} device.
func New{{.GoName}}() (*device.Device, error) {
	return table.Build({{.GoName}}Table)
}
{{end}}`

const registryTmpl = `{{define "registry"}}// Code generated by synmap-tablegen. DO NOT EDIT.

package {{.Package}}

import "github.com/synmap/synmap-go/pkg/device"

func register(r *device.Registry) {
{{- range .Entries}}
	r.MustRegister({{quote .Name}}, New{{.GoName}})
{{- end}}
}
{{end}}`
