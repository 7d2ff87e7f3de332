package udim

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrFormat is returned for an unknown report format.
var ErrFormat = errors.New("udim: unknown report format")

// Format selects a report encoding.
type Format string

const (
	Text Format = "text"
	CSV  Format = "csv"
	HTML Format = "html"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "", "txt":
		return Text, nil
	case "yml":
		return YAML, nil
	case Text, CSV, HTML, JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, s)
}

// Report is an ordered list of slot verdicts.
type Report struct {
	Results []SlotResult `json:"results" yaml:"results"`
}

// Passed returns the number of passing slots.
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Pass {
			n++
		}
	}
	return n
}

// Failed returns the number of failing slots.
func (r *Report) Failed() int {
	return len(r.Results) - r.Passed()
}

// OK reports whether every slot passed.
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Write encodes the report to w in format f.
func (r *Report) Write(w io.Writer, f Format) error {
	switch f {
	case Text:
		return r.WriteText(w)
	case CSV:
		return r.WriteCSV(w)
	case HTML:
		return r.WriteHTML(w)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrFormat, f)
}

func (res *SlotResult) status() string {
	if res.Pass {
		return "PASS"
	}
	return "FAIL"
}

func (res *SlotResult) expected() string {
	if res.ExpectedTile == nil {
		return "-"
	}
	return res.ExpectedTile.String()
}

// WriteText writes a plain report with one block per slot.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	for i := range r.Results {
		res := &r.Results[i]
		fmt.Fprintf(&b, "[%s] %s / %s (slot %d, %s, tile %s)\n",
			res.status(), res.Mesh, res.Material, res.Slot, res.LightType, res.expected())
		for _, reason := range res.Reasons {
			fmt.Fprintf(&b, "    - %s\n", reason)
		}
		for _, warn := range res.Warnings {
			fmt.Fprintf(&b, "    ! %s\n", warn)
		}
	}
	fmt.Fprintf(&b, "%d slot(s) checked, %d passed, %d failed\n", len(r.Results), r.Passed(), r.Failed())
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCSV writes one row per slot with a header row.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"mesh", "material", "slot", "light_type", "expected_tile", "uv0_tiles", "uv1_tiles", "pass", "reasons", "warnings"})
	for i := range r.Results {
		res := &r.Results[i]
		cw.Write([]string{
			res.Mesh,
			res.Material,
			strconv.Itoa(res.Slot),
			string(res.LightType),
			res.expected(),
			formatTiles(res.UV0Tiles),
			formatTiles(res.UV1Tiles),
			strconv.FormatBool(res.Pass),
			strings.Join(res.Reasons, "; "),
			strings.Join(res.Warnings, "; "),
		})
	}
	cw.Flush()
	return cw.Error()
}

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"tiles": formatTiles,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>LightIntensity UDIM report</title>
<style>
body { font-family: sans-serif; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; vertical-align: top; }
.pass { color: #1a7f37; }
.fail { color: #cf222e; }
</style>
</head>
<body>
<h1>LightIntensity UDIM report</h1>
<p>{{len .Results}} slot(s) checked, {{.Passed}} passed, {{.Failed}} failed</p>
<table>
<tr><th>Mesh</th><th>Material</th><th>Slot</th><th>Light type</th><th>Expected tile</th><th>UV0 tiles</th><th>UV1 tiles</th><th>Result</th><th>Reasons</th></tr>
{{range .Results}}<tr>
<td>{{.Mesh}}</td><td>{{.Material}}</td><td>{{.Slot}}</td><td>{{.LightType}}</td>
<td>{{with .ExpectedTile}}{{.}}{{else}}-{{end}}</td><td>{{tiles .UV0Tiles}}</td><td>{{tiles .UV1Tiles}}</td>
<td class="{{if .Pass}}pass{{else}}fail{{end}}">{{if .Pass}}PASS{{else}}FAIL{{end}}</td>
<td>{{range .Reasons}}{{.}}<br>{{end}}{{range .Warnings}}<i>{{.}}</i><br>{{end}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

// WriteHTML writes a standalone HTML page.
func (r *Report) WriteHTML(w io.Writer) error {
	return htmlReport.Execute(w, r)
}
