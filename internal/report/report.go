// Package report writes run results as JSON, a plain text summary or a
// highlighted HTML page.
package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/samber/lo"

	"github.com/networkteam/staycheck/journal"
	"github.com/networkteam/staycheck/scenario"
)

// Write encodes res as indented JSON.
func Write(w io.Writer, res scenario.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteFile writes the JSON report to filename.
func WriteFile(filename string, res scenario.Result) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := Write(f, res); err != nil {
		f.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	return f.Close()
}

// Read decodes a JSON report.
func Read(r io.Reader) (scenario.Result, error) {
	var res scenario.Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return res, fmt.Errorf("decoding report: %w", err)
	}
	return res, nil
}

// ReadFile decodes the JSON report in filename.
func ReadFile(filename string) (scenario.Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return scenario.Result{}, fmt.Errorf("opening report: %w", err)
	}
	defer f.Close()
	return Read(f)
}

var statusLabel = map[scenario.Status]string{
	scenario.StatusPassed:  "PASS",
	scenario.StatusFailed:  "FAIL",
	scenario.StatusSkipped: "SKIP",
}

// Summary writes one line per case, failures indented below, and totals.
func Summary(w io.Writer, res scenario.Result) error {
	var b strings.Builder
	for _, c := range res.Cases {
		fmt.Fprintf(&b, "%s %s", statusLabel[c.Status], c.Name())
		switch {
		case c.Status == scenario.StatusSkipped && c.SkipReason != "":
			fmt.Fprintf(&b, " (%s)", c.SkipReason)
		case c.Status != scenario.StatusSkipped:
			fmt.Fprintf(&b, " (%s)", c.Duration.Round(time.Millisecond))
		}
		b.WriteString("\n")

		for _, f := range c.Failures {
			prefix := "    "
			if f.Step != "" {
				fmt.Fprintf(&b, "    [%s]\n", f.Step)
				prefix = "      "
			}
			for _, line := range strings.Split(f.Message, "\n") {
				b.WriteString(prefix + line + "\n")
			}
		}
	}

	counts := res.Counts()
	fmt.Fprintf(&b, "\n%d passed, %d failed, %d skipped in %s (%s, run %s)\n",
		counts[scenario.StatusPassed], counts[scenario.StatusFailed], counts[scenario.StatusSkipped],
		res.Duration.Round(time.Millisecond), res.Driver, res.ID)

	_, err := io.WriteString(w, b.String())
	return err
}

// Trace writes a finished journal event and everything recorded below it as
// an indented tree, one event per line.
func Trace(w io.Writer, evt journal.Event) error {
	var b strings.Builder
	writeEvent(&b, &evt, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeEvent(b *strings.Builder, evt *journal.Event, depth int) {
	indent := strings.Repeat("  ", depth)
	name := strings.ReplaceAll(evt.Name, "\n", "\n"+indent+"    ")
	fmt.Fprintf(b, "%s%s %s", indent, evt.Kind, name)
	switch data := evt.Data.(type) {
	case scenario.CaseResult:
		fmt.Fprintf(b, " %s", data.Status)
	case scenario.StepResult:
		fmt.Fprintf(b, " %s", data.Status)
	case string:
		if data != "" {
			b.WriteString(": " + data)
		}
	}
	if evt.Kind == journal.KindCase || evt.Kind == journal.KindStep {
		fmt.Fprintf(b, " (%s)", evt.Duration().Round(time.Millisecond))
	}
	b.WriteString("\n")

	for _, child := range evt.Children {
		writeEvent(b, child, depth+1)
	}
}

// FailedCases returns the names of failed cases.
func FailedCases(res scenario.Result) []string {
	return lo.FilterMap(res.Cases, func(c scenario.CaseResult, _ int) (string, bool) {
		return c.Name(), c.Status == scenario.StatusFailed
	})
}

func style() *chroma.Style {
	s := styles.Get("monokai")
	if s == nil {
		s = styles.Fallback
	}
	return s
}

func jsonLexer() chroma.Lexer {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// Highlight writes JSON data with terminal colors.
func Highlight(w io.Writer, data []byte) error {
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	iterator, err := jsonLexer().Tokenise(nil, string(data))
	if err != nil {
		return err
	}
	return formatter.Format(w, style(), iterator)
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>staycheck run {{.Result.ID}}</title>
<style>{{.CSS}}.chroma { white-space: pre-wrap; }</style>
</head>
<body>
<h1>Run {{.Result.ID}}</h1>
<p>{{.Result.Driver}} against {{.Result.BaseURL}}: {{.Passed}} passed, {{.Failed}} failed, {{.Skipped}} skipped</p>
<pre>{{.Summary}}</pre>
{{.JSON}}
</body>
</html>
`))

// WriteHTML writes a standalone page with the summary and the highlighted
// JSON report.
func WriteHTML(w io.Writer, res scenario.Result) error {
	var data strings.Builder
	if err := Write(&data, res); err != nil {
		return err
	}
	var summary strings.Builder
	if err := Summary(&summary, res); err != nil {
		return err
	}

	formatter := html.New(
		html.Standalone(false),
		html.WithClasses(true),
		html.TabWidth(2),
	)
	iterator, err := jsonLexer().Tokenise(nil, data.String())
	if err != nil {
		return err
	}
	var highlighted, css strings.Builder
	if err := formatter.Format(&highlighted, style(), iterator); err != nil {
		return err
	}
	if err := formatter.WriteCSS(&css, style()); err != nil {
		return err
	}

	counts := res.Counts()
	return pageTemplate.Execute(w, map[string]any{
		"Result":  res,
		"Passed":  counts[scenario.StatusPassed],
		"Failed":  counts[scenario.StatusFailed],
		"Skipped": counts[scenario.StatusSkipped],
		"Summary": summary.String(),
		"CSS":     template.CSS(css.String()),
		"JSON":    template.HTML(highlighted.String()),
	})
}
