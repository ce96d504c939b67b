package formatting

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"yasmcp/internal/dispatch"
	"yasmcp/internal/registry"
	yasstrings "yasmcp/pkg/strings"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct{}

// FormatTools implements Formatter.
func (f *TableFormatter) FormatTools(w io.Writer, entries []registry.Entry, diagnostics []registry.Diagnostic) error {
	if len(entries) == 0 {
		fmt.Fprintf(w, "%s %s\n", text.FgYellow.Sprint("📋"), text.FgYellow.Sprint("No tools found"))
	} else {
		t := createTable(w)
		t.AppendHeader(table.Row{
			text.FgHiCyan.Sprint("NAME"),
			text.FgHiCyan.Sprint("METHOD"),
			text.FgHiCyan.Sprint("PATH"),
			text.FgHiCyan.Sprint("INPUTS"),
			text.FgHiCyan.Sprint("DESCRIPTION"),
		})
		for _, e := range entries {
			inputs := 0
			if e.Tool.InputSchema != nil {
				inputs = len(e.Tool.InputSchema.Properties)
			}
			t.AppendRow(table.Row{
				text.FgHiWhite.Sprint(e.Tool.Name),
				methodColor(e.Route.Method).Sprint(e.Route.Method),
				e.Route.Path,
				inputs,
				yasstrings.TruncateDescription(e.Tool.Description, yasstrings.DescriptionWidth),
			})
		}
		t.Render()
		fmt.Fprintf(w, "\n%s %s %s\n",
			text.FgHiBlue.Sprint("Total:"),
			text.FgHiWhite.Sprint(len(entries)),
			text.FgHiBlue.Sprint("tools"))
	}

	if len(diagnostics) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	t := createTable(w)
	t.AppendHeader(table.Row{
		text.FgHiYellow.Sprint("KIND"),
		text.FgHiYellow.Sprint("TOOL"),
		text.FgHiYellow.Sprint("ROUTE"),
		text.FgHiYellow.Sprint("MESSAGE"),
	})
	for _, d := range diagnostics {
		t.AppendRow(table.Row{string(d.Kind), d.Tool, d.Method + " " + d.Path, yasstrings.SingleLine(d.Message)})
	}
	t.Render()
	return nil
}

// FormatResponse implements Formatter.
func (f *TableFormatter) FormatResponse(w io.Writer, resp *dispatch.HTTPResponse) error {
	status := text.FgHiGreen
	if resp.StatusCode >= 400 {
		status = text.FgHiRed
	}
	fmt.Fprintf(w, "%s %s\n", text.FgHiBlue.Sprint("Status:"), status.Sprint(resp.StatusCode))

	if len(resp.Headers) > 0 {
		t := createTable(w)
		t.AppendHeader(table.Row{text.FgHiCyan.Sprint("HEADER"), text.FgHiCyan.Sprint("VALUE")})
		keys := make([]string, 0, len(resp.Headers))
		for k := range resp.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.AppendRow(table.Row{k, yasstrings.TruncateDescription(resp.Headers[k], 100)})
		}
		t.Render()
	}

	switch body := resp.Body.(type) {
	case nil:
	case string:
		fmt.Fprintln(w, body)
	default:
		fmt.Fprintln(w, PrettyJSON(body))
	}
	return nil
}

// createTable creates a new table with standard styling
func createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func methodColor(method string) text.Color {
	switch method {
	case "GET", "HEAD", "OPTIONS":
		return text.FgHiGreen
	case "DELETE":
		return text.FgHiRed
	default:
		return text.FgHiYellow
	}
}
