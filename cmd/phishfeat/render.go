package main

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/Bahjat/phishguard/internal/features"
	"github.com/Bahjat/phishguard/internal/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderVectors prints one column per URL and one row per feature.
func renderVectors(w io.Writer, format string, results []features.Result) error {
	if format == formatJSON {
		out := make([]model.FeaturesResponse, 0, len(results))
		for _, r := range results {
			out = append(out, model.FeaturesResponse{
				URL:      r.URL,
				Features: r.Vector.Slice(),
				Names:    features.Names[:],
			})
		}
		return writeJSON(w, out)
	}

	t := newTable(w)

	header := table.Row{"#", "Feature"}
	for _, r := range results {
		header = append(header, r.URL)
	}
	t.AppendHeader(header)

	for i, name := range features.Names {
		row := table.Row{i + 1, name}
		for _, r := range results {
			row = append(row, strconv.FormatFloat(r.Vector[i], 'f', 0, 64))
		}
		t.AppendRow(row)
	}

	t.Render()
	return nil
}

func renderPredictions(w io.Writer, format string, preds []prediction) error {
	if format == formatJSON {
		return writeJSON(w, preds)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"URL", "Prediction", "Label"})
	for _, p := range preds {
		t.AppendRow(table.Row{p.URL, int(p.Label), p.Name})
	}
	t.Render()
	return nil
}

// newTable returns a light-style table that prints headers as given; URLs in
// the header are case-sensitive.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	return t
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
