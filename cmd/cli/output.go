package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"google.golang.org/grpc/status"
	"gopkg.in/yaml.v3"

	pb "github.com/and161185/vault-keeper/internal/api/vaultv1"
)

// Output formats.
const (
	outTable = "table"
	outJSON  = "json"
	outYAML  = "yaml"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// entryRow is one entry as shown to the user.
type entryRow struct {
	Index    int    `json:"index" yaml:"index"`
	Title    string `json:"title" yaml:"title"`
	Username string `json:"username" yaml:"username"`
	Secret   string `json:"secret,omitempty" yaml:"secret,omitempty"`
}

// printable shows text fields as text and anything else (sealed secrets) as hex.
func printable(b []byte) string {
	if !utf8.Valid(b) {
		return "hex:" + hex.EncodeToString(b)
	}
	for _, r := range string(b) {
		if !unicode.IsPrint(r) {
			return "hex:" + hex.EncodeToString(b)
		}
	}
	return string(b)
}

func rowsOf(v *pb.Vault, filter string, showSecrets bool) []entryRow {
	rows := []entryRow{}
	for i, e := range v.GetEntries() {
		title := printable(e.Title)
		if filter != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(filter)) {
			continue
		}
		r := entryRow{Index: i, Title: title, Username: printable(e.Username)}
		if showSecrets {
			r.Secret = printable(e.Secret)
		}
		rows = append(rows, r)
	}
	return rows
}

// render writes v in the chosen format. Tables are drawn from header/rows;
// json and yaml marshal v itself.
func render(w io.Writer, format string, v any, header []string, rows [][]string) error {
	switch format {
	case outJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case outTable, "":
		writeTable(w, header, rows)
		return nil
	}
	return fmt.Errorf("unknown output format %q (table, json, yaml)", format)
}

func writeTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], utf8.RuneCountInString(c))
		}
	}
	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = headerStyle.Render(h) + strings.Repeat(" ", widths[i]-len(h))
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	for _, r := range rows {
		for i, c := range r {
			cells[i] = c + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

// describe turns rpc errors into one readable line.
func describe(err error) string {
	if s, ok := status.FromError(err); ok {
		return fmt.Sprintf("%s (%s)", s.Message(), s.Code())
	}
	return err.Error()
}
