package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"", Format(""), false},
		{"xml", Format(""), true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr != (err != nil) {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(FormatJSON).Format(&buf, map[string]string{"name": "deploy"})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(buf.String(), `"name": "deploy"`) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(FormatYAML).Format(&buf, map[string]string{"name": "deploy"})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(buf.String(), "name: deploy") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := Data{
		Headers: []string{"NAME", "KIND"},
		Rows:    [][]string{{"deploy", "command"}},
	}
	if err := NewFormatter(FormatTable).Format(&buf, data); err != nil {
		t.Fatalf("format: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "deploy") || !strings.Contains(out, "NAME") {
		t.Errorf("unexpected table output: %s", out)
	}
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatTable).Format(&buf, map[string]int{"count": 1}); err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(buf.String(), `"count": 1`) {
		t.Errorf("expected JSON fallback, got: %s", buf.String())
	}
}
