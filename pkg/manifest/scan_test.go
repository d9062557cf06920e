package manifest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScan_ValueSpans(t *testing.T) {
	src := `title = "x" # comment with "quotes" and ]
[dependencies]
a = { version = "1", features = ["x", "y"], optional = true } # trailing }
b = [[1, 2], [], { k = 'v' }]
c = [
  "one", # first
  "two",
]
d = 1979-05-27 07:32:00
e = """
# not a comment
"""
"f.g" . h = -1_000
[[bin]]
  name = 'tool'
`
	stmts, err := scan(src)
	if err != nil {
		t.Fatalf("scan() error: %v", err)
	}

	type row struct {
		Kind   stmtKind
		Path   string
		Value  string
		Indent string
	}
	var got []row
	for _, st := range stmts {
		r := row{Kind: st.kind, Path: strings.Join(st.path, "|"), Indent: st.indent}
		if st.kind == stmtKeyValue {
			r.Value = src[st.valueStart:st.valueEnd]
		}
		got = append(got, r)
	}
	want := []row{
		{stmtKeyValue, "title", `"x"`, ""},
		{stmtHeader, "dependencies", "", ""},
		{stmtKeyValue, "a", `{ version = "1", features = ["x", "y"], optional = true }`, ""},
		{stmtKeyValue, "b", `[[1, 2], [], { k = 'v' }]`, ""},
		{stmtKeyValue, "c", "[\n  \"one\", # first\n  \"two\",\n]", ""},
		{stmtKeyValue, "d", "1979-05-27 07:32:00", ""},
		{stmtKeyValue, "e", "\"\"\"\n# not a comment\n\"\"\"", ""},
		{stmtKeyValue, "f.g|h", "-1_000", ""},
		{stmtArrayHeader, "bin", "", ""},
		{stmtKeyValue, "name", "'tool'", "  "},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scan() mismatch (-want +got):\n%s", diff)
	}

	a := stmts[2]
	if !a.inline {
		t.Fatal("inline table not detected")
	}
	wantFields := []inlineField{
		{key: "version", raw: `version = "1"`},
		{key: "features", raw: `features = ["x", "y"]`},
		{key: "optional", raw: "optional = true"},
	}
	if diff := cmp.Diff(wantFields, a.inlineKeys, cmp.AllowUnexported(inlineField{})); diff != "" {
		t.Errorf("inline fields mismatch (-want +got):\n%s", diff)
	}
	if line := src[a.lineStart:a.lineEnd]; !strings.HasSuffix(line, "# trailing }\n") {
		t.Errorf("line of a = %q, want trailing comment included", line)
	}
	if raws := stmts[7].raws; !cmp.Equal(raws, []string{`"f.g"`, "h"}) {
		t.Errorf("raw keys = %q", raws)
	}
}

func TestScan_Invalid(t *testing.T) {
	if _, err := scan("a = = 1\n"); err == nil {
		t.Error("scan() accepted a malformed document")
	}
}
