package manifest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/paritytech/psvm/pkg/errors"
)

const packageManifest = `[package]
name = "my-runtime"
version = "0.1.0"
edition = "2021"

# Polkadot SDK
[dependencies]
codec = { package = "parity-scale-codec", version = "3.6.1", default-features = false } # scale
sp-core = { git = "https://github.com/paritytech/polkadot-sdk", branch = "release-crates-io-v1.6.0", default-features = false }
frame-support   =   "27.0.0"
local-pallet = { path = "../pallets/local" }
"quoted-name" = '1.0.0'

[dev-dependencies]
sp-io = { git = "https://github.com/paritytech/polkadot-sdk", tag = "polkadot-v1.6.0", features = ["std"] }

[dependencies.pallet-balances]
git = "https://github.com/paritytech/polkadot-sdk"
# pinned branch
branch = "master"
default-features = false

[target.'cfg(target_os = "linux")'.dependencies]
sp-runtime.version = "30.0.0"
sp-std.workspace = true

[features]
default = ["std"]
std = ["codec/std", "sp-core/std"]
`

func find(t *testing.T, doc *Document, table, name string) *Dependency {
	t.Helper()
	for _, d := range doc.Dependencies() {
		if d.Table == table && d.Name == name {
			return d
		}
	}
	t.Fatalf("dependency %s in %s not found", name, table)
	return nil
}

func TestParse_Dependencies(t *testing.T) {
	doc, err := Parse([]byte(packageManifest))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.Workspace() {
		t.Error("package manifest reported as workspace")
	}

	type row struct {
		Table, Name, Lookup, Version string
		Source                       SourceKind
	}
	var got []row
	for _, d := range doc.Dependencies() {
		got = append(got, row{d.Table, d.Name, d.LookupName(), d.Version, d.Source()})
	}
	linux := `target.'cfg(target_os = "linux")'.dependencies`
	want := []row{
		{"dependencies", "codec", "parity-scale-codec", "3.6.1", SourceRegistry},
		{"dependencies", "sp-core", "sp-core", "", SourceGit},
		{"dependencies", "frame-support", "frame-support", "27.0.0", SourceRegistry},
		{"dependencies", "local-pallet", "local-pallet", "", SourcePath},
		{"dependencies", "quoted-name", "quoted-name", "1.0.0", SourceRegistry},
		{"dev-dependencies", "sp-io", "sp-io", "", SourceGit},
		{"dependencies", "pallet-balances", "pallet-balances", "", SourceGit},
		{linux, "sp-runtime", "sp-runtime", "30.0.0", SourceRegistry},
		{linux, "sp-std", "sp-std", "", SourceWorkspace},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Dependencies() mismatch (-want +got):\n%s", diff)
	}

	sp := find(t, doc, "dependencies", "sp-core")
	if sp.Git != "https://github.com/paritytech/polkadot-sdk" || sp.Branch != "release-crates-io-v1.6.0" {
		t.Errorf("sp-core git fields = %q %q", sp.Git, sp.Branch)
	}
	if got := sp.Describe(); got != "git https://github.com/paritytech/polkadot-sdk#release-crates-io-v1.6.0" {
		t.Errorf("Describe() = %q", got)
	}
}

func TestDocument_RoundTripUnchanged(t *testing.T) {
	inputs := []string{
		packageManifest,
		"",
		"# only a comment",
		"[dependencies]\r\nserde = \"1\"\r\n",
		"[package]\nname = \"x\"\ndescription = \"\"\"\n[dependencies]\nnot = \"a table\"\n\"\"\"\n",
	}
	for _, in := range inputs {
		doc, err := Parse([]byte(in))
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", in, err)
		}
		if got := string(doc.Bytes()); got != in {
			t.Errorf("Bytes() changed unmodified document:\n%s", cmp.Diff(in, got))
		}
	}
}

func TestDocument_MultilineStringIsNotATable(t *testing.T) {
	in := "[package]\nname = \"x\"\ndescription = \"\"\"\n[dependencies]\nnot = \"a table\"\n\"\"\"\n"
	doc, err := Parse([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(doc.Dependencies()); n != 0 {
		t.Errorf("Dependencies() = %d entries, want 0", n)
	}
}

func TestDocument_PinAllForms(t *testing.T) {
	doc, err := Parse([]byte(packageManifest))
	if err != nil {
		t.Fatal(err)
	}
	linux := `target.'cfg(target_os = "linux")'.dependencies`
	find(t, doc, "dependencies", "codec").Pin("3.6.9")
	find(t, doc, "dependencies", "sp-core").Pin("28.0.0")
	find(t, doc, "dependencies", "frame-support").Pin("28.0.0")
	find(t, doc, "dependencies", "quoted-name").Pin("1.1.0")
	find(t, doc, "dev-dependencies", "sp-io").Pin("30.0.0")
	find(t, doc, "dependencies", "pallet-balances").Pin("28.0.0")
	find(t, doc, linux, "sp-runtime").Pin("31.0.0")

	want := `[package]
name = "my-runtime"
version = "0.1.0"
edition = "2021"

# Polkadot SDK
[dependencies]
codec = { version = "3.6.9", package = "parity-scale-codec", default-features = false } # scale
sp-core = { version = "28.0.0", default-features = false }
frame-support   =   "28.0.0"
local-pallet = { path = "../pallets/local" }
"quoted-name" = "1.1.0"

[dev-dependencies]
sp-io = { version = "30.0.0", features = ["std"] }

[dependencies.pallet-balances]
version = "28.0.0"
# pinned branch
default-features = false

[target.'cfg(target_os = "linux")'.dependencies]
sp-runtime.version = "31.0.0"
sp-std.workspace = true

[features]
default = ["std"]
std = ["codec/std", "sp-core/std"]
`
	got := string(doc.Bytes())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Bytes() mismatch (-want +got):\n%s", diff)
	}
	if !doc.Modified() {
		t.Error("Modified() = false after Pin")
	}

	reparsed, err := Parse([]byte(got))
	if err != nil {
		t.Fatalf("rendered document does not parse: %v", err)
	}
	if v := find(t, reparsed, "dependencies", "pallet-balances"); v.Version != "28.0.0" || v.Git != "" || v.Branch != "" {
		t.Errorf("pallet-balances after reparse = %+v", v)
	}
}

func TestDocument_PinEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "dotted keys",
			in:   "[dependencies]\nfoo.git = \"https://example.com/foo\"\nfoo.features = [\"a\"]\n",
			want: "[dependencies]\nfoo.version = \"1.0.0\"\nfoo.features = [\"a\"]\n",
		},
		{
			name: "table without trailing newline",
			in:   "[dependencies.foo]\npath = \"../foo\"",
			want: "[dependencies.foo]\nversion = \"1.0.0\"\n",
		},
		{
			name: "empty table at end of file",
			in:   "[dependencies.foo]",
			want: "[dependencies.foo]\nversion = \"1.0.0\"",
		},
		{
			name: "indented table keeps indentation",
			in:   "[dependencies.foo]\n  git = \"https://example.com/foo\"\n  optional = true\n",
			want: "[dependencies.foo]\n  version = \"1.0.0\"\n  optional = true\n",
		},
		{
			name: "crlf line endings",
			in:   "[dependencies]\r\nfoo = { git = \"https://example.com/foo\", rev = \"abc\" }\r\n",
			want: "[dependencies]\r\nfoo = { version = \"1.0.0\" }\r\n",
		},
		{
			name: "root dotted table path",
			in:   "dependencies.foo = { version = \"0.9.0\", optional = true }\n",
			want: "dependencies.foo = { version = \"1.0.0\", optional = true }\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.in))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			deps := doc.Dependencies()
			if len(deps) != 1 {
				t.Fatalf("Dependencies() = %d entries, want 1", len(deps))
			}
			deps[0].Pin("1.0.0")
			if diff := cmp.Diff(tt.want, string(doc.Bytes())); diff != "" {
				t.Errorf("Bytes() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_WorkspaceTables(t *testing.T) {
	in := `[workspace]
members = ["runtime", "node"]
resolver = "2"

[workspace.dependencies]
sp-core = "27.0.0"
pallet-xcm = { version = "6.0.0", default-features = false }

[workspace.dependencies.frame-system]
git = "https://github.com/paritytech/polkadot-sdk"

[dependencies]
serde = "1"
`
	doc, err := Parse([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Workspace() {
		t.Fatal("Workspace() = false")
	}

	var names []string
	for _, d := range doc.Dependencies() {
		if d.Table != "workspace.dependencies" {
			t.Errorf("%s in table %q", d.Name, d.Table)
		}
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"sp-core", "pallet-xcm", "frame-system"}, names); diff != "" {
		t.Errorf("Dependencies() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_InvalidManifest(t *testing.T) {
	for _, in := range []string{"[dependencies\nfoo = 1", "a = = b", "[x]\n[x]\n"} {
		_, err := Parse([]byte(in))
		if !errors.Is(err, errors.ErrCodeInvalidManifest) {
			t.Errorf("Parse(%q) error = %v, want INVALID_MANIFEST", in, err)
		}
	}
}

func TestParse_IgnoresNonDependencyValues(t *testing.T) {
	doc, err := Parse([]byte("[dependencies]\nweird = 42\nok = \"1\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	deps := doc.Dependencies()
	if len(deps) != 1 || deps[0].Name != "ok" {
		t.Errorf("Dependencies() = %v", deps)
	}
}

func TestQuote(t *testing.T) {
	if got := quote("1.0.0"); got != `"1.0.0"` {
		t.Errorf("quote() = %s", got)
	}
	if got := quote(`a"b`); !strings.HasPrefix(got, `"`) || !strings.Contains(got, `\"`) {
		t.Errorf("quote() = %s", got)
	}
}
