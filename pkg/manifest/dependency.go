package manifest

import (
	"bytes"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// SourceKind is where a dependency is taken from.
type SourceKind int

const (
	SourceRegistry SourceKind = iota
	SourceGit
	SourcePath
	// SourceWorkspace marks a dependency inherited with workspace = true.
	SourceWorkspace
)

func (k SourceKind) String() string {
	switch k {
	case SourceGit:
		return "git"
	case SourcePath:
		return "path"
	case SourceWorkspace:
		return "workspace"
	default:
		return "registry"
	}
}

type entryForm int

const (
	formString entryForm = iota // name = "1.0"
	formInline                  // name = { version = "1.0" }
	formTable                   // [dependencies.name]
	formDotted                  // name.version = "1.0"
)

// sourceKeys are removed when a dependency is pinned to a registry version.
var sourceKeys = []string{"git", "branch", "tag", "rev", "path"}

// Dependency is one declaration of a dependency table.
//
// Fields reflect the declaration as parsed; use [Dependency.Pin] to change it.
type Dependency struct {
	Name      string // key in the dependency table
	Package   string // renamed package, if any
	Version   string
	Git       string
	Branch    string
	Tag       string
	Rev       string
	Path      string
	Workspace bool
	// Table is the dependency table holding the declaration, such as
	// "workspace.dependencies" or "target.'cfg(unix)'.dependencies".
	Table string

	tablePath []string
	form      entryForm
	value     span // formString, formInline
	inline    []inlineField
	header    statement // formTable
	fields    []tableField
	dirty     bool
}

type span struct{ start, end int }

// tableField is a statement of a sub-table or dotted-key declaration.
type tableField struct {
	key    string
	nested bool // key has further segments, e.g. features.std
	stmt   statement
	prefix string // raw key text up to the field key
}

// LookupName returns the crate name to look up in a version mapping: the
// package rename target, or the declared name.
func (d *Dependency) LookupName() string {
	if d.Package != "" {
		return d.Package
	}
	return d.Name
}

// Source classifies the declaration.
func (d *Dependency) Source() SourceKind {
	switch {
	case d.Workspace:
		return SourceWorkspace
	case d.Path != "":
		return SourcePath
	case d.Git != "":
		return SourceGit
	default:
		return SourceRegistry
	}
}

// Describe returns a short human-readable form of the declared source.
func (d *Dependency) Describe() string {
	switch d.Source() {
	case SourceWorkspace:
		return "workspace"
	case SourcePath:
		return "path " + d.Path
	case SourceGit:
		ref := d.Branch
		if ref == "" {
			ref = d.Tag
		}
		if ref == "" {
			ref = d.Rev
		}
		if ref != "" {
			return "git " + d.Git + "#" + ref
		}
		return "git " + d.Git
	}
	if d.Version == "" {
		return "unversioned"
	}
	return d.Version
}

// Pin turns the declaration into a registry dependency on version,
// dropping any git or path source. Other keys are kept.
func (d *Dependency) Pin(version string) {
	d.Version = version
	d.Git, d.Branch, d.Tag, d.Rev, d.Path = "", "", "", "", ""
	d.dirty = true
}

// Modified reports whether Pin was called.
func (d *Dependency) Modified() bool { return d.dirty }

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       string
}

func (d *Dependency) edits(src, newline string) []edit {
	v := quote(d.Version)

	switch d.form {
	case formString:
		return []edit{{d.value.start, d.value.end, v}}

	case formInline:
		var b strings.Builder
		b.WriteString("{ version = ")
		b.WriteString(v)
		for _, f := range d.inline {
			if f.key == "version" || slices.Contains(sourceKeys, f.key) {
				continue
			}
			b.WriteString(", ")
			b.WriteString(f.raw)
		}
		b.WriteString(" }")
		return []edit{{d.value.start, d.value.end, b.String()}}
	}

	var edits []edit
	hasVersion := false
	for _, f := range d.fields {
		switch {
		case f.nested:
		case f.key == "version":
			hasVersion = true
			edits = append(edits, edit{f.stmt.valueStart, f.stmt.valueEnd, v})
		case slices.Contains(sourceKeys, f.key):
			edits = append(edits, edit{f.stmt.lineStart, f.stmt.lineEnd, ""})
		}
	}
	if hasVersion {
		return edits
	}

	var pos int
	var line string
	if d.form == formTable {
		pos = d.header.lineEnd
		indent := d.header.indent
		if len(d.fields) > 0 {
			indent = d.fields[0].stmt.indent
		}
		line = indent + "version = " + v + newline
	} else {
		first := d.fields[0]
		pos = first.stmt.lineStart
		line = first.stmt.indent + first.prefix + "version = " + v + newline
	}
	if pos == len(src) && !strings.HasSuffix(src, "\n") {
		line = newline + strings.TrimSuffix(line, newline)
	}
	return append(edits, edit{pos, pos, line})
}

// quote renders s as a TOML string.
func quote(s string) string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]string{"v": s}); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSpace(strings.TrimPrefix(buf.String(), "v = "))
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// formatPath renders a table path the way it would be written in a header.
func formatPath(parts []string) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		switch {
		case bareKey.MatchString(p):
			out[i] = p
		case !strings.Contains(p, "'"):
			out[i] = "'" + p + "'"
		default:
			out[i] = strconv.Quote(p)
		}
	}
	return strings.Join(out, ".")
}
