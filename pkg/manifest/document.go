package manifest

import (
	"cmp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/paritytech/psvm/pkg/errors"
)

// dependencyKinds are the tables of a manifest holding dependencies.
var dependencyKinds = []string{"dependencies", "dev-dependencies", "build-dependencies"}

// Document is a parsed Cargo.toml. Rendering it with [Document.Bytes]
// reproduces the source exactly, except for pinned dependencies.
type Document struct {
	src       string
	newline   string
	workspace bool
	deps      []*Dependency
}

// Parse parses a Cargo manifest.
//
// When the manifest has a [workspace] table only the workspace dependency
// tables are collected; otherwise the package tables, including
// target-specific ones, are.
func Parse(data []byte) (*Document, error) {
	src := string(data)

	var root map[string]any
	if _, err := toml.Decode(src, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest")
	}
	stmts, err := scan(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "scan manifest")
	}

	d := &Document{src: src, newline: "\n"}
	if strings.Contains(src, "\r\n") {
		d.newline = "\r\n"
	}
	_, d.workspace = root["workspace"].(map[string]any)

	b := builder{doc: d, byKey: make(map[string]*Dependency)}
	for _, st := range stmts {
		b.add(st)
	}

	for _, dep := range b.order {
		if b.fill(root, dep) {
			d.deps = append(d.deps, dep)
		}
	}
	return d, nil
}

// Workspace reports whether the manifest is a workspace root.
func (d *Document) Workspace() bool { return d.workspace }

// Dependencies returns the declarations in document order.
func (d *Document) Dependencies() []*Dependency { return d.deps }

// Modified reports whether any dependency was pinned.
func (d *Document) Modified() bool {
	return slices.ContainsFunc(d.deps, (*Dependency).Modified)
}

// Bytes renders the document.
func (d *Document) Bytes() []byte {
	var edits []edit
	for _, dep := range d.deps {
		if dep.dirty {
			edits = append(edits, dep.edits(d.src, d.newline)...)
		}
	}
	if len(edits) == 0 {
		return []byte(d.src)
	}
	slices.SortFunc(edits, func(a, b edit) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		return cmp.Compare(a.end, b.end)
	})

	var out strings.Builder
	last := 0
	for _, e := range edits {
		out.WriteString(d.src[last:e.start])
		out.WriteString(e.text)
		last = e.end
	}
	out.WriteString(d.src[last:])
	return []byte(out.String())
}

// tableDepth returns the length of the dependency table prefix of path,
// or 0 if path is not inside a governed dependency table.
func (d *Document) tableDepth(path []string) int {
	if d.workspace {
		if len(path) >= 2 && path[0] == "workspace" && slices.Contains(dependencyKinds, path[1]) {
			return 2
		}
		return 0
	}
	if len(path) >= 1 && slices.Contains(dependencyKinds, path[0]) {
		return 1
	}
	if len(path) >= 3 && path[0] == "target" && slices.Contains(dependencyKinds, path[2]) {
		return 3
	}
	return 0
}

type builder struct {
	doc     *Document
	current []string
	byKey   map[string]*Dependency
	order   []*Dependency
}

func (b *builder) dependency(table []string, name string) *Dependency {
	key := strings.Join(table, "\x00") + "\x00\x00" + name
	dep, ok := b.byKey[key]
	if !ok {
		dep = &Dependency{Name: name, Table: formatPath(table), tablePath: table}
		b.byKey[key] = dep
		b.order = append(b.order, dep)
	}
	return dep
}

func (b *builder) add(st statement) {
	if st.kind != stmtKeyValue {
		b.current = st.path
		if st.kind == stmtHeader {
			if n := b.doc.tableDepth(st.path); n > 0 && len(st.path) == n+1 {
				dep := b.dependency(st.path[:n], st.path[n])
				dep.form = formTable
				dep.header = st
			}
		}
		return
	}

	full := append(slices.Clone(b.current), st.path...)
	n := b.doc.tableDepth(full)
	if n == 0 || len(full) <= n {
		return
	}
	dep := b.dependency(full[:n], full[n])
	rel := full[n+1:]

	if len(rel) == 0 {
		dep.value = span{st.valueStart, st.valueEnd}
		if st.inline {
			dep.form = formInline
			dep.inline = st.inlineKeys
		} else {
			dep.form = formString
		}
		return
	}

	if dep.header.lineEnd == 0 {
		dep.form = formDotted
	}
	keyIdx := len(st.raws) - len(rel)
	prefix := ""
	if keyIdx > 0 {
		prefix = strings.Join(st.raws[:keyIdx], ".") + "."
	}
	dep.fields = append(dep.fields, tableField{
		key:    rel[0],
		nested: len(rel) > 1,
		stmt:   st,
		prefix: prefix,
	})
}

// fill copies the decoded values of dep. It reports false for declarations
// that are not dependencies, such as a plain number.
func (b *builder) fill(root map[string]any, dep *Dependency) bool {
	v := lookup(root, append(slices.Clone(dep.tablePath), dep.Name))
	switch v := v.(type) {
	case string:
		dep.Version = v
		return dep.form == formString
	case map[string]any:
		str := func(k string) string { s, _ := v[k].(string); return s }
		dep.Package = str("package")
		dep.Version = str("version")
		dep.Git = str("git")
		dep.Branch = str("branch")
		dep.Tag = str("tag")
		dep.Rev = str("rev")
		dep.Path = str("path")
		dep.Workspace, _ = v["workspace"].(bool)
		return dep.form != formString
	}
	return false
}

func lookup(m map[string]any, path []string) any {
	var cur any = m
	for _, p := range path {
		t, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = t[p]
	}
	return cur
}
