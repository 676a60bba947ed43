package lint

// Module is a top-level subdirectory of a scan root.
type Module struct {
	Name      string
	Dir       string // absolute path
	Artifacts []*Artifact
}

// Artifact is a single scanned file with a detected format tag.
//
// The dispatcher hands every checker its own Artifact value, so field
// assignments stay local to one checker. Content and Tree are shared by all
// checkers of the artifact and must be treated as read-only.
type Artifact struct {
	Module  string
	Path    string // absolute path of the file
	RelPath string // slash-separated path relative to the module directory
	Format  Format
	Content []byte
	Tree    Tree
}

// Tree is the parsed representation of an artifact. It is a closed union:
// only the types declared in this package implement it.
type Tree interface {
	TreeFormat() Format
	isTree()
}

// CodeTree is the line-level representation of a source module.
type CodeTree struct {
	Lines      []string
	Imports    []Import
	Coding     string // declared source encoding, "" when absent
	CodingLine int
}

// Import is one import statement found in a source module.
type Import struct {
	Module string // dotted module path, without leading dots
	Names  []string
	Level  int // number of leading dots for relative imports
	Line   int
}

// MarkupTree is a parsed XML document.
type MarkupTree struct {
	Root *Node
}

// Node is an XML element.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
	Line     int
}

// Attr is an XML attribute.
type Attr struct {
	Name  string
	Value string
}

// TabularRows is a parsed CSV file.
type TabularRows struct {
	Header []string
	Rows   []Row
}

// Row is one CSV record and the line it started on.
type Row struct {
	Line   int
	Fields []string
}

// CatalogEntries is a parsed translation catalog.
type CatalogEntries struct {
	Header  map[string]string
	Entries []CatalogEntry
}

// CatalogEntry is one msgid/msgstr block.
type CatalogEntry struct {
	Line       int
	Context    string
	ID         string
	IDPlural   string
	Strs       []string
	Flags      []string
	References []string
	Obsolete   bool
}

// ManifestMap is a parsed module manifest.
type ManifestMap struct {
	Values map[string]any
	Keys   []string // declaration order
	Lines  map[string]int
}

// ScriptSource is a front-end asset that passed syntax validation.
type ScriptSource struct {
	Loader    string // "js", "jsx", "ts", "css", ...
	Source    string
	Validated bool // false for loaders without an in-process parser
}

// ModuleTree is the module-scope view handed to FormatModule rules.
type ModuleTree struct {
	Name         string
	Dir          string
	Files        []ModuleFile
	Manifest     *ManifestMap // nil when missing or unparseable
	ManifestPath string
}

// ModuleFile is one file of a module as seen by module-scope rules.
type ModuleFile struct {
	RelPath string
	Format  Format
}

func (*CodeTree) TreeFormat() Format       { return FormatCode }
func (*MarkupTree) TreeFormat() Format     { return FormatMarkup }
func (*TabularRows) TreeFormat() Format    { return FormatTabular }
func (*CatalogEntries) TreeFormat() Format { return FormatCatalog }
func (*ManifestMap) TreeFormat() Format    { return FormatManifest }
func (*ScriptSource) TreeFormat() Format   { return FormatScript }
func (*ModuleTree) TreeFormat() Format     { return FormatModule }

func (*CodeTree) isTree()       {}
func (*MarkupTree) isTree()     {}
func (*TabularRows) isTree()    {}
func (*CatalogEntries) isTree() {}
func (*ManifestMap) isTree()    {}
func (*ScriptSource) isTree()   {}
func (*ModuleTree) isTree()     {}

// Get returns the value of the named attribute.
func (n *Node) Get(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindAll returns every descendant (including n) with the given element name.
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Name == name {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Column returns the index of the named header column, or -1.
func (t *TabularRows) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// String returns a string-valued manifest key.
func (m *ManifestMap) String(key string) (string, bool) {
	v, ok := m.Values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Strings returns a list-of-strings manifest key, skipping non-string items.
func (m *ManifestMap) Strings(key string) []string {
	items, ok := m.Values[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Has reports whether the manifest declares key.
func (m *ManifestMap) Has(key string) bool {
	_, ok := m.Values[key]
	return ok
}

// Line returns the line a key was declared on, or 0.
func (m *ManifestMap) Line(key string) int {
	return m.Lines[key]
}
