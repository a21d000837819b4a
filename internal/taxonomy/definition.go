package taxonomy

import (
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
)

// DefinedTag is one entry of the flattened schema.
type DefinedTag struct {
	Tag         string `json:"tag"`
	Description string `json:"description,omitempty"`
	MinDepth    int    `json:"minDepth"`
	MaxDepth    *int   `json:"maxDepth,omitempty"`
	HasChildren bool   `json:"hasChildren"`
}

// Definition is the loaded taxonomy: the parsed schema plus a memoized
// flattening of every directly valid tag path.
//
// A Definition never fails to load: a missing or malformed schema file falls
// back to DefaultSchema and the degradation is recorded in Warnings. The
// caller owns the lifecycle (load once, Reload on external change); all
// methods are safe for concurrent use.
type Definition struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	schema   *Schema
	warnings []string
	flat     []DefinedTag // nil until first AllDefinedTags call
}

// Load reads the schema at path. An empty path selects the built-in default
// schema without a warning.
func Load(path string, logger *slog.Logger) *Definition {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Definition{path: path, logger: logger}
	d.schema, d.warnings = d.load()
	for _, w := range d.warnings {
		logger.Warn("taxonomy: degraded schema load", slog.String("warning", w))
	}
	return d
}

func (d *Definition) load() (*Schema, []string) {
	if d.path == "" {
		return DefaultSchema(), nil
	}
	data, err := os.ReadFile(d.path)
	if err != nil {
		return DefaultSchema(), []string{"schema file unreadable, using built-in default: " + err.Error()}
	}
	s, warnings, err := ParseSchema(data)
	if err != nil {
		return DefaultSchema(), []string{"schema file invalid, using built-in default: " + err.Error()}
	}
	return s, warnings
}

// Reload discards the cached schema and flattening and re-reads the source.
func (d *Definition) Reload() {
	schema, warnings := d.load()
	d.mu.Lock()
	d.schema = schema
	d.warnings = warnings
	d.flat = nil
	d.mu.Unlock()
	for _, w := range warnings {
		d.logger.Warn("taxonomy: degraded schema load", slog.String("warning", w))
	}
}

// Schema returns the current parsed schema. The returned value must be
// treated as read-only.
func (d *Definition) Schema() *Schema {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.schema
}

// Settings returns the schema-wide settings.
func (d *Definition) Settings() Settings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.schema.Settings
}

// Warnings reports degradations from the most recent load (soft-fail
// fallback, unknown trigger kinds). Empty on a clean load.
func (d *Definition) Warnings() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.warnings...)
}

// Node walks the tree along segments and returns the matching node, or nil.
func (d *Definition) Node(segments []string) *Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	children := d.schema.Tags
	var cur *Node
	for _, seg := range segments {
		if children == nil {
			return nil
		}
		n, ok := children[seg]
		if !ok {
			return nil
		}
		cur = n
		children = n.Children
	}
	return cur
}

// AllDefinedTags flattens the schema into every directly valid tag path,
// sorted lexically. A node whose governing depth bounds require further
// children (depth.min > 0 relative to the bound's defining node) is hidden;
// descent stops once depth.max is exhausted. The result is memoized until
// Reload.
func (d *Definition) AllDefinedTags() []DefinedTag {
	d.mu.RLock()
	if d.flat != nil {
		flat := d.flat
		d.mu.RUnlock()
		return flat
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.flat == nil {
		d.flat = flatten(d.schema)
	}
	return d.flat
}

type depthScope struct {
	definerIdx int // index of the segment whose node defines the bounds; -1 when none
	min        int
	max        *int // nil: unbounded
}

func flatten(s *Schema) []DefinedTag {
	var out []DefinedTag
	var walk func(prefix []string, n *Node, scope depthScope)
	walk = func(prefix []string, n *Node, scope depthScope) {
		if n.Depth != nil {
			scope = depthScope{definerIdx: len(prefix) - 1, min: n.Depth.Min, max: n.Depth.Max}
		}
		beyond := len(prefix) - 1 - scope.definerIdx
		if scope.definerIdx >= 0 && scope.max != nil && beyond > *scope.max {
			return
		}
		if scope.definerIdx < 0 || beyond >= scope.min {
			out = append(out, DefinedTag{
				Tag:         strings.Join(prefix, "/"),
				Description: n.Description,
				MinDepth:    nodeMin(n),
				MaxDepth:    nodeMax(n),
				HasChildren: len(n.Children) > 0,
			})
		}
		for _, seg := range sortedKeys(n.Children) {
			walk(append(prefix, seg), n.Children[seg], scope)
		}
	}
	for _, seg := range sortedKeys(s.Tags) {
		walk([]string{seg}, s.Tags[seg], depthScope{definerIdx: -1})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

func nodeMin(n *Node) int {
	if n.Depth == nil {
		return 0
	}
	return n.Depth.Min
}

func nodeMax(n *Node) *int {
	if n.Depth == nil {
		return nil
	}
	return n.Depth.Max
}

func sortedKeys(m map[string]*Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
