package rename

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/starford/eihwaz/internal/apperr"
)

// memDocs is an in-memory DocumentSet that counts writes.
type memDocs struct {
	files   map[string][]byte
	writes  int
	failing map[string]bool // paths whose Write fails
}

func newMemDocs(files map[string]string) *memDocs {
	m := &memDocs{files: map[string][]byte{}, failing: map[string]bool{}}
	for p, c := range files {
		m.files[p] = []byte(c)
	}
	return m
}

func (m *memDocs) List() ([]string, error) {
	var paths []string
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func (m *memDocs) Read(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, errors.New("no such document")
	}
	return data, nil
}

func (m *memDocs) Write(path string, content []byte) error {
	if m.failing[path] {
		return errors.New("disk full")
	}
	m.writes++
	m.files[path] = content
	return nil
}

func fullRequest(old, new string, preview bool) Request {
	return Request{
		OldTag:             old,
		NewTag:             new,
		Preview:            preview,
		IncludeInline:      true,
		IncludeFrontmatter: true,
	}
}

func TestRename_InvalidRequests(t *testing.T) {
	p := NewPropagator(newMemDocs(nil), nil)
	cases := []Request{
		fullRequest("", "new", false),
		fullRequest("old", "", false),
		fullRequest("same", "same", false),
		fullRequest("#same", "same", false), // equal after cleaning
		fullRequest("old", "new tag", false),
	}
	for _, req := range cases {
		_, err := p.Rename(context.Background(), req)
		if err == nil {
			t.Errorf("request %+v should be rejected", req)
		} else if !errors.Is(err, apperr.ErrInvalidRename) {
			t.Errorf("request %+v: error = %v, want ErrInvalidRename", req, err)
		}
	}
}

func TestRename_InlineAndFrontmatter(t *testing.T) {
	// One document with an inline occurrence, one with a frontmatter list.
	docs := newMemDocs(map[string]string{
		"a.md": "# A\nRemember the #todo item.\n",
		"b.md": "---\ntitle: B\ntags:\n  - todo\n  - urgent\n---\nbody\n",
	})
	p := NewPropagator(docs, nil)

	report, err := p.Rename(context.Background(), fullRequest("todo", "task", false))
	if err != nil {
		t.Fatal(err)
	}
	if report.FilesScanned != 2 || report.FilesModified != 2 {
		t.Errorf("scanned/modified = %d/%d, want 2/2", report.FilesScanned, report.FilesModified)
	}

	byPath := map[string]FileChange{}
	for _, c := range report.Changes {
		byPath[c.Path] = c
	}
	if c := byPath["a.md"]; c.InlineChanges != 1 || c.FrontmatterChanges != 0 {
		t.Errorf("a.md changes = %+v", c)
	}
	if c := byPath["b.md"]; c.FrontmatterChanges != 1 || c.InlineChanges != 0 {
		t.Errorf("b.md changes = %+v", c)
	}

	a, _ := docs.Read("a.md")
	if !strings.Contains(string(a), "#task") || strings.Contains(string(a), "#todo") {
		t.Errorf("a.md not rewritten: %s", a)
	}
	b, _ := docs.Read("b.md")
	if !strings.Contains(string(b), "- task") || strings.Contains(string(b), "- todo") {
		t.Errorf("b.md not rewritten: %s", b)
	}
	if !strings.Contains(string(b), "- urgent") {
		t.Errorf("b.md lost unrelated tag: %s", b)
	}
}

func TestRename_PreviewPerformsZeroWrites(t *testing.T) {
	docs := newMemDocs(map[string]string{
		"a.md": "text #todo text\n",
		"b.md": "---\ntags:\n  - todo\n---\nx\n",
	})
	p := NewPropagator(docs, nil)

	report, err := p.Rename(context.Background(), fullRequest("todo", "task", true))
	if err != nil {
		t.Fatal(err)
	}
	if docs.writes != 0 {
		t.Errorf("preview performed %d writes, want 0", docs.writes)
	}
	if !report.Preview || report.FilesModified != 2 {
		t.Errorf("preview report = %+v", report)
	}
	a, _ := docs.Read("a.md")
	if strings.Contains(string(a), "#task") {
		t.Error("preview mutated a document")
	}
}

func TestRename_BoundarySafety(t *testing.T) {
	docs := newMemDocs(map[string]string{
		"a.md": "keep #project and #proj/sub but rename #proj here\n",
	})
	p := NewPropagator(docs, nil)

	report, err := p.Rename(context.Background(), fullRequest("proj", "work", false))
	if err != nil {
		t.Fatal(err)
	}
	if report.FilesModified != 1 || report.Changes[0].InlineChanges != 1 {
		t.Errorf("report = %+v", report)
	}
	a, _ := docs.Read("a.md")
	want := "keep #project and #proj/sub but rename #work here\n"
	if string(a) != want {
		t.Errorf("content = %q, want %q", a, want)
	}
}

func TestRename_PassFlags(t *testing.T) {
	content := "---\ntags:\n  - todo\n---\nbody #todo\n"
	docs := newMemDocs(map[string]string{"a.md": content})
	p := NewPropagator(docs, nil)

	req := fullRequest("todo", "task", false)
	req.IncludeFrontmatter = false
	report, err := p.Rename(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	c := report.Changes[0]
	if c.FrontmatterChanges != 0 || c.InlineChanges != 1 {
		t.Errorf("inline-only changes = %+v", c)
	}
	a, _ := docs.Read("a.md")
	if !strings.Contains(string(a), "- todo") {
		t.Errorf("frontmatter rewritten despite flag: %s", a)
	}
}

func TestRename_StampsUpdatedOnlyWithFrontmatter(t *testing.T) {
	docs := newMemDocs(map[string]string{
		"fm.md":   "---\ntitle: X\ntags:\n  - todo\n---\nbody\n",
		"bare.md": "plain #todo body\n",
	})
	p := NewPropagator(docs, nil)

	if _, err := p.Rename(context.Background(), fullRequest("todo", "task", false)); err != nil {
		t.Fatal(err)
	}
	fm, _ := docs.Read("fm.md")
	if !strings.Contains(string(fm), "updated") {
		t.Errorf("frontmatter document missing updated stamp: %s", fm)
	}
	bare, _ := docs.Read("bare.md")
	if strings.Contains(string(bare), "updated") || strings.Contains(string(bare), "---") {
		t.Errorf("bare document gained a metadata block: %s", bare)
	}
}

func TestRename_ContinuesPastWriteFailures(t *testing.T) {
	docs := newMemDocs(map[string]string{
		"a.md": "one #todo\n",
		"b.md": "two #todo\n",
		"c.md": "three #todo\n",
	})
	docs.failing["b.md"] = true
	p := NewPropagator(docs, nil)

	report, err := p.Rename(context.Background(), fullRequest("todo", "task", false))
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Errors) != 1 || report.Errors[0].Path != "b.md" {
		t.Errorf("errors = %+v", report.Errors)
	}
	if report.FilesScanned != 3 {
		t.Errorf("scanned = %d, want 3", report.FilesScanned)
	}
	if report.FilesModified != 2 {
		t.Errorf("modified = %d, want 2", report.FilesModified)
	}
	if len(report.Changes) != 2 {
		t.Errorf("changes = %+v, want a.md and c.md only", report.Changes)
	}
	for _, ch := range report.Changes {
		if ch.Path == "b.md" {
			t.Errorf("failed document listed as a change: %+v", ch)
		}
	}
	for _, path := range []string{"a.md", "c.md"} {
		data, _ := docs.Read(path)
		if !strings.Contains(string(data), "#task") {
			t.Errorf("%s was not rewritten after the failure: %s", path, data)
		}
	}
}

func TestRename_MarkerCleanedFromInput(t *testing.T) {
	docs := newMemDocs(map[string]string{"a.md": "x #todo y\n"})
	p := NewPropagator(docs, nil)
	report, err := p.Rename(context.Background(), fullRequest("#todo", "#task", false))
	if err != nil {
		t.Fatal(err)
	}
	if report.OldTag != "todo" || report.NewTag != "task" {
		t.Errorf("report tags = %q -> %q", report.OldTag, report.NewTag)
	}
	a, _ := docs.Read("a.md")
	if !strings.Contains(string(a), "#task") {
		t.Errorf("content = %s", a)
	}
}
