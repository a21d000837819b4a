package parser

import (
	"strings"
	"testing"
	"time"
)

func TestReplaceFrontmatterTag_List(t *testing.T) {
	input := []byte("---\ntitle: Note\ntags:\n  - todo\n  - urgent\n---\nBody stays #todo untouched.\n")
	out, n := ReplaceFrontmatterTag(input, "todo", "task")
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
	s := string(out)
	if !strings.Contains(s, "- task") || strings.Contains(s, "- todo") {
		t.Errorf("tags not rewritten:\n%s", s)
	}
	if !strings.Contains(s, "- urgent") {
		t.Errorf("unrelated tag lost:\n%s", s)
	}
	if !strings.HasSuffix(s, "Body stays #todo untouched.\n") {
		t.Errorf("body was modified:\n%s", s)
	}
}

func TestReplaceFrontmatterTag_Scalar(t *testing.T) {
	input := []byte("---\ntags: todo\n---\ntext\n")
	out, n := ReplaceFrontmatterTag(input, "todo", "task")
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
	if !strings.Contains(string(out), "tags: task") {
		t.Errorf("scalar not rewritten:\n%s", out)
	}
}

func TestReplaceFrontmatterTag_ExactMatchOnly(t *testing.T) {
	input := []byte("---\ntags:\n  - todo-list\n  - project/todo\n---\ntext\n")
	out, n := ReplaceFrontmatterTag(input, "todo", "task")
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
	if string(out) != string(input) {
		t.Errorf("document changed without a match:\n%s", out)
	}
}

func TestReplaceFrontmatterTag_NoFrontmatter(t *testing.T) {
	input := []byte("just a body with #todo\n")
	out, n := ReplaceFrontmatterTag(input, "todo", "task")
	if n != 0 || string(out) != string(input) {
		t.Errorf("document without frontmatter should pass through, got n=%d:\n%s", n, out)
	}
}

func TestStampUpdated_ReplacesAndAppends(t *testing.T) {
	ts := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	withKey := []byte("---\ntitle: Note\nupdated: old\n---\nbody\n")
	out := StampUpdated(withKey, ts)
	if strings.Contains(string(out), "old") || !strings.Contains(string(out), "2025-06-01 09:30") {
		t.Errorf("existing key not replaced:\n%s", out)
	}

	withoutKey := []byte("---\ntitle: Note\n---\nbody\n")
	out = StampUpdated(withoutKey, ts)
	if !strings.Contains(string(out), "updated") || !strings.Contains(string(out), "2025-06-01 09:30") {
		t.Errorf("key not appended:\n%s", out)
	}
	if !strings.HasSuffix(string(out), "body\n") {
		t.Errorf("body was modified:\n%s", out)
	}
}

func TestStampUpdated_NoFrontmatterIsNoop(t *testing.T) {
	input := []byte("plain body\n")
	out := StampUpdated(input, time.Now())
	if string(out) != string(input) {
		t.Errorf("stamping must not invent a metadata block:\n%s", out)
	}
}
