package rename

import "testing"

func TestBuildTagPattern_Boundaries(t *testing.T) {
	cases := []struct {
		tag, text string
		want      int
	}{
		{"proj", "see #proj here", 1},
		{"proj", "see #project here", 0},
		{"proj", "see #proj/x here", 0},
		{"proj", "see #proj-x here", 0},
		{"proj", "see #proj_x here", 0},
		{"proj", "see #projx here", 0},
		{"proj", "#proj", 1},        // end of text
		{"proj", "#proj\nnext", 1},  // end of line
		{"proj", "(#proj)", 1},      // punctuation boundary
		{"proj", "#proj. #proj!", 2},
		{"project/old", "tagged #project/old here", 1},
		{"project/old", "tagged #project/oldx here", 0},
		{"project/old", "tagged #project/old/sub here", 0},
		{"project/old", "tagged #other/old here", 0},
		{"c++", "likes #c++ a lot", 1}, // meta characters escaped
	}
	for _, c := range cases {
		re := BuildTagPattern(c.tag)
		if got := countInline(re, []byte(c.text)); got != c.want {
			t.Errorf("count(%q in %q) = %d, want %d", c.tag, c.text, got, c.want)
		}
	}
}

func TestReplaceInline_PreservesSurroundingText(t *testing.T) {
	re := BuildTagPattern("todo")
	got := string(replaceInline(re, []byte("a #todo, then #todo\nand #todos"), "task"))
	want := "a #task, then #task\nand #todos"
	if got != want {
		t.Errorf("replaced = %q, want %q", got, want)
	}
}

func TestReplaceInline_AdjacentTags(t *testing.T) {
	re := BuildTagPattern("todo")
	got := string(replaceInline(re, []byte("#todo #todo"), "task"))
	if got != "#task #task" {
		t.Errorf("replaced = %q", got)
	}
}
