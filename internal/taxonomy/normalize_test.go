package taxonomy

import (
	"reflect"
	"testing"
)

func TestClean(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"#project/old", "project/old"},
		{"  #status/draft  ", "status/draft"},
		{"plain", "plain"},
		{"# spaced", "spaced"},
		{"##double", "double"},
		{"###x", "x"},
		{"#", ""},
		{"##", ""},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := Clean(c.in); got != c.want {
			t.Errorf("Clean(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{"#project/old", "  #x ", "plain", "# spaced", "", "a/b/c", "#тег", "##x", "### deep"}
	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Errorf("Clean not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestCleanList(t *testing.T) {
	got := CleanList([]string{"#a", "", "  ", "b", "#a"})
	want := []string{"a", "b", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CleanList = %v, want %v", got, want)
	}
}
