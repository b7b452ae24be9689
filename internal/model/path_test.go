package model

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`C:\src\foo.cpp`, "C:/src/foo.cpp"},
		{"  foo.cpp  ", "foo.cpp"},
		{`C:\src\.\foo.cpp`, "C:/src/foo.cpp"},
		{"a//b.h", "a/b.h"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := NormalizePath(c.in); got != c.want {
			t.Errorf("NormalizePath(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestNormalizePathIdempotent(t *testing.T) {
	inputs := []string{
		`C:\src\foo.cpp`,
		"  relative/path.h",
		`..\up\one.h`,
		"already/normal.h",
	}
	for _, in := range inputs {
		once := NormalizePath(in)
		twice := NormalizePath(once)
		if once != twice {
			t.Errorf("NormalizePath not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
