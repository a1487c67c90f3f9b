package scan

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/icco/rudiments/internal/drumerr"
)

func TestToken(t *testing.T) {
	tok, c, ok := Token(New("hi-hat  |x---|"))
	if !ok || tok != "hi-hat" {
		t.Fatalf("Expected token hi-hat, got %q (ok=%v)", tok, ok)
	}
	if c.Rest() != "  |x---|" {
		t.Errorf("Unexpected rest %q", c.Rest())
	}

	if _, c, ok := Token(New("   ")); ok || c.Rest() != "   " {
		t.Errorf("Expected Token to fail on whitespace without consuming, got ok=%v rest=%q", ok, c.Rest())
	}
}

func TestSpaces(t *testing.T) {
	if _, c, ok := Spaces(New("abc")); !ok || c.Rest() != "abc" {
		t.Errorf("Spaces should match the empty prefix, got ok=%v rest=%q", ok, c.Rest())
	}
	if _, _, ok := Spaces1(New("abc")); ok {
		t.Error("Spaces1 should require whitespace")
	}
	if _, c, ok := Spaces1(New(" \t x")); !ok || c.Rest() != "x" {
		t.Errorf("Spaces1 should consume tabs and spaces, got ok=%v rest=%q", ok, c.Rest())
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		rest string
		ok   bool
	}{
		{"0.5", 0.5, "", true},
		{"1", 1, "", true},
		{"1.0 trailing", 1, " trailing", true},
		{"-1.25", -1.25, "", true},
		{".75", 0.75, "", true},
		{"0.5-", 0.5, "-", true},
		{"abc", 0, "abc", false},
		{"", 0, "", false},
		{"-", 0, "-", false},
	}

	for _, tt := range tests {
		got, c, ok := Float(New(tt.in))
		if ok != tt.ok {
			t.Errorf("Float(%q): expected ok=%v, got %v", tt.in, tt.ok, ok)
			continue
		}
		if got != tt.want || c.Rest() != tt.rest {
			t.Errorf("Float(%q): expected %v rest %q, got %v rest %q", tt.in, tt.want, tt.rest, got, c.Rest())
		}
	}
}

func TestFoldVerifyOptional(t *testing.T) {
	count := Fold1(Char("ab"), func() int { return 0 }, func(n int, _ byte) int { return n + 1 })

	n, c, ok := count(New("abba!"))
	if !ok || n != 4 || c.Rest() != "!" {
		t.Errorf("Expected 4 with rest !, got %d rest %q ok=%v", n, c.Rest(), ok)
	}
	if _, c, ok := count(New("!")); ok || c.Rest() != "!" {
		t.Error("Fold1 must match at least once")
	}

	even := Verify(count, func(n int) bool { return n%2 == 0 })
	if _, c, ok := even(New("aba")); ok || c.Rest() != "aba" {
		t.Error("Verify must fail without consuming input")
	}

	opt := Optional(Float)
	m, c, ok := opt(New("x"))
	if !ok || m.Ok || c.Rest() != "x" {
		t.Errorf("Optional should succeed empty, got %+v rest %q", m, c.Rest())
	}
	m, _, _ = opt(New("0.3"))
	if !m.Ok || m.Value != 0.3 {
		t.Errorf("Expected 0.3, got %+v", m)
	}

	if _, _, ok := End(New("")); !ok {
		t.Error("End should match empty input")
	}
}

func TestLines(t *testing.T) {
	var got []string
	var nums []int
	err := Lines(strings.NewReader("one\n\n  \nfour\n"), func(num int, line string) error {
		nums = append(nums, num)
		got = append(got, line)
		return nil
	})
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if len(got) != 2 || got[0] != "one" || got[1] != "four" {
		t.Errorf("Unexpected lines %q", got)
	}
	if len(nums) != 2 || nums[0] != 1 || nums[1] != 4 {
		t.Errorf("Unexpected line numbers %v", nums)
	}

	stop := errors.New("stop")
	err = Lines(strings.NewReader("a\nb\n"), func(int, string) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("Expected callback error, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(dir); !errors.Is(err, drumerr.ErrFileNotFound) {
		t.Errorf("Open(dir): expected file not found, got %v", err)
	}

	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.Close()
}
