package ocr

import (
	"strings"
	"testing"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "axc", 1},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"abc", "ab", 1},
		{"ab", "abc", 1},
	}
	for _, tt := range tests {
		if got := EditDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("EditDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestEditDistanceMultiByte(t *testing.T) {
	// Ideographs count as one unit each, never split by encoding.
	tests := []struct {
		a, b string
		want int
	}{
		{"白霄", "白雪", 1},
		{"雪风", "雪风", 0},
		{"雪风", "雪凤", 1},
		{"胡德", "俾斯麦", 3},
	}
	for _, tt := range tests {
		if got := EditDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("EditDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFuzzyMatch(t *testing.T) {
	candidates := []string{"白雪", "吹雪", "初雪"}

	got, ok := fuzzyMatch("白霄", candidates, 3)
	if !ok || got != "白雪" {
		t.Errorf("fuzzyMatch = %q, %v, want 白雪, true", got, ok)
	}

	if _, ok := fuzzyMatch("长门", candidates, 1); ok {
		t.Error("fuzzyMatch should reject beyond threshold")
	}

	if _, ok := fuzzyMatch("x", nil, 3); ok {
		t.Error("fuzzyMatch with no candidates should not match")
	}
}

func TestFuzzyMatchTieFirstCandidate(t *testing.T) {
	// Both candidates at distance 1: the first wins.
	got, ok := fuzzyMatch("ab", []string{"aa", "bb"}, 2)
	if !ok || got != "aa" {
		t.Errorf("fuzzyMatch tie = %q, %v, want aa, true", got, ok)
	}
}

func TestNearest(t *testing.T) {
	cand, dist := nearest("雪凤", []string{"白雪", "雪风"})
	if cand != "雪风" || dist != 1 {
		t.Errorf("nearest = %q, %d, want 雪风, 1", cand, dist)
	}
}

func TestMismatchErrorMessage(t *testing.T) {
	err := &MismatchError{Text: "garbled", Nearest: "白雪", Distance: 10, Ceiling: 4}
	msg := err.Error()
	if msg == "" {
		t.Fatal("empty error message")
	}
	for _, want := range []string{"garbled", "白雪", "10", "4"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}
