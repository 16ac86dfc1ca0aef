package textutil

import (
	"reflect"
	"testing"
)

func TestWords(t *testing.T) {
	got := Words("Hello, World! It's 2024_go.")
	want := []string{"hello", "world", "it", "s", "2024_go"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words() = %v, want %v", got, want)
	}
}

func TestIsStopword(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"the", true},
		{"and", true},
		{"golang", false},
		{"reddit", false},
	}
	for _, tt := range tests {
		if got := IsStopword(tt.word); got != tt.want {
			t.Errorf("IsStopword(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}
