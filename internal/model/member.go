package model

import (
	"fmt"
	"unicode/utf16"
)

// Member is someone tasks can be assigned to
type Member struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// NewMember builds a member with its derived color
func NewMember(name string) Member {
	return Member{Name: name, Color: ColorFor(name)}
}

// HueFor hashes the UTF-16 code units of name into a hue in [0,360).
// The same name always yields the same hue.
func HueFor(name string) int {
	var h int32
	for _, c := range utf16.Encode([]rune(name)) {
		h = (h << 5) - h + int32(c)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return int(abs % 360)
}

// ColorFor returns the CSS-style color descriptor for name
func ColorFor(name string) string {
	return fmt.Sprintf("hsl(%d 70%% 45%%)", HueFor(name))
}
