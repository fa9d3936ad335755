package services

import (
	"strings"
	"unicode/utf16"
)

var displayPalette = []string{
	"#3498db", "#2ecc71", "#e74c3c", "#f39c12",
	"#9b59b6", "#1abc9c", "#d35400", "#c0392b",
	"#2980b9", "#27ae60", "#8e44ad", "#f1c40f",
	"#16a085", "#e67e22", "#2c3e50", "#7f8c8d",
}

// DisplayPalette returns a copy of the colors DeriveDisplayColor picks from.
func DisplayPalette() []string {
	return append([]string(nil), displayPalette...)
}

// DeriveDisplayColor maps a key to a palette color. The hash runs over
// UTF-16 code units with 32-bit shift wrap-around so every client derives
// the same color for the same name.
func DeriveDisplayColor(key string) string {
	var hash int64
	for _, c := range utf16.Encode([]rune(key)) {
		hash = int64(c) + (int64(int32(hash)<<5) - hash)
	}
	if hash < 0 {
		hash = -hash
	}
	return displayPalette[hash%int64(len(displayPalette))]
}

// ParseBankList splits a comma-separated bank field into trimmed, lowercased
// names, dropping empty segments. Order is preserved.
func ParseBankList(bank string) []string {
	out := []string{}
	for _, part := range strings.Split(bank, ",") {
		if b := strings.TrimSpace(part); b != "" {
			out = append(out, strings.ToLower(b))
		}
	}
	return out
}
