// Package common provides shared utilities for the UI.
package common

import "strings"

// TruncateName truncates a player name to the specified maximum length.
func TruncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) > maxLen {
		return string(runes[:maxLen-1]) + "…"
	}
	return name
}

// PolicyCard renders a single policy card face.
func PolicyCard(c string) string {
	switch c {
	case "L":
		return LiberalStyle.Render(" L ")
	case "F":
		return FascistStyle.Render(" F ")
	}
	return EmptyStyle.Render(" ? ")
}

// PolicyTrack renders a track of filled and empty slots, e.g. [F][F][ ][ ][ ][ ].
func PolicyTrack(c string, filled, total int) string {
	var sb strings.Builder
	for i := range total {
		if i < filled {
			sb.WriteString(PolicyCard(c))
		} else {
			sb.WriteString(EmptyStyle.Render(" · "))
		}
	}
	return sb.String()
}

// Choice maps y/n style answers to the wire vote value.
func Choice(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "ja", "是":
		return "Yes", true
	case "n", "no", "nein", "否":
		return "No", true
	}
	return "", false
}
