// Package snippet turns the decoded .atext tree into a flat list of snippet
// records.
package snippet

import "strings"

// Record is one normalized snippet. Records are immutable once produced.
type Record struct {
	// Trigger is the comma-joined list of abbreviations that expand the snippet
	Trigger string `json:"trigger"`

	// Content is the raw snippet body
	Content string `json:"content"`

	// RichContent is the rich text body, if any
	RichContent string `json:"rich_content"`

	// Type is the single-character snippet type code
	Type string `json:"type"`

	// TypeLabel is the human-readable form of Type
	TypeLabel string `json:"type_label"`

	// Name is the optional display name
	Name string `json:"name"`

	// Group is the display name of the nearest enclosing group ("" at top level)
	Group string `json:"group"`

	// Hotkey is the keyboard shortcut, if any
	Hotkey string `json:"hotkey"`

	// Tags is the comma-joined tag list
	Tags string `json:"tags"`

	// UUID is the snippet identifier assigned by aText
	UUID string `json:"uuid"`

	// Created is the creation time as "YYYY-MM-DD HH:MM:SS" UTC, or ""
	Created string `json:"created"`

	// Modified is the modification time as "YYYY-MM-DD HH:MM:SS" UTC, or ""
	Modified string `json:"modified"`
}

// Empty reports whether the record carries none of trigger, content or name.
// Empty records are never emitted.
func (r Record) Empty() bool {
	return r.Trigger == "" && r.Content == "" && r.Name == ""
}

// Triggers splits Trigger back into individual abbreviations, dropping blanks.
func (r Record) Triggers() []string {
	if r.Trigger == "" {
		return nil
	}
	parts := strings.Split(r.Trigger, ",")
	triggers := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			triggers = append(triggers, t)
		}
	}
	return triggers
}

// IsPlainText reports whether the snippet is plain text (type "t" or no type).
func (r Record) IsPlainText() bool {
	return r.Type == TypeText || r.Type == ""
}

// Snippet type codes.
const (
	TypeText     = "t"
	TypeScript   = "s"
	TypeRichText = "r"
	TypePicture  = "p"
	TypeHTML     = "h"
)

var typeLabels = map[string]string{
	TypeText:     "text",
	TypeScript:   "script",
	TypeRichText: "rich text",
	TypePicture:  "picture",
	TypeHTML:     "HTML",
}

// TypeLabel maps a type code to its label. Unknown codes are returned as is.
func TypeLabel(code string) string {
	if label, ok := typeLabels[code]; ok {
		return label
	}
	return code
}
