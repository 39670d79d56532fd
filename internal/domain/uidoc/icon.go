package uidoc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultIconPrefix is the style class used when a shim has no prefix
const DefaultIconPrefix = "fa"

// PictoTooltipLabel is the sample tooltip shown in picto usage snippets
const PictoTooltipLabel = "Text on title tag for tooltip"

// IconShim is one entry of the icon font compatibility metadata:
// [name, prefix or null, new name or null].
type IconShim struct {
	Name    string
	Prefix  string
	NewName string
}

// UnmarshalJSON decodes the positional array form
func (s *IconShim) UnmarshalJSON(data []byte) error {
	var fields []*string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	at := func(i int) string {
		if i < len(fields) && fields[i] != nil {
			return *fields[i]
		}
		return ""
	}
	*s = IconShim{Name: at(0), Prefix: at(1), NewName: at(2)}
	return nil
}

// Class returns the CSS classes rendering the icon
func (s IconShim) Class() string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = DefaultIconPrefix
	}
	return prefix + " fa-" + s.Title()
}

// Title returns the current name of the icon
func (s IconShim) Title() string {
	if s.NewName != "" {
		return s.NewName
	}
	return s.Name
}

// ParseShims decodes a shims metadata document
func ParseShims(data []byte) ([]IconShim, error) {
	var shims []IconShim
	if err := json.Unmarshal(data, &shims); err != nil {
		return nil, fmt.Errorf("decode icon shims: %w", err)
	}
	if shims == nil {
		return nil, errors.New("decode icon shims: document is not an array")
	}
	return shims, nil
}

// IconEntry is a rendered icon box
type IconEntry struct {
	Title string
	Class string
	Code  string // usage snippet, escaped when rendered
}

// FontIconEntries returns one entry per distinct class, in file order
func FontIconEntries(shims []IconShim) []IconEntry {
	seen := make(map[string]bool, len(shims))
	entries := make([]IconEntry, 0, len(shims))
	for _, s := range shims {
		class := s.Class()
		if seen[class] {
			continue
		}
		seen[class] = true
		entries = append(entries, IconEntry{
			Title: s.Title(),
			Class: class,
			Code:  `<span class="` + class + `" ></span>`,
		})
	}
	return entries
}

// PictoEntries returns one entry per built-in picto name
func PictoEntries(names []string) []IconEntry {
	entries := make([]IconEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, IconEntry{
			Title: name,
			Class: "picto picto-" + name,
			Code:  fmt.Sprintf("img_picto('%s', %s)", PictoTooltipLabel, name),
		})
	}
	return entries
}
