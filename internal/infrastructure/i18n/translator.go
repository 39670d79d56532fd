// Package i18n translates user facing messages. Catalogs are embedded JSON files,
// one per language, keyed by message name.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

//go:embed locales/*.json
var locales embed.FS

// DefaultLanguage is used when nothing better matches
const DefaultLanguage = "en-US"

// Translator resolves message keys for a language
type Translator struct {
	catalog  *catalog.Builder
	keys     map[language.Tag]map[string]bool
	tags     []language.Tag
	matcher  language.Matcher
	fallback language.Tag
}

// New loads the embedded catalogs. fallback is the language used for keys a
// catalog does not define and for requests no catalog matches.
func New(fallback string) (*Translator, error) {
	return NewFromFS(locales, "locales", fallback)
}

// NewFromFS loads every <lang>.json file of dir in fsys
func NewFromFS(fsys fs.FS, dir, fallback string) (*Translator, error) {
	if fallback == "" {
		fallback = DefaultLanguage
	}
	fb, err := language.Parse(Normalize(fallback))
	if err != nil {
		return nil, fmt.Errorf("parse fallback language %q: %w", fallback, err)
	}

	files, err := fs.Glob(fsys, path.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	sort.Strings(files)

	b := catalog.NewBuilder(catalog.Fallback(fb))
	tags := []language.Tag{fb}
	keys := make(map[language.Tag]map[string]bool)
	for _, file := range files {
		tag, err := language.Parse(strings.TrimSuffix(path.Base(file), ".json"))
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", file, err)
		}
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", file, err)
		}
		var messages map[string]string
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", file, err)
		}
		keys[tag] = make(map[string]bool, len(messages))
		for key, msg := range messages {
			keys[tag][key] = true
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("catalog %s key %s: %w", file, key, err)
			}
		}
		if tag != fb {
			tags = append(tags, tag)
		}
	}

	return &Translator{
		catalog:  b,
		keys:     keys,
		tags:     tags,
		matcher:  language.NewMatcher(tags),
		fallback: fb,
	}, nil
}

// Normalize accepts both "fr_FR" and "fr-FR" spellings
func Normalize(lang string) string {
	return strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
}

// Match returns the supported language closest to lang
func (t *Translator) Match(lang string) language.Tag {
	tag, err := language.Parse(Normalize(lang))
	if err != nil {
		return t.fallback
	}
	_, idx, conf := t.matcher.Match(tag)
	if conf == language.No {
		return t.fallback
	}
	return t.tags[idx]
}

// MatchAcceptLanguage picks a supported language from an Accept-Language header
func (t *Translator) MatchAcceptLanguage(header string) language.Tag {
	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return t.fallback
	}
	_, idx, conf := t.matcher.Match(desired...)
	if conf == language.No {
		return t.fallback
	}
	return t.tags[idx]
}

// Supports reports whether a catalog exists for exactly lang
func (t *Translator) Supports(lang string) bool {
	tag, err := language.Parse(Normalize(lang))
	if err != nil {
		return false
	}
	for _, s := range t.tags {
		if s == tag {
			return true
		}
	}
	return false
}

// Languages lists the loaded catalogs, fallback first
func (t *Translator) Languages() []string {
	out := make([]string, len(t.tags))
	for i, tag := range t.tags {
		out[i] = tag.String()
	}
	return out
}

// T translates key into lang. Keys missing from the language catalog come from
// the fallback catalog; unknown keys are returned unchanged.
func (t *Translator) T(lang, key string, args ...any) string {
	tag := t.Match(lang)
	if !t.keys[tag][key] {
		tag = t.fallback
	}
	return message.NewPrinter(tag, message.Catalog(t.catalog)).Sprintf(key, args...)
}

// Printer returns a message printer bound to the closest supported language
func (t *Translator) Printer(lang string) *message.Printer {
	return message.NewPrinter(t.Match(lang), message.Catalog(t.catalog))
}
