// Package uidoc builds the admin documentation pages of UI components.
package uidoc

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/domain/identity"
	"github.com/openbiz/backend/internal/domain/shared"
	"github.com/openbiz/backend/internal/domain/uidoc"
	"github.com/openbiz/backend/internal/infrastructure/cache"
)

// ShimsPath is the icon font metadata file, relative to the document root
const ShimsPath = "theme/common/fontawesome-5/metadata/shims.json"

const (
	pictoSectionID = "img-picto-section-list"
	iconSectionID  = "icon-section-list"
)

//go:embed templates/icons.html
var templateFS embed.FS

// Translator translates page texts
type Translator interface {
	T(lang, key string, args ...any) string
}

// Section is one titled list of icons
type Section struct {
	Anchor  string
	Title   string
	Entries []uidoc.IconEntry
}

// SummaryItem links to a section of the page
type SummaryItem struct {
	Anchor string
	Label  string
}

// IconsPage is everything the icons page shows
type IconsPage struct {
	Lang         string
	HeaderTitle  string
	Title        string
	Description  string
	Breadcrumb   []string
	SummaryTitle string
	Summary      []SummaryItem
	PictoSection Section
	IconSection  Section
	Errors       []string
}

// IconsService builds the icons documentation page
type IconsService struct {
	fsys       fs.FS
	root       string
	cache      cache.Store
	ttl        time.Duration
	translator Translator
	tmpl       *template.Template
	logger     *zap.Logger
}

// NewIconsService reads metadata below the documentRoot directory
func NewIconsService(documentRoot string, store cache.Store, ttl time.Duration, translator Translator, logger *zap.Logger) (*IconsService, error) {
	return NewIconsServiceFS(os.DirFS(documentRoot), documentRoot, store, ttl, translator, logger)
}

// NewIconsServiceFS reads metadata from fsys; root is only used in messages
func NewIconsServiceFS(fsys fs.FS, root string, store cache.Store, ttl time.Duration, translator Translator, logger *zap.Logger) (*IconsService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	tmpl, err := template.ParseFS(templateFS, "templates/icons.html")
	if err != nil {
		return nil, fmt.Errorf("parse icons template: %w", err)
	}
	return &IconsService{
		fsys:       fsys,
		root:       root,
		cache:      store,
		ttl:        ttl,
		translator: translator,
		tmpl:       tmpl,
		logger:     logger,
	}, nil
}

// Page assembles the icons page for actor. Missing or broken metadata is
// reported on the page rather than failing it.
func (s *IconsService) Page(ctx context.Context, actor identity.Actor) (*IconsPage, error) {
	if actor.IsExternal() {
		return nil, shared.ErrForbidden
	}
	lang := actor.Language
	t := func(key string) string {
		if s.translator == nil {
			return key
		}
		return s.translator.T(lang, key)
	}

	p := &IconsPage{
		Lang:         lang,
		HeaderTitle:  t("Icons"),
		Title:        t("DocIconsTitle"),
		Description:  t("DocIconsMainDescription"),
		Breadcrumb:   []string{t("Components"), t("Icons")},
		SummaryTitle: t("DocSummary"),
		Summary: []SummaryItem{
			{Anchor: pictoSectionID, Label: t("DocIconsPictos")},
			{Anchor: iconSectionID, Label: t("DocIconsFontAwesome")},
		},
		PictoSection: Section{
			Anchor:  pictoSectionID,
			Title:   t("DocIconsList"),
			Entries: uidoc.PictoEntries(uidoc.PictoNames()),
		},
		IconSection: Section{Anchor: iconSectionID, Title: t("DocIconsList")},
	}

	entries, err := s.fontIcons(ctx)
	if err != nil {
		s.logger.Error("Icon metadata unavailable", zap.Error(err))
		p.Errors = append(p.Errors, err.Error())
	}
	p.IconSection.Entries = entries
	return p, nil
}

// Render writes the page as HTML
func (s *IconsService) Render(ctx context.Context, actor identity.Actor) ([]byte, error) {
	p, err := s.Page(ctx, actor)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "icons.html", p); err != nil {
		return nil, fmt.Errorf("render icons page: %w", err)
	}
	return buf.Bytes(), nil
}

// fontIcons loads the deduplicated icon font entries, cached per file version
func (s *IconsService) fontIcons(ctx context.Context) ([]uidoc.IconEntry, error) {
	display := path.Join(s.root, ShimsPath)
	info, err := fs.Stat(s.fsys, ShimsPath)
	if err != nil {
		return nil, fmt.Errorf("Error missing file %s", display)
	}

	key := fmt.Sprintf("uidoc:shims:%s:%d", display, info.ModTime().UnixNano())
	var entries []uidoc.IconEntry
	if s.cache != nil {
		err := cache.GetJSON(ctx, s.cache, key, &entries)
		if err == nil {
			return entries, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("Icon metadata cache read failed", zap.Error(err))
		}
	}

	raw, err := fs.ReadFile(s.fsys, ShimsPath)
	if err != nil {
		return nil, fmt.Errorf("Error missing file %s", display)
	}
	shims, err := uidoc.ParseShims(raw)
	if err != nil {
		s.logger.Debug("Icon metadata decode failed", zap.Error(err))
		return nil, fmt.Errorf("Error decoding %s", display)
	}
	entries = uidoc.FontIconEntries(shims)

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, entries, s.ttl); err != nil {
			s.logger.Warn("Icon metadata cache write failed", zap.Error(err))
		}
	}
	return entries, nil
}
