package uidoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleShims = `[
	["glass", null, "glass-martini"],
	["meetup", "fab", null],
	["star-o", "far", "star"],
	["star-o", "far", "star"],
	["remove", null, "times"],
	["close", null, "times"],
	["short"]
]`

func TestParseShims(t *testing.T) {
	shims, err := ParseShims([]byte(sampleShims))
	require.NoError(t, err)
	require.Len(t, shims, 7)

	assert.Equal(t, IconShim{Name: "glass", NewName: "glass-martini"}, shims[0])
	assert.Equal(t, "fab fa-meetup", shims[1].Class())
	assert.Equal(t, "fa fa-short", shims[6].Class())
}

func TestParseShims_Invalid(t *testing.T) {
	_, err := ParseShims([]byte(`{"not": "an array"}`))
	assert.Error(t, err)

	_, err = ParseShims([]byte(`[[1, 2]]`))
	assert.Error(t, err)

	_, err = ParseShims([]byte(" null "))
	assert.Error(t, err)

	shims, err := ParseShims([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, shims)
}

func TestFontIconEntries_Dedupe(t *testing.T) {
	shims, err := ParseShims([]byte(sampleShims))
	require.NoError(t, err)

	entries := FontIconEntries(shims)
	classes := make([]string, 0, len(entries))
	for _, e := range entries {
		classes = append(classes, e.Class)
	}
	assert.Equal(t, []string{
		"fa fa-glass-martini", "fab fa-meetup", "far fa-star", "fa fa-times", "fa fa-short",
	}, classes)

	assert.Equal(t, "glass-martini", entries[0].Title)
	assert.Equal(t, `<span class="fa fa-glass-martini" ></span>`, entries[0].Code)
}

func TestPictoEntries(t *testing.T) {
	entries := PictoEntries([]string{"bank", "pdf"})
	require.Len(t, entries, 2)
	assert.Equal(t, "img_picto('Text on title tag for tooltip', bank)", entries[0].Code)
	assert.Equal(t, "pdf", entries[1].Title)
}

func TestPictoNames_ReturnsCopy(t *testing.T) {
	names := PictoNames()
	require.NotEmpty(t, names)
	names[0] = "changed"
	assert.NotEqual(t, "changed", PictoNames()[0])
}
