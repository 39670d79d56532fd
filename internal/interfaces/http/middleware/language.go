package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// LanguageKey is the gin context key of the negotiated language
const LanguageKey = "lang"

// LanguageMatcher picks a supported language
type LanguageMatcher interface {
	Match(lang string) language.Tag
	MatchAcceptLanguage(header string) language.Tag
}

// Language negotiates the response language: the "lang" query parameter,
// then the user's preference from the token, then Accept-Language.
func Language(m LanguageMatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tag language.Tag
		switch {
		case c.Query("lang") != "":
			tag = m.Match(c.Query("lang"))
		case GetJWTClaims(c) != nil && GetJWTClaims(c).Language != "":
			tag = m.Match(GetJWTClaims(c).Language)
		default:
			tag = m.MatchAcceptLanguage(c.GetHeader("Accept-Language"))
		}
		c.Set(LanguageKey, tag.String())
		c.Header("Content-Language", tag.String())
		c.Next()
	}
}

// GetLanguage returns the language negotiated by Language
func GetLanguage(c *gin.Context) string {
	return c.GetString(LanguageKey)
}
