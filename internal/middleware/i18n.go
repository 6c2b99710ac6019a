// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/budayachain/budaya-backend/internal/i18n"
)

func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = c.GetHeader("Accept-Language")
		}

		c.Set("lang", normalizeLang(lang))
		c.Next()
	}
}

// normalizeLang maps headers like "id-ID,id;q=0.9,en;q=0.8" to a loaded
// locale, falling back to the default.
func normalizeLang(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.Split(part, ";")[0]))
		switch {
		case tag == "":
			continue
		case tag == "id" || strings.HasPrefix(tag, "id-") || strings.HasPrefix(tag, "id_") || tag == "in":
			return "id"
		case tag == "en" || strings.HasPrefix(tag, "en-") || strings.HasPrefix(tag, "en_"):
			return "en"
		}
		if i18n.IsSupported(tag) {
			return tag
		}
	}
	return i18n.DefaultLanguage()
}
