package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	require.NoError(t, Initialize("id"))

	assert.Equal(t, "Authentication required", T("en", KeyAuthRequired))
	assert.Equal(t, "Autentikasi diperlukan", T("id", KeyAuthRequired))
	assert.Equal(t, "Invalid status", T("en", KeyValidationInvalid, "status"))
	assert.Equal(t, "status tidak valid", T("id", KeyValidationInvalid, "status"))

	// unknown languages fall back to the default, unknown keys to themselves
	assert.Equal(t, "Autentikasi diperlukan", T("fr", KeyAuthRequired))
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))

	assert.Equal(t, "id", DefaultLanguage())
	assert.Equal(t, []string{"en", "id"}, GetSupportedLanguages())
	assert.True(t, IsSupported("en"))
	assert.False(t, IsSupported("fr"))
}

func TestLocalesShareKeys(t *testing.T) {
	loaded := &I18n{translations: make(map[string]map[string]string)}
	require.NoError(t, loaded.LoadTranslations(localeFS, "locales"))

	en, id := loaded.translations["en"], loaded.translations["id"]
	require.NotEmpty(t, en)
	for key := range en {
		assert.Contains(t, id, key)
	}
	for key := range id {
		assert.Contains(t, en, key)
	}
}

func TestLoadTranslationsMissingDir(t *testing.T) {
	loaded := &I18n{translations: make(map[string]map[string]string)}
	assert.Error(t, loaded.LoadTranslations(localeFS, "missing"))
}
