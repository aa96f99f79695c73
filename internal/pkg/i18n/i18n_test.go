package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Invalid coupon code", table.Lookup("en", "invalidCoupon"))
	assert.Equal(t, "Código de cupón no válido", table.Lookup("es", "invalidCoupon"))

	// 未知语言回退英语
	assert.Equal(t, "Invalid coupon code", table.Lookup("it", "invalidCoupon"))
	// 未知键回退为键本身
	assert.Equal(t, "noSuchKey", table.Lookup("en", "noSuchKey"))
}

func TestAllLanguagesCoverTheSameKeys(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)
	langs := table.Languages()
	require.Contains(t, langs, "en")

	for _, lang := range langs {
		for key := range table.labels["en"] {
			assert.NotEqual(t, key, table.Lookup(lang, key), "missing %s translation for %s", lang, key)
		}
	}
}
