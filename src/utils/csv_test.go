package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"portfolio/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVToMap(t *testing.T) {
	t.Run("should map the first column to the second", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "categories.csv")
		content := "asset_type,category\nStock,Equity\nMutual Fund,Equity\nBond,Fixed Income\nOther,\n"
		require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

		categories, err := utils.CSVToMap(file)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"Stock":       "Equity",
			"Mutual Fund": "Equity",
			"Bond":        "Fixed Income",
		}, categories)
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		_, err := utils.CSVToMap(filepath.Join(t.TempDir(), "missing.csv"))
		assert.Error(t, err)
	})

	t.Run("should load the bundled category map", func(t *testing.T) {
		categories, err := utils.CSVToMap("../../settings/categories.csv")
		require.NoError(t, err)
		assert.NotEmpty(t, categories)
	})
}
