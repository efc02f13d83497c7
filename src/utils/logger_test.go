package utils_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"portfolio/src/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("should append json lines to the log file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "service.log")
		logger := utils.NewLogger(logrus.DebugLevel, true, path)
		logger.WithField("order_id", "abc").Info("order executed")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"order_id":"abc"`)
		assert.Contains(t, string(content), `"msg":"order executed"`)
	})

	t.Run("should carry the logger in the context", func(t *testing.T) {
		logger := logrus.New()
		ctx := utils.WithLogger(context.Background(), logger)
		assert.Same(t, logger, utils.LoggerFromContext(ctx))
	})

	t.Run("should share one fallback logger", func(t *testing.T) {
		a := utils.LoggerFromContext(context.Background())
		b := utils.LoggerFromContext(context.Background())
		assert.Same(t, a, b)
	})

	t.Run("should default unknown levels to info", func(t *testing.T) {
		assert.Equal(t, logrus.InfoLevel, utils.ParseLogLevel("chatty"))
		assert.Equal(t, logrus.PanicLevel, utils.ParseLogLevel("panic"))
	})
}
