package cmdutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLevels(t *testing.T) {
	cases := map[string]struct {
		verbose, quiet bool
		info, warn     bool
	}{
		"default": {info: false, warn: true},
		"verbose": {verbose: true, info: true, warn: true},
		"quiet":   {quiet: true, info: false, warn: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var b bytes.Buffer
			log, c, err := NewLogger(&b, tc.verbose, tc.quiet, "")
			require.NoError(t, err)
			defer c.Close()

			log.Info("info-line")
			log.Warn("warn-line")
			log.Error("error-line")
			assert.Equal(t, tc.info, bytes.Contains(b.Bytes(), []byte("info-line")))
			assert.Equal(t, tc.warn, bytes.Contains(b.Bytes(), []byte("warn-line")))
			assert.Contains(t, b.String(), "error-line")
		})
	}
}

func TestLogFileGetsInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	var b bytes.Buffer
	log, c, err := NewLogger(&b, false, true, path)
	require.NoError(t, err)

	log.WithField("locus", "abcZ").Info("loaded")
	log.Debug("hidden")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "loaded")
	assert.Contains(t, string(data), "locus=abcZ")
	assert.NotContains(t, string(data), "hidden")
	assert.Empty(t, b.String())
}

func TestLogFileOpenError(t *testing.T) {
	_, _, err := NewLogger(&bytes.Buffer{}, false, false, filepath.Join(t.TempDir(), "no", "such", "dir.log"))
	assert.Error(t, err)
}

func TestUpTo(t *testing.T) {
	assert.Equal(t, []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}, upTo(logrus.ErrorLevel))
}
