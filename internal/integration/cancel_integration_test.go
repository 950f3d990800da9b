package integration

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mlst/internal/app"
)

func TestCancel_Exit130(t *testing.T) {
	f := newFixture(t)
	f.fake.Hang(t, "abc.fasta", "G1.fasta")
	out := filepath.Join(f.root, "out")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	code := app.RunContext(ctx, f.args(out, "-t", "1", "--job-timeout", "500ms"), io.Discard, io.Discard)
	assert.Equal(t, 130, code)
	assert.NoFileExists(t, filepath.Join(out, "MLST_results.csv"))
}
