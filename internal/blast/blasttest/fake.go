// Package blasttest provides a stand-in aligner executable for tests.
//
// The fake accepts the same -query/-subject/-out flags as the real aligner
// and looks up its behaviour in a fixtures directory, keyed by
// "<query base>__<subject base>":
//
//	<key>.hits   copied verbatim to -out
//	<key>.fail   exit status 2 with a message on stderr
//	<key>.hang   block far longer than any test timeout
//
// With no fixture the output file is created empty (no hits).
package blasttest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const script = `#!/bin/sh
q=; s=; o=
while [ $# -gt 0 ]; do
  case "$1" in
    -query) q=$2; shift 2 ;;
    -subject) s=$2; shift 2 ;;
    -out) o=$2; shift 2 ;;
    *) shift ;;
  esac
done
key='%s'/"$(basename "$q")__$(basename "$s")"
if [ -f "$key.fail" ]; then echo "simulated aligner failure" >&2; exit 2; fi
if [ -f "$key.hang" ]; then exec sleep 60; fi
if [ -f "$key.hits" ]; then cp "$key.hits" "$o"; else : > "$o"; fi
`

// Aligner is a fake aligner executable and its fixtures directory.
type Aligner struct {
	Exe      string
	Fixtures string
}

// New writes the fake executable into a fresh temp dir. Tests are skipped
// on platforms without a POSIX shell.
func New(t testing.TB) *Aligner {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake aligner needs /bin/sh")
	}
	dir := t.TempDir()
	fx := filepath.Join(dir, "fixtures")
	if err := os.Mkdir(fx, 0o755); err != nil {
		t.Fatalf("mkdir fixtures: %v", err)
	}
	exe := filepath.Join(dir, "fake-blastn")
	body := []byte(fmt.Sprintf(script, fx))
	if err := os.WriteFile(exe, body, 0o755); err != nil {
		t.Fatalf("write fake aligner: %v", err)
	}
	return &Aligner{Exe: exe, Fixtures: fx}
}

// Hits makes the pair (query, subject) report rows. Each row must already
// be tab-separated in the aligner's column order.
func (a *Aligner) Hits(t testing.TB, query, subject string, rows ...string) {
	t.Helper()
	var data []byte
	for _, r := range rows {
		data = append(data, r...)
		data = append(data, '\n')
	}
	a.write(t, query, subject, ".hits", data)
}

// Fail makes the pair (query, subject) exit nonzero.
func (a *Aligner) Fail(t testing.TB, query, subject string) {
	t.Helper()
	a.write(t, query, subject, ".fail", nil)
}

// Hang makes the pair (query, subject) block until killed.
func (a *Aligner) Hang(t testing.TB, query, subject string) {
	t.Helper()
	a.write(t, query, subject, ".hang", nil)
}

func (a *Aligner) write(t testing.TB, query, subject, suffix string, data []byte) {
	t.Helper()
	name := filepath.Base(query) + "__" + filepath.Base(subject) + suffix
	if err := os.WriteFile(filepath.Join(a.Fixtures, name), data, 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}
