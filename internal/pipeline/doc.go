// Package pipeline fans the locus x genome job matrix out over a bounded
// pool of aligner invocations and fans the parsed hits back in.
//
// The only contract to implement is Aligner. A failed job is recorded as an
// Outcome with no hits; it never aborts the run. The merge into Results
// happens on the calling goroutine after every submitted job has finished.
package pipeline
