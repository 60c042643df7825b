// Package speechtotext defines the streaming recognition contract consumed
// by the voice endpointer.
package speechtotext

// Result is the engine's recognition output for one audio chunk.
//
// When Final is set, Text is a finalized segment; otherwise Text is the
// current partial hypothesis. Either may be empty; trailing silence shows up
// as empty finals, and the endpointer counts them.
type Result struct {
	Final bool
	Text  string
}
