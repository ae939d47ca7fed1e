// Package docx provides loading, in-place mutation, and serialization of
// DOCX (Office Open XML) documents.
//
// A Document is an ordered tree of body blocks (paragraphs and tables).
// Blocks that are never mutated round-trip byte-identically: the loader
// captures the raw XML of every block, and Save emits that capture verbatim
// unless the block was touched. Mutated blocks are re-marshaled from the
// typed model, with unrecognized inner elements (drawings, bookmarks,
// exotic properties) preserved as raw fragments in their original
// positions.
package docx
