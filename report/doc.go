// Package report implements the template-filling rules for daily
// construction report documents: line classification for free text
// inserted into cells, fuzzy row updates against appendix tables,
// heading-anchored table replacement, and generation of the daily
// statistics table.
//
// All operations mutate a docx.Document in place and tolerate template
// variance: a missing table, row, or heading is a silent no-op, never an
// error.
package report
