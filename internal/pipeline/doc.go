// Package pipeline compiles design documents to print-ready HTML.
//
// Each element kind has a pure compiler producing one absolutely positioned
// fragment. The assembler orders fragments by z-index, wraps them in one
// fixed-size container per page and joins the pages into a single HTML
// document whose @page size follows the first page.
//
// Compilation performs no I/O: image sources must already be inline data
// (see internal/assets). The same document always compiles to the same bytes.
package pipeline
