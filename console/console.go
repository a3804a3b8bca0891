// Package console provides the text sink: a scrolling cell grid that
// accepts characters and newlines and knows how to map itself onto a
// render target.
//
// The sink deliberately performs no terminal emulation — every symbol
// it receives is stored and drawn verbatim.  Escape-sequence parsing,
// fonts, and colors are someone else's job.
package console

// CellHeight is the fixed pixel height of one text row.  Display mode
// heights are converted to row counts with this constant.
const CellHeight = 16

// CellWidth is the fixed pixel width of one text column.
const CellWidth = 8

// Default grid dimensions, used until the first explicit resize.
const (
	DefaultCols = 80
	DefaultRows = 24
)

// Target is a surface the sink can draw onto: one cell per symbol.
// Cells outside the target's size are silently clipped.
type Target interface {
	// Size returns the target's dimensions in cells.
	Size() (cols, rows int)
	// SetCell places one symbol at the given cell position.
	SetCell(col, row int, sym rune)
}

// Sink is the consumer of ingested text.  The session controller
// depends only on this interface; Buffer is the standard
// implementation.
type Sink interface {
	// Write appends one symbol at the cursor, wrapping at the right
	// edge.
	Write(sym rune)
	// Newline moves the cursor to the start of the next row,
	// scrolling when the bottom is reached.
	Newline()
	// Resize changes the grid geometry.  Zero cols/rows keep the
	// current value, except that a non-zero pixel height derives the
	// row count (height / CellHeight, minimum one row).
	Resize(cols, rows, height uint)
	// Map draws the current grid onto the target.
	Map(tgt Target)
	// Height returns the pixel height recorded by the last Resize.
	Height() uint
}
