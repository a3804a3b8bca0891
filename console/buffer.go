package console

// Buffer is the standard in-memory Sink: a cols×rows rune grid with a
// cursor, right-edge wrap, and scroll-on-overflow.
type Buffer struct {
	cols, rows int
	height     uint // pixel height recorded by the last Resize

	lines      [][]rune // rows slices of length cols; 0 means empty
	curX, curY int
}

var _ Sink = (*Buffer)(nil)

// NewBuffer returns an empty buffer at the default geometry.
func NewBuffer() *Buffer {
	b := &Buffer{cols: DefaultCols, rows: DefaultRows}
	b.lines = blankLines(b.rows, b.cols)
	return b
}

func blankLines(rows, cols int) [][]rune {
	lines := make([][]rune, rows)
	for i := range lines {
		lines[i] = make([]rune, cols)
	}
	return lines
}

// Write places sym at the cursor and advances it, wrapping to a fresh
// line at the right edge.
func (b *Buffer) Write(sym rune) {
	if b.curX >= b.cols {
		b.Newline()
	}
	b.lines[b.curY][b.curX] = sym
	b.curX++
}

// Newline moves the cursor to column zero of the next row.  At the
// bottom of the grid the content scrolls up by one row.
func (b *Buffer) Newline() {
	b.curX = 0
	if b.curY+1 < b.rows {
		b.curY++
		return
	}
	copy(b.lines, b.lines[1:])
	b.lines[b.rows-1] = make([]rune, b.cols)
}

// Resize changes the grid geometry, preserving as much recent content
// as fits.  Zero cols/rows keep the current values; a non-zero pixel
// height overrides rows with height/CellHeight (at least one row).
func (b *Buffer) Resize(cols, rows, height uint) {
	b.height = height

	newCols := b.cols
	if cols > 0 {
		newCols = int(cols)
	}
	newRows := b.rows
	if rows > 0 {
		newRows = int(rows)
	}
	if height > 0 {
		newRows = int(height / CellHeight)
		if newRows < 1 {
			newRows = 1
		}
	}
	if newCols == b.cols && newRows == b.rows {
		return
	}

	lines := blankLines(newRows, newCols)

	// Keep the tail of the old content — the most recent output.
	keep := b.curY + 1
	if keep > newRows {
		keep = newRows
	}
	for i := 0; i < keep; i++ {
		src := b.lines[b.curY+1-keep+i]
		copy(lines[i], src)
	}

	b.lines = lines
	b.cols = newCols
	b.rows = newRows
	b.curY = keep - 1
	if b.curY < 0 {
		b.curY = 0
	}
	if b.curX > b.cols {
		b.curX = b.cols
	}
}

// Map draws the grid onto tgt, clipping to the target size.  Empty
// cells are drawn as spaces so stale target content is overwritten.
func (b *Buffer) Map(tgt Target) {
	tc, tr := tgt.Size()
	if tc > b.cols {
		tc = b.cols
	}
	if tr > b.rows {
		tr = b.rows
	}
	for row := 0; row < tr; row++ {
		for col := 0; col < tc; col++ {
			sym := b.lines[row][col]
			if sym == 0 {
				sym = ' '
			}
			tgt.SetCell(col, row, sym)
		}
	}
}

// Height returns the pixel height recorded by the last Resize.
func (b *Buffer) Height() uint { return b.height }

// Size returns the grid dimensions in cells.
func (b *Buffer) Size() (cols, rows int) { return b.cols, b.rows }

// Line returns the contents of one row as a string with trailing
// blanks trimmed.  Empty cells render as spaces.
func (b *Buffer) Line(row int) string {
	if row < 0 || row >= b.rows {
		return ""
	}
	out := make([]rune, b.cols)
	last := -1
	for i, sym := range b.lines[row] {
		if sym == 0 {
			out[i] = ' '
		} else {
			out[i] = sym
			last = i
		}
	}
	return string(out[:last+1])
}
