package symbolic

import (
	"fmt"
	"strings"
)

// Matrix is a dense row-major matrix of expressions.
type Matrix struct {
	rows, cols int
	cells      []Expr
}

// NewMatrix returns a rows×cols zero matrix.
func NewMatrix(rows, cols int) *Matrix {
	cells := make([]Expr, rows*cols)
	for i := range cells {
		cells[i] = N(0)
	}
	return &Matrix{rows: rows, cols: cols, cells: cells}
}

// MatrixFromSlice takes entries in row-major order.
func MatrixFromSlice(rows, cols int, entries []Expr) *Matrix {
	if len(entries) != rows*cols {
		panic(fmt.Sprintf("symbolic: %dx%d matrix needs %d entries, got %d", rows, cols, rows*cols, len(entries)))
	}
	return &Matrix{rows: rows, cols: cols, cells: append([]Expr(nil), entries...)}
}

func (m *Matrix) index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("symbolic: index (%d,%d) outside %dx%d matrix", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

func (m *Matrix) Get(row, col int) Expr       { return m.cells[m.index(row, col)] }
func (m *Matrix) Set(row, col int, val Expr) { m.cells[m.index(row, col)] = val }
func (m *Matrix) Rows() int                   { return m.rows }
func (m *Matrix) Cols() int                   { return m.cols }

func (m *Matrix) format(open, close, colSep, rowSep string, cell func(Expr) string) string {
	rows := make([]string, m.rows)
	for i := range rows {
		cols := make([]string, m.cols)
		for j := range cols {
			cols[j] = cell(m.Get(i, j))
		}
		rows[i] = strings.Join(cols, colSep)
	}
	return open + strings.Join(rows, rowSep) + close
}

// String renders [[a, b], [c, d]].
func (m *Matrix) String() string {
	return "[" + m.format("[", "]", ", ", "], [", Expr.String) + "]"
}

func (m *Matrix) LaTeX() string {
	return m.format(`\begin{pmatrix}`, `\end{pmatrix}`, " & ", ` \\ `, Expr.LaTeX)
}

// Det is the cofactor expansion along the first row; a 2x2 matrix gives
// exactly a*d - b*c.
func (m *Matrix) Det() Expr {
	if m.rows != m.cols {
		panic(fmt.Sprintf("symbolic: determinant of non-square %dx%d matrix", m.rows, m.cols))
	}
	switch m.rows {
	case 0:
		return N(1)
	case 1:
		return m.cells[0].Simplify()
	case 2:
		return AddOf(MulOf(m.cells[0], m.cells[3]), MulOf(N(-1), m.cells[1], m.cells[2]))
	}
	terms := make([]Expr, m.cols)
	for j := range terms {
		sign := N(1)
		if j%2 == 1 {
			sign = N(-1)
		}
		terms[j] = MulOf(sign, m.cells[j], m.minor(0, j).Det())
	}
	return AddOf(terms...)
}

func (m *Matrix) minor(row, col int) *Matrix {
	out := &Matrix{rows: m.rows - 1, cols: m.cols - 1, cells: make([]Expr, 0, (m.rows-1)*(m.cols-1))}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if i != row && j != col {
				out.cells = append(out.cells, m.Get(i, j))
			}
		}
	}
	return out
}

// Jacobian returns the matrix of partials ∂exprs[i]/∂vars[j].
func Jacobian(exprs []Expr, vars []string) *Matrix {
	m := NewMatrix(len(exprs), len(vars))
	for i, e := range exprs {
		for j, v := range vars {
			m.Set(i, j, PDiff(e, v))
		}
	}
	return m
}
