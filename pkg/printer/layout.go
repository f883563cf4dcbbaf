package printer

import (
	"strings"
	"unicode/utf8"
)

// Size is the relative text size of a layout row.
type Size int

const (
	SizeNormal Size = iota
	SizeSmall
	SizeLarge
)

// Row is one line of a receipt. Left is placed at the row's alignment and
// Indent; when Right is set the row is justified with Right flush right.
// A non-zero Rule draws a separator instead of text.
type Row struct {
	Left      string
	Right     string
	Align     int
	Size      Size
	Bold      bool
	Underline bool
	Indent    int
	Rule      byte
}

// Layout is a backend-neutral receipt: a fixed character width and its rows.
// It renders to ESC/POS for thermal printers, to PDF for archiving and to
// plain text.
type Layout struct {
	Width int
	Rows  []Row
}

// NewLayout creates an empty layout for a paper of charWidth characters.
func NewLayout(charWidth int) *Layout {
	if charWidth <= 0 {
		charWidth = 48
	}
	return &Layout{Width: charWidth}
}

// Add appends a row.
func (l *Layout) Add(r Row) *Layout {
	l.Rows = append(l.Rows, r)
	return l
}

// Text appends an aligned line of normal text.
func (l *Layout) Text(align int, s string) *Layout {
	return l.Add(Row{Left: s, Align: align})
}

// KeyValue appends a justified key/value row.
func (l *Layout) KeyValue(key, value string) *Layout {
	return l.Add(Row{Left: key, Right: value})
}

// Separator appends a full-width rule.
func (l *Layout) Separator(char byte) *Layout {
	return l.Add(Row{Rule: char})
}

// Blank appends an empty line.
func (l *Layout) Blank() *Layout {
	return l.Add(Row{})
}

// columns is the number of characters a row of the given size can hold.
func (l *Layout) columns(s Size) int {
	if s == SizeLarge {
		return l.Width / 2
	}
	return l.Width
}

// line renders the row content to its character width, without alignment padding.
func (l *Layout) line(r Row) string {
	width := l.columns(r.Size)
	if r.Rule != 0 {
		return strings.Repeat(string(r.Rule), width)
	}
	return justify(strings.Repeat(" ", 2*r.Indent)+r.Left, r.Right, width)
}

// PlainText renders the layout as fixed-width text, one row per line.
func (l *Layout) PlainText() string {
	var sb strings.Builder
	for _, r := range l.Rows {
		text := l.line(r)
		width := l.columns(r.Size)
		pad := width - utf8.RuneCountInString(text)
		if r.Right == "" && pad > 0 {
			switch r.Align {
			case AlignCenter:
				text = strings.Repeat(" ", pad/2) + text
			case AlignRight:
				text = strings.Repeat(" ", pad) + text
			}
		}
		sb.WriteString(strings.TrimRight(text, " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ESCPOS renders the layout for a thermal printer and ends with a partial cut.
func (l *Layout) ESCPOS() []byte {
	d := NewDocument()
	for _, r := range l.Rows {
		d.SetAlign(r.Align).
			SetBold(r.Bold).
			SetUnderline(r.Underline).
			SetSmallFont(r.Size == SizeSmall)
		if r.Size == SizeLarge {
			d.SetFontSize(FontDouble)
		} else {
			d.SetFontSize(FontNormal)
		}
		d.Text(l.line(r))
	}
	d.SetAlign(AlignLeft).
		SetBold(false).
		SetUnderline(false).
		SetSmallFont(false).
		SetFontSize(FontNormal).
		FeedLines(4).
		PartialCut()
	return d.Bytes()
}
