package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ESC/POS control bytes.
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Alignment values, as sent with ESC a.
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character sizes for GS !.
const (
	FontNormal = 0x00
	FontDouble = 0x11
)

// PC858 is Latin-1 plus the euro sign; 19 is its ESC t slot on Epson-compatible heads.
const codePage858 = 19

// Document accumulates the bytes of one thermal print job. Text goes through
// code page 858 and anything outside it prints as '?'.
// Rows are fitted to the paper width before they reach it.
type Document struct {
	buf bytes.Buffer
}

// NewDocument resets the printer and selects the code page.
func NewDocument() *Document {
	d := &Document{}
	d.command(ESC, '@')
	d.command(ESC, 't', codePage858)
	return d
}

func (d *Document) command(b ...byte) *Document {
	d.buf.Write(b)
	return d
}

func (d *Document) SetAlign(align int) *Document { return d.command(ESC, 'a', byte(align)) }
func (d *Document) SetBold(on bool) *Document    { return d.command(ESC, 'E', flag(on)) }

// SetUnderline selects the one-dot underline.
func (d *Document) SetUnderline(on bool) *Document { return d.command(ESC, '-', flag(on)) }

// SetSmallFont switches to font B, used for comments under a line.
func (d *Document) SetSmallFont(on bool) *Document { return d.command(ESC, 'M', flag(on)) }

func (d *Document) SetFontSize(size byte) *Document { return d.command(GS, '!', size) }

// FeedLines advances the paper so the last row clears the cutter.
func (d *Document) FeedLines(n int) *Document {
	d.buf.Write(bytes.Repeat([]byte{LF}, n))
	return d
}

// PartialCut leaves a small tab so the ticket does not fall.
func (d *Document) PartialCut() *Document { return d.command(GS, 'V', 0x01) }

// Text encodes s and ends the line.
func (d *Document) Text(s string) *Document {
	for _, r := range s {
		b, ok := charmap.CodePage858.EncodeRune(r)
		if !ok {
			b = '?'
		}
		d.buf.WriteByte(b)
	}
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func flag(on bool) byte {
	if on {
		return 1
	}
	return 0
}

// justify places left and right on one line of width runes, truncating left
// when both do not fit.
func justify(left, right string, width int) string {
	if right == "" {
		return truncate(left, width)
	}
	rightLen := utf8.RuneCountInString(right)
	left = truncate(left, width-rightLen-1)
	gap := max(width-utf8.RuneCountInString(left)-rightLen, 1)
	return left + strings.Repeat(" ", gap) + right
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width])
}
