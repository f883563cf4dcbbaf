package printer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// PDFOptions controls the page geometry and metadata of a rendered receipt.
type PDFOptions struct {
	PaperWidthMM  float64
	PageHeightMM  float64
	MarginMM      float64
	Title         string
	CreationDate  time.Time
	FontFamily    string
	BaseFontPoint float64
}

// DefaultPDFOptions returns the geometry of an 80mm roll cut into A4-length pages.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PaperWidthMM:  80,
		PageHeightMM:  297,
		MarginMM:      4,
		FontFamily:    "Helvetica",
		BaseFontPoint: 9,
	}
}

func (o PDFOptions) withDefaults() PDFOptions {
	def := DefaultPDFOptions()
	if o.PaperWidthMM <= 0 {
		o.PaperWidthMM = def.PaperWidthMM
	}
	if o.PageHeightMM <= 0 {
		o.PageHeightMM = def.PageHeightMM
	}
	if o.MarginMM <= 0 {
		o.MarginMM = def.MarginMM
	}
	if o.FontFamily == "" {
		o.FontFamily = def.FontFamily
	}
	if o.BaseFontPoint <= 0 {
		o.BaseFontPoint = def.BaseFontPoint
	}
	return o
}

const indentMM = 4

// PDF renders the layout to a paginated receipt-width PDF document.
func (l *Layout) PDF(opts PDFOptions) ([]byte, error) {
	opts = opts.withDefaults()

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: opts.PaperWidthMM, Ht: opts.PageHeightMM},
	})
	pdf.SetMargins(opts.MarginMM, opts.MarginMM, opts.MarginMM)
	pdf.SetAutoPageBreak(true, opts.MarginMM)
	pdf.SetTitle(opts.Title, true)
	pdf.SetCreator("caisse-api", true)
	if !opts.CreationDate.IsZero() {
		pdf.SetCreationDate(opts.CreationDate)
	}
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	usable := opts.PaperWidthMM - 2*opts.MarginMM

	for _, r := range l.Rows {
		pt := fontPoint(opts.BaseFontPoint, r.Size)
		height := pt * 0.45
		pdf.SetFont(opts.FontFamily, fontStyle(r), pt)

		if r.Rule != 0 {
			y := pdf.GetY() + height/2
			pdf.Line(opts.MarginMM, y, opts.MarginMM+usable, y)
			pdf.Ln(height)
			continue
		}

		indent := float64(r.Indent) * indentMM
		left := tr(r.Left)
		right := tr(r.Right)
		if right == "" {
			pdf.SetX(opts.MarginMM + indent)
			pdf.MultiCell(usable-indent, height, left, "", alignStr(r.Align), false)
			continue
		}

		rightWidth := pdf.GetStringWidth(right)
		pdf.SetX(opts.MarginMM + indent)
		pdf.CellFormat(usable-indent-rightWidth-1, height, fitWidth(pdf, left, usable-indent-rightWidth-1), "", 0, "L", false, 0, "")
		pdf.SetX(opts.MarginMM)
		pdf.CellFormat(usable, height, right, "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("printer: failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func fontPoint(base float64, s Size) float64 {
	switch s {
	case SizeSmall:
		return base * 0.75
	case SizeLarge:
		return base * 1.6
	default:
		return base
	}
}

func fontStyle(r Row) string {
	style := ""
	if r.Bold {
		style += "B"
	}
	if r.Underline {
		style += "U"
	}
	return style
}

func alignStr(align int) string {
	switch align {
	case AlignCenter:
		return "C"
	case AlignRight:
		return "R"
	default:
		return "L"
	}
}

// fitWidth shortens s until it fits in width millimetres at the current font.
func fitWidth(pdf *fpdf.Fpdf, s string, width float64) string {
	for len(s) > 0 && pdf.GetStringWidth(s) > width {
		s = s[:len(s)-1]
	}
	return s
}
