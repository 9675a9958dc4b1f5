package pdf

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/castroh/pdi-agent/internal/domain"
)

const fontFamily = "DejaVu"

// Renderer turns a stored diagnostic into a downloadable PDF.
type Renderer struct {
	fontPath string
}

// NewRenderer creates a renderer backed by a UTF-8 TrueType font file.
func NewRenderer(fontPath string) *Renderer {
	return &Renderer{fontPath: fontPath}
}

// Render builds the report for one user record. The accents in the
// Portuguese content need a Unicode font, so a missing font file is an
// error rather than a silent fallback to the latin-1 core fonts.
func (r *Renderer) Render(rec *domain.UserRecord) ([]byte, error) {
	if _, err := os.Stat(r.fontPath); err != nil {
		return nil, fmt.Errorf("fonte não encontrada em %s: %w", r.fontPath, err)
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetAutoPageBreak(true, 15)
	doc.AddUTF8Font(fontFamily, "", r.fontPath)

	measure := doc.GetStringWidth
	pageW, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	usable := pageW - left - right

	write := func(text string, h float64) {
		// The cursor can be left mid-line by a previous cell; writing
		// from anywhere but the left margin shrinks the first line.
		doc.SetX(left)
		doc.MultiCell(0, h, ForceWrap(CleanText(text), usable, measure), "", "L", false)
	}

	for _, block := range Sections(rec.AIAnalysis, rec.Profile) {
		switch block.Kind {
		case BlockHeader:
			doc.SetFont(fontFamily, "", 16)
			write(block.Text, 10)
		case BlockTitle:
			doc.SetFont(fontFamily, "", 12)
			write(block.Text, 7)
		case BlockBody:
			doc.SetFont(fontFamily, "", 10)
			write(block.Text, 5)
		case BlockSpacer:
			doc.Ln(2)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
