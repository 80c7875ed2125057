package diary

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	imageWidth = 1200
	rowHeight  = 60
	fontSize   = 24
	marginX    = 10
)

// Render draws the rows as a fixed-width table: a header line plus one line
// per row, 60px per line, black on white. The truetype face at fontPath is
// preferred (it must cover Cyrillic); when it cannot be loaded the built-in
// face is used instead.
func Render(rows []Row, fontPath string) ([]byte, error) {
	height := rowHeight * (len(rows) + 1)

	dc := gg.NewContext(imageWidth, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	if err := dc.LoadFontFace(fontPath, fontSize); err != nil {
		dc.SetFontFace(basicfont.Face7x13)
	}

	header := fmt.Sprintf("%-12s %-20s %-50s", "Дата", "Предмет", "Оценка")
	dc.DrawString(header, marginX, fontSize+marginX)

	y := float64(rowHeight)
	for _, row := range rows {
		line := fmt.Sprintf("%-12s %-20s %-50s %-10s", row.Date, row.Subject, row.Content, row.Mark)
		dc.DrawString(line, marginX, y+fontSize+marginX)
		y += rowHeight
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
