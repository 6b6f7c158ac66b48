package app

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/shakerlab/diffords/internal/recipe"
)

// writeRecipePDF renders a minimal one-page recipe card. This is intentionally
// simple: name as a heading, one line per ingredient in recipe order, and a
// clickable source link in the footer.
func writeRecipePDF(rec recipe.Recipe, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, rec.Name, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Ingredients", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if len(rec.Ingredients) == 0 {
		pdf.CellFormat(0, 6, "No ingredients found.", "", 1, "L", false, 0, "")
	}
	for _, ing := range rec.Ingredients {
		pdf.CellFormat(0, 6, fmt.Sprintf("%s  %s", ing.Quantity(), ing.Name), "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 9)
	if rec.MatchConfidence < 1.0 {
		pdf.CellFormat(0, 5, fmt.Sprintf("Match confidence: %.0f%%", rec.MatchConfidence*100), "", 1, "L", false, 0, "")
	}
	pdf.WriteLinkString(5, rec.URL, rec.URL)

	return pdf.OutputFileAndClose(outPath)
}
