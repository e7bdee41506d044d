package main

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// writeSimplePDF renders the answer text into a minimal PDF, keeping
// paragraph breaks and styling the section headings the summarizer emits
// (SUMMARY:, SUGGESTED LINKS:, FOLLOW-UP QUERIES:). No full layout engine,
// just something printable.
func writeSimplePDF(text string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			pdf.Ln(5)
			continue
		}
		if isHeading(line) {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 6, line, "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outPath)
}

func isHeading(line string) bool {
	return strings.HasSuffix(line, ":") && strings.ToUpper(line) == line
}
