// Package export writes triple rows to spreadsheet files.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
)

const (
	// SheetName is the worksheet holding the triples.
	SheetName = "Triples"
	// ContentType is the media type of the produced workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Header is the first row of the sheet: object, subject, predicate,
// document, recommendation text, page.
var Header = []string{"объект", "субъект", "предикат", "документ", "текст рекомендации", "страница"}

// TempFile is a workbook written to a temporary file. Close removes it.
type TempFile struct {
	Path string
	// Name is the download file name.
	Name string
}

// Close removes the file. It is safe to call more than once.
func (f *TempFile) Close() error {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", f.Path, err)
	}
	return nil
}

// Filename returns the download name for a document: its id, or
// "triples", with spaces replaced by underscores.
func Filename(docID string) string {
	if docID == "" {
		docID = "triples"
	}
	return strings.ReplaceAll(docID, " ", "_") + ".xlsx"
}

// WriteXLSX writes rows to a new temporary workbook. On failure no file is
// left behind.
func WriteXLSX(rows []guideline.Row, docID string) (*TempFile, error) {
	tmp, err := os.CreateTemp("", "triples-*.xlsx")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	out := &TempFile{Path: tmp.Name(), Name: Filename(docID)}
	if err := tmp.Close(); err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := writeWorkbook(out.Path, rows); err != nil {
		_ = out.Close()
		return nil, err
	}
	return out, nil
}

func writeWorkbook(path string, rows []guideline.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.Object, r.Subject, r.Predicate, r.Document, r.Text, r.Page}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// ReadXLSX returns every row of the triples sheet, header included.
func ReadXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return rows, nil
}
