package services

import (
	"bytes"
	"fmt"

	"backend_customerpro/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportService renders visible records into downloadable files: tour run
// sheets as PDF and customer lists as Excel workbooks. It never queries the
// database itself, callers pass the already scope-filtered records.
type ExportService struct{}

// NewExportService creates a new ExportService instance.
func NewExportService() *ExportService {
	return &ExportService{}
}

// TourPDF renders a run sheet for a tour: title, state and the ordered stops.
func (es *ExportService) TourPDF(tour *models.Tour) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	translator := pdf.UnicodeTranslatorFromDescriptor("") // cp1252, covers umlauts

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, translator("Tourenplan: "+tour.Title))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	state := "Aktiv"
	if tour.Archived {
		state = "Archiviert"
		if tour.CompletedAt != nil {
			state += " am " + tour.CompletedAt.Format("02.01.2006")
		}
	}
	pdf.Cell(0, 8, translator("Status: "+state))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(12, 8, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 8, translator("Kunde"), "1", 0, "", false, 0, "")
	pdf.CellFormat(70, 8, translator("Adresse"), "1", 0, "", false, 0, "")
	pdf.CellFormat(53, 8, translator("Ziel"), "1", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, stop := range tour.Stops {
		pdf.CellFormat(12, 8, fmt.Sprintf("%d", stop.Order), "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 8, translator(stop.CustomerName), "1", 0, "", false, 0, "")
		pdf.CellFormat(70, 8, translator(stop.Address), "1", 0, "", false, 0, "")
		pdf.CellFormat(53, 8, translator(stop.Goal), "1", 1, "", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render tour PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// CustomersExcel renders a customer list as an xlsx workbook.
func (es *ExportService) CustomersExcel(customers []models.Customer) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Kunden"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"Kundennummer", "Name", "Adresse", "Telefon", "E-Mail"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIdx, customer := range customers {
		values := []string{customer.CustomerNumber, customer.Name, customer.Address, customer.Phone, customer.Email}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render customer workbook: %w", err)
	}
	return buf.Bytes(), nil
}
