// Package sheet reads and writes the catalog workbook used by the admin export and the seed tool.
package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const catalogSheet = "Products"

var catalogHeader = []string{
	"Name", "Description", "Price", "Stock", "Brand", "Featured", "Rating", "Categories", "Tags", "Images",
}

// CatalogRow is one product line of the workbook
type CatalogRow struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Brand       string
	Featured    bool
	Categories  []string
	Tags        []string
}

// WriteCatalog writes products as a single-sheet workbook
func WriteCatalog(w io.Writer, products []model.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), catalogSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(catalogSheet, "A1", &catalogHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range products {
		categories := make([]string, 0, len(p.Categories))
		for _, c := range p.Categories {
			categories = append(categories, c.Name)
		}
		images := make([]string, 0, len(p.Images))
		for _, img := range p.Images {
			images = append(images, img.URL)
		}

		row := []interface{}{
			p.Name,
			p.Description,
			p.Price,
			p.Stock,
			p.Brand,
			p.Featured,
			p.Rating,
			strings.Join(categories, ", "),
			strings.Join(p.TagNames(), ", "),
			strings.Join(images, "\n"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(catalogSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f.Write(w)
}

// ReadCatalog parses the first sheet of a catalog workbook. Rows without a
// name or with an unparsable price are skipped and counted.
func ReadCatalog(r io.Reader) ([]CatalogRow, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in workbook")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in workbook")
	}

	var out []CatalogRow
	skipped := 0
	// first row is the header
	for _, row := range rows[1:] {
		parsed, ok := parseRow(row)
		if !ok {
			skipped++
			continue
		}
		out = append(out, parsed)
	}
	return out, skipped, nil
}

func parseRow(row []string) (CatalogRow, bool) {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := col(0)
	if name == "" {
		return CatalogRow{}, false
	}
	price, err := strconv.ParseFloat(col(2), 64)
	if err != nil || price < 0 {
		return CatalogRow{}, false
	}
	stock, _ := strconv.Atoi(col(3))
	featured, _ := strconv.ParseBool(col(5))

	return CatalogRow{
		Name:        name,
		Description: col(1),
		Price:       price,
		Stock:       stock,
		Brand:       col(4),
		Featured:    featured,
		Categories:  splitList(col(7)),
		Tags:        splitList(col(8)),
	}, true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
