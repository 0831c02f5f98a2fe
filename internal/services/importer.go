package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mlaurent/chantier-api/internal/models"
)

// ErrMalformedCSV marks files the CSV reader itself cannot get through,
// as opposed to storage failures while inserting parsed rows.
var ErrMalformedCSV = errors.New("malformed csv")

// ImportResult reports how a CSV import went. Rows that fail validation
// are skipped and reported; valid rows are always imported.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportService turns CSV files into articles and projects. Column order
// is fixed; a header row is detected and skipped by its first cell.
type ImportService struct {
	articles *ArticleService
	projects *ProjectService
}

func NewImportService(articles *ArticleService, projects *ProjectService) *ImportService {
	return &ImportService{articles: articles, projects: projects}
}

// ImportArticles reads rows of
// designation,lot,sous_categorie,unite,prix_unitaire,statut
// into the given library. The first four columns are required.
func (s *ImportService) ImportArticles(ctx context.Context, libraryID uuid.UUID, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ImportResult{}
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "designation") {
			continue
		}

		input, err := parseArticleRow(record)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if _, err := s.articles.Create(ctx, libraryID, *input); err != nil {
			return nil, err
		}
		result.Imported++
	}
	return result, nil
}

func parseArticleRow(record []string) (*ArticleInput, error) {
	if len(record) < 4 {
		return nil, fmt.Errorf("expected at least 4 columns, got %d", len(record))
	}

	designation := strings.TrimSpace(record[0])
	lot := strings.TrimSpace(record[1])
	subCategory := strings.TrimSpace(record[2])
	unit := strings.TrimSpace(record[3])
	if designation == "" || lot == "" || unit == "" {
		return nil, fmt.Errorf("designation, lot and unite are required")
	}

	input := &ArticleInput{
		Designation: designation,
		Lot:         lot,
		Unit:        unit,
	}
	if subCategory != "" {
		input.SubCategory = &subCategory
	}

	if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
		price, err := parsePrice(record[4])
		if err != nil {
			return nil, err
		}
		input.UnitPrice = price
	}
	if len(record) > 5 {
		if status := strings.TrimSpace(record[5]); status != "" {
			input.Status = &status
		}
	}
	return input, nil
}

// parsePrice accepts both "1234.56" and the French "1 234,56".
func parsePrice(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	return price, nil
}

// ImportProjects reads rows of
// nom_projet,client,typologie,reference_interne,adresse,date_livraison_prevue,statut,surface_totale
// into the user's account. The first three columns are required.
func (s *ImportService) ImportProjects(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ImportResult{}
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "nom_projet") {
			continue
		}

		input, err := parseProjectRow(record)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if _, err := s.projects.Create(ctx, ownerID, *input); err != nil {
			return nil, err
		}
		result.Imported++
	}
	return result, nil
}

func parseProjectRow(record []string) (*ProjectInput, error) {
	if len(record) < 3 {
		return nil, fmt.Errorf("expected at least 3 columns, got %d", len(record))
	}

	name := strings.TrimSpace(record[0])
	client := strings.TrimSpace(record[1])
	typology := strings.TrimSpace(record[2])
	if name == "" || client == "" || typology == "" {
		return nil, fmt.Errorf("nom_projet, client and typologie are required")
	}

	input := &ProjectInput{
		Name:     name,
		Client:   &client,
		Typology: &typology,
	}

	if len(record) > 3 {
		if ref := strings.TrimSpace(record[3]); ref != "" {
			input.InternalRef = &ref
		}
	}
	if len(record) > 4 {
		if addr := strings.TrimSpace(record[4]); addr != "" {
			input.Address = &addr
		}
	}
	if len(record) > 5 && strings.TrimSpace(record[5]) != "" {
		date, err := parseDeliveryDate(record[5])
		if err != nil {
			return nil, err
		}
		input.DeliveryDate = &date
	}
	if len(record) > 6 {
		if status := strings.TrimSpace(record[6]); status != "" {
			if !models.IsValidProjectStatus(status) {
				return nil, fmt.Errorf("invalid status %q", status)
			}
			input.Status = status
		}
	}
	if len(record) > 7 && strings.TrimSpace(record[7]) != "" {
		area, err := parsePrice(record[7])
		if err != nil {
			return nil, fmt.Errorf("invalid surface %q", record[7])
		}
		input.TotalArea = &area
	}
	return input, nil
}

// parseDeliveryDate accepts ISO "2026-03-15" and French "15/03/2026".
func parseDeliveryDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// ExportArticles writes a library's articles as CSV in the same column
// order the importer reads.
func (s *ImportService) ExportArticles(ctx context.Context, libraryID uuid.UUID, w io.Writer) error {
	articles, err := s.articles.ListForLibrary(ctx, libraryID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"designation", "lot", "sous_categorie", "unite", "prix_unitaire", "statut"}); err != nil {
		return err
	}
	for _, a := range articles {
		subCategory := ""
		if a.SubCategory != nil {
			subCategory = *a.SubCategory
		}
		status := ""
		if a.Status != nil {
			status = *a.Status
		}
		row := []string{
			a.Designation, a.Lot, subCategory, a.Unit,
			strconv.FormatFloat(a.UnitPrice, 'f', 2, 64), status,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
