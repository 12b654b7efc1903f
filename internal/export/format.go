// Package export renders candidate lists as CSV or XLSX and delivers the
// result to one or more destinations, once or on a schedule.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alfredjeanlab/hiredesk/internal/model"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv", "xlsx" and "excel" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or xlsx)", s)
}

// Ext is the file extension without the dot.
func (f Format) Ext() string { return string(f) }

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// SheetName is the worksheet holding the rows in XLSX exports.
const SheetName = "Candidates"

// Columns is the header row shared by every format.
var Columns = []string{
	"ID", "Name", "Role", "Company", "Total Experience", "Company Experience",
	"City", "Country", "Location", "Skills", "Skill Level", "Notice Period",
	"Email", "Phone", "LinkedIn",
}

func row(c *model.Candidate) []any {
	return []any{
		c.ID, c.Name, c.Role, c.Company, c.TotalExperience, c.CompanyExperience,
		c.City, c.Country, c.Location, strings.Join(c.Skills, ", "), string(c.SkillLevel), string(c.NoticePeriod),
		c.Email, c.Phone, c.LinkedIn,
	}
}

// Write renders cands to w in the given format. Nil candidates are skipped.
func Write(w io.Writer, f Format, cands []*model.Candidate) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, cands)
	case FormatXLSX:
		return writeXLSX(w, cands)
	}
	return fmt.Errorf("unknown export format %q", f)
}

func writeCSV(w io.Writer, cands []*model.Candidate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	rec := make([]string, len(Columns))
	for _, c := range cands {
		if c == nil {
			continue
		}
		for i, v := range row(c) {
			switch v := v.(type) {
			case int:
				rec[i] = strconv.Itoa(v)
			default:
				rec[i] = fmt.Sprint(v)
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing candidate %s: %w", c.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, cands []*model.Candidate) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	r := 2
	for _, c := range cands {
		if c == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, r)
		vals := row(c)
		if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
			return fmt.Errorf("writing candidate %s: %w", c.ID, err)
		}
		r++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
