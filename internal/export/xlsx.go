// Package export writes a ranked result set to a spreadsheet a caseworker
// can print or attach to an email.
package export

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/caseworks/directory-cli/internal/model"
	"github.com/caseworks/directory-cli/internal/schedule"
	"github.com/caseworks/directory-cli/internal/typetab"
)

var header = []string{
	"Organization", "Assistance", "Status", "Hours",
	"Requirements", "Phone", "Website",
	"County", "City", "Zip", "Distance (mi)", "Driving",
}

// WriteXLSX renders the match result as a single-sheet workbook.
func WriteXLSX(w io.Writer, result model.MatchResult, types *typetab.Table) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Resources")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().Value = h
	}

	driving := ""
	if result.UsedDrivingDistance {
		driving = "yes"
	}

	for i := range result.Results {
		r := &result.Results[i]
		row := sheet.AddRow()
		row.AddCell().Value = orgLabel(r)
		row.AddCell().Value = types.Get(r.AssistType).Name
		row.AddCell().Value = string(r.Status)
		row.AddCell().Value = schedule.FormatWeekly(r.Hours)
		row.AddCell().Value = strings.ReplaceAll(r.Requirements, "\n", "; ")
		row.AddCell().Value = r.Phone
		row.AddCell().Value = r.Website
		row.AddCell().Value = r.County
		row.AddCell().Value = r.City
		row.AddCell().Value = r.Zip
		if r.Distance != nil {
			row.AddCell().SetFloatWithFormat(*r.Distance, "0.0")
		} else {
			row.AddCell().Value = ""
		}
		row.AddCell().Value = driving
	}

	if err := file.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}

func orgLabel(r *model.Resource) string {
	if r.ParentOrg != "" && !strings.EqualFold(r.ParentOrg, r.Organization) {
		return r.Organization + " (" + r.ParentOrg + ")"
	}
	return r.Organization
}
