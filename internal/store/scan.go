package store

import (
	"database/sql"
	"encoding/json"

	"github.com/caseworks/directory-cli/internal/model"
	"github.com/caseworks/directory-cli/internal/normalize"
	"github.com/caseworks/directory-cli/internal/schedule"
)

// resourceColumns is the column list both backends read and write, in scan
// order.
var resourceColumns = []string{
	"id", "organization", "parent_org", "assist_type",
	"status", "status_date", "status_note",
	"org_hours", "requirements", "client_zip_codes",
	"county", "city", "neighborhood", "zip",
	"latitude", "longitude",
	"phone", "website", "map_link",
}

// resourceRow buffers one scanned row. Stored text columns are nullable and
// org_hours/client_zip_codes may hold malformed JSON; conversion to the
// model recovers from both by falling back to "unknown".
type resourceRow struct {
	ID           string
	Organization string
	ParentOrg    sql.NullString
	AssistType   sql.NullString
	Status       sql.NullString
	StatusDate   sql.NullString
	StatusNote   sql.NullString
	Hours        sql.NullString
	Requirements sql.NullString
	ZipCodes     sql.NullString
	County       sql.NullString
	City         sql.NullString
	Neighborhood sql.NullString
	Zip          sql.NullString
	Latitude     sql.NullFloat64
	Longitude    sql.NullFloat64
	Phone        sql.NullString
	Website      sql.NullString
	MapLink      sql.NullString
}

// dests returns scan destinations aligned with resourceColumns.
func (row *resourceRow) dests() []any {
	return []any{
		&row.ID, &row.Organization, &row.ParentOrg, &row.AssistType,
		&row.Status, &row.StatusDate, &row.StatusNote,
		&row.Hours, &row.Requirements, &row.ZipCodes,
		&row.County, &row.City, &row.Neighborhood, &row.Zip,
		&row.Latitude, &row.Longitude,
		&row.Phone, &row.Website, &row.MapLink,
	}
}

func (row *resourceRow) toModel() model.Resource {
	r := model.Resource{
		ID:           row.ID,
		Organization: row.Organization,
		ParentOrg:    row.ParentOrg.String,
		AssistType:   row.AssistType.String,
		Status:       model.Status(row.Status.String),
		StatusDate:   row.StatusDate.String,
		StatusNote:   row.StatusNote.String,
		Requirements: row.Requirements.String,
		County:       row.County.String,
		City:         row.City.String,
		Neighborhood: row.Neighborhood.String,
		Zip:          row.Zip.String,
		Phone:        row.Phone.String,
		Website:      row.Website.String,
		MapLink:      row.MapLink.String,
	}
	if row.Hours.Valid {
		r.Hours = schedule.Parse(row.Hours.String)
	}
	if row.Latitude.Valid && row.Longitude.Valid {
		lat, lng := row.Latitude.Float64, row.Longitude.Float64
		r.Latitude, r.Longitude = &lat, &lng
	}

	var rawZips any
	if row.ZipCodes.Valid {
		rawZips = row.ZipCodes.String
	}
	normalize.Record(&r, rawZips)
	return r
}

// resourceArgs returns insert parameters aligned with resourceColumns.
// Hours and served zips are serialized as JSON text.
func resourceArgs(r model.Resource) []any {
	var hours any
	if r.Hours != nil {
		if b, err := json.Marshal(r.Hours); err == nil {
			hours = string(b)
		}
	}
	var zips any
	if len(r.ServedZips) > 0 {
		if b, err := json.Marshal(r.ServedZips); err == nil {
			zips = string(b)
		}
	}
	var lat, lng any
	if r.HasCoordinates() {
		lat, lng = *r.Latitude, *r.Longitude
	}
	return []any{
		r.ID, r.Organization, nullable(r.ParentOrg), nullable(r.AssistType),
		nullable(string(r.Status)), nullable(r.StatusDate), nullable(r.StatusNote),
		hours, nullable(r.Requirements), zips,
		nullable(r.County), nullable(r.City), nullable(r.Neighborhood), nullable(r.Zip),
		lat, lng,
		nullable(r.Phone), nullable(r.Website), nullable(r.MapLink),
	}
}

// nullable stores empty strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
