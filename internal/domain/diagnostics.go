package domain

import "fmt"

// NoteLevel is the severity of an informational note.
type NoteLevel string

const (
	NoteInfo    NoteLevel = "info"
	NoteWarning NoteLevel = "warning"
)

// Note explains a non-fatal condition: a substituted default, a missing
// column, or a report that could only be partially computed.
type Note struct {
	Level   NoteLevel `json:"level"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Infof builds an info-level note.
func Infof(code, format string, args ...any) Note {
	return Note{Level: NoteInfo, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning-level note.
func Warnf(code, format string, args ...any) Note {
	return Note{Level: NoteWarning, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Note codes.
const (
	CodeMissingColumn   = "missing_column"
	CodeNoDateColumn    = "no_date_column"
	CodeDateFallback    = "date_fallback"
	CodeNoGeoColumn     = "no_geo_column"
	CodeUnresolvedGeo   = "unresolved_geo"
	CodeNoCauseColumn   = "no_cause_column"
	CodeInsufficient    = "insufficient_data"
	CodeNoPriorYear     = "no_prior_year"
	CodeNoCoordinates   = "no_coordinates"
	CodeMostlyUnknown   = "mostly_unspecified"
	CodeNoCasualties    = "no_casualties"
	CodeUnknownDistrict = "unknown_district"
)

// FieldStat is the audit line for one numeric column.
type FieldStat struct {
	Field    string `json:"field"`
	Present  bool   `json:"present"`
	Positive int    `json:"positive"`
	Sum      int    `json:"sum"`
}

// CasualtyTotals are the dataset-wide sums reported after numeric normalization.
type CasualtyTotals struct {
	Deaths        int `json:"deaths"`
	ChildDeaths   int `json:"child_deaths"`
	Injuries      int `json:"injuries"`
	ChildInjuries int `json:"child_injuries"`
}

// GeoStats counts coordinate resolution outcomes.
type GeoStats struct {
	Resolved   int `json:"resolved"`
	Unresolved int `json:"unresolved"`
	Swapped    int `json:"swapped"`
}

// Diagnostics is the audit report accumulated during one normalization pass.
// It is informational only; analytics never read it.
type Diagnostics struct {
	Records        int            `json:"records"`
	Fields         []FieldStat    `json:"fields"`
	Totals         CasualtyTotals `json:"totals"`
	Geo            GeoStats       `json:"geo"`
	CauseColumns   []string       `json:"cause_columns"`
	DateColumn     string         `json:"date_column,omitempty"`
	DateFallbacks  int            `json:"date_fallbacks"`
	MissingColumns []string       `json:"missing_columns,omitempty"`
	Notes          []Note         `json:"notes,omitempty"`
}

// AddNote appends a note to the report.
func (d *Diagnostics) AddNote(n Note) {
	d.Notes = append(d.Notes, n)
}

// Summary renders the audit as human-readable lines for operators.
func (d *Diagnostics) Summary() []string {
	lines := make([]string, 0, len(d.Fields)+4)
	lines = append(lines, fmt.Sprintf("records: %d", d.Records))
	for _, f := range d.Fields {
		if !f.Present {
			lines = append(lines, fmt.Sprintf("%s: column not found", f.Field))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s > 0: %d records", f.Field, f.Positive))
	}
	lines = append(lines,
		fmt.Sprintf("deaths total: %d (children: %d)", d.Totals.Deaths, d.Totals.ChildDeaths),
		fmt.Sprintf("injuries total: %d (children: %d)", d.Totals.Injuries, d.Totals.ChildInjuries),
		fmt.Sprintf("geopoints resolved: %d/%d", d.Geo.Resolved, d.Records),
	)
	if len(d.CauseColumns) > 0 {
		lines = append(lines, fmt.Sprintf("cause columns: %v", d.CauseColumns))
	}
	return lines
}
