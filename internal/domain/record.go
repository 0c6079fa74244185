package domain

import "time"

// Unspecified is the neutral value substituted for missing or blank text fields.
const Unspecified = "unspecified"

// Canonical column names. Every reconciled record is keyed by these.
const (
	ColDistrict      = "district"
	ColSettlement    = "settlement"
	ColStreet        = "street"
	ColHouse         = "house"
	ColAddress       = "address"
	ColObjectType    = "object_type"
	ColCause         = "cause"
	ColGeoRaw        = "geo_raw"
	ColDate          = "date"
	ColDeathsAdult   = "deaths_adult"
	ColDeathsChild   = "deaths_child"
	ColInjuriesAdult = "injuries_adult"
	ColInjuriesChild = "injuries_child"
	ColRescued       = "rescued"
	ColEvacuated     = "evacuated"
)

// RawRecord is one source row keyed by its original header. A missing key
// means the cell was empty.
type RawRecord map[string]string

// RawTable is a spreadsheet as read from disk: the header in source order and
// one RawRecord per data row.
type RawTable struct {
	Columns []string
	Rows    []RawRecord
}

// GeoPoint is a validated WGS-84 latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Casualties holds the six normalized counters of one incident.
type Casualties struct {
	DeathsAdult   int `json:"deaths_adult"`
	DeathsChild   int `json:"deaths_child"`
	InjuriesAdult int `json:"injuries_adult"`
	InjuriesChild int `json:"injuries_child"`
	Rescued       int `json:"rescued"`
	Evacuated     int `json:"evacuated"`
}

// Record is one incident after reconciliation. Fields holds the canonical
// mapping (normalized source columns plus canonical aliases); the typed fields
// are derived from it by the pipeline stages and are never removed.
type Record struct {
	Row        int               `json:"row"`
	Fields     map[string]string `json:"fields"`
	District   string            `json:"district"`
	Settlement string            `json:"settlement"`
	ObjectType string            `json:"object_type"`

	Date      time.Time `json:"date"`
	DateKnown bool      `json:"date_known"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	MonthName string    `json:"month_name"`

	Casualties
	TotalDeaths   int `json:"total_deaths"`
	TotalInjuries int `json:"total_injuries"`

	GeoRaw string    `json:"geo_raw,omitempty"`
	Geo    *GeoPoint `json:"geo,omitempty"`

	CauseText string        `json:"cause_text"`
	Category  CauseCategory `json:"cause_category"`

	// SettlementSource is "reverse" or "failed" when settlement backfill ran.
	SettlementSource string `json:"settlement_source,omitempty"`
}

// ChildrenAffected is the number of children killed or injured.
func (r *Record) ChildrenAffected() int {
	return r.DeathsChild + r.InjuriesChild
}

// Dataset is the normalized form of one uploaded file. It is built once and
// never mutated afterwards; a new upload replaces it as a whole.
type Dataset struct {
	ID          string      `json:"id"`
	Source      string      `json:"source"`
	LoadedAt    time.Time   `json:"loaded_at"`
	Columns     []string    `json:"columns"`
	Records     []Record    `json:"-"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Len returns the number of incidents in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
