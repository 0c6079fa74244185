package domain

import (
	"slices"
	"strings"
)

// columnAlias maps one known source header variant onto a canonical column.
type columnAlias struct {
	source    string
	canonical string
}

// columnAliases is applied in order; the first source header present wins
// because a canonical column is only ever created once.
var columnAliases = []columnAlias{
	{"муниципальный район", ColDistrict},
	{"район", ColDistrict},
	{"municipal district", ColDistrict},
	{"населенный пункт", ColSettlement},
	{"населённый пункт", ColSettlement},
	{"locality", ColSettlement},
	{"улица", ColStreet},
	{"дом", ColHouse},
	{"геоточка", ColGeoRaw},
	{"координаты", ColGeoRaw},
	{"geopoint", ColGeoRaw},
	{"coordinates", ColGeoRaw},
	{"объединенный адрес", ColAddress},
	{"объединённый адрес", ColAddress},
	{"объект пожара (загорания)", ColObjectType},
	{"объект пожара", ColObjectType},
	{"объект", ColObjectType},
	{"object", ColObjectType},
	{"причина пожара", ColCause},
	{"погибло людей: всего", ColDeathsAdult},
	{"погибло", ColDeathsAdult},
	{"deaths", ColDeathsAdult},
	{"в т.ч. погибло детей", ColDeathsChild},
	{"погибло детей", ColDeathsChild},
	{"child deaths", ColDeathsChild},
	{"получили травмы: всего", ColInjuriesAdult},
	{"травмы", ColInjuriesAdult},
	{"injuries", ColInjuriesAdult},
	{"в т.ч. получили травмы: детей", ColInjuriesChild},
	{"травмы детей", ColInjuriesChild},
	{"child injuries", ColInjuriesChild},
	{"спасено на пожаре людей", ColRescued},
	{"спасено", ColRescued},
	{"эвакуировано на пожаре людей", ColEvacuated},
	{"эвакуировано", ColEvacuated},
	{"дата возникновения", ColDate},
	{"дата", ColDate},
	{"дата пожара", ColDate},
	{"incident date", ColDate},
}

// textColumns default to Unspecified when absent or blank. Cause text is
// defaulted by the classifier, which merges every cause-like column.
var textColumns = []string{ColDistrict, ColObjectType, ColSettlement}

// ReconcileOptions controls the defaults substituted during reconciliation.
type ReconcileOptions struct {
	DefaultYear  int
	DefaultMonth int
}

// DefaultReconcileOptions returns the default date marker used when a source
// has no usable date.
func DefaultReconcileOptions() ReconcileOptions {
	return ReconcileOptions{DefaultYear: 2023, DefaultMonth: 1}
}

// Frame is the canonical view of one dataset while it moves through the
// normalization stages.
type Frame struct {
	// Columns lists normalized source headers in source order followed by
	// canonical columns created from aliases.
	Columns []string
	// Aliased maps each created canonical column to the header it was copied from.
	Aliased map[string]string
	Records []Record
}

// NormalizeColumnName lowercases a header, trims it, and collapses inner
// whitespace runs to a single space.
func NormalizeColumnName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Reconcile maps a raw table onto the canonical schema. It never fails:
// missing columns are substituted with neutral defaults and reported on diag.
func Reconcile(t RawTable, opts ReconcileOptions, diag *Diagnostics) *Frame {
	if opts.DefaultYear == 0 {
		opts = DefaultReconcileOptions()
	}

	// Normalized header -> original header; the first occurrence wins.
	columns := make([]string, 0, len(t.Columns)+len(columnAliases))
	origin := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		n := NormalizeColumnName(c)
		if _, dup := origin[n]; dup || n == "" {
			continue
		}
		origin[n] = c
		columns = append(columns, n)
	}

	aliased := make(map[string]string)
	for _, a := range columnAliases {
		if _, ok := origin[a.source]; !ok {
			continue
		}
		if _, exists := origin[a.canonical]; exists {
			continue
		}
		origin[a.canonical] = origin[a.source]
		aliased[a.canonical] = a.source
		columns = append(columns, a.canonical)
	}

	f := &Frame{Columns: columns, Aliased: aliased, Records: make([]Record, 0, len(t.Rows))}
	for i, raw := range t.Rows {
		fields := make(map[string]string, len(columns))
		for _, c := range columns {
			v, ok := raw[origin[c]]
			if !ok {
				continue
			}
			if v = strings.TrimSpace(v); v != "" {
				fields[c] = v
			}
		}
		f.Records = append(f.Records, Record{
			Row:        i + 1,
			Fields:     fields,
			District:   textOrUnspecified(fields[ColDistrict]),
			Settlement: textOrUnspecified(fields[ColSettlement]),
			ObjectType: textOrUnspecified(fields[ColObjectType]),
			GeoRaw:     fields[ColGeoRaw],
		})
	}

	diag.Records = len(f.Records)
	for _, c := range textColumns {
		if !f.HasColumn(c) {
			diag.MissingColumns = append(diag.MissingColumns, c)
		}
	}
	if len(diag.MissingColumns) > 0 {
		diag.AddNote(Warnf(CodeMissingColumn, "columns not found, filled with %q: %s",
			Unspecified, strings.Join(diag.MissingColumns, ", ")))
	}

	assignDates(f, opts, diag)
	return f
}

// HasColumn reports whether the canonical frame carries the column.
func (f *Frame) HasColumn(name string) bool {
	return slices.Contains(f.Columns, name)
}

// SourceColumns returns the columns that came from the source file, excluding
// canonical copies created from aliases.
func (f *Frame) SourceColumns() []string {
	out := make([]string, 0, len(f.Columns))
	for _, c := range f.Columns {
		if _, ok := f.Aliased[c]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

func textOrUnspecified(v string) string {
	if isBlank(v) {
		return Unspecified
	}
	return v
}

// assignDates derives year and month from the date column, substituting the
// default marker for missing columns and unparseable cells.
func assignDates(f *Frame, opts ReconcileOptions, diag *Diagnostics) {
	if !f.HasColumn(ColDate) {
		for i := range f.Records {
			setDefaultDate(&f.Records[i], opts)
		}
		diag.AddNote(Warnf(CodeNoDateColumn,
			"no date column found, all records assigned to %02d.%d", opts.DefaultMonth, opts.DefaultYear))
		return
	}

	diag.DateColumn = ColDate
	if src, ok := f.Aliased[ColDate]; ok {
		diag.DateColumn = src
	}

	for i := range f.Records {
		r := &f.Records[i]
		t, ok := ParseDate(r.Fields[ColDate])
		if !ok {
			setDefaultDate(r, opts)
			diag.DateFallbacks++
			continue
		}
		r.Date = t
		r.DateKnown = true
		r.Year = t.Year()
		r.Month = int(t.Month())
		r.MonthName = MonthName(r.Month)
	}

	if diag.DateFallbacks > 0 {
		diag.AddNote(Warnf(CodeDateFallback,
			"%d records have an unreadable date and were assigned to %02d.%d",
			diag.DateFallbacks, opts.DefaultMonth, opts.DefaultYear))
	}
}

func setDefaultDate(r *Record, opts ReconcileOptions) {
	r.Year = opts.DefaultYear
	r.Month = opts.DefaultMonth
	r.MonthName = MonthName(opts.DefaultMonth)
}
