package domain

import (
	"strings"
	"unicode/utf8"
)

// CauseCategory is one bucket of the fixed cause taxonomy.
type CauseCategory string

const (
	CauseElectrical         CauseCategory = "Electrical"
	CauseCarelessFire       CauseCategory = "Careless-handling-of-fire"
	CauseHouseholdAppliance CauseCategory = "Household-appliances"
	CauseNatural            CauseCategory = "Natural-causes"
	CauseTechnogenic        CauseCategory = "Technogenic-causes"
	CauseConstruction       CauseCategory = "Construction-related"
	CauseFireSafety         CauseCategory = "Fire-safety-violation"
	CauseOther              CauseCategory = "Other"
	CauseUnspecified        CauseCategory = "Unspecified"
)

var causeLabels = map[CauseCategory]string{
	CauseElectrical:         "Электрооборудование",
	CauseCarelessFire:       "Неосторожное обращение с огнем",
	CauseHouseholdAppliance: "Бытовая техника",
	CauseNatural:            "Природные причины",
	CauseTechnogenic:        "Техногенные причины",
	CauseConstruction:       "Строительные причины",
	CauseFireSafety:         "Нарушение правил пожарной безопасности",
	CauseOther:              "Другие причины",
	CauseUnspecified:        "Причина не указана",
}

// Label returns the category's display name in the language of the source registers.
func (c CauseCategory) Label() string {
	if l, ok := causeLabels[c]; ok {
		return l
	}
	return string(c)
}

// causeRule lists the substrings that select a category.
type causeRule struct {
	category CauseCategory
	keywords []string
}

// causeRules is evaluated top to bottom and each keyword list left to right;
// the first substring hit decides. Keywords overlap across categories
// ("электрооборудование" also contains "оборудование"), so the order is part
// of the classification.
var causeRules = []causeRule{
	{CauseElectrical, []string{
		"электр", "проводк", "короткое замыкание", "электрич", "розетк",
		"выключател", "сеть", "напряжение", "эл.", "эл.оборудование",
		"electric", "wiring", "short circuit",
	}},
	{CauseCarelessFire, []string{
		"неосторож", "курение", "спичк", "зажигалк", "огонь", "костер", "костёр",
		"поджог", "умышлен", "детская шалость", "шалост",
		"careless", "smoking", "arson",
	}},
	{CauseHouseholdAppliance, []string{
		"телевизор", "холодильник", "чайник", "утюг", "микроволнов",
		"обогревател", "отоплен", "печь", "печн", "камин",
		"heater", "appliance", "stove",
	}},
	{CauseNatural, []string{
		"молни", "гроза", "солнце", "засуха", "природн", "самовозгорание",
		"lightning", "drought",
	}},
	{CauseTechnogenic, []string{
		"производств", "техник", "оборудован", "автомобиль", "транспорт",
		"газ", "топливо", "химич", "горюч",
		"vehicle", "industrial", "fuel",
	}},
	{CauseConstruction, []string{
		"ремонт", "строительств", "сварк", "свароч", "отделк", "покраск",
		"welding", "construction",
	}},
	{CauseFireSafety, []string{
		"нарушение", "правила", "пожарная безопасность", "ппб", "нормы",
		"violation",
	}},
}

// causeColumnKeywords select the columns merged into the cause text.
var causeColumnKeywords = []string{"причина", "cause", "reason"}

// noCausePhrases are explicit statements that the cause is unknown.
var noCausePhrases = map[string]bool{
	"не указана":     true,
	"нет":            true,
	"не установлена": true,
	Unspecified:      true,
}

// otherMinLength is the rune count a text must exceed to count as Other.
const otherMinLength = 10

// Categories returns the taxonomy in classification order followed by Other
// and Unspecified.
func Categories() []CauseCategory {
	out := make([]CauseCategory, 0, len(causeRules)+2)
	for _, r := range causeRules {
		out = append(out, r.category)
	}
	return append(out, CauseOther, CauseUnspecified)
}

// ClassifyCause maps free cause text onto the taxonomy. It is pure and
// deterministic.
func ClassifyCause(text string) CauseCategory {
	if isBlank(text) {
		return CauseUnspecified
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	if noCausePhrases[lower] {
		return CauseUnspecified
	}

	for _, rule := range causeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}

	if utf8.RuneCountInString(lower) > otherMinLength {
		return CauseOther
	}
	return CauseUnspecified
}

// IsCauseColumn reports whether a normalized header carries cause text.
func IsCauseColumn(name string) bool {
	name = strings.ToLower(name)
	for _, kw := range causeColumnKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// MergeCauseText joins the non-blank cause values of one record in column
// order with "; ". It returns Unspecified when no column has information.
func MergeCauseText(fields map[string]string, columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		v := strings.TrimSpace(fields[c])
		if isBlank(v) {
			continue
		}
		parts = append(parts, v)
	}
	if len(parts) == 0 {
		return Unspecified
	}
	return strings.Join(parts, "; ")
}

// ClassifyCauses merges every cause-like source column per record and assigns
// its category. Canonical copies made by the reconciler are skipped so a
// renamed column is not merged twice.
func ClassifyCauses(f *Frame, diag *Diagnostics) {
	var columns []string
	for _, c := range f.SourceColumns() {
		if IsCauseColumn(c) {
			columns = append(columns, c)
		}
	}
	diag.CauseColumns = columns
	if len(columns) == 0 {
		diag.AddNote(Infof(CodeNoCauseColumn, "no cause columns found, all causes are %q", CauseUnspecified))
	}

	for i := range f.Records {
		r := &f.Records[i]
		r.CauseText = MergeCauseText(r.Fields, columns)
		r.Category = ClassifyCause(r.CauseText)
	}
}
