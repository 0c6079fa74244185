package analytics_test

import (
	"testing"

	"github.com/couchcryptid/fire-incident-analytics/internal/analytics"
	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearlyTrends(t *testing.T) {
	records := []domain.Record{
		incident(2021, "A", deaths(1, 0)),
		incident(2021, "A", injuries(0, 1)),
		incident(2022, "A", deaths(2, 1), injuries(1, 0)),
		incident(2022, "B"),
		incident(2022, "B"),
	}
	rep := analytics.YearlyTrends(records)

	require.NotNil(t, rep.Latest)
	want := analytics.Headline{
		Year:             2022,
		Fires:            analytics.Metric{Value: 3, Delta: 1, HasDelta: true},
		Deaths:           analytics.Metric{Value: 3, Delta: 2, HasDelta: true},
		Injuries:         analytics.Metric{Value: 1, Delta: 0, HasDelta: true},
		ChildrenAffected: analytics.Metric{Value: 1, Delta: 0, HasDelta: true},
		ChildDeaths:      1,
	}
	if diff := cmp.Diff(want, *rep.Latest); diff != "" {
		t.Errorf("headline mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, rep.Notes)
}

func TestYearlyTrends_SingleYear(t *testing.T) {
	rep := analytics.YearlyTrends([]domain.Record{incident(2023, "A")})

	require.NotNil(t, rep.Latest)
	assert.False(t, rep.Latest.Fires.HasDelta)
	assert.Equal(t, 1, rep.Latest.Fires.Value)
	assert.Equal(t, []string{domain.CodeInsufficient}, noteCodes(rep.Notes))
}

func TestYearlyTrends_Empty(t *testing.T) {
	rep := analytics.YearlyTrends(nil)

	assert.Nil(t, rep.Latest)
	assert.Equal(t, []string{domain.CodeInsufficient}, noteCodes(rep.Notes))
}

func TestDistrictRanking(t *testing.T) {
	records := []domain.Record{
		incident(2022, "A"),
		incident(2022, "B", deaths(1, 1)),
		incident(2022, "B"),
		incident(2022, "C", injuries(0, 2)),
	}
	rep := analytics.DistrictRanking(records, 2)

	assert.Equal(t, []string{"B", "A"}, keys(rep.Table.Rows))
	assert.Equal(t, 50.0, rep.Table.Rows[0].Share)
	assert.Equal(t, 3, rep.Districts)
	assert.Equal(t, 1.3, rep.MeanFires)
	assert.Equal(t, 2, rep.Deaths)
	assert.Equal(t, 1, rep.ChildDeaths)
	assert.Equal(t, 2, rep.ChildInjuries)
	assert.Empty(t, rep.Notes)
}

func TestDistrictRanking_OnlyUnspecified(t *testing.T) {
	rep := analytics.DistrictRanking([]domain.Record{incident(2022, domain.Unspecified)}, 10)

	assert.Equal(t, []string{domain.CodeMissingColumn}, noteCodes(rep.Notes))
}

func TestCauseBreakdown_MostlyUnspecified(t *testing.T) {
	var records []domain.Record
	for range 9 {
		records = append(records, incident(2022, "A"))
	}
	records = append(records, incident(2022, "A", cause(domain.CauseElectrical)))

	rep := analytics.CauseBreakdown(records)

	assert.True(t, rep.MostlyUnspecified)
	assert.Equal(t, []string{"Unspecified", "Electrical"}, keys(rep.Table.Rows))
	assert.Equal(t, []string{"Electrical"}, keys(rep.KnownCauses))
	assert.Equal(t, []string{domain.CodeMostlyUnknown}, noteCodes(rep.Notes))
}

func TestCauseBreakdown_Balanced(t *testing.T) {
	records := []domain.Record{
		incident(2022, "A"),
		incident(2022, "A", cause(domain.CauseCarelessFire)),
		incident(2022, "A", cause(domain.CauseCarelessFire)),
	}
	rep := analytics.CauseBreakdown(records)

	assert.False(t, rep.MostlyUnspecified)
	assert.Nil(t, rep.KnownCauses)
	assert.Equal(t, []string{"Careless-handling-of-fire", "Unspecified"}, keys(rep.Table.Rows))
}

func TestDeadliestCauses(t *testing.T) {
	records := []domain.Record{
		incident(2022, "A", cause(domain.CauseElectrical), deaths(3, 0)),
		incident(2022, "A", cause(domain.CauseElectrical)),
		incident(2022, "A", cause(domain.CauseElectrical)),
		incident(2022, "A", cause(domain.CauseElectrical)),
		incident(2022, "A", cause(domain.CauseNatural), deaths(1, 0)),
		incident(2022, "A", cause(domain.CauseOther)),
	}
	rep := analytics.DeadliestCauses(records, 5)

	assert.Equal(t, []string{"Electrical", "Natural-causes"}, keys(rep.ByDeaths))
	assert.Equal(t, []string{"Natural-causes", "Electrical"}, keys(rep.ByMortality))
	assert.Equal(t, 100.0, rep.ByMortality[0].MortalityRate)
	assert.Empty(t, rep.Notes)
}

func TestDeadliestCauses_NoDeaths(t *testing.T) {
	rep := analytics.DeadliestCauses([]domain.Record{incident(2022, "A")}, 5)

	assert.Empty(t, rep.ByDeaths)
	assert.Equal(t, []string{domain.CodeNoCasualties}, noteCodes(rep.Notes))
}

func TestObjectRanking(t *testing.T) {
	records := []domain.Record{
		incident(2022, "A", object("Баня")),
		incident(2022, "A", object("Жилой дом")),
		incident(2022, "A", object("Жилой дом")),
	}
	table := analytics.ObjectRanking(records, 1)

	assert.Equal(t, []string{"Жилой дом"}, keys(table.Rows))
}

func TestSeasonality_NoDates(t *testing.T) {
	r := incident(2023, "A")
	r.DateKnown = false

	rep := analytics.Seasonality([]domain.Record{r})

	assert.Equal(t, []string{"1"}, keys(rep.Table.Rows))
	assert.Equal(t, []string{domain.CodeNoDateColumn}, noteCodes(rep.Notes))
}

func TestDistrictDynamics_DefaultsToFirstThree(t *testing.T) {
	records := []domain.Record{
		incident(2021, "D"),
		incident(2021, "B"),
		incident(2022, "D", deaths(1, 0)),
		incident(2021, "A"),
		incident(2021, "C"),
	}
	rep := analytics.DistrictDynamics(records, nil)

	assert.Equal(t, []string{"D", "B", "A"}, rep.Districts)
	require.Len(t, rep.Series, 3)
	want := []analytics.YearPoint{
		{Year: 2021, Count: 1},
		{Year: 2022, Count: 1, Deaths: 1},
	}
	if diff := cmp.Diff(want, rep.Series[0].Points); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestDistrictDynamics_UnknownDistrict(t *testing.T) {
	rep := analytics.DistrictDynamics([]domain.Record{incident(2021, "A")}, []string{"A", "Z"})

	require.Len(t, rep.Series, 1)
	assert.Equal(t, "A", rep.Series[0].District)
	assert.Equal(t, []string{domain.CodeUnknownDistrict}, noteCodes(rep.Notes))
}
