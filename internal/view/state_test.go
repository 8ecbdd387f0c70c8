package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetscope/internal/market"
)

func TestMachineTransitions(t *testing.T) {
	m := NewMachine(market.WindowMax)
	assert.Equal(t, State{Mode: ModeBrowsing, Selection: market.Selection{Window: market.WindowMax}}, m.State())

	_, err := m.SetWindow(10)
	assert.ErrorIs(t, err, ErrNotInDetail)

	sel, err := m.Open("DE")
	require.NoError(t, err)
	assert.Equal(t, market.Selection{EntityID: "DE", Window: market.WindowMax}, sel)
	assert.Equal(t, ModeDetail, m.State().Mode)

	sel, err = m.SetWindow(10)
	require.NoError(t, err)
	assert.Equal(t, market.Selection{EntityID: "DE", Window: 10}, sel)
	assert.Equal(t, ModeDetail, m.State().Mode)

	sel, err = m.Open("FR")
	require.NoError(t, err)
	assert.Equal(t, market.Window(10), sel.Window, "window survives entity change")

	assert.True(t, m.Back())
	assert.False(t, m.Back())
	st := m.State()
	assert.Equal(t, ModeBrowsing, st.Mode)
	assert.Empty(t, st.Selection.EntityID)
	assert.Equal(t, market.Window(10), st.Selection.Window)
}

func TestMachineRejectsEmptyEntity(t *testing.T) {
	m := NewMachine(30)
	_, err := m.Open("")
	assert.ErrorIs(t, err, ErrUnknownEntity)
	assert.Equal(t, ModeBrowsing, m.State().Mode)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "€3,867,050 M", FormatEuroMillions(3867050.4))
	assert.Equal(t, "€950 M", FormatEuroMillions(950))
	assert.Equal(t, "€-1,234 M", FormatEuroMillions(-1234.4))
	assert.Equal(t, "€1,000,000 M", FormatEuroMillions(999999.6))
	assert.Equal(t, "2.4%", FormatPercent(2.43))
	assert.Equal(t, "10.0%", FormatPercent(10))
}

func TestBuildKPIs(t *testing.T) {
	for _, kpi := range BuildKPIs(nil) {
		assert.Equal(t, Placeholder, kpi.Value)
	}

	set := &market.MacroSet{
		Status:    market.StatusReady,
		GDP:       market.Observations{{Period: "2022", Value: 3_800_000}, {Period: "2023", Value: 3_867_050}},
		Inflation: market.Observations{{Period: "2024-03", Value: 2.3}},
		Sectors:   []market.SectorShare{{Name: "Industry", Value: 26.71}},
	}
	kpis := BuildKPIs(set)
	require.Len(t, kpis, 3)
	assert.Equal(t, "€3,867,050 M", kpis[0].Value)
	assert.Equal(t, "2023", kpis[0].Period)
	assert.Equal(t, "2.3%", kpis[1].Value)
	assert.Equal(t, Placeholder, kpis[2].Value, "empty series keeps the placeholder")
	assert.Equal(t, []SectorCard{{Name: "Industry", Share: "26.7%"}}, BuildSectorCards(set))

	set.Status = market.StatusFailed
	for _, kpi := range BuildKPIs(set) {
		assert.Equal(t, Placeholder, kpi.Value)
	}
	assert.Nil(t, BuildSectorCards(set))
}
