package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoroute/internal/trip"
)

func sample() (trip.Request, trip.RouteAnalysis) {
	req := trip.Request{
		StartCity: "São Paulo, SP",
		EndCity:   "Rio de Janeiro, RJ",
		Vehicle:   trip.VehicleInfo{Model: "Honda Civic", Year: "2022", FuelType: trip.FuelGasolina},
	}
	a := trip.RouteAnalysis{
		DistanceKm:           434.5,
		EstimatedDuration:    "5h 45min",
		AverageEfficiency:    12.3,
		ConsumptionLiters:    35.32,
		EstimatedCost:        211.8,
		RefuelRecommendation: "Abasteça em Resende.",
		RouteSummary:         "Via Dutra em bom estado.",
		Stops: []trip.StopPoint{
			{Name: "Frango Assado", Type: trip.StopRestaurant, Description: "Clássico.", Rating: 4.2, DistanceFromStart: 120},
			{Name: "Graal Resende", Type: trip.StopFuel, Rating: 4.5, DistanceFromStart: 300},
		},
		Sources: []trip.SourceCitation{{Title: "ANP", URI: "https://example.com/anp"}},
	}
	return req, a
}

func TestMarkdown(t *testing.T) {
	req, a := sample()
	md := Markdown(req, a)

	for _, want := range []string{
		"# São Paulo, SP → Rio de Janeiro, RJ",
		"_Honda Civic (2022) · Gasolina_",
		"| 434.5 km | 35.3 L | R$ 211,80 |",
		"Eficiência: 12.3 km/L",
		"### Restaurantes\n\n#### Frango Assado",
		"### Postos de Combustível\n\n#### Graal Resende",
		"KM 300 · 4.5/5",
		"Abasteça em Resende.",
		"- [ANP](https://example.com/anp)",
		TravelTips[0],
	} {
		assert.Contains(t, md, want)
	}
}

func TestMarkdownGroupsStopsByType(t *testing.T) {
	req, a := sample()
	a.Stops = []trip.StopPoint{
		{Name: "Graal Resende", Type: trip.StopFuel},
		{Name: "Aparecida", Type: trip.StopAttraction},
		{Name: "Frango Assado", Type: trip.StopRestaurant},
		{Name: "Rede Graal Taubaté", Type: trip.StopFuel},
	}
	md := Markdown(req, a)

	order := []string{"### Restaurantes", "Frango Assado", "### Postos de Combustível", "Graal Resende",
		"Rede Graal Taubaté", "### Pontos Turísticos", "Aparecida"}
	last := -1
	for _, want := range order {
		idx := strings.Index(md, want)
		require.GreaterOrEqual(t, idx, 0, want)
		assert.Greater(t, idx, last, want)
		last = idx
	}
}

func TestMarkdownOmitsEmptySources(t *testing.T) {
	req, a := sample()
	a.Sources = []trip.SourceCitation{}
	a.Stops = []trip.StopPoint{}
	md := Markdown(req, a)
	assert.NotContains(t, md, "Fontes e Links")
	assert.Contains(t, md, "Nenhuma parada sugerida.")
}

func TestPDF(t *testing.T) {
	req, a := sample()
	data, name, err := PDF(req, a)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, "ecoroute_sao-paulo-sp_rio-de-janeiro-rj.pdf", name)
}

func TestReportFilenameFallback(t *testing.T) {
	name := ReportFilename(trip.Request{StartCity: "→", EndCity: "Niterói"}, "md")
	assert.Equal(t, "ecoroute_trip_niteroi.md", name)
	assert.False(t, strings.Contains(name, " "))
}
