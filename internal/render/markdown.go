// README: pt-BR trip report renderers (markdown for terminals/APIs, PDF for download).
package render

import (
	"fmt"
	"strconv"
	"strings"

	"ecoroute/internal/trip"
	"ecoroute/internal/types"
)

// TravelTips are the fixed tips shown with every report.
var TravelTips = []string{
	"Verifique a pressão dos pneus antes de sair.",
	"Leve água e snacks leves para o percurso.",
	"Utilize apps de GPS em tempo real para evitar congestionamentos.",
}

var stopGroupTitles = map[trip.StopType]string{
	trip.StopRestaurant: "Restaurantes",
	trip.StopFuel:       "Postos de Combustível",
	trip.StopAttraction: "Pontos Turísticos",
}

// Markdown renders the analysis as a pt-BR markdown report. Stops are grouped by type in
// StopTypes order, keeping the provider's order inside each group.
func Markdown(req trip.Request, a trip.RouteAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s → %s\n\n", req.StartCity, req.EndCity)
	fmt.Fprintf(&b, "_%s · %s_\n\n", vehicleLabel(req.Vehicle), req.Vehicle.FuelType)

	b.WriteString("| Distância | Consumo Est. | Gasto Estimado |\n")
	b.WriteString("|---|---|---|\n")
	fmt.Fprintf(&b, "| %s km | %s L | %s |\n", number(a.DistanceKm), liters(a.ConsumptionLiters), types.BRL(a.EstimatedCost))
	fmt.Fprintf(&b, "| Tempo est.: %s | Eficiência: %s km/L | Preços médios atuais |\n\n", a.EstimatedDuration, number(a.AverageEfficiency))

	b.WriteString("## Resumo do Percurso\n\n")
	b.WriteString(a.RouteSummary)
	b.WriteString("\n\n### Recomendação de Abastecimento\n\n")
	b.WriteString(a.RefuelRecommendation)
	b.WriteString("\n\n## Paradas Recomendadas\n\n")
	if len(a.Stops) == 0 {
		b.WriteString("Nenhuma parada sugerida.\n\n")
	}
	for _, t := range trip.StopTypes {
		stops := a.StopsOfType(t)
		if len(stops) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", stopGroupTitles[t])
		for _, s := range stops {
			fmt.Fprintf(&b, "#### %s\n\n", s.Name)
			fmt.Fprintf(&b, "KM %s · %s/5\n\n", number(s.DistanceFromStart), number(s.Rating))
			if s.Description != "" {
				b.WriteString(s.Description)
				b.WriteString("\n\n")
			}
		}
	}

	b.WriteString("## Dicas de Viagem\n\n")
	for _, tip := range TravelTips {
		fmt.Fprintf(&b, "- %s\n", tip)
	}

	if len(a.Sources) > 0 {
		b.WriteString("\n## Fontes e Links Úteis\n\n")
		for _, src := range a.Sources {
			title := src.Title
			if title == "" {
				title = src.URI
			}
			fmt.Fprintf(&b, "- [%s](%s)\n", title, src.URI)
		}
	}
	return b.String()
}

func vehicleLabel(v trip.VehicleInfo) string {
	return fmt.Sprintf("%s (%s)", v.Model, v.Year)
}

// number prints the shortest decimal representation, as the provider returned it.
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func liters(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
