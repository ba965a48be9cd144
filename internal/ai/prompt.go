package ai

import (
	"fmt"

	"google.golang.org/genai"

	"ecoroute/internal/trip"
)

// Request is the provider-neutral output of the request builder.
type Request struct {
	Prompt string
	Schema *genai.Schema
}

// BuildRequest composes the prompt and response schema for req. It never fails: empty or
// odd field values are passed through for the provider to judge.
func BuildRequest(req trip.Request) Request {
	return Request{
		Prompt: BuildPrompt(req),
		Schema: BuildSchema(),
	}
}

// BuildPrompt asks for the nine facts that make up a RouteAnalysis.
func BuildPrompt(req trip.Request) string {
	return fmt.Sprintf(`Analise uma viagem de carro entre %s e %s.
Veículo: %s (%s) rodando com %s.

Por favor, forneça:
1. Distância total em KM.
2. Tempo estimado de viagem.
3. Rendimento médio esperado (km/L) para este veículo e combustível.
4. Consumo total de litros estimado.
5. Custo total estimado em Reais (use preços médios atuais no Brasil).
6. Uma lista de pelo menos %d bons restaurantes ao longo da rota.
7. Uma lista de pelo menos %d postos de combustível confiáveis na rota (como Graal, Rede Ipiranga, etc).
8. Uma recomendação específica de ONDE e QUANDO abastecer baseado na autonomia do carro.
9. Um breve resumo da rota e condições das estradas.
`,
		req.StartCity, req.EndCity,
		req.Vehicle.Model, req.Vehicle.Year, req.Vehicle.FuelType,
		MinRestaurants, MinFuelStations,
	)
}

const (
	MinRestaurants  = 3
	MinFuelStations = 3
)
