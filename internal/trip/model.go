// README: Trip request and route analysis shapes shared by the AI client, services and renderers.
package trip

// FuelType is the closed set of fuels a vehicle can be analysed with.
type FuelType string

const (
	FuelGasolina FuelType = "Gasolina"
	FuelEtanol   FuelType = "Etanol"
	FuelDiesel   FuelType = "Diesel"
	FuelFlex     FuelType = "Flex"
)

// FuelTypes lists the accepted fuels in form display order.
var FuelTypes = []FuelType{FuelGasolina, FuelEtanol, FuelDiesel, FuelFlex}

func (f FuelType) Valid() bool {
	switch f {
	case FuelGasolina, FuelEtanol, FuelDiesel, FuelFlex:
		return true
	}
	return false
}

// StopType classifies a recommended stop.
type StopType string

const (
	StopRestaurant StopType = "Restaurante"
	StopFuel       StopType = "Posto"
	StopAttraction StopType = "Ponto Turístico"
)

// StopTypes lists every stop classification the provider may return.
var StopTypes = []StopType{StopRestaurant, StopFuel, StopAttraction}

func (s StopType) Valid() bool {
	switch s {
	case StopRestaurant, StopFuel, StopAttraction:
		return true
	}
	return false
}

type VehicleInfo struct {
	Model    string   `json:"model"`
	Year     string   `json:"year"`
	FuelType FuelType `json:"fuelType"`
}

// Request is the origin/destination/vehicle tuple submitted by a user.
type Request struct {
	StartCity string      `json:"startCity"`
	EndCity   string      `json:"endCity"`
	Vehicle   VehicleInfo `json:"vehicle"`
}

// StopPoint is a recommended waypoint along the route. Rating is expected in 0-5 and
// DistanceFromStart is in km from the origin; neither is enforced.
type StopPoint struct {
	Name              string   `json:"name"`
	Type              StopType `json:"type"`
	Description       string   `json:"description"`
	Rating            float64  `json:"rating"`
	DistanceFromStart float64  `json:"distanceFromStart"`
}

// SourceCitation is a web page the provider grounded its answer on.
type SourceCitation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// RouteAnalysis is an immutable snapshot of one provider answer.
// Sources and Stops are never nil once produced by an analyzer.
type RouteAnalysis struct {
	DistanceKm           float64          `json:"distanceKm"`
	EstimatedDuration    string           `json:"estimatedDuration"`
	AverageEfficiency    float64          `json:"averageEfficiency"`
	ConsumptionLiters    float64          `json:"consumptionLiters"`
	EstimatedCost        float64          `json:"estimatedCost"`
	RefuelRecommendation string           `json:"refuelRecommendation"`
	RouteSummary         string           `json:"routeSummary"`
	Stops                []StopPoint      `json:"stops"`
	Sources              []SourceCitation `json:"sources"`
}

// StopsOfType returns the stops with the given type, preserving display order.
func (a RouteAnalysis) StopsOfType(t StopType) []StopPoint {
	var out []StopPoint
	for _, s := range a.Stops {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}
