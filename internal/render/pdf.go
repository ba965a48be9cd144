package render

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"ecoroute/internal/trip"
	"ecoroute/internal/types"
)

// PDF renders the analysis as an A4 report and returns its bytes and a download filename.
func PDF(req trip.Request, a trip.RouteAnalysis) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("EcoRoute - "+req.StartCity+" a "+req.EndCity), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(fmt.Sprintf("%s -> %s", req.StartCity, req.EndCity)), "", "", false)
	pdf.SetFont("Helvetica", "I", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("%s - %s", vehicleLabel(req.Vehicle), req.Vehicle.FuelType)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Distância         : %s km", number(a.DistanceKm)),
		fmt.Sprintf("Tempo estimado    : %s", a.EstimatedDuration),
		fmt.Sprintf("Eficiência        : %s km/L", number(a.AverageEfficiency)),
		fmt.Sprintf("Consumo estimado  : %s L", liters(a.ConsumptionLiters)),
		fmt.Sprintf("Gasto estimado    : %s", types.BRL(a.EstimatedCost)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, tr(s))
		pdf.Ln(7)
	}

	section(pdf, tr, "Resumo do Percurso")
	pdf.MultiCell(0, 6, tr(a.RouteSummary), "", "", false)
	section(pdf, tr, "Recomendação de Abastecimento")
	pdf.MultiCell(0, 6, tr(a.RefuelRecommendation), "", "", false)

	section(pdf, tr, "Paradas Recomendadas")
	for _, t := range trip.StopTypes {
		stops := a.StopsOfType(t)
		if len(stops) == 0 {
			continue
		}
		pdf.SetFont("Helvetica", "BU", 12)
		pdf.Cell(0, 7, tr(stopGroupTitles[t]))
		pdf.Ln(8)
		for _, s := range stops {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s - KM %s - %s/5", s.Name, number(s.DistanceFromStart), number(s.Rating))), "", "", false)
			pdf.SetFont("Helvetica", "", 11)
			if s.Description != "" {
				pdf.MultiCell(0, 6, tr(s.Description), "", "", false)
			}
			pdf.Ln(2)
		}
	}

	if len(a.Sources) > 0 {
		section(pdf, tr, "Fontes e Links Úteis")
		pdf.SetFont("Helvetica", "", 10)
		for _, src := range a.Sources {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s - %s", src.Title, src.URI)), "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ReportFilename(req, "pdf"), nil
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr(title))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
}

// ReportFilename builds an ASCII filename such as "ecoroute_sao-paulo-sp_rio-de-janeiro-rj.pdf".
func ReportFilename(req trip.Request, ext string) string {
	return fmt.Sprintf("ecoroute_%s_%s.%s", slug(req.StartCity), slug(req.EndCity), ext)
}

func slug(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "trip"
	}
	return out
}
