package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/eucarpredict/valuation-engine/engine/domain"
	"github.com/eucarpredict/valuation-engine/engine/valuation"
)

// session drives one interactive console valuation loop.
type session struct {
	in  *bufio.Reader
	out io.Writer
	svc *valuation.Service
}

func newSession(in io.Reader, out io.Writer, svc *valuation.Service) *session {
	return &session{in: bufio.NewReader(in), out: out, svc: svc}
}

// Run loops valuations until the user declines another round.
func (s *session) Run(ctx context.Context) error {
	for {
		if err := s.valuateOnce(ctx); err != nil {
			fmt.Fprintf(s.out, "\n[ERROR] %v\n", err)
		}
		answer := s.promptString("Value another car? (y/n): ")
		if strings.ToLower(answer) != "y" {
			fmt.Fprintln(s.out, "\nThank you for using the valuation tool. Goodbye!")
			return nil
		}
	}
}

func (s *session) valuateOnce(ctx context.Context) error {
	fmt.Fprintln(s.out, "\n"+strings.Repeat("=", 55))
	fmt.Fprintln(s.out, "      EUROPEAN VEHICLE VALUATION")
	fmt.Fprintln(s.out, strings.Repeat("=", 55))

	brand := s.promptString("1. Brand (e.g. Ford): ")
	model := s.pickModel(brand)

	spec := domain.VehicleSpec{
		Brand: brand,
		Model: model,
		Year:  s.promptInt("3. Year of manufacture: "),
	}
	spec.EngineLiters = s.promptFloat("4. Engine capacity (L, e.g. 2.0): ")
	spec.Fuel = s.promptString("5. Fuel type (petrol/diesel/hybrid/cng/lpg/electric): ")

	spec.PowerKW = s.promptOptionalInt("6. Power in kW [Enter to skip]: ")
	if spec.PowerKW == 0 {
		spec.PowerHP = s.promptOptionalInt("7. Power in HP [Enter to skip]: ")
	}

	spec.MileageKM = s.promptInt("8. Total mileage (km): ")
	spec.Transmission = s.promptString("9. Transmission (manual/automatic): ")
	spec.Condition = s.promptFloat("10. Condition factor (0.1 to 1.0): ")

	// Manual overrides when the catalog misses an entry.
	if _, ok := s.svc.Table().BrandCode(brand); !ok {
		code := s.promptInt("   [!] Brand not in catalog. Enter brand code manually: ")
		spec.BrandCode = &code
	}
	if _, ok := s.svc.Table().ModelCode(brand, model); !ok {
		code := s.promptInt("   [!] Model not in catalog. Enter model code manually: ")
		spec.ModelCode = &code
	}

	est, err := s.svc.Valuate(ctx, spec)
	if err != nil {
		return err
	}

	power := fmt.Sprintf("%d kW / %d PS", est.PowerKW, est.PowerHP)
	if est.PowerEstimated {
		power += " (estimated from engine size)"
	}

	fmt.Fprintln(s.out, "\n"+strings.Repeat("*", 55))
	fmt.Fprintf(s.out, " VALUATION: %s %s\n", strings.ToUpper(brand), strings.ToUpper(model))
	fmt.Fprintf(s.out, " Specs: %gL | %s | %s\n", spec.EngineLiters, strings.ToUpper(spec.Fuel), power)
	fmt.Fprintf(s.out, " ESTIMATED PRICE: %.2f EUR\n", est.Price)
	fmt.Fprintln(s.out, strings.Repeat("-", 55))
	fmt.Fprintf(s.out, " MARKET RANGE: %.0f EUR - %.0f EUR\n", est.RangeLow, est.RangeHigh)
	fmt.Fprintf(s.out, " [INFO] Valuations carry a +/- %.0f EUR margin based on\n", valuation.MarketMargin)
	fmt.Fprintln(s.out, " local market trends and vehicle condition.")
	fmt.Fprintln(s.out, strings.Repeat("*", 55))
	return nil
}

// pickModel lists catalog models for the brand and accepts a number or a
// free-text name; with no catalog hits it falls back to a plain prompt.
// A numbered pick returns the composite catalog key, not the display name:
// display names are brand-stripped and stop resolving whenever the brand is
// not a prefix of the key.
func (s *session) pickModel(brand string) string {
	models := s.svc.Table().ModelsFor(brand)
	if len(models) == 0 {
		return s.promptString("2. Model name (e.g. Mondeo): ")
	}

	fmt.Fprintf(s.out, "\n   [INFO] Found %d models for %s:\n", len(models), strings.ToUpper(brand))
	for i, m := range models {
		fmt.Fprintf(s.out, "    %2d. %s\n", i+1, m.Display)
	}
	fmt.Fprintln(s.out, strings.Repeat("-", 30))

	choice := s.promptString("2. Select model (number or name): ")
	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(models) {
		return models[n-1].Key
	}
	return choice
}

func (s *session) promptString(prompt string) string {
	fmt.Fprint(s.out, prompt)
	line, _ := s.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (s *session) promptInt(prompt string) int {
	for {
		raw := s.promptString(prompt)
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
		fmt.Fprintln(s.out, "   Please enter a whole number.")
	}
}

func (s *session) promptOptionalInt(prompt string) int {
	for {
		raw := s.promptString(prompt)
		if raw == "" {
			return 0
		}
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
		fmt.Fprintln(s.out, "   Please enter a whole number or leave empty.")
	}
}

func (s *session) promptFloat(prompt string) float64 {
	for {
		raw := s.promptString(prompt)
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		fmt.Fprintln(s.out, "   Please enter a number.")
	}
}
