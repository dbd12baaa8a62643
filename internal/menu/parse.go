package menu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/craftplan-dev/craftplan-backend/internal/projects/domain"
)

// Batch input parsing for the quick-entry paths. These are pure: they
// turn delimited text into validated records plus one error per bad
// entry, and never touch the console. Format errors stay in this layer;
// nothing malformed reaches the service.

// ParseDecimal converts user text into a two-place decimal, rounding
// half-up ("12.345" -> 12.35). Non-numeric text is rejected.
func ParseDecimal(input string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%q is not a valid decimal number", input)
	}
	return domain.Round2(d), nil
}

// ParseMaterials parses entries of the form "name,qty,cost" separated by
// ';', e.g. "Wood,4,5.00;Nails,50,0.05".
func ParseMaterials(input string) ([]domain.Material, []error) {
	var (
		materials []domain.Material
		errs      []error
	)
	for _, entry := range splitEntries(input, ";") {
		parts := strings.Split(entry, ",")
		if len(parts) != 3 {
			errs = append(errs, fmt.Errorf("material %q: want name,qty,cost", entry))
			continue
		}

		name := strings.TrimSpace(parts[0])
		if name == "" {
			errs = append(errs, fmt.Errorf("material %q: name required", entry))
			continue
		}

		qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || qty < 0 {
			errs = append(errs, fmt.Errorf("material %q: quantity must be a non-negative integer", entry))
			continue
		}

		cost, err := ParseDecimal(parts[2])
		if err != nil || cost.IsNegative() {
			errs = append(errs, fmt.Errorf("material %q: cost must be a non-negative decimal", entry))
			continue
		}

		materials = append(materials, domain.Material{Name: name, NumRequired: qty, Cost: cost})
	}
	return materials, errs
}

// ParseSteps parses step texts separated by ';'. Order is positional:
// the store numbers them 1..n in the order given here.
func ParseSteps(input string) ([]domain.Step, []error) {
	var steps []domain.Step
	for _, text := range splitEntries(input, ";") {
		steps = append(steps, domain.Step{Text: text})
	}
	return steps, nil
}

// ParseCategories parses category names separated by ','.
func ParseCategories(input string) ([]domain.Category, []error) {
	var categories []domain.Category
	for _, name := range splitEntries(input, ",") {
		categories = append(categories, domain.Category{Name: name})
	}
	return categories, nil
}

func splitEntries(input, sep string) []string {
	var out []string
	for _, part := range strings.Split(input, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
