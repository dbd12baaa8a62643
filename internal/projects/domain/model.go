package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Project is the aggregate root of the tracker. A project owns its
// materials and steps outright and shares categories with other projects.
// It is intentionally storage-agnostic and used across repository, service
// and presentation layers.
type Project struct {
	ID             int64               `json:"project_id"`
	Name           string              `json:"project_name"`
	EstimatedHours decimal.NullDecimal `json:"estimated_hours"`
	ActualHours    decimal.NullDecimal `json:"actual_hours"`
	Difficulty     *int                `json:"difficulty"`
	Notes          string              `json:"notes"`

	Materials  []Material `json:"materials"`
	Steps      []Step     `json:"steps"`
	Categories []Category `json:"categories"`
}

// Material is a purchasable item needed by exactly one project.
type Material struct {
	ID          int64           `json:"material_id"`
	ProjectID   int64           `json:"project_id"`
	Name        string          `json:"material_name"`
	NumRequired int             `json:"num_required"`
	Cost        decimal.Decimal `json:"cost"`
}

// Step is one instruction of a project. Order is positional: the
// repository assigns 1..n in submission order regardless of what the
// caller put here.
type Step struct {
	ID        int64  `json:"step_id"`
	ProjectID int64  `json:"project_id"`
	Text      string `json:"step_text"`
	Order     int    `json:"step_order"`
}

// Category is a shared label. Names are globally unique; the store reuses
// an existing row when two projects reference the same name.
type Category struct {
	ID   int64  `json:"category_id"`
	Name string `json:"category_name"`
}

// AddMaterial appends a material to the project.
func (p *Project) AddMaterial(m Material) {
	p.Materials = append(p.Materials, m)
}

// AddStep appends a step to the project.
func (p *Project) AddStep(s Step) {
	p.Steps = append(p.Steps, s)
}

// AddCategory appends a category, skipping names already present so a
// single submission never produces duplicate link rows.
func (p *Project) AddCategory(c Category) {
	for _, have := range p.Categories {
		if strings.EqualFold(have.Name, c.Name) {
			return
		}
	}
	p.Categories = append(p.Categories, c)
}

// Normalize rounds every money/hour field to exactly two decimals,
// half-up. Called by the service before any write reaches the store.
func (p *Project) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Notes = strings.TrimSpace(p.Notes)
	if p.EstimatedHours.Valid {
		p.EstimatedHours.Decimal = Round2(p.EstimatedHours.Decimal)
	}
	if p.ActualHours.Valid {
		p.ActualHours.Decimal = Round2(p.ActualHours.Decimal)
	}
	for i := range p.Materials {
		p.Materials[i].Name = strings.TrimSpace(p.Materials[i].Name)
		p.Materials[i].Cost = Round2(p.Materials[i].Cost)
	}
	for i := range p.Steps {
		p.Steps[i].Text = strings.TrimSpace(p.Steps[i].Text)
	}
	for i := range p.Categories {
		p.Categories[i].Name = strings.TrimSpace(p.Categories[i].Name)
	}
}

// Validate reports the first contract violation, wrapped in
// ErrInvalidInput. It never touches the store.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: project name required", ErrInvalidInput)
	}
	if p.Difficulty != nil && (*p.Difficulty < 1 || *p.Difficulty > 5) {
		return fmt.Errorf("%w: difficulty must be between 1 and 5", ErrInvalidInput)
	}
	if p.EstimatedHours.Valid && p.EstimatedHours.Decimal.IsNegative() {
		return fmt.Errorf("%w: estimated hours cannot be negative", ErrInvalidInput)
	}
	if p.ActualHours.Valid && p.ActualHours.Decimal.IsNegative() {
		return fmt.Errorf("%w: actual hours cannot be negative", ErrInvalidInput)
	}
	for _, m := range p.Materials {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w: material name required", ErrInvalidInput)
		}
		if m.NumRequired < 0 {
			return fmt.Errorf("%w: material %q num_required cannot be negative", ErrInvalidInput, m.Name)
		}
		if m.Cost.IsNegative() {
			return fmt.Errorf("%w: material %q cost cannot be negative", ErrInvalidInput, m.Name)
		}
	}
	for _, s := range p.Steps {
		if strings.TrimSpace(s.Text) == "" {
			return fmt.Errorf("%w: step text required", ErrInvalidInput)
		}
	}
	for _, c := range p.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: category name required", ErrInvalidInput)
		}
	}
	return nil
}

// Round2 normalizes a decimal to two places, rounding half-up. Values in
// this domain are non-negative, so round-half-away-from-zero and half-up
// coincide.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
