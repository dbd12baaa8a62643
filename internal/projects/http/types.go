package http

import (
	"github.com/shopspring/decimal"

	"github.com/craftplan-dev/craftplan-backend/internal/projects/domain"
	"github.com/craftplan-dev/craftplan-backend/internal/projects/service"
)

// Handler bundles the dependencies for project HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
}

func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

type materialReq struct {
	Name        string          `json:"material_name"`
	NumRequired int             `json:"num_required"`
	Cost        decimal.Decimal `json:"cost"`
}

type stepReq struct {
	Text string `json:"step_text"`
}

type projectReq struct {
	Name           string           `json:"project_name"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours"`
	ActualHours    *decimal.Decimal `json:"actual_hours"`
	Difficulty     *int             `json:"difficulty"`
	Notes          string           `json:"notes"`
	Materials      []materialReq    `json:"materials"`
	Steps          []stepReq        `json:"steps"`
	Categories     []string         `json:"categories"`
}

func (req projectReq) toDomain() *domain.Project {
	p := &domain.Project{
		Name:       req.Name,
		Difficulty: req.Difficulty,
		Notes:      req.Notes,
	}
	if req.EstimatedHours != nil {
		p.EstimatedHours = decimal.NewNullDecimal(*req.EstimatedHours)
	}
	if req.ActualHours != nil {
		p.ActualHours = decimal.NewNullDecimal(*req.ActualHours)
	}
	for _, m := range req.Materials {
		p.AddMaterial(domain.Material{Name: m.Name, NumRequired: m.NumRequired, Cost: m.Cost})
	}
	for _, s := range req.Steps {
		p.AddStep(domain.Step{Text: s.Text})
	}
	for _, name := range req.Categories {
		p.AddCategory(domain.Category{Name: name})
	}
	return p
}
