package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2HalfUp(t *testing.T) {
	cases := map[string]string{
		"12.345": "12.35",
		"12.344": "12.34",
		"3.5":    "3.50",
		"0":      "0.00",
		"5.005":  "5.01",
	}
	for in, want := range cases {
		d, err := decimal.NewFromString(in)
		require.NoError(t, err)
		assert.Equal(t, want, Round2(d).StringFixed(2), "input %s", in)
	}
}

func TestProjectValidate(t *testing.T) {
	valid := func() *Project {
		d := 2
		return &Project{
			Name:       "Birdhouse",
			Difficulty: &d,
			Materials:  []Material{{Name: "Wood", NumRequired: 4, Cost: decimal.NewFromFloat(5.00)}},
			Steps:      []Step{{Text: "Cut wood"}},
			Categories: []Category{{Name: "Woodworking"}},
		}
	}

	t.Run("accepts a complete project", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		p := valid()
		p.Name = "   "
		err := p.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("rejects difficulty out of range", func(t *testing.T) {
		for _, d := range []int{0, 6, -1} {
			p := valid()
			p.Difficulty = &d
			assert.ErrorIs(t, p.Validate(), ErrInvalidInput, "difficulty %d", d)
		}
	})

	t.Run("accepts absent difficulty", func(t *testing.T) {
		p := valid()
		p.Difficulty = nil
		require.NoError(t, p.Validate())
	})

	t.Run("rejects negative material quantity", func(t *testing.T) {
		p := valid()
		p.Materials[0].NumRequired = -1
		assert.ErrorIs(t, p.Validate(), ErrInvalidInput)
	})

	t.Run("rejects negative hours", func(t *testing.T) {
		p := valid()
		p.EstimatedHours = decimal.NewNullDecimal(decimal.NewFromInt(-1))
		assert.ErrorIs(t, p.Validate(), ErrInvalidInput)
	})
}

func TestProjectNormalize(t *testing.T) {
	p := &Project{
		Name:           "  Birdhouse  ",
		EstimatedHours: decimal.NewNullDecimal(decimal.RequireFromString("3.456")),
		Materials:      []Material{{Name: " Wood ", Cost: decimal.RequireFromString("5.005")}},
	}
	p.Normalize()

	assert.Equal(t, "Birdhouse", p.Name)
	assert.Equal(t, "3.46", p.EstimatedHours.Decimal.StringFixed(2))
	assert.Equal(t, "Wood", p.Materials[0].Name)
	assert.Equal(t, "5.01", p.Materials[0].Cost.StringFixed(2))
}

func TestAddCategoryDeduplicates(t *testing.T) {
	var p Project
	p.AddCategory(Category{Name: "Woodworking"})
	p.AddCategory(Category{Name: "woodworking"})
	p.AddCategory(Category{Name: "Electronics"})

	require.Len(t, p.Categories, 2)
	assert.Equal(t, "Woodworking", p.Categories[0].Name)
	assert.Equal(t, "Electronics", p.Categories[1].Name)
}

func TestAddMaterialAndStepAppendInOrder(t *testing.T) {
	var p Project
	p.AddStep(Step{Text: "Cut wood"})
	p.AddStep(Step{Text: "Assemble"})
	p.AddMaterial(Material{Name: "Wood"})

	require.Len(t, p.Steps, 2)
	assert.Equal(t, "Cut wood", p.Steps[0].Text)
	assert.Equal(t, "Assemble", p.Steps[1].Text)
	require.Len(t, p.Materials, 1)
}
