package menu

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftplan-dev/craftplan-backend/internal/projects/domain"
)

type stubService struct {
	projects  []domain.Project
	added     []*domain.Project
	deleted   []int64
	updated   []*domain.Project
	updateN   int64
	fetchErr  error
	deleteN   int64
}

func (s *stubService) AddProject(_ context.Context, p *domain.Project) error {
	p.ID = int64(len(s.added) + 1)
	s.added = append(s.added, p)
	return nil
}

func (s *stubService) FetchAllProjects(context.Context) ([]domain.Project, error) {
	return s.projects, nil
}

func (s *stubService) FetchProjectByID(_ context.Context, id int64) (*domain.Project, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	for i := range s.projects {
		if s.projects[i].ID == id {
			p := s.projects[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubService) UpdateProject(_ context.Context, p *domain.Project) (int64, error) {
	s.updated = append(s.updated, p)
	return s.updateN, nil
}

func (s *stubService) DeleteProject(_ context.Context, id int64) (int64, error) {
	s.deleted = append(s.deleted, id)
	return s.deleteN, nil
}

func runMenu(t *testing.T, svc ProjectService, input string) string {
	t.Helper()
	var out bytes.Buffer
	New(svc, strings.NewReader(input), &out).Run(context.Background())
	return out.String()
}

func TestListProjectsAndExit(t *testing.T) {
	svc := &stubService{projects: []domain.Project{{ID: 1, Name: "Birdhouse"}, {ID: 2, Name: "Shelf"}}}

	out := runMenu(t, svc, "2\n0\n")

	assert.Contains(t, out, "1: Birdhouse")
	assert.Contains(t, out, "2: Shelf")
	assert.Contains(t, out, "Goodbye")
}

func TestInvalidSelectionKeepsLooping(t *testing.T) {
	out := runMenu(t, &stubService{}, "9\nx\n0\n")

	assert.Contains(t, out, "9 is not a valid selection")
	assert.Contains(t, out, `"x" is not a valid selection`)
}

func TestCreateProjectWithBatchInput(t *testing.T) {
	svc := &stubService{}

	input := strings.Join([]string{
		"1",                     // add a project
		"Birdhouse",             // name
		"3.5",                   // estimated hours
		"",                      // actual hours (skip)
		"2",                     // difficulty
		"Paint it red",          // notes
		"Wood,4,5.00;bad entry", // materials batch, one bad
		"Cut wood;Assemble",     // steps batch
		"Woodworking",           // categories
		"0",                     // exit
	}, "\n") + "\n"

	out := runMenu(t, svc, input)

	require.Len(t, svc.added, 1)
	p := svc.added[0]
	assert.Equal(t, "Birdhouse", p.Name)
	require.True(t, p.EstimatedHours.Valid)
	assert.Equal(t, "3.50", p.EstimatedHours.Decimal.StringFixed(2))
	assert.False(t, p.ActualHours.Valid)
	require.NotNil(t, p.Difficulty)
	assert.Equal(t, 2, *p.Difficulty)

	require.Len(t, p.Materials, 1)
	assert.Equal(t, "Wood", p.Materials[0].Name)
	require.Len(t, p.Steps, 2)
	require.Len(t, p.Categories, 1)

	assert.Contains(t, out, "Skipped:")
	assert.Contains(t, out, "successfully created project")
}

func TestDeleteProjectCancelled(t *testing.T) {
	svc := &stubService{projects: []domain.Project{{ID: 1, Name: "Birdhouse"}}}

	out := runMenu(t, svc, "4\n1\nn\n0\n")

	assert.Contains(t, out, "Deletion cancelled.")
	assert.Empty(t, svc.deleted)
}

func TestDeleteProjectConfirmed(t *testing.T) {
	svc := &stubService{projects: []domain.Project{{ID: 1, Name: "Birdhouse"}}, deleteN: 1}

	out := runMenu(t, svc, "4\n1\ny\n0\n")

	assert.Contains(t, out, "successfully deleted")
	assert.Equal(t, []int64{1}, svc.deleted)
}

func TestSelectProjectNotFound(t *testing.T) {
	svc := &stubService{}

	out := runMenu(t, svc, "5\n42\n0\n")

	assert.Contains(t, out, "Project with ID 42 not found")
}

func TestUpdateKeepsExistingValuesOnBlankInput(t *testing.T) {
	d := 3
	svc := &stubService{
		projects: []domain.Project{{ID: 1, Name: "Birdhouse", Difficulty: &d, Notes: "old notes"}},
		updateN:  1,
	}

	// id, then blank name/est/act/difficulty/notes: everything kept.
	out := runMenu(t, svc, "3\n1\n\n\n\n\n\n0\n")

	require.Len(t, svc.updated, 1)
	p := svc.updated[0]
	assert.Equal(t, "Birdhouse", p.Name)
	assert.Equal(t, "old notes", p.Notes)
	require.NotNil(t, p.Difficulty)
	assert.Equal(t, 3, *p.Difficulty)
	assert.Contains(t, out, "Project updated successfully")
}

func TestUpdateRejectsBadDifficultyKeepsValue(t *testing.T) {
	d := 3
	svc := &stubService{
		projects: []domain.Project{{ID: 1, Name: "Birdhouse", Difficulty: &d}},
		updateN:  1,
	}

	out := runMenu(t, svc, "3\n1\n\n\n\n7\n\n0\n")

	require.Len(t, svc.updated, 1)
	assert.Equal(t, 3, *svc.updated[0].Difficulty)
	assert.Contains(t, out, "Difficulty must be between 1 and 5. Keeping existing value.")
}

func TestMenuExitsOnEOF(t *testing.T) {
	out := runMenu(t, &stubService{}, "")
	assert.Contains(t, out, "Goodbye")
}
