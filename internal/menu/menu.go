package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/craftplan-dev/craftplan-backend/internal/projects/domain"
)

// ProjectService is the slice of the service facade the menu consumes.
type ProjectService interface {
	AddProject(ctx context.Context, p *domain.Project) error
	FetchAllProjects(ctx context.Context) ([]domain.Project, error)
	FetchProjectByID(ctx context.Context, id int64) (*domain.Project, error)
	UpdateProject(ctx context.Context, p *domain.Project) (int64, error)
	DeleteProject(ctx context.Context, id int64) (int64, error)
}

var operations = []string{
	"1) Add a project",
	"2) List all projects",
	"3) Update a project",
	"4) Delete a project",
	"5) Select a project",
	"0) Exit",
}

// Menu drives the interactive console loop. One operation runs at a
// time; input-format mistakes are reported and the loop continues.
type Menu struct {
	svc ProjectService
	in  *bufio.Scanner
	out io.Writer
}

func New(svc ProjectService, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		svc: svc,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run processes user selections until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) {
	for {
		m.printOperations()

		line, ok := m.readLine()
		if !ok {
			fmt.Fprintln(m.out, "\nExiting the application. Goodbye!")
			return
		}
		if line == "" {
			continue
		}

		selection, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(m.out, "\n%q is not a valid selection. Try again.\n", line)
			continue
		}

		switch selection {
		case 0:
			fmt.Fprintln(m.out, "Exiting the application. Goodbye!")
			return
		case 1:
			err = m.createProject(ctx)
		case 2:
			err = m.listProjects(ctx)
		case 3:
			err = m.updateProject(ctx)
		case 4:
			err = m.deleteProject(ctx)
		case 5:
			err = m.selectProject(ctx)
		default:
			fmt.Fprintf(m.out, "\n%d is not a valid selection. Try again.\n", selection)
			continue
		}

		if err != nil {
			fmt.Fprintf(m.out, "\nError: %v. Try again.\n", err)
		}
	}
}

func (m *Menu) createProject(ctx context.Context) error {
	p := &domain.Project{Name: m.promptString("Enter the project name")}

	if est, ok, err := m.promptDecimal("Enter the estimated hours"); err != nil {
		return err
	} else if ok {
		p.EstimatedHours.Decimal, p.EstimatedHours.Valid = est, true
	}
	if act, ok, err := m.promptDecimal("Enter the actual hours"); err != nil {
		return err
	} else if ok {
		p.ActualHours.Decimal, p.ActualHours.Valid = act, true
	}
	if diff, ok, err := m.promptInt("Enter the project difficulty (1-5)"); err != nil {
		return err
	} else if ok {
		d := int(diff)
		p.Difficulty = &d
	}
	p.Notes = m.promptString("Enter the project notes")

	m.collectMaterials(p)
	m.collectSteps(p)
	m.collectCategories(p)

	if err := m.svc.AddProject(ctx, p); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "You have successfully created project:")
	m.printProject(p)
	return nil
}

// collectMaterials accepts either a one-line batch ("name,qty,cost;...")
// or one material per prompt, like the legacy app.
func (m *Menu) collectMaterials(p *domain.Project) {
	batch := m.promptString("Enter materials as name,qty,cost separated by ';' (blank to add one at a time)")
	if batch != "" {
		materials, errs := ParseMaterials(batch)
		for _, err := range errs {
			fmt.Fprintf(m.out, "Skipped: %v\n", err)
		}
		for _, mat := range materials {
			p.AddMaterial(mat)
		}
		return
	}

	for {
		name := m.promptString("Enter the material name (or type 'done' to finish)")
		if name == "" || strings.EqualFold(name, "done") {
			return
		}

		qty, ok, err := m.promptInt(fmt.Sprintf("Enter the number required for %q", name))
		if err != nil || !ok {
			fmt.Fprintln(m.out, "Invalid input. Use an integer.")
			continue
		}

		cost, err := ParseDecimal(m.promptString(fmt.Sprintf("Enter the cost for %q", name)))
		if err != nil {
			fmt.Fprintln(m.out, "Enter a numerical price.")
			continue
		}

		p.AddMaterial(domain.Material{Name: name, NumRequired: int(qty), Cost: cost})
	}
}

func (m *Menu) collectSteps(p *domain.Project) {
	batch := m.promptString("Enter steps separated by ';' (blank to add one at a time)")
	if batch != "" {
		steps, _ := ParseSteps(batch)
		for _, s := range steps {
			p.AddStep(s)
		}
		return
	}

	for {
		text := m.promptString("Enter step description (or type 'done' to finish)")
		if text == "" || strings.EqualFold(text, "done") {
			return
		}
		p.AddStep(domain.Step{Text: text})
	}
}

func (m *Menu) collectCategories(p *domain.Project) {
	input := m.promptString("Enter category names separated by ','")
	categories, _ := ParseCategories(input)
	for _, c := range categories {
		p.AddCategory(c)
	}
}

func (m *Menu) listProjects(ctx context.Context) error {
	projects, err := m.svc.FetchAllProjects(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "\nProjects:")
	for i := range projects {
		p := &projects[i]
		fmt.Fprintf(m.out, "  %d: %s\n", p.ID, p.Name)
	}
	return nil
}

func (m *Menu) updateProject(ctx context.Context) error {
	if err := m.listProjects(ctx); err != nil {
		return err
	}

	id, ok, err := m.promptInt("Enter the project ID to update")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(m.out, "No project selected. Returning to main menu.")
		return nil
	}

	p, err := m.svc.FetchProjectByID(ctx, id)
	if err != nil {
		return err
	}

	// Blank input keeps the existing value; malformed input keeps it too,
	// with a note.
	if name := m.promptString(fmt.Sprintf("Enter new project name (%s)", p.Name)); name != "" {
		p.Name = name
	}
	m.updateHours("estimated hours", &p.EstimatedHours)
	m.updateHours("actual hours", &p.ActualHours)
	m.updateDifficulty(p)
	if notes := m.promptString(fmt.Sprintf("Enter new project notes (%s)", p.Notes)); notes != "" {
		p.Notes = notes
	}

	n, err := m.svc.UpdateProject(ctx, p)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintf(m.out, "Project with ID %d no longer exists.\n", p.ID)
		return nil
	}

	fmt.Fprintln(m.out, "Project updated successfully:")
	m.printProject(p)
	return nil
}

func (m *Menu) updateHours(label string, hours *decimal.NullDecimal) {
	current := "-"
	if hours.Valid {
		current = hours.Decimal.StringFixed(2)
	}
	input := m.promptString(fmt.Sprintf("Enter new %s (%s)", label, current))
	if input == "" {
		return
	}

	d, err := ParseDecimal(input)
	if err != nil {
		fmt.Fprintf(m.out, "Invalid decimal value for %s. Keeping existing value.\n", label)
		return
	}
	hours.Decimal, hours.Valid = d, true
}

func (m *Menu) updateDifficulty(p *domain.Project) {
	current := "-"
	if p.Difficulty != nil {
		current = strconv.Itoa(*p.Difficulty)
	}
	input := m.promptString(fmt.Sprintf("Enter new difficulty (1-5) (%s)", current))
	if input == "" {
		return
	}

	d, err := strconv.Atoi(input)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid number for difficulty. Keeping existing value.")
		return
	}
	if d < 1 || d > 5 {
		fmt.Fprintln(m.out, "Difficulty must be between 1 and 5. Keeping existing value.")
		return
	}
	p.Difficulty = &d
}

func (m *Menu) deleteProject(ctx context.Context) error {
	if err := m.listProjects(ctx); err != nil {
		return err
	}

	id, ok, err := m.promptInt("Enter the project ID to delete")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(m.out, "No project selected. Returning to main menu.")
		return nil
	}

	confirm := m.promptString(fmt.Sprintf("Are you sure you want to delete project with ID %d (y/n)?", id))
	if !strings.EqualFold(confirm, "y") {
		fmt.Fprintln(m.out, "Deletion cancelled.")
		return nil
	}

	n, err := m.svc.DeleteProject(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintf(m.out, "Project with ID %d was not found.\n", id)
		return nil
	}

	fmt.Fprintf(m.out, "Project with ID %d has been successfully deleted.\n", id)
	return nil
}

func (m *Menu) selectProject(ctx context.Context) error {
	if err := m.listProjects(ctx); err != nil {
		return err
	}

	id, ok, err := m.promptInt("Enter a project ID to view details")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(m.out, "You need to enter a project id.")
		return nil
	}

	p, err := m.svc.FetchProjectByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		fmt.Fprintf(m.out, "Project with ID %d not found.\n", id)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "\nProject Details:")
	m.printProject(p)
	return nil
}

func (m *Menu) printProject(p *domain.Project) {
	fmt.Fprintf(m.out, "   ID=%d\n", p.ID)
	fmt.Fprintf(m.out, "   Name=%s\n", p.Name)
	fmt.Fprintf(m.out, "   Estimated Hours=%s\n", nullDecimalString(p.EstimatedHours))
	fmt.Fprintf(m.out, "   Actual Hours=%s\n", nullDecimalString(p.ActualHours))
	if p.Difficulty != nil {
		fmt.Fprintf(m.out, "   Difficulty=%d\n", *p.Difficulty)
	} else {
		fmt.Fprintln(m.out, "   Difficulty=-")
	}
	fmt.Fprintf(m.out, "   Notes=%s\n", p.Notes)

	fmt.Fprintln(m.out, "   Materials:")
	for _, mat := range p.Materials {
		fmt.Fprintf(m.out, "      ID=%d, name=%s, numRequired=%d, cost=%s\n",
			mat.ID, mat.Name, mat.NumRequired, mat.Cost.StringFixed(2))
	}

	fmt.Fprintln(m.out, "   Steps:")
	for _, s := range p.Steps {
		fmt.Fprintf(m.out, "      %d: %s\n", s.Order, s.Text)
	}

	fmt.Fprintln(m.out, "   Categories:")
	for _, c := range p.Categories {
		fmt.Fprintf(m.out, "      ID=%d, Name=%s\n", c.ID, c.Name)
	}
}

func (m *Menu) printOperations() {
	fmt.Fprintln(m.out, "\nThese are the available selections. Press the Enter key to quit:")
	for _, line := range operations {
		fmt.Fprintln(m.out, "  "+line)
	}
	fmt.Fprint(m.out, "Enter a menu selection: ")
}

// promptString prints the prompt and returns the trimmed input line;
// blank input becomes "".
func (m *Menu) promptString(prompt string) string {
	fmt.Fprint(m.out, prompt+": ")
	line, _ := m.readLine()
	return line
}

// promptInt returns (value, true, nil) on input, (0, false, nil) on blank
// input, and an error on non-numeric text.
func (m *Menu) promptInt(prompt string) (int64, bool, error) {
	input := m.promptString(prompt)
	if input == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%q is not a valid number", input)
	}
	return v, true, nil
}

// promptDecimal mirrors promptInt for two-place decimals.
func (m *Menu) promptDecimal(prompt string) (decimal.Decimal, bool, error) {
	input := m.promptString(prompt)
	if input == "" {
		return decimal.Decimal{}, false, nil
	}
	d, err := ParseDecimal(input)
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	return d, true, nil
}

func nullDecimalString(nd decimal.NullDecimal) string {
	if !nd.Valid {
		return "-"
	}
	return nd.Decimal.StringFixed(2)
}

func (m *Menu) readLine() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}
