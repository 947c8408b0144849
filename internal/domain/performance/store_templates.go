package performance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const templateColumns = `
    id, name, type, rating_scales, evaluation_criteria,
    applicable_department_ids, applicable_position_ids, active,
    created_at, updated_at`

func (s *Store) CreateTemplate(ctx context.Context, tmpl Template) (Template, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO appraisal_templates
      (name, type, rating_scales, evaluation_criteria, applicable_department_ids, applicable_position_ids, active)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING`+templateColumns,
		tmpl.Name, tmpl.Type, mustJSON(tmpl.RatingScales), mustJSON(tmpl.EvaluationCriteria),
		mustJSON(tmpl.ApplicableDepartmentIDs), mustJSON(tmpl.ApplicablePositionIDs), tmpl.Active)

	created, err := scanTemplate(row)
	if isUniqueViolation(err) {
		return Template{}, Conflictf("Template with name %q already exists", tmpl.Name)
	}
	if err != nil {
		return Template{}, err
	}
	return created, nil
}

func (s *Store) UpdateTemplate(ctx context.Context, templateID string, patch TemplatePatch) (Template, error) {
	assignments := []string{"updated_at = now()"}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.RatingScales != nil {
		add("rating_scales", mustJSON(*patch.RatingScales))
	}
	if patch.EvaluationCriteria != nil {
		add("evaluation_criteria", mustJSON(*patch.EvaluationCriteria))
	}
	if patch.ApplicableDepartmentIDs != nil {
		add("applicable_department_ids", mustJSON(*patch.ApplicableDepartmentIDs))
	}
	if patch.ApplicablePositionIDs != nil {
		add("applicable_position_ids", mustJSON(*patch.ApplicablePositionIDs))
	}
	if patch.Active != nil {
		add("active", *patch.Active)
	}

	args = append(args, templateID)
	query := fmt.Sprintf(
		"UPDATE appraisal_templates SET %s WHERE id = $%d RETURNING %s",
		strings.Join(assignments, ", "), len(args), templateColumns)

	updated, err := scanTemplate(s.DB.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, NotFoundf("Template with ID %s not found", templateID)
	}
	if isUniqueViolation(err) {
		return Template{}, Conflictf("Template with name %q already exists", stringOrEmpty(patch.Name))
	}
	if err != nil {
		return Template{}, err
	}
	return updated, nil
}

func (s *Store) GetTemplate(ctx context.Context, templateID string) (Template, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+templateColumns+" FROM appraisal_templates WHERE id = $1", templateID)
	tmpl, err := scanTemplate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, NotFoundf("Template with ID %s not found", templateID)
	}
	if err != nil {
		return Template{}, err
	}
	return tmpl, nil
}

func (s *Store) ListTemplates(ctx context.Context, filter TemplateFilter) ([]Template, error) {
	query := "SELECT" + templateColumns + " FROM appraisal_templates WHERE 1=1"
	args := []any{}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		query += fmt.Sprintf(" AND active = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	return templates, rows.Err()
}

func scanTemplate(row pgx.Row) (Template, error) {
	var tmpl Template
	var scales, criteria, departments, positions []byte
	if err := row.Scan(&tmpl.ID, &tmpl.Name, &tmpl.Type, &scales, &criteria, &departments, &positions, &tmpl.Active, &tmpl.CreatedAt, &tmpl.UpdatedAt); err != nil {
		return Template{}, err
	}
	tmpl.RatingScales = jsonStrings(scales)
	tmpl.EvaluationCriteria = jsonStrings(criteria)
	tmpl.ApplicableDepartmentIDs = jsonStrings(departments)
	tmpl.ApplicablePositionIDs = jsonStrings(positions)
	return tmpl, nil
}
