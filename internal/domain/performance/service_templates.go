package performance

import (
	"context"
	"strings"
)

type CreateTemplateInput struct {
	Name                    string   `json:"name"`
	Type                    string   `json:"type"`
	RatingScales            []string `json:"ratingScales"`
	EvaluationCriteria      []string `json:"evaluationCriteria"`
	ApplicableDepartmentIDs []string `json:"applicableDepartmentIds"`
	ApplicablePositionIDs   []string `json:"applicablePositionIds"`
	Active                  *bool    `json:"active"`
}

func (s *Service) CreateTemplate(ctx context.Context, input CreateTemplateInput) (Template, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Template{}, Invalidf("template name is required")
	}
	if !ValidTemplateType(input.Type) {
		return Template{}, Invalidf("template type must be one of Annual, SemiAnnual, Probationary")
	}
	if len(input.RatingScales) == 0 {
		return Template{}, Invalidf("at least one rating scale label is required")
	}
	if len(input.EvaluationCriteria) == 0 {
		return Template{}, Invalidf("at least one evaluation criterion is required")
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	return s.store.CreateTemplate(ctx, Template{
		Name:                    name,
		Type:                    input.Type,
		RatingScales:            input.RatingScales,
		EvaluationCriteria:      input.EvaluationCriteria,
		ApplicableDepartmentIDs: input.ApplicableDepartmentIDs,
		ApplicablePositionIDs:   input.ApplicablePositionIDs,
		Active:                  active,
	})
}

func (s *Service) UpdateTemplate(ctx context.Context, templateID string, patch TemplatePatch) (Template, error) {
	if patch.Type != nil && !ValidTemplateType(*patch.Type) {
		return Template{}, Invalidf("template type must be one of Annual, SemiAnnual, Probationary")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return Template{}, Invalidf("template name must not be empty")
	}
	return s.store.UpdateTemplate(ctx, templateID, patch)
}

func (s *Service) GetTemplate(ctx context.Context, templateID string) (Template, error) {
	return s.store.GetTemplate(ctx, templateID)
}

// ListTemplates defaults to active templates when no filter is given;
// deactivated templates stay queryable for history.
func (s *Service) ListTemplates(ctx context.Context, filter TemplateFilter) ([]Template, error) {
	if filter.Active == nil && filter.Type == "" {
		active := true
		filter.Active = &active
	}
	return s.store.ListTemplates(ctx, filter)
}
