package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"volunteerhub/models"
)

const opportunitiesResource = "opportunities"

func (s *Service) ListOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	opps, err := s.opps.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	byOpp, err := s.apps.ApplicantsByOpportunity(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	for i := range opps {
		opps[i].Applicants = registrantsOrEmpty(byOpp[opps[i].ID])
		if opps[i].RequiredSkills == nil {
			opps[i].RequiredSkills = []string{}
		}
	}
	return opps, nil
}

func (s *Service) GetOpportunity(ctx context.Context, id string) (models.Opportunity, error) {
	o, err := s.opps.GetByID(ctx, id)
	if err != nil {
		return models.Opportunity{}, err
	}
	applicants, err := s.apps.Applicants(ctx, id)
	if err != nil {
		return models.Opportunity{}, fmt.Errorf("list applicants of %s: %w", id, err)
	}
	o.Applicants = registrantsOrEmpty(applicants)
	return o, nil
}

// CreateOpportunity stores o under the viewer's organization.
func (s *Service) CreateOpportunity(ctx context.Context, viewer *models.Viewer, o *models.Opportunity) error {
	if !viewer.IsOrganization() {
		return models.ErrForbidden
	}
	org, err := s.users.GetByID(ctx, viewer.ID)
	if err != nil {
		return fmt.Errorf("load organization %s: %w", viewer.ID, err)
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.Organization = models.OrganizationRef{ID: org.ID, OrganizationName: org.OrganizationName}
	o.Applicants = nil

	if err := s.opps.Create(ctx, o); err != nil {
		return fmt.Errorf("create opportunity: %w", err)
	}
	s.purge(ctx, opportunitiesResource, o.ID)
	return nil
}

func (s *Service) Applications(ctx context.Context, viewer *models.Viewer) ([]models.Application, error) {
	if viewer == nil {
		return nil, models.ErrUnauthenticated
	}
	return s.apps.ListByUser(ctx, viewer.ID)
}

// ApplyToOpportunity submits viewer's application and returns the opportunity
// as re-read after the write. Only individuals may apply; an existing
// application short-circuits with ErrAlreadyApplied and writes nothing.
func (s *Service) ApplyToOpportunity(ctx context.Context, viewer *models.Viewer, opportunityID string) (models.Opportunity, error) {
	if viewer == nil {
		return models.Opportunity{}, models.ErrUnauthenticated
	}
	if !viewer.IsIndividual() {
		return models.Opportunity{}, models.ErrNotEligible
	}
	o, err := s.GetOpportunity(ctx, opportunityID)
	if err != nil {
		return models.Opportunity{}, err
	}
	if o.HasApplicant(viewer.ID) {
		return o, models.ErrAlreadyApplied
	}

	release, err := s.begin(KindApply, viewer, opportunityID)
	if err != nil {
		return o, err
	}
	defer release()

	app := &models.Application{UserID: viewer.ID, OpportunityID: opportunityID}
	if err := s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, models.ErrAlreadyApplied) {
			return o, err
		}
		return o, fmt.Errorf("apply %s to opportunity %s: %w", viewer.ID, opportunityID, err)
	}
	s.purge(ctx, opportunitiesResource, opportunityID)
	s.logger.Info("opportunity application", "opportunity", opportunityID, "user", viewer.ID, "application", app.ID)

	fresh, err := s.GetOpportunity(ctx, opportunityID)
	if err != nil {
		s.logger.Warn("re-read after application failed", "opportunity", opportunityID, "error", err)
		o.Applicants = append(slices.Clone(o.Applicants), viewer.ID)
		return o, nil
	}
	return fresh, nil
}
