package pages

import (
	"strings"

	"volunteerhub/models"
)

type ActionKind int

const (
	ActionApply ActionKind = iota
	ActionAlreadyApplied
	ActionLoginPrompt
)

type Action struct {
	Kind ActionKind
	Button
}

type OpportunityCard struct {
	ID          string
	Title       string
	PostedBy    string
	Description string
	Location    string
	StartDate   string
	Skills      string
	Action      Action
}

type OpportunitiesPage struct {
	Viewer  *models.Viewer
	Loading bool
	Error   string
	Flash   *Flash
	Empty   bool
	Cards   []OpportunityCard
}

const startDateLayout = "1/2/2006"

// OpportunityAction decides the card's control. Non-individuals always get the
// login prompt; applicants get a disabled "Already Applied".
func OpportunityAction(viewer *models.Viewer, o models.Opportunity, pending bool) Action {
	if !viewer.IsIndividual() {
		return Action{
			Kind:   ActionLoginPrompt,
			Button: Button{Label: "Login as Individual to Apply", Disabled: true, Variant: VariantOutline},
		}
	}
	if o.HasApplicant(viewer.ID) {
		return Action{
			Kind:   ActionAlreadyApplied,
			Button: Button{Label: "Already Applied", Disabled: true, Busy: pending, Variant: VariantPrimary},
		}
	}
	return Action{
		Kind:   ActionApply,
		Button: Button{Label: "Apply Now", Disabled: pending, Busy: pending, Variant: VariantPrimary},
	}
}

func BuildOpportunitiesPage(viewer *models.Viewer, opps []models.Opportunity, pending PendingFunc) OpportunitiesPage {
	if pending == nil {
		pending = noPending
	}
	page := OpportunitiesPage{
		Viewer: viewer,
		Empty:  len(opps) == 0,
		Cards:  make([]OpportunityCard, 0, len(opps)),
	}
	for _, o := range opps {
		page.Cards = append(page.Cards, OpportunityCard{
			ID:          o.ID,
			Title:       o.Title,
			PostedBy:    o.Organization.OrganizationName,
			Description: o.Description,
			Location:    o.Location,
			StartDate:   formatStartDate(o),
			Skills:      strings.Join(o.RequiredSkills, ", "),
			Action:      OpportunityAction(viewer, o, viewer.IsIndividual() && pending(o.ID)),
		})
	}
	return page
}

func (p OpportunitiesPage) OpportunityCardFor(id string) (OpportunityCard, bool) {
	for _, c := range p.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return OpportunityCard{}, false
}

func formatStartDate(o models.Opportunity) string {
	if o.StartDate.IsZero() {
		return ""
	}
	return o.StartDate.Format(startDateLayout)
}
