package models

const (
	UserTypeIndividual   = "individual"
	UserTypeOrganization = "organization"
)

type User struct {
	ID               string `json:"_id"`
	Email            string `json:"email"`
	Password         string `json:"-"`
	UserType         string `json:"userType"`
	Name             string `json:"name"`
	OrganizationName string `json:"organizationName,omitempty"`
}

// Viewer is the current actor of a request. Handlers pass it explicitly into
// every view and service call; a nil *Viewer is an anonymous visitor.
type Viewer struct {
	ID       string `json:"_id"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

func (v *Viewer) IsIndividual() bool {
	return v != nil && v.UserType == UserTypeIndividual
}

func (v *Viewer) IsOrganization() bool {
	return v != nil && v.UserType == UserTypeOrganization
}

func ValidUserType(t string) bool {
	return t == UserTypeIndividual || t == UserTypeOrganization
}
