package onboarding

// Facts are identity lookups the gate depends on. The zero value means the
// lookup has not completed, and every gate that reads it stays closed.
type Facts struct {
	Loaded            bool `json:"loaded"`
	OrganizationCount int  `json:"organization_count"`
}

func (facts Facts) HasOrganizationMembership() bool {
	return facts.Loaded && facts.OrganizationCount > 0
}
