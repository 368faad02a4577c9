package commands

import (
	"cosmic-backend/domain/core/entities"
	"cosmic-backend/domain/core/validators"
)

// SubmitContactCommand stores a contact-form submission verbatim
type SubmitContactCommand struct {
	Fields map[string]interface{}
}

// Validate accepts any contact submission
func (c SubmitContactCommand) Validate() error {
	return nil
}

// PlanEventCommand stores an event-planning request in the event collection
type PlanEventCommand struct {
	Fields map[string]interface{}
}

// Validate requires eventPurpose, guests, date and budget
func (c PlanEventCommand) Validate() error {
	return validators.RequiredFields(c.Fields, entities.EventRequiredFields...)
}

// SubmitDashboardEntryCommand appends a row to the dashboard file
type SubmitDashboardEntryCommand struct {
	Fields map[string]interface{}
}

// Validate requires every dashboard field
func (c SubmitDashboardEntryCommand) Validate() error {
	return validators.RequiredFields(c.Fields, entities.DashboardRequiredFields...)
}
