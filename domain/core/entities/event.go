package entities

import "strings"

// Event field names as they appear in submissions, query strings and JSON.
const (
	FieldID            = "id"
	FieldEventPurpose  = "eventPurpose"
	FieldGuests        = "guests"
	FieldDate          = "date"
	FieldBudget        = "budget"
	FieldTheme         = "theme"
	FieldVenue         = "venue"
	FieldFoodBeverage  = "foodBeverage"
	FieldEntertainment = "entertainment"
	FieldDecorations   = "decorations"
)

// EventRequiredFields must be non-empty on every event-planning submission.
var EventRequiredFields = []string{FieldEventPurpose, FieldGuests, FieldDate, FieldBudget}

// EventSearchableFields lists every field a filter may name.
var EventSearchableFields = []string{
	FieldID,
	FieldEventPurpose,
	FieldGuests,
	FieldDate,
	FieldBudget,
	FieldTheme,
	FieldVenue,
	FieldFoodBeverage,
	FieldEntertainment,
	FieldDecorations,
}

// EventRecord is a planned event kept in the document store.
// Records are immutable once inserted.
type EventRecord struct {
	ID            string   `json:"id"`
	EventPurpose  string   `json:"eventPurpose" validate:"required"`
	Guests        string   `json:"guests" validate:"required"`
	Date          string   `json:"date" validate:"required"`
	Budget        string   `json:"budget" validate:"required"`
	Theme         string   `json:"theme,omitempty"`
	Venue         string   `json:"venue,omitempty"`
	FoodBeverage  string   `json:"foodBeverage,omitempty"`
	Entertainment []string `json:"entertainment"`
	Decorations   string   `json:"decorations,omitempty"`
}

// NewEventRecord builds an event from a decoded submission. Scalars are
// stored as text, unknown keys are dropped, and entertainment accepts either
// one value or a list.
func NewEventRecord(fields map[string]interface{}) (*EventRecord, error) {
	record := &EventRecord{Entertainment: []string{}}

	targets := map[string]*string{
		FieldEventPurpose: &record.EventPurpose,
		FieldGuests:       &record.Guests,
		FieldDate:         &record.Date,
		FieldBudget:       &record.Budget,
		FieldTheme:        &record.Theme,
		FieldVenue:        &record.Venue,
		FieldFoodBeverage: &record.FoodBeverage,
		FieldDecorations:  &record.Decorations,
	}
	for name, target := range targets {
		value, _, err := coerceString(name, fields[name])
		if err != nil {
			return nil, err
		}
		*target = value
	}

	entertainment, err := coerceStringList(FieldEntertainment, fields[FieldEntertainment])
	if err != nil {
		return nil, err
	}
	if entertainment != nil {
		record.Entertainment = entertainment
	}

	return record, nil
}

// FieldValues returns the values a filter on field is matched against.
// known is false for names outside the event schema.
func (e *EventRecord) FieldValues(field string) (values []string, known bool) {
	switch field {
	case FieldID:
		return []string{e.ID}, true
	case FieldEventPurpose:
		return []string{e.EventPurpose}, true
	case FieldGuests:
		return []string{e.Guests}, true
	case FieldDate:
		return []string{e.Date}, true
	case FieldBudget:
		return []string{e.Budget}, true
	case FieldTheme:
		return []string{e.Theme}, true
	case FieldVenue:
		return []string{e.Venue}, true
	case FieldFoodBeverage:
		return []string{e.FoodBeverage}, true
	case FieldEntertainment:
		return e.Entertainment, true
	case FieldDecorations:
		return []string{e.Decorations}, true
	default:
		return nil, false
	}
}

// IsSearchableField reports whether field names an event attribute.
func IsSearchableField(field string) bool {
	for _, f := range EventSearchableFields {
		if f == field {
			return true
		}
	}
	return false
}

// Normalize fills defaults on records read back from storage.
func (e *EventRecord) Normalize() {
	if e.Entertainment == nil {
		e.Entertainment = []string{}
	}
}

// SearchSeparator joins list values in a field's search text.
const SearchSeparator = "\x1f"

// SearchText is the lower-cased text stores index for substring search.
func (e *EventRecord) SearchText(field string) string {
	values, _ := e.FieldValues(field)
	return strings.Join(lowerAll(values), SearchSeparator)
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
