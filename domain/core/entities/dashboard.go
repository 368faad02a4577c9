package entities

// Dashboard field names.
const (
	FieldEventName = "eventName"
	FieldOrganizer = "organizer"
	FieldAttendees = "attendees"
)

// DashboardRequiredFields must all be non-empty on a dashboard submission.
var DashboardRequiredFields = []string{
	FieldEventName,
	FieldOrganizer,
	FieldVenue,
	FieldDate,
	FieldAttendees,
	FieldBudget,
}

// DashboardEntry is one row appended to the dashboard file.
type DashboardEntry struct {
	EventName string `json:"eventName"`
	Organizer string `json:"organizer"`
	Venue     string `json:"venue"`
	Date      string `json:"date"`
	Attendees string `json:"attendees"`
	Budget    string `json:"budget"`
}

// NewDashboardEntry builds an entry from a decoded submission.
func NewDashboardEntry(fields map[string]interface{}) (*DashboardEntry, error) {
	entry := &DashboardEntry{}
	targets := map[string]*string{
		FieldEventName: &entry.EventName,
		FieldOrganizer: &entry.Organizer,
		FieldVenue:     &entry.Venue,
		FieldDate:      &entry.Date,
		FieldAttendees: &entry.Attendees,
		FieldBudget:    &entry.Budget,
	}
	for name, target := range targets {
		value, _, err := coerceString(name, fields[name])
		if err != nil {
			return nil, err
		}
		*target = value
	}
	return entry, nil
}
