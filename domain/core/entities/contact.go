package entities

// ContactRecord is a contact-form submission stored exactly as received.
type ContactRecord map[string]interface{}

// NewContactRecord copies the submitted fields. A nil submission becomes an
// empty object so the contact file never holds a JSON null.
func NewContactRecord(fields map[string]interface{}) ContactRecord {
	record := make(ContactRecord, len(fields))
	for k, v := range fields {
		record[k] = v
	}
	return record
}
