package events

// ShareViewed is emitted when a public share view is served by the API.
type ShareViewed struct {
	EventID    string `json:"eventId"`
	ShareID    string `json:"shareId"`
	OccurredAt string `json:"occurredAt"`
}
