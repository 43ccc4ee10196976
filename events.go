package schedule

// Events produced to the schedule-events queue whenever the weekly schedule
// changes. Consumers use them as an invalidation signal rather than polling.

type EventType string

const (
	EventTypeSlotCreated EventType = "slot_created"
	EventTypeSlotUpdated EventType = "slot_updated"
	EventTypeSlotDeleted EventType = "slot_deleted"
)

type Event struct {
	Type EventType `json:"type"`
	Slot Slot      `json:"slot"`
}
