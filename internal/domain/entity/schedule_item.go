package entity

import (
	"sort"
	"time"
)

// ItemKind tags a schedule item with the endpoint it came from
type ItemKind string

const (
	ItemKindAvailable ItemKind = "available"
	ItemKindBooked    ItemKind = "booked"
)

// ScheduleItem is either an available slot or a booked appointment.
// Exactly one of Slot and Appointment is set, matching Kind.
type ScheduleItem struct {
	Kind        ItemKind           `json:"kind"`
	Slot        *AvailableSlot     `json:"slot,omitempty"`
	Appointment *BookedAppointment `json:"appointment,omitempty"`
}

func AvailableItem(slot AvailableSlot) ScheduleItem {
	return ScheduleItem{Kind: ItemKindAvailable, Slot: &slot}
}

func BookedItem(appointment BookedAppointment) ScheduleItem {
	return ScheduleItem{Kind: ItemKindBooked, Appointment: &appointment}
}

func (i ScheduleItem) IsAvailable() bool {
	return i.Kind == ItemKindAvailable && i.Slot != nil
}

func (i ScheduleItem) IsBooked() bool {
	return i.Kind == ItemKindBooked && i.Appointment != nil
}

func (i ScheduleItem) ID() string {
	switch i.Kind {
	case ItemKindAvailable:
		if i.Slot != nil {
			return i.Slot.ID
		}
	case ItemKindBooked:
		if i.Appointment != nil {
			return i.Appointment.ID
		}
	}
	return ""
}

func (i ScheduleItem) Date() time.Time {
	switch i.Kind {
	case ItemKindAvailable:
		if i.Slot != nil {
			return i.Slot.Date
		}
	case ItemKindBooked:
		if i.Appointment != nil {
			return i.Appointment.Date
		}
	}
	return time.Time{}
}

func (i ScheduleItem) StartsSoon(now time.Time) bool {
	return startsSoon(i.Date(), now)
}

// SortByDate orders items by date, ties broken by id so the order is deterministic
func SortByDate(items []ScheduleItem, descending bool) {
	sort.SliceStable(items, func(a, b int) bool {
		da, db := items[a].Date(), items[b].Date()
		if da.Equal(db) {
			return items[a].ID() < items[b].ID()
		}
		if descending {
			return da.After(db)
		}
		return da.Before(db)
	})
}

// ListKind names one of the two lists the availability manager holds
type ListKind string

const (
	ListAvailable ListKind = "available"
	ListBooked    ListKind = "booked"
)

// AvailabilityView is the manager's tri-state view filter
type AvailabilityView string

const (
	ViewAvailable AvailabilityView = "available"
	ViewUpcoming  AvailabilityView = "upcoming"
	ViewCompleted AvailabilityView = "completed"
)

func (v AvailabilityView) Valid() bool {
	switch v {
	case ViewAvailable, ViewUpcoming, ViewCompleted:
		return true
	}
	return false
}

// ModalMode is the manager's modal sub-state
type ModalMode string

const (
	ModalClosed        ModalMode = "closed"
	ModalCreate        ModalMode = "create"
	ModalEditAvailable ModalMode = "edit-available"
	ModalEditScheduled ModalMode = "edit-scheduled"
)
