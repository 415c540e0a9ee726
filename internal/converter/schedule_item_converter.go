package converter

import (
	"psico-portal/internal/domain/entity"
)

// AvailableSlotsToItems tags every slot from the available-slots endpoint
func AvailableSlotsToItems(slots []entity.AvailableSlot) []entity.ScheduleItem {
	items := make([]entity.ScheduleItem, len(slots))
	for i, slot := range slots {
		items[i] = entity.AvailableItem(slot)
	}
	return items
}

// BookedAppointmentsToItems tags every appointment from the booked-appointments endpoint
func BookedAppointmentsToItems(appointments []entity.BookedAppointment) []entity.ScheduleItem {
	items := make([]entity.ScheduleItem, len(appointments))
	for i, appointment := range appointments {
		items[i] = entity.BookedItem(appointment)
	}
	return items
}
