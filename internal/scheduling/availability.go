package scheduling

import (
	"context"
	"fmt"
	"time"
)

// AvailabilityIndex derives bookable slots by subtracting scheduled bookings
// from a doctor's working-hours template. It is recomputed on every call so
// bookings committed by other callers are reflected immediately; there is no
// cache to go stale.
type AvailabilityIndex struct {
	repo        Repository
	horizonDays int
	now         func() time.Time
}

func NewAvailabilityIndex(repo Repository, horizonDays int) *AvailabilityIndex {
	if horizonDays <= 0 {
		horizonDays = 7
	}
	return &AvailabilityIndex{
		repo:        repo,
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

// DoctorNames lists every published doctor, ordered by name.
func (a *AvailabilityIndex) DoctorNames(ctx context.Context) ([]string, error) {
	doctors, err := a.repo.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	names := make([]string, 0, len(doctors))
	for _, d := range doctors {
		names = append(names, d.Name)
	}
	return names, nil
}

// AvailableSlots enumerates the doctor's template for the look-ahead horizon
// and removes every slot held by a scheduled booking.
func (a *AvailabilityIndex) AvailableSlots(ctx context.Context, doctorName string) ([]Slot, error) {
	doc, err := a.repo.GetDoctorByName(ctx, doctorName)
	if err != nil {
		return nil, err
	}

	template := templateSlots(doc, a.now(), a.horizonDays)
	if len(template) == 0 {
		return []Slot{}, nil
	}

	booked, err := a.repo.ScheduledSlots(ctx, doc.ID, template[0].Date, template[len(template)-1].Date)
	if err != nil {
		return nil, fmt.Errorf("load scheduled slots: %w", err)
	}

	taken := make(map[string]struct{}, len(booked))
	for _, s := range booked {
		taken[s.String()] = struct{}{}
	}

	free := make([]Slot, 0, len(template))
	for _, s := range template {
		if _, ok := taken[s.String()]; !ok {
			free = append(free, s)
		}
	}
	return free, nil
}

// templateSlots expands a doctor's working hours into concrete slots for
// horizonDays days, starting the day after from.
func templateSlots(d *Doctor, from time.Time, horizonDays int) []Slot {
	start, err := time.Parse(TimeLayout, d.WorkStart)
	if err != nil {
		return nil
	}
	end, err := time.Parse(TimeLayout, d.WorkEnd)
	if err != nil || !start.Before(end) {
		return nil
	}
	step := time.Duration(d.SlotMinutes) * time.Minute
	if step <= 0 {
		step = time.Hour
	}

	var slots []Slot
	for day := 1; day <= horizonDays; day++ {
		date := from.AddDate(0, 0, day).Format(DateLayout)
		for t := start; t.Before(end); t = t.Add(step) {
			slots = append(slots, Slot{Date: date, Time: t.Format(TimeLayout)})
		}
	}
	return slots
}

// slotInTemplate reports whether the slot belongs to the doctor's template
// within the horizon, independent of bookings.
func slotInTemplate(d *Doctor, slot Slot, from time.Time, horizonDays int) bool {
	for _, s := range templateSlots(d, from, horizonDays) {
		if s == slot {
			return true
		}
	}
	return false
}
