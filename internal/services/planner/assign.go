package planner

import (
	"sort"
	"strings"

	"github.com/xelth-com/freshroute/internal/models"
)

// fleetView is the active fleet sorted by capacity ascending, then id.
type fleetView struct {
	active []models.Vehicle
}

func newFleetView(vehicles []models.Vehicle) fleetView {
	var active []models.Vehicle
	for _, v := range vehicles {
		if v.Active && v.CapacityKg > 0 {
			active = append(active, v)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].CapacityKg != active[j].CapacityKg {
			return active[i].CapacityKg < active[j].CapacityKg
		}
		return active[i].ID < active[j].ID
	})
	return fleetView{active: active}
}

func (f fleetView) smallest() *models.Vehicle {
	if len(f.active) == 0 {
		return nil
	}
	v := f.active[0]
	return &v
}

func (f fleetView) largest(profile string) *models.Vehicle {
	for i := len(f.active) - 1; i >= 0; i-- {
		if profile == "" || f.active[i].ProfileTag == profile {
			v := f.active[i]
			return &v
		}
	}
	return nil
}

func (f fleetView) smallestWith(profile string) *models.Vehicle {
	for _, v := range f.active {
		if v.ProfileTag == profile {
			return &v
		}
	}
	return nil
}

func (f fleetView) median() *models.Vehicle {
	if len(f.active) == 0 {
		return nil
	}
	v := f.active[len(f.active)/2]
	return &v
}

// longHaulSlots are the two vehicles offered to the heaviest distant routes:
// long-haul vehicles by capacity, topped up with the largest remaining ones.
func (f fleetView) longHaulSlots() []models.Vehicle {
	var slots []models.Vehicle
	taken := make(map[string]bool)
	for i := len(f.active) - 1; i >= 0 && len(slots) < 2; i-- {
		if f.active[i].ProfileTag == models.ProfileLongHaul {
			slots = append(slots, f.active[i])
			taken[f.active[i].ID] = true
		}
	}
	for i := len(f.active) - 1; i >= 0 && len(slots) < 2; i-- {
		if !taken[f.active[i].ID] {
			slots = append(slots, f.active[i])
		}
	}
	return slots
}

// baseVehicle picks a vehicle by route type alone.
func (f fleetView) baseVehicle(t RouteType) *models.Vehicle {
	switch t {
	case RouteLocal:
		if v := f.smallestWith(models.ProfileLocal); v != nil {
			return v
		}
		return f.smallest()
	case RouteDistant:
		if v := f.largest(models.ProfileLongHaul); v != nil {
			return v
		}
		return f.largest("")
	default:
		if v := f.largest(models.ProfileRegional); v != nil {
			return v
		}
		return f.median()
	}
}

// assignDay runs the per-day re-assignment over a day's route buckets:
//  1. every route gets its base vehicle;
//  2. distant routes sorted by weight descending take the long-haul slots;
//  3. the lightest remaining non-local route with positive weight gets the
//     smallest vehicle if it fits, otherwise it is flagged;
//  4. routes left driving the same vehicle are marked shared.
func (f fleetView) assignDay(routes []*RouteBucket) {
	for _, r := range routes {
		r.BaseVehicle = f.baseVehicle(r.Type)
		r.Vehicle = r.BaseVehicle
		r.AssignmentReason = "base:" + string(r.Type)
	}

	var distant []*RouteBucket
	for _, r := range routes {
		if r.Type == RouteDistant && r.TotalWeightKg > 0 {
			distant = append(distant, r)
		}
	}
	sort.SliceStable(distant, func(i, j int) bool {
		if distant[i].TotalWeightKg != distant[j].TotalWeightKg {
			return distant[i].TotalWeightKg > distant[j].TotalWeightKg
		}
		return distant[i].Key < distant[j].Key
	})

	slots := f.longHaulSlots()
	slotted := make(map[*RouteBucket]bool)
	usedSlot := make(map[string]bool)
	for i, r := range distant {
		if i >= len(slots) {
			break
		}
		v := slots[i]
		r.Vehicle = &v
		r.AssignmentReason = "long-haul:" + slotName(i)
		slotted[r] = true
		usedSlot[v.ID] = true
	}

	f.assignSmall(routes, slotted, usedSlot)
	markShared(routes)
}

// assignSmall offers the smallest vehicle to the lightest non-local route
// that did not take a long-haul slot.
func (f fleetView) assignSmall(routes []*RouteBucket, slotted map[*RouteBucket]bool, usedSlot map[string]bool) {
	small := f.smallest()
	if small == nil || usedSlot[small.ID] {
		return
	}
	var candidates []*RouteBucket
	for _, r := range routes {
		if r.Type != RouteLocal && r.TotalWeightKg > 0 && !slotted[r] {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].TotalWeightKg != candidates[j].TotalWeightKg {
			return candidates[i].TotalWeightKg < candidates[j].TotalWeightKg
		}
		return candidates[i].Key < candidates[j].Key
	})
	lightest := candidates[0]
	if lightest.TotalWeightKg <= small.CapacityKg {
		lightest.Vehicle = small
		lightest.AssignmentReason = "small-vehicle"
		return
	}
	lightest.VanSuggestionRejected = true
}

// markShared flags routes that kept a base vehicle another route of the
// same day also drives.
func markShared(routes []*RouteBucket) {
	uses := make(map[string]int)
	for _, r := range routes {
		if r.Vehicle != nil && r.TotalWeightKg > 0 {
			uses[r.Vehicle.ID]++
		}
	}
	for _, r := range routes {
		if r.Vehicle == nil || r.TotalWeightKg <= 0 || uses[r.Vehicle.ID] < 2 {
			continue
		}
		r.VehicleShared = true
		if strings.HasPrefix(r.AssignmentReason, "base:") {
			r.AssignmentReason += " (shared)"
		}
	}
}

func slotName(i int) string {
	if i == 0 {
		return "primary"
	}
	return "secondary"
}
