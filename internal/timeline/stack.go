package timeline

import (
	"slices"
	"time"
)

// StackOverlaps assigns a vertical slot to every range of one entity so that
// no two overlapping ranges share a slot. The result is indexed like the input.
//
// Ranges are visited by start time (ties in input order) and each takes the
// lowest slot whose last range ended strictly before it starts. This greedy
// colouring of an interval graph uses exactly as many slots as the largest
// number of ranges alive at one instant.
func StackOverlaps(ranges []DateRange) []int {
	order := make([]int, len(ranges))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return ranges[a].Start.Compare(ranges[b].Start)
	})

	slots := make([]int, len(ranges))
	var slotEnds []time.Time
	for _, i := range order {
		r := ranges[i]
		slot := -1
		for s, end := range slotEnds {
			if end.Before(r.Start) {
				slot = s
				break
			}
		}
		if slot < 0 {
			slot = len(slotEnds)
			slotEnds = append(slotEnds, r.End)
		} else {
			slotEnds[slot] = r.End
		}
		slots[i] = slot
	}
	return slots
}

// SlotCount returns the number of distinct slots used by an assignment.
func SlotCount(slots []int) int {
	n := 0
	for _, s := range slots {
		n = max(n, s+1)
	}
	return n
}
