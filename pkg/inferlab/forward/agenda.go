package forward

import "sort"

// agenda is the ordered pending-rule container. The id sequence fixes
// priority (ascending for min, descending for max); the discipline
// fixes which end a scan starts from. The order only ever changes by
// removal when a rule fires.
type agenda struct {
	ids       []int
	structure Structure
}

func newAgenda(ruleIDs []int, structure Structure, mode IndexMode) *agenda {
	ids := make([]int, len(ruleIDs))
	copy(ids, ruleIDs)
	sort.Ints(ids)
	if mode == Max {
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}
	}
	return &agenda{ids: ids, structure: structure}
}

// popOrder lists the pending ids in the order one scan tries them: a
// queue scans front to back, a stack scans from the top of the pile
// down, i.e. back to front.
func (a *agenda) popOrder() []int {
	out := make([]int, len(a.ids))
	if a.structure == Queue {
		copy(out, a.ids)
		return out
	}
	for i, id := range a.ids {
		out[len(a.ids)-1-i] = id
	}
	return out
}

// remove drops a fired rule from the agenda, keeping relative order.
func (a *agenda) remove(id int) {
	for i, v := range a.ids {
		if v == id {
			a.ids = append(a.ids[:i], a.ids[i+1:]...)
			return
		}
	}
}

func (a *agenda) len() int { return len(a.ids) }
