package dynamo

import "fmt"

// ChangeList maps node id → field → raw values in contribution order.
type ChangeList map[string]map[string][]Value

// add appends v to the list for id/field.
func (cl ChangeList) add(id, field string, v Value) {
	fields := cl[id]
	if fields == nil {
		fields = make(map[string][]Value)
		cl[id] = fields
	}
	fields[field] = append(fields[field], v)
}

// Collect expands the keyframes of st into a ChangeList. Keyframes are
// visited in declaration order; a group keyframe contributes once per member
// in the group's member order.
func Collect(st *State, groups *GroupTable) (ChangeList, error) {
	cl := make(ChangeList)
	for i, kf := range st.Keyframes {
		if kf.Group != "" {
			members, ok := groups.Members(kf.Group)
			if !ok {
				return nil, fmt.Errorf("state %q keyframe %d: %w %q", st.Name, i, ErrUnknownGroup, kf.Group)
			}
			for _, id := range members {
				cl.add(id, kf.Field, kf.Value)
			}
		}
		if kf.ID != "" {
			cl.add(kf.ID, kf.Field, kf.Value)
		}
	}
	return cl, nil
}
