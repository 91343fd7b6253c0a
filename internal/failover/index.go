package failover

import (
	"fmt"
	"sort"

	"github.com/eleven-am/failover/internal/domain"
)

// GroupIndex answers "which interfaces share a failover group with X". It is
// immutable once built and safe for concurrent readers.
type GroupIndex struct {
	groupOf map[string]string
	members map[string][]string
}

// NewGroupIndex builds the index. Membership is exclusive: an interface listed
// in two groups, or twice in one group, fails the build with a
// *domain.GroupConflictError.
func NewGroupIndex(groups domain.FailoverGroups) (*GroupIndex, error) {
	idx := &GroupIndex{
		groupOf: make(map[string]string),
		members: make(map[string][]string, len(groups)),
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, group := range names {
		if group == "" {
			return nil, fmt.Errorf("%w: empty failover group name", domain.ErrInvalidInput)
		}
		members := groups[group]
		for _, member := range members {
			if member == "" {
				return nil, fmt.Errorf("%w: empty interface name in failover group %q", domain.ErrInvalidInput, group)
			}
			if prev, ok := idx.groupOf[member]; ok {
				return nil, domain.NewGroupConflictError(member, prev, group)
			}
			idx.groupOf[member] = group
		}
		idx.members[group] = append([]string(nil), members...)
	}

	return idx, nil
}

func (x *GroupIndex) GroupOf(name string) (string, bool) {
	if x == nil {
		return "", false
	}
	group, ok := x.groupOf[name]
	return group, ok
}

// Siblings returns the other members of name's group in configured order.
// The result is a fresh slice and is empty when name is ungrouped.
func (x *GroupIndex) Siblings(name string) []string {
	group, ok := x.GroupOf(name)
	if !ok {
		return []string{}
	}
	members := x.members[group]
	out := make([]string, 0, len(members)-1)
	for _, m := range members {
		if m != name {
			out = append(out, m)
		}
	}
	return out
}

func (x *GroupIndex) Groups() domain.FailoverGroups {
	if x == nil {
		return domain.FailoverGroups{}
	}
	out := make(domain.FailoverGroups, len(x.members))
	for group, members := range x.members {
		out[group] = append([]string(nil), members...)
	}
	return out
}

func (x *GroupIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.members)
}
