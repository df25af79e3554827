// Package syncer reconciles local env files against a remote secret
// store. All of its human-visible output flows through already-wrapped
// sinks; the plan it renders never includes secret values, only names and
// actions.
package syncer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andywolf/envsync/internal/envfile"
)

// Action is one reconciliation step for a single key.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionUnchanged Action = "unchanged"
)

// Change is the planned action for one key. Values are carried for the
// apply and backup phases and must never be rendered.
type Change struct {
	Key    string
	Action Action

	localValue  string
	remoteValue string
}

// Plan is the ordered set of changes for one run.
type Plan struct {
	Changes []Change
}

// Diff compares local entries against the remote snapshot. When prune is
// set, remote secrets absent locally are scheduled for deletion; otherwise
// they are left alone.
func Diff(local []envfile.Entry, remote map[string]string, prune bool) *Plan {
	plan := &Plan{}
	seen := make(map[string]struct{}, len(local))

	for _, entry := range local {
		seen[entry.Key] = struct{}{}

		remoteValue, exists := remote[entry.Key]
		switch {
		case !exists:
			plan.Changes = append(plan.Changes, Change{
				Key: entry.Key, Action: ActionCreate, localValue: entry.Value,
			})
		case remoteValue != entry.Value:
			plan.Changes = append(plan.Changes, Change{
				Key: entry.Key, Action: ActionUpdate,
				localValue: entry.Value, remoteValue: remoteValue,
			})
		default:
			plan.Changes = append(plan.Changes, Change{
				Key: entry.Key, Action: ActionUnchanged, localValue: entry.Value,
			})
		}
	}

	if prune {
		extra := make([]string, 0)
		for key := range remote {
			if _, ok := seen[key]; !ok {
				extra = append(extra, key)
			}
		}
		sort.Strings(extra)
		for _, key := range extra {
			plan.Changes = append(plan.Changes, Change{
				Key: key, Action: ActionDelete, remoteValue: remote[key],
			})
		}
	}

	return plan
}

// Pending returns the changes that require a remote write.
func (p *Plan) Pending() []Change {
	var pending []Change
	for _, c := range p.Changes {
		if c.Action != ActionUnchanged {
			pending = append(pending, c)
		}
	}
	return pending
}

// Summary renders the plan for terminal display. Only key names and
// actions appear; values stay out of the rendering entirely.
func (p *Plan) Summary() string {
	var b strings.Builder
	counts := map[Action]int{}
	for _, c := range p.Changes {
		counts[c.Action]++
		if c.Action == ActionUnchanged {
			continue
		}
		fmt.Fprintf(&b, "  %-9s %s\n", c.Action, c.Key)
	}
	fmt.Fprintf(&b, "%d to create, %d to update, %d to delete, %d unchanged",
		counts[ActionCreate], counts[ActionUpdate], counts[ActionDelete], counts[ActionUnchanged])
	return b.String()
}
