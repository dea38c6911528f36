package dashboard

import (
	"time"

	"github.com/netdash/netdash/internal/api"
)

// Host is the merged per-host view: metric-key inventory joined with live
// status. Hosts are rebuilt wholesale on every fetch cycle; nothing mutates
// them in place.
type Host struct {
	ID        string
	Name      string
	Status    StatusKind
	LastCheck time.Time
	Issues    []string
	Keys      []string
}

// Reconcile merges the metric-key inventory with live status records. The
// inventory defines the master set: one Host per inventory entry, in
// inventory order; a host the status source reports but the inventory does
// not is not monitored and is dropped. Inventory entries missing from the
// status source get defaults (unknown status, last check now, no issues,
// name falling back to the id).
//
// Callers must treat a failure of either source fetch as failing the whole
// merge; Reconcile itself is pure and never called with partial data.
func Reconcile(inventory []api.HostKeys, statuses []api.HostStatus, now time.Time) []Host {
	byID := make(map[string]api.HostStatus, len(statuses))
	for _, s := range statuses {
		byID[s.HostID] = s
	}

	hosts := make([]Host, 0, len(inventory))
	for _, inv := range inventory {
		h := Host{
			ID:        inv.HostID,
			Name:      inv.HostID,
			Status:    StatusUnknown,
			LastCheck: now,
			Issues:    []string{},
			Keys:      inv.Keys,
		}
		if st, ok := byID[inv.HostID]; ok {
			if st.Name != "" {
				h.Name = st.Name
			}
			h.Status = ParseStatus(st.Status)
			if !st.LastCheck.IsZero() {
				h.LastCheck = st.LastCheck
			}
			if st.Issues != nil {
				h.Issues = st.Issues
			}
		}
		hosts = append(hosts, h)
	}
	return hosts
}
