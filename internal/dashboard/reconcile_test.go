package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdash/netdash/internal/api"
)

func TestReconcileMergesStatusIntoInventory(t *testing.T) {
	now := time.Now()
	checked := now.Add(-5 * time.Minute)

	inventory := []api.HostKeys{
		{HostID: "h1", Keys: []string{"cpu_usage", "memory_usage"}},
		{HostID: "h2", Keys: []string{"cpu_usage"}},
	}
	statuses := []api.HostStatus{
		{HostID: "h1", Name: "web-01", Status: "up", LastCheck: checked, Issues: []string{"disk almost full"}},
	}

	hosts := Reconcile(inventory, statuses, now)
	require.Len(t, hosts, 2)

	assert.Equal(t, "h1", hosts[0].ID)
	assert.Equal(t, "web-01", hosts[0].Name)
	assert.Equal(t, StatusUp, hosts[0].Status)
	assert.True(t, checked.Equal(hosts[0].LastCheck))
	assert.Equal(t, []string{"disk almost full"}, hosts[0].Issues)
	assert.Equal(t, []string{"cpu_usage", "memory_usage"}, hosts[0].Keys)

	// h2 has no status record: defaults apply
	assert.Equal(t, "h2", hosts[1].ID)
	assert.Equal(t, "h2", hosts[1].Name)
	assert.Equal(t, StatusUnknown, hosts[1].Status)
	assert.True(t, now.Equal(hosts[1].LastCheck))
	assert.Empty(t, hosts[1].Issues)
	assert.NotNil(t, hosts[1].Issues)
}

func TestReconcileInventoryIsMasterSet(t *testing.T) {
	inventory := []api.HostKeys{{HostID: "h1"}}
	statuses := []api.HostStatus{
		{HostID: "h1", Name: "web-01", Status: "up"},
		{HostID: "ghost", Name: "not-monitored", Status: "down"},
	}

	hosts := Reconcile(inventory, statuses, time.Now())

	// A host the status source reports but the inventory does not is dropped.
	require.Len(t, hosts, 1)
	assert.Equal(t, "h1", hosts[0].ID)
}

func TestReconcilePreservesInventoryOrder(t *testing.T) {
	inventory := []api.HostKeys{{HostID: "c"}, {HostID: "a"}, {HostID: "b"}}

	hosts := Reconcile(inventory, nil, time.Now())

	require.Len(t, hosts, 3)
	assert.Equal(t, "c", hosts[0].ID)
	assert.Equal(t, "a", hosts[1].ID)
	assert.Equal(t, "b", hosts[2].ID)
}

func TestReconcileEmptyInventory(t *testing.T) {
	hosts := Reconcile(nil, []api.HostStatus{{HostID: "h1"}}, time.Now())
	assert.Empty(t, hosts)
}

func TestReconcileUnknownStatusString(t *testing.T) {
	inventory := []api.HostKeys{{HostID: "h1"}}
	statuses := []api.HostStatus{{HostID: "h1", Name: "web-01", Status: "degraded"}}

	hosts := Reconcile(inventory, statuses, time.Now())
	require.Len(t, hosts, 1)
	assert.Equal(t, StatusUnknown, hosts[0].Status)
}

func TestReconcileBlankNameFallsBackToID(t *testing.T) {
	inventory := []api.HostKeys{{HostID: "h1"}}
	statuses := []api.HostStatus{{HostID: "h1", Status: "up"}}

	hosts := Reconcile(inventory, statuses, time.Now())
	require.Len(t, hosts, 1)
	assert.Equal(t, "h1", hosts[0].Name)
	assert.Equal(t, StatusUp, hosts[0].Status)
}
