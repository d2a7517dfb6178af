package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_Scan(t *testing.T) {
	var s JobStatus
	require.NoError(t, s.Scan("in_progress"))
	assert.Equal(t, JobStatusInProgress, s)

	require.NoError(t, s.Scan([]byte("completed")))
	assert.Equal(t, JobStatusCompleted, s)

	assert.Error(t, s.Scan("archived"))
	assert.Error(t, s.Scan(42))
}

func TestJobStatus_Terminal(t *testing.T) {
	assert.False(t, JobStatusOpen.Terminal())
	assert.False(t, JobStatusInProgress.Terminal())
	assert.True(t, JobStatusCompleted.Terminal())
	assert.True(t, JobStatusCancelled.Terminal())
}

func TestRole_ScanAndCounterpart(t *testing.T) {
	var r Role
	require.NoError(t, r.Scan("assembler"))
	assert.Equal(t, RoleProvider, r)
	assert.Equal(t, RoleRequester, r.Counterpart())
	assert.Equal(t, RoleProvider, RoleRequester.Counterpart())
	assert.Error(t, r.Scan("admin"))
}

func TestJob_RecomputeDerived(t *testing.T) {
	cases := []struct{ req, prov, want bool }{
		{false, false, false},
		{true, false, false},
		{false, true, false},
		{true, true, true},
	}
	for _, tc := range cases {
		j := Job{RequesterRatingDone: tc.req, ProviderRatingDone: tc.prov, BothRatingsDone: !tc.want}
		j.RecomputeDerived()
		assert.Equal(t, tc.want, j.BothRatingsDone)
	}
}

func TestJob_RoleOf(t *testing.T) {
	provider := int64(9)
	j := Job{RequesterID: 1, ProviderID: &provider}

	role, ok := j.RoleOf(1)
	assert.True(t, ok)
	assert.Equal(t, RoleRequester, role)

	role, ok = j.RoleOf(9)
	assert.True(t, ok)
	assert.Equal(t, RoleProvider, role)

	_, ok = j.RoleOf(3)
	assert.False(t, ok)
}

func TestJob_CloneIsDeep(t *testing.T) {
	provider := int64(2)
	now := time.Now()
	j := Job{ID: 1, ProviderID: &provider, CompletedAt: &now}

	c := j.Clone()
	*c.ProviderID = 99
	*c.CompletedAt = now.Add(time.Hour)

	assert.Equal(t, int64(2), *j.ProviderID)
	assert.Equal(t, now, *j.CompletedAt)
}

func TestDocument_ScanValueMerge(t *testing.T) {
	var d Document
	require.NoError(t, d.Scan([]byte(`{"specialties":["wood"],"rating":4}`)))
	assert.Equal(t, []any{"wood"}, d["specialties"])

	v, err := Document(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	merged := d.Merge(Document{"rating": nil, "city": "Porto"})
	assert.NotContains(t, merged, "rating")
	assert.Equal(t, "Porto", merged["city"])
	assert.Contains(t, d, "rating")
}
