package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceReplaceIsWholesale(t *testing.T) {
	p := NewPresenceTracker()

	p.Replace([]string{"A", "B"})
	assert.Equal(t, []string{"A", "B"}, p.Names())

	p.Replace([]string{"B", "C"})
	assert.Equal(t, []string{"B", "C"}, p.Names(), "no merging with the prior roster")
	assert.Equal(t, 2, p.Count())
}

func TestPresenceReplaceWithEmptyRoster(t *testing.T) {
	p := NewPresenceTracker()

	p.Replace([]string{"A"})
	p.Replace(nil)

	assert.Empty(t, p.Names())
	assert.Equal(t, 0, p.Count())
}

func TestPresenceSnapshotIsACopy(t *testing.T) {
	p := NewPresenceTracker()
	p.Replace([]string{"A", "B"})

	names := p.Names()
	names[0] = "mutated"

	assert.Equal(t, []string{"A", "B"}, p.Names())
}
