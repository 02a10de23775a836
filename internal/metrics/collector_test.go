package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorRecord(t *testing.T) {
	c := NewCollector()
	c.Record(OpEmbed, 10*time.Millisecond)
	c.Record(OpEmbed, 30*time.Millisecond)
	c.Record(OpChat, 100*time.Millisecond)

	snap := c.Snapshot()
	embed := snap.Operations[OpEmbed]
	assert.EqualValues(t, 2, embed.Count)
	assert.EqualValues(t, 40, embed.TotalTimeMs)
	assert.EqualValues(t, 10, embed.MinTimeMs)
	assert.EqualValues(t, 30, embed.MaxTimeMs)
	assert.InDelta(t, 20.0, embed.AvgTimeMs, 0.001)

	chat := snap.Operations[OpChat]
	assert.EqualValues(t, 1, chat.Count)
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.Record(OpChat, time.Second)
	snap := c.Snapshot()
	assert.Empty(t, snap.Operations)
}
