package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" HIGH ")
	require.NoError(t, err)
	require.Equal(t, PriorityHigh, p)

	p, err = ParsePriority("")
	require.NoError(t, err)
	require.Equal(t, PriorityLow, p)

	_, err = ParsePriority("urgent")
	require.ErrorIs(t, err, ErrInvalidPriority)
	require.False(t, Priority("urgent").Valid())
}

func TestClone_IsDeep(t *testing.T) {
	b := sampleBoard()
	c := b.Clone()
	c.Columns[0].Tasks[0].Content = "changed"
	require.Equal(t, "task A", b.Columns[0].Tasks[0].Content)
}

func TestPositions(t *testing.T) {
	b := sampleBoard()
	require.Equal(t, []Placement{{"A", 0}, {"B", 1}, {"C", 2}}, b.Positions("todo"))
	require.Empty(t, b.Positions("doing"))
	require.Nil(t, b.Positions("missing"))
}
