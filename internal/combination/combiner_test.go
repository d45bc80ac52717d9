package combination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMajorityVote(t *testing.T) {
	c, err := New(MajorityVote)
	require.NoError(t, err)

	out := c.Combine([][]int{
		{1, 1, 0},
		{0, 0, 1},
		{1, 0},
		{7, 3, 3, 7},
		{5},
	})
	assert.Equal(t, []int{1, 0, 0, 3, 5}, out)
}

func TestUnknownRule(t *testing.T) {
	_, err := New("max")
	assert.ErrorIs(t, err, ErrUnknownRule)
}
