package mapx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	m := map[string]int{"c": 3, "a": 1, "b": 2}

	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(m))
}

func TestSortedKeys_Nil(t *testing.T) {
	t.Parallel()

	var m map[int]int

	assert.Nil(t, SortedKeys(m))
}

func TestSetOf(t *testing.T) {
	t.Parallel()

	set := SetOf([]string{"x", "y", "x"})

	assert.Len(t, set, 2)
	assert.Contains(t, set, "x")
	assert.Contains(t, set, "y")
}

func TestSetOf_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SetOf[string](nil))
	assert.Nil(t, SetOf([]string{}))
}
