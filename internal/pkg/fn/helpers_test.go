package fn

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	t.Parallel()

	numbers := []int{1, 2, 3, 4, 5}
	squared := Map(numbers, func(n int) int {
		return n * n
	})

	expected := []int{1, 4, 9, 16, 25}
	assert.Equal(t, expected, squared)
}

func TestMap_EmptySlice(t *testing.T) {
	t.Parallel()

	squared := Map([]int{}, func(n int) int {
		return n * n
	})

	// Empty input yields an empty, non-nil slice so callers can serialize it
	// as [] without a nil check.
	assert.NotNil(t, squared)
	assert.Empty(t, squared)
}

func TestMap_DifferentTypes(t *testing.T) {
	t.Parallel()

	numbers := []int{7, 42}
	strs := Map(numbers, func(n int) string {
		return strconv.Itoa(n)
	})

	expected := []string{"7", "42"}
	assert.Equal(t, expected, strs)
}
