package cleanup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveSmallGroups(t *testing.T) {
	assert.Empty(t, Resolve(nil))
	assert.Empty(t, Resolve([]Pod{}))
	assert.Empty(t, Resolve([]Pod{{Name: "only-one"}}), "singleton groups are never deletion candidates")
}

func TestResolveRetainsOldest(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	group := []Pod{
		{Name: "web-b", CreatedAt: t0.Add(2 * time.Minute)},
		{Name: "web-a", CreatedAt: t0},
		{Name: "web-c", CreatedAt: t0.Add(5 * time.Minute)},
	}

	victims := Resolve(group)

	assert.Len(t, victims, 2)
	for _, v := range victims {
		assert.NotEqual(t, "web-a", v.Name, "the oldest pod must survive")
	}
}

// Scenario from the duplicate policy: of two pods sharing a base name, the
// newer one is deleted.
func TestResolveDeletesYoungerDuplicate(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	group := []Pod{
		{Name: "pod-a-abc12", CreatedAt: t0},
		{Name: "pod-a-def34", CreatedAt: t0.Add(5 * time.Second)},
	}

	victims := Resolve(group)

	assert.Len(t, victims, 1)
	assert.Equal(t, "pod-a-def34", victims[0].Name)
}

func TestResolveTieBreakIsDeterministic(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	group := []Pod{
		{Name: "web-z", CreatedAt: t0},
		{Name: "web-a", CreatedAt: t0},
		{Name: "web-m", CreatedAt: t0},
	}

	first := Resolve(group)
	assert.Len(t, first, 2)
	assert.Equal(t, "web-m", first[0].Name)
	assert.Equal(t, "web-z", first[1].Name)

	// Same input, same survivor, every time.
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Resolve(group))
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	group := []Pod{
		{Name: "web-b", CreatedAt: t0.Add(time.Minute)},
		{Name: "web-a", CreatedAt: t0},
	}

	Resolve(group)

	assert.Equal(t, "web-b", group[0].Name)
	assert.Equal(t, "web-a", group[1].Name)
}
