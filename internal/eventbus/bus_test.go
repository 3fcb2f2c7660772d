package eventbus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishFansOutAndDropsWhenFull(t *testing.T) {
	t.Parallel()
	b := New()
	a, unsubA := b.Subscribe(1)
	c, unsubC := b.Subscribe(4)
	defer unsubC()

	b.Publish(Event{Type: "one"})
	b.Publish(Event{Type: "two"}) // a is full; dropped for a only

	require.Equal(t, "one", (<-a).Type)
	require.Len(t, a, 0)
	require.Equal(t, "one", (<-c).Type)
	e := <-c
	require.Equal(t, "two", e.Type)
	require.False(t, e.Time.IsZero())

	unsubA()
	unsubA()
	_, ok := <-a
	require.False(t, ok)
	b.Publish(Event{Type: "three"})
	require.Equal(t, "three", (<-c).Type)
}
