package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedDeliversInSubscriptionOrder(t *testing.T) {
	var feed Feed[int]
	var got []string

	feed.Subscribe(func(v int) { got = append(got, "first") })
	feed.Subscribe(func(v int) { got = append(got, "second") })

	feed.Publish(1)

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestFeedUnsubscribe(t *testing.T) {
	var feed Feed[string]
	calls := 0
	unsubscribe := feed.Subscribe(func(string) { calls++ })
	require.Equal(t, 1, feed.Len())

	feed.Publish("a")
	unsubscribe()
	unsubscribe()
	feed.Publish("b")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, feed.Len())
}

func TestFeedSubscribeDuringPublishWaitsForNextRound(t *testing.T) {
	var feed Feed[int]
	late := 0
	feed.Subscribe(func(int) {
		feed.Subscribe(func(int) { late++ })
	})

	feed.Publish(1)
	assert.Equal(t, 0, late)

	feed.Publish(2)
	assert.Equal(t, 1, late)
}

func TestFeedIgnoresNilSubscriber(t *testing.T) {
	var feed Feed[int]
	unsubscribe := feed.Subscribe(nil)
	unsubscribe()
	assert.Equal(t, 0, feed.Len())
	feed.Publish(1)
}
