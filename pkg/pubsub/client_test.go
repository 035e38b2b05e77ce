package pubsub

import (
	"context"
	"testing"

	"github.com/angelmondragon/ordering-engine/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicResourceName(t *testing.T) {
	tests := []struct {
		name      string
		projectID string
		topic     string
		want      string
	}{
		{name: "short id", projectID: "shop", topic: "orders", want: "projects/shop/topics/orders"},
		{name: "trimmed", projectID: " shop ", topic: " orders ", want: "projects/shop/topics/orders"},
		{name: "full name kept", projectID: "shop", topic: "projects/other/topics/orders", want: "projects/other/topics/orders"},
		{name: "empty topic", projectID: "shop", topic: "", want: ""},
		{name: "empty project", projectID: "", topic: "orders", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, topicResourceName(tc.projectID, tc.topic))
		})
	}
}

func TestNewClientRequiresConfig(t *testing.T) {
	_, err := NewClient(context.Background(), config.OrdersConfig{PubSubTopic: "orders"}, nil)
	require.ErrorIs(t, err, errProjectIDRequired)

	_, err = NewClient(context.Background(), config.OrdersConfig{PubSubProjectID: "shop"}, nil)
	require.ErrorIs(t, err, errTopicRequired)
}

func TestNilClient(t *testing.T) {
	var c *Client
	_, err := c.Publish(context.Background(), []byte("{}"), nil)
	require.ErrorIs(t, err, errNotInitialized)
	assert.NoError(t, c.Close())
	assert.Empty(t, c.Topic())
}
