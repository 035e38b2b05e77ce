// pkg/pubsub/client.go
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/ordering-engine/pkg/config"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
)

type Client struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	projectID string
	topic     string
}

var (
	errProjectIDRequired = errors.New("gcp project id is required")
	errTopicRequired     = errors.New("pubsub orders topic is required")
	errNotInitialized    = errors.New("pubsub client not initialized")
)

// NewClient creates a Pub/Sub v2 client bound to the configured orders topic.
func NewClient(ctx context.Context, cfg config.OrdersConfig, logg *logger.Logger) (*Client, error) {
	projectID := strings.TrimSpace(cfg.PubSubProjectID)
	if projectID == "" {
		return nil, errProjectIDRequired
	}
	topic := topicResourceName(projectID, cfg.PubSubTopic)
	if topic == "" {
		return nil, errTopicRequired
	}

	psClient, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	c := &Client{
		client:    psClient,
		publisher: psClient.Publisher(topic),
		projectID: projectID,
		topic:     topic,
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "topic", topic), "pubsub client initialized")
	}

	return c, nil
}

// Topic returns the full resource name messages are published to.
func (c *Client) Topic() string {
	if c == nil {
		return ""
	}
	return c.topic
}

// Publish sends data with attrs to the orders topic and waits for the server id.
func (c *Client) Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error) {
	if c == nil || c.publisher == nil {
		return "", errNotInitialized
	}
	result := c.publisher.Publish(ctx, &pubsub.Message{Data: data, Attributes: attrs})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publishing to %s: %w", c.topic, err)
	}
	return id, nil
}

// Close flushes pending messages and releases the Pub/Sub client resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	if c.publisher != nil {
		c.publisher.Stop()
	}
	return c.client.Close()
}

func topicResourceName(projectID, name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, "projects/") && strings.Contains(n, "/topics/") {
		return n
	}
	p := strings.TrimSpace(projectID)
	if p == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/topics/%s", p, n)
}
