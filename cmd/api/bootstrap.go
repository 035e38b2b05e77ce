package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/multierr"

	"github.com/angelmondragon/ordering-engine/internal/catalog"
	"github.com/angelmondragon/ordering-engine/internal/ordering"
	"github.com/angelmondragon/ordering-engine/pkg/config"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
	"github.com/angelmondragon/ordering-engine/pkg/pubsub"
)

type namedCloser struct {
	name  string
	close func() error
}

// closerSet releases resources in reverse registration order.
type closerSet struct {
	closers []namedCloser
}

func (c *closerSet) Add(name string, fn func() error) {
	c.closers = append(c.closers, namedCloser{name: name, close: fn})
}

func (c *closerSet) Close() error {
	var errs error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("closing %s: %w", c.closers[i].name, err))
		}
	}
	c.closers = nil
	return errs
}

func catalogSource(cfg config.CatalogConfig) (catalog.Source, error) {
	switch strings.ToLower(cfg.Source) {
	case config.CatalogSourceHTTP:
		return catalog.NewHTTPSource(cfg.BaseURL,
			catalog.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
			catalog.WithProductsPath(cfg.ProductsPath),
		)
	default:
		return catalog.FileSource{Path: cfg.Path}, nil
	}
}

func loadCatalog(ctx context.Context, cfg config.CatalogConfig, logg *logger.Logger) (*catalog.Catalog, error) {
	source, err := catalogSource(cfg)
	if err != nil {
		return nil, err
	}
	cat, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"catalog_source": cfg.Source,
		"catalog_items":  cat.Len(),
	}), "catalog loaded")
	return cat, nil
}

func buildSubmitter(ctx context.Context, cfg config.OrdersConfig, logg *logger.Logger, closers *closerSet) (ordering.Submitter, error) {
	switch strings.ToLower(cfg.Sink) {
	case config.OrdersSinkHTTP:
		submitter, err := ordering.NewHTTPSubmitter(cfg.BaseURL,
			ordering.WithHTTPClient(&http.Client{Timeout: cfg.SubmitTimeout}),
			ordering.WithOrdersPath(cfg.OrdersPath),
		)
		if err != nil {
			return nil, err
		}
		logg.Info(logg.WithField(ctx, "orders_url", submitter.URL()), "http order sink configured")
		return submitter, nil
	case config.OrdersSinkPubSub:
		client, err := pubsub.NewClient(ctx, cfg, logg)
		if err != nil {
			return nil, err
		}
		closers.Add("pubsub", client.Close)
		return ordering.NewPubSubSubmitter(client)
	default:
		logg.Warn(ctx, "orders are logged only, no downstream sink configured")
		return ordering.NewLogSubmitter(logg), nil
	}
}
