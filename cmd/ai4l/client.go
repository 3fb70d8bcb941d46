package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ai4l/internal/config"
	"ai4l/internal/genclient"
	"ai4l/internal/session"
)

// clientFlags are shared by the commands that talk to a generation service.
type clientFlags struct {
	endpoint     string
	timeout      int
	sendTopP     bool
	fetchCatalog bool
}

func (f *clientFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.endpoint, "endpoint", "", "generate URL (defaults AI4L_ENDPOINT or "+genclient.DefaultEndpoint+")")
	fl.IntVar(&f.timeout, "timeout", 0, "seconds to wait for a generation (defaults to 60)")
	fl.BoolVar(&f.sendTopP, "send-top-p", false, "include top_p in the request payload")
	fl.BoolVar(&f.fetchCatalog, "fetch-catalog", false, "offer the models served by the endpoint instead of the built-in list")
}

func (f *clientFlags) overlay(cmd *cobra.Command, base config.ClientConfig) config.ClientConfig {
	set := cmd.Flags().Changed
	if set("endpoint") {
		base.Endpoint = f.endpoint
	}
	if set("timeout") {
		base.TimeoutSeconds = f.timeout
	}
	if set("send-top-p") {
		base.SendTopP = f.sendTopP
	}
	return base
}

// newClient builds the HTTP generator for cfg.
func newClient(a *app, cfg config.ClientConfig) (*genclient.Client, error) {
	return genclient.New(genclient.Config{
		Endpoint:  cfg.Endpoint,
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		UserAgent: "ai4l/" + version,
	}, genclient.WithLogger(a.log))
}

// newController wires a session controller to the configured endpoint.
func newController(ctx context.Context, a *app, cmd *cobra.Command, f *clientFlags) (*session.Controller, error) {
	cfg := f.overlay(cmd, a.cfg.Client)
	client, err := newClient(a, cfg)
	if err != nil {
		return nil, err
	}
	opts := []session.Option{
		session.WithLogger(a.log),
		session.WithTopP(cfg.SendTopP),
		session.WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
	}
	if f.fetchCatalog {
		cat, err := client.Catalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		if len(cat.Models) == 0 {
			return nil, fmt.Errorf("fetch catalog: %s serves no models", client.Endpoint())
		}
		opts = append(opts, session.WithCatalog(cat))
	}
	return session.New(client, opts...), nil
}
