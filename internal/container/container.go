package container

import (
	"fmt"
	"net/http"

	"go-medscan/internal/client"
	"go-medscan/internal/config"
	"go-medscan/internal/transport"
	"go-medscan/internal/validation"
)

// Container holds the wired application dependencies
type Container struct {
	config    *config.Config
	client    *client.Client
	validator *validation.UploadValidator
	handler   http.Handler
}

// NewContainer builds the dependency graph from a loaded configuration and a
// credential provider
func NewContainer(cfg *config.Config, tokens client.TokenProvider) (*Container, error) {
	if cfg == nil {
		var err error
		cfg, err = config.LoadFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	apiClient := client.NewClient(cfg, tokens)
	validator := validation.NewUploadValidatorWithLimit(cfg.MaxUploadSize)
	handler := transport.NewHandler(apiClient, cfg)

	return &Container{
		config:    cfg,
		client:    apiClient,
		validator: validator,
		handler:   handler,
	}, nil
}

// Handler returns the serve-mode HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Client returns the transport client
func (c *Container) Client() *client.Client {
	return c.client
}

// Validator returns the upload validator
func (c *Container) Validator() *validation.UploadValidator {
	return c.validator
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}
