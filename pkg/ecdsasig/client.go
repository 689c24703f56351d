package ecdsasig

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Client provides a high-level API for checking files of signatures.
type Client struct {
	scheme    *Scheme
	parser    SignatureParser
	config    BatchConfig
	logger    *zap.Logger
	metrics   *Metrics
	cacheSize int

	mu    sync.Mutex
	cache *CachedRecoverer // built on first use, shared by later calls
}

// NewClient creates a new client with default settings.
func NewClient() *Client {
	return &Client{
		scheme: Default(),
		parser: &JSONParser{},
		config: DefaultBatchConfig(),
		logger: zap.NewNop(),
	}
}

// WithScheme sets the scheme used for recovery and address derivation.
func (c *Client) WithScheme(scheme *Scheme) *Client {
	c.scheme = scheme
	c.resetCache()
	return c
}

// WithParser sets a custom signature parser.
func (c *Client) WithParser(parser SignatureParser) *Client {
	c.parser = parser
	return c
}

// WithBatchConfig sets the batch configuration.
func (c *Client) WithBatchConfig(config BatchConfig) *Client {
	c.config = config
	return c
}

// WithLogger sets the logger.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	c.logger = logger
	return c
}

// WithMetrics sets the metrics sink.
func (c *Client) WithMetrics(m *Metrics) *Client {
	c.metrics = m
	c.resetCache()
	return c
}

// WithRecoverCache enables an LRU of recovered keys holding up to size
// entries. The cache lives on the client and is shared by every later
// VerifyFile and VerifyRecords call. Zero disables it.
func (c *Client) WithRecoverCache(size int) *Client {
	c.cacheSize = size
	c.resetCache()
	return c
}

// VerifyFile parses records from source and verifies them.
func (c *Client) VerifyFile(ctx context.Context, source string) (*BatchReport, error) {
	records, err := c.parser.ParseSignatures(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signatures: %w", err)
	}
	c.logger.Debug("parsed signature records", zap.String("source", source), zap.Int("records", len(records)))
	return c.VerifyRecords(ctx, records)
}

// VerifyRecords verifies in-memory records.
func (c *Client) VerifyRecords(ctx context.Context, records []*Record) (*BatchReport, error) {
	verifier := NewBatchVerifier(c.scheme).
		WithConfig(c.config).
		WithLogger(c.logger).
		WithMetrics(c.metrics)

	if c.cacheSize > 0 {
		cached, err := c.recoverCache()
		if err != nil {
			return nil, err
		}
		verifier = verifier.WithRecoverer(cached)
	}

	return verifier.Verify(ctx, records)
}

func (c *Client) recoverCache() (*CachedRecoverer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache == nil {
		cached, err := NewCachedRecoverer(c.scheme, c.cacheSize)
		if err != nil {
			return nil, err
		}
		c.cache = cached.WithMetrics(c.metrics)
	}
	return c.cache, nil
}

func (c *Client) resetCache() {
	c.mu.Lock()
	c.cache = nil
	c.mu.Unlock()
}
