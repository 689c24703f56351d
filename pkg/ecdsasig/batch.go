package ecdsasig

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status is the outcome of checking one record.
type Status string

const (
	// StatusValid means the recovered address matches the expected one.
	StatusValid Status = resultValid
	// StatusMismatch means recovery worked but the address differs.
	StatusMismatch Status = resultMismatch
	// StatusRecovered means recovery worked and no address was expected.
	StatusRecovered Status = resultRecovered
	// StatusFailed means the signature could not be evaluated.
	StatusFailed Status = resultFailed
	// StatusSkipped means the batch stopped before the record was processed.
	StatusSkipped Status = "skipped"
)

// BatchConfig configures a BatchVerifier.
type BatchConfig struct {
	// NumWorkers controls parallelization (0 = auto-detect)
	NumWorkers int

	// RequireValid rejects signatures failing Signature.IsValid before recovery
	RequireValid bool

	// RequireLowS rejects signatures failing Signature.IsLowS before recovery
	RequireLowS bool

	// FailFast stops the batch at the first failed record
	FailFast bool
}

// DefaultBatchConfig returns a sensible default configuration.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		NumWorkers:   0, // Auto-detect
		RequireValid: false,
		RequireLowS:  true,
		FailFast:     false,
	}
}

// Result is the outcome for the record at Index.
type Result struct {
	Index   int
	Status  Status
	Address Address // recovered address, zero when Status is failed or skipped
	Err     error
}

// BatchReport summarizes a batch run. Results are in input order.
type BatchReport struct {
	Results    []Result
	Valid      int
	Mismatched int
	Recovered  int
	Failed     int
	Skipped    int
	Duration   time.Duration
}

// OK reports whether every record was processed and matched or recovered.
func (r *BatchReport) OK() bool {
	return r.Mismatched == 0 && r.Failed == 0 && r.Skipped == 0
}

// BatchVerifier checks many records concurrently.
type BatchVerifier struct {
	recoverer Recoverer
	address   AddressFunc
	config    BatchConfig
	logger    *zap.Logger
	metrics   *Metrics
}

// NewBatchVerifier creates a verifier that recovers and derives addresses
// with scheme.
func NewBatchVerifier(scheme *Scheme) *BatchVerifier {
	return &BatchVerifier{
		recoverer: scheme,
		address:   scheme.Address,
		config:    DefaultBatchConfig(),
		logger:    zap.NewNop(),
	}
}

// WithRecoverer replaces the recoverer, e.g. with a CachedRecoverer.
func (v *BatchVerifier) WithRecoverer(r Recoverer) *BatchVerifier {
	v.recoverer = r
	return v
}

// WithConfig sets the batch configuration.
func (v *BatchVerifier) WithConfig(config BatchConfig) *BatchVerifier {
	v.config = config
	return v
}

// WithLogger sets the logger.
func (v *BatchVerifier) WithLogger(logger *zap.Logger) *BatchVerifier {
	v.logger = logger
	return v
}

// WithMetrics sets the metrics sink.
func (v *BatchVerifier) WithMetrics(m *Metrics) *BatchVerifier {
	v.metrics = m
	return v
}

// Verify checks every record and returns a report in input order.
//
// Individual failures are reported per record. The returned error is non-nil
// only when ctx is cancelled or, with FailFast, when a record fails; the
// report is returned in both cases.
func (v *BatchVerifier) Verify(ctx context.Context, records []*Record) (*BatchReport, error) {
	start := time.Now()

	numWorkers := v.config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	results := make([]Result, len(records))
	for i := range results {
		results[i] = Result{Index: i, Status: StatusSkipped, Err: ErrSkipped}
	}

	v.logger.Debug("starting batch verification",
		zap.Int("records", len(records)),
		zap.Int("workers", numWorkers),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)

	for i, rec := range records {
		if gctx.Err() != nil {
			break
		}
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := v.verifyOne(i, rec)
			results[i] = res
			if res.Status == StatusFailed && v.config.FailFast {
				return fmt.Errorf("record %d: %w", i, res.Err)
			}
			return nil
		})
	}
	err := g.Wait()

	report := &BatchReport{Results: results}
	for _, res := range results {
		switch res.Status {
		case StatusValid:
			report.Valid++
		case StatusMismatch:
			report.Mismatched++
		case StatusRecovered:
			report.Recovered++
		case StatusFailed:
			report.Failed++
		case StatusSkipped:
			report.Skipped++
			continue
		}
		v.metrics.observeResult(string(res.Status))
	}
	report.Duration = time.Since(start)
	v.metrics.observeBatch(report.Duration)

	v.logger.Info("batch verification finished",
		zap.Int("valid", report.Valid),
		zap.Int("mismatched", report.Mismatched),
		zap.Int("recovered", report.Recovered),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", report.Duration),
	)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return report, ctxErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return report, err
	}
	return report, nil
}

func (v *BatchVerifier) verifyOne(i int, rec *Record) Result {
	res := Result{Index: i}

	switch {
	case rec == nil:
		res.Err = errors.New("nil record")
	case v.config.RequireValid && !rec.Signature.IsValid():
		res.Err = fmt.Errorf("%w: component out of range", ErrNonCanonical)
	case v.config.RequireLowS && !rec.Signature.IsLowS():
		res.Err = fmt.Errorf("%w: high s", ErrNonCanonical)
	}
	if res.Err != nil {
		res.Status = StatusFailed
		v.logFailure(i, rec, res.Err)
		return res
	}

	pub, err := v.recoverer.Recover(rec.Signature, rec.Message)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		v.logFailure(i, rec, err)
		return res
	}

	res.Address = v.address(pub)
	switch {
	case !rec.HasAddress:
		res.Status = StatusRecovered
	case res.Address == rec.Address:
		res.Status = StatusValid
	default:
		res.Status = StatusMismatch
		v.logger.Debug("signer address mismatch",
			zap.Int("index", i),
			zap.Stringer("expected", rec.Address),
			zap.Stringer("recovered", res.Address),
		)
	}
	return res
}

func (v *BatchVerifier) logFailure(i int, rec *Record, err error) {
	fields := []zap.Field{zap.Int("index", i), zap.Error(err)}
	if rec != nil {
		fields = append(fields, zap.Stringer("signature", rec.Signature))
	}
	v.logger.Debug("signature check failed", fields...)
}
