package lookup

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type CircuitBreakerTestSuite struct {
	suite.Suite

	cb    *circuitBreaker
	clock atomic.Int64
	calls atomic.Int32
}

func (suite *CircuitBreakerTestSuite) SetupTest() {
	suite.clock.Store(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixNano())
	suite.calls.Store(0)

	suite.cb = newCircuitBreaker(2, 200*time.Millisecond, 500*time.Millisecond)
	suite.cb.now = func() time.Time {
		return time.Unix(0, suite.clock.Load())
	}
}

func (suite *CircuitBreakerTestSuite) Advance(d time.Duration) {
	suite.clock.Add(int64(d))
}

func (suite *CircuitBreakerTestSuite) CallbackOk(_ context.Context) (*http.Response, error) {
	suite.calls.Add(1)

	rec := httptest.NewRecorder()

	rec.WriteHeader(http.StatusCreated)

	return rec.Result(), nil
}

func (suite *CircuitBreakerTestSuite) CallbackErr(_ context.Context) (*http.Response, error) {
	suite.calls.Add(1)

	return nil, io.EOF
}

func (suite *CircuitBreakerTestSuite) Open() {
	for i := 0; i < 3; i++ {
		_, err := suite.cb.Do(context.Background(), suite.CallbackErr)
		suite.ErrorIs(err, io.EOF)
	}

	suite.Equal(breakerOpen, suite.cb.State())
}

func (suite *CircuitBreakerTestSuite) TestManyExecuted() {
	wg := &sync.WaitGroup{}
	errs := make(chan error, 5)

	wg.Add(5)

	for i := 0; i < 5; i++ {
		go func() {
			defer wg.Done()

			_, err := suite.cb.Do(context.Background(), suite.CallbackOk)
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		suite.NoError(err)
	}

	suite.EqualValues(5, suite.calls.Load())
	suite.Equal(breakerClosed, suite.cb.State())
}

func (suite *CircuitBreakerTestSuite) TestSuccessResetsFailures() {
	suite.cb.Do(context.Background(), suite.CallbackErr) // nolint: errcheck
	suite.cb.Do(context.Background(), suite.CallbackErr) // nolint: errcheck

	resp, err := suite.cb.Do(context.Background(), suite.CallbackOk)

	suite.NoError(err)
	suite.Equal(http.StatusCreated, resp.StatusCode)
	suite.EqualValues(0, suite.cb.failures)

	suite.cb.Do(context.Background(), suite.CallbackErr) // nolint: errcheck
	suite.Equal(breakerClosed, suite.cb.State())
}

func (suite *CircuitBreakerTestSuite) TestOpensAfterThreshold() {
	suite.cb.Do(context.Background(), suite.CallbackErr) // nolint: errcheck
	suite.EqualValues(1, suite.cb.failures)

	suite.cb.Do(context.Background(), suite.CallbackErr) // nolint: errcheck
	suite.EqualValues(2, suite.cb.failures)
	suite.Equal(breakerClosed, suite.cb.State())

	suite.cb.Do(context.Background(), suite.CallbackErr) // nolint: errcheck
	suite.EqualValues(0, suite.cb.failures)
	suite.Equal(breakerOpen, suite.cb.State())
}

func (suite *CircuitBreakerTestSuite) TestFailuresExpire() {
	suite.cb.Do(context.Background(), suite.CallbackErr) // nolint: errcheck
	suite.cb.Do(context.Background(), suite.CallbackErr) // nolint: errcheck

	suite.Advance(500 * time.Millisecond)

	suite.cb.Do(context.Background(), suite.CallbackErr) // nolint: errcheck

	suite.Equal(breakerClosed, suite.cb.State())
	suite.EqualValues(1, suite.cb.failures)
}

func (suite *CircuitBreakerTestSuite) TestOpenedRejects() {
	suite.Open()

	_, err := suite.cb.Do(context.Background(), suite.CallbackOk)

	suite.ErrorIs(err, ErrCircuitBreakerOpened)
	suite.EqualValues(3, suite.calls.Load())

	suite.Advance(199 * time.Millisecond)
	suite.Equal(breakerOpen, suite.cb.State())
}

func (suite *CircuitBreakerTestSuite) TestHalfOpen() {
	suite.Open()
	suite.Advance(200 * time.Millisecond)

	suite.Equal(breakerHalfOpen, suite.cb.State())
	suite.Equal("half-open", suite.cb.State().String())
}

func (suite *CircuitBreakerTestSuite) TestHalfOpenFailure() {
	suite.Open()
	suite.Advance(200 * time.Millisecond)

	suite.cb.Do(context.Background(), suite.CallbackErr) // nolint: errcheck

	suite.Equal(breakerOpen, suite.cb.State())

	suite.Advance(200 * time.Millisecond)
	suite.Equal(breakerHalfOpen, suite.cb.State())
}

func (suite *CircuitBreakerTestSuite) TestHalfOpenSuccess() {
	suite.Open()
	suite.Advance(200 * time.Millisecond)

	resp, err := suite.cb.Do(context.Background(), suite.CallbackOk)

	suite.NoError(err)
	suite.Equal(http.StatusCreated, resp.StatusCode)
	suite.Equal(breakerClosed, suite.cb.State())
}

func (suite *CircuitBreakerTestSuite) TestSingleProbe() {
	suite.Open()
	suite.Advance(200 * time.Millisecond)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)

	go func() {
		_, err := suite.cb.Do(context.Background(), func(ctx context.Context) (*http.Response, error) {
			close(started)
			<-release

			return suite.CallbackOk(ctx)
		})
		done <- err
	}()

	<-started

	_, err := suite.cb.Do(context.Background(), suite.CallbackOk)
	suite.ErrorIs(err, ErrCircuitBreakerOpened)

	close(release)
	suite.NoError(<-done)
	suite.Equal(breakerClosed, suite.cb.State())
}

func (suite *CircuitBreakerTestSuite) TestClosedContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.cb.Do(ctx, suite.CallbackOk)

	suite.ErrorIs(err, context.Canceled)
	suite.EqualValues(0, suite.calls.Load())
}

func (suite *CircuitBreakerTestSuite) TestCancelledCallsAreNotFailures() {
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithCancel(context.Background())

		_, err := suite.cb.Do(ctx, func(ctx context.Context) (*http.Response, error) {
			cancel()

			return nil, ctx.Err()
		})

		suite.ErrorIs(err, context.Canceled)
	}

	suite.Equal(breakerClosed, suite.cb.State())
	suite.EqualValues(0, suite.cb.failures)
}

func (suite *CircuitBreakerTestSuite) TestCancelledProbeIsReleased() {
	suite.Open()
	suite.Advance(200 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	suite.cb.Do(ctx, func(ctx context.Context) (*http.Response, error) { // nolint: errcheck
		cancel()

		return nil, ctx.Err()
	})

	suite.Equal(breakerHalfOpen, suite.cb.State())

	_, err := suite.cb.Do(context.Background(), suite.CallbackOk)

	suite.NoError(err)
	suite.Equal(breakerClosed, suite.cb.State())
}

func TestCircuitBreaker(t *testing.T) {
	suite.Run(t, &CircuitBreakerTestSuite{})
}
