package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/GlebRadaev/fortvest/internal/config"
	"github.com/GlebRadaev/fortvest/internal/idempotency"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
)

type ApplicationSuite struct {
	suite.Suite
	app *Application
}

func TestApplication(t *testing.T) {
	suite.Run(t, &ApplicationSuite{})
}

func (s *ApplicationSuite) SetupTest() {
	s.app = New()
}

func (s *ApplicationSuite) TestWait() {
	ctx, cancel := context.WithCancel(context.Background())

	s.app.errCh = make(chan error)
	go func() {
		s.app.errCh <- fmt.Errorf("mock error")
	}()

	err := s.app.Wait(ctx, cancel)

	s.Require().Error(err)
	s.Contains(err.Error(), "mock error")
}

func (s *ApplicationSuite) TestWaitReleasesResourcesInReverseOrder() {
	ctx, cancel := context.WithCancel(context.Background())
	var order []string
	s.app.close = []func(){
		func() { order = append(order, "pool") },
		func() { order = append(order, "redis") },
	}

	cancel()
	err := s.app.Wait(ctx, cancel)

	s.NoError(err)
	s.Equal([]string{"redis", "pool"}, order)
}

type slowSweep struct {
	finished bool
}

func (r *slowSweep) Run(ctx context.Context) {
	<-ctx.Done()
	time.Sleep(20 * time.Millisecond)
	r.finished = true
}

func (s *ApplicationSuite) TestWaitLetsReconcileFinishBeforeClosing() {
	ctx, cancel := context.WithCancel(context.Background())
	sweep := &slowSweep{}
	var finishedAtClose bool
	s.app.close = []func(){
		func() { finishedAtClose = sweep.finished },
	}

	s.app.startReconcile(ctx, sweep)
	cancel()
	err := s.app.Wait(ctx, cancel)

	s.NoError(err)
	s.True(finishedAtClose)
}

func (s *ApplicationSuite) TestIdempotencyStoreInMemoryWithoutRedis() {
	store, err := s.app.idempotencyStore(context.Background(), &config.Config{IdempotencyTTL: time.Minute})

	s.Require().NoError(err)
	s.IsType(&idempotency.MemoryStore{}, store)
	s.Empty(s.app.close)
}

func (s *ApplicationSuite) TestIdempotencyStoreUsesRedis() {
	mr := miniredis.RunT(s.T())

	store, err := s.app.idempotencyStore(context.Background(), &config.Config{RedisAddr: mr.Addr(), IdempotencyTTL: time.Minute})

	s.Require().NoError(err)
	s.IsType(&idempotency.RedisStore{}, store)
	s.Len(s.app.close, 1)
	s.app.close[0]()
}

func (s *ApplicationSuite) TestIdempotencyStoreRedisUnreachable() {
	mr := miniredis.RunT(s.T())
	addr := mr.Addr()
	mr.Close()

	_, err := s.app.idempotencyStore(context.Background(), &config.Config{RedisAddr: addr})

	s.Error(err)
}
