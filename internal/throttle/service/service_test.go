package service

//go:generate mockgen -source=../ports/ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sotadiploma/internal/throttle/models"
	"sotadiploma/internal/throttle/service/mocks"
	"sotadiploma/internal/throttle/store/counter"
	dErrors "sotadiploma/pkg/domain-errors"
	"sotadiploma/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	store *mocks.MockCounterStore
	now   time.Time
	ctx   context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockCounterStore(s.ctrl)
	s.now = time.Date(2024, 6, 1, 10, 17, 42, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) TestNew() {
	s.Run("requires counter store", func() {
		svc, err := New(nil)
		s.Require().Error(err)
		s.Nil(svc)
		s.Contains(err.Error(), "counter store is required")
	})

	s.Run("ignores non-positive limit", func() {
		svc, err := New(s.store, WithLimit(0))
		s.Require().NoError(err)
		s.Equal(DefaultLimit, svc.Limit())
	})
}

// =============================================================================
// Admission against the store port
// =============================================================================

func (s *ServiceSuite) TestAdmit() {
	s.Run("under limit increments the minute bucket", func() {
		svc, err := New(s.store, WithLimit(5))
		s.Require().NoError(err)

		s.store.EXPECT().Get(gomock.Any(), "203.0.113.7|17").Return(int64(2), nil)
		s.store.EXPECT().Increment(gomock.Any(), "203.0.113.7|17", 60*time.Second, false).Return(int64(3), nil)

		decision, err := svc.Admit(s.ctx, "203.0.113.7")
		s.Require().NoError(err)
		s.True(decision.Allowed)
		s.Equal(2, decision.Remaining)
		s.Equal(time.Date(2024, 6, 1, 10, 18, 0, 0, time.UTC), decision.ResetAt)
	})

	s.Run("at limit rejects without incrementing", func() {
		svc, err := New(s.store, WithLimit(5))
		s.Require().NoError(err)

		s.store.EXPECT().Get(gomock.Any(), "203.0.113.7|17").Return(int64(5), nil)

		decision, err := svc.Admit(s.ctx, "203.0.113.7")
		s.Require().Error(err)
		var exceeded *models.ExceededError
		s.Require().ErrorAs(err, &exceeded)
		s.Equal(18, exceeded.RetryAfter)
		s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
		s.False(decision.Allowed)
		s.Equal(18, decision.RetryAfter)
	})

	s.Run("concurrent overshoot after increment is rejected", func() {
		svc, err := New(s.store, WithLimit(5))
		s.Require().NoError(err)

		s.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(int64(4), nil)
		s.store.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(6), nil)

		_, err = svc.Admit(s.ctx, "203.0.113.7")
		var exceeded *models.ExceededError
		s.ErrorAs(err, &exceeded)
	})

	s.Run("blank identity uses the global bucket", func() {
		svc, err := New(s.store)
		s.Require().NoError(err)

		s.store.EXPECT().Get(gomock.Any(), "global|17").Return(int64(0), nil)
		s.store.EXPECT().Increment(gomock.Any(), "global|17", gomock.Any(), false).Return(int64(1), nil)

		_, err = svc.Admit(s.ctx, "  ")
		s.NoError(err)
	})

	s.Run("sliding policy refreshes expiry", func() {
		svc, err := New(s.store, WithWindowPolicy(models.WindowSliding))
		s.Require().NoError(err)

		s.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(int64(0), nil)
		s.store.EXPECT().Increment(gomock.Any(), gomock.Any(), 60*time.Second, true).Return(int64(1), nil)

		_, err = svc.Admit(s.ctx, "203.0.113.7")
		s.NoError(err)
	})

	s.Run("store read failure is not an exceeded error", func() {
		svc, err := New(s.store)
		s.Require().NoError(err)

		s.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("connection refused"))

		decision, err := svc.Admit(s.ctx, "203.0.113.7")
		s.Require().Error(err)
		s.Nil(decision)
		var exceeded *models.ExceededError
		s.False(errors.As(err, &exceeded))
	})

	s.Run("store increment failure propagates", func() {
		svc, err := New(s.store)
		s.Require().NoError(err)

		s.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(int64(0), nil)
		s.store.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("timeout"))

		_, err = svc.Admit(s.ctx, "203.0.113.7")
		s.ErrorContains(err, "increment throttle counter")
	})
}

// =============================================================================
// Admission against the in-memory store
// =============================================================================

func (s *ServiceSuite) TestSixthRequestInMinuteIsRejected() {
	clock := s.now
	store := counter.NewInMemory(counter.WithClock(func() time.Time { return clock }))
	svc, err := New(store, WithLimit(5))
	s.Require().NoError(err)

	for i := range 5 {
		decision, err := svc.Admit(s.ctx, "198.51.100.1")
		s.Require().NoError(err, "request %d", i+1)
		s.True(decision.Allowed)
	}

	_, err = svc.Admit(s.ctx, "198.51.100.1")
	var exceeded *models.ExceededError
	s.Require().ErrorAs(err, &exceeded)
	s.LessOrEqual(exceeded.RetryAfter, 60)

	// Other clients keep their own budget.
	_, err = svc.Admit(s.ctx, "198.51.100.2")
	s.NoError(err)

	// The next minute is a new bucket.
	clock = s.now.Add(time.Minute)
	next := requestcontext.WithTime(context.Background(), clock)
	_, err = svc.Admit(next, "198.51.100.1")
	s.NoError(err)
}

func (s *ServiceSuite) TestClientIdentity() {
	s.Equal("global", ClientIdentity(""))
	s.Equal("global", ClientIdentity("   "))
	s.Equal("10.0.0.1", ClientIdentity(" 10.0.0.1 "))
}
