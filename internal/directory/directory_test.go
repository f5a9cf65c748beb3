package directory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/directory"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Visitor(ctx context.Context, id string) (*model.Visitor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Visitor), args.Error(1)
}

func (m *MockSource) Host(ctx context.Context, id string) (*model.Host, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Host), args.Error(1)
}

func (m *MockSource) Hosts(ctx context.Context) ([]model.HostSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.HostSummary), args.Error(1)
}

func TestCachedHostLoadsOnce(t *testing.T) {
	src := new(MockSource)
	src.On("Host", mock.Anything, "h1").Return(&model.Host{ID: "h1", Name: "Dr. Perera"}, nil).Once()

	dir, err := directory.NewCached(src, 8, time.Minute)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		h, err := dir.Host(context.Background(), "h1")
		require.NoError(t, err)
		assert.Equal(t, "Dr. Perera", h.Name)
	}
	src.AssertNumberOfCalls(t, "Host", 1)
}

func TestCachedHostReturnsCopies(t *testing.T) {
	src := new(MockSource)
	src.On("Host", mock.Anything, "h1").Return(&model.Host{ID: "h1", Name: "Dr. Perera"}, nil).Once()

	dir, err := directory.NewCached(src, 8, time.Minute)
	require.NoError(t, err)

	h, err := dir.Host(context.Background(), "h1")
	require.NoError(t, err)
	h.Name = "mutated"

	again, err := dir.Host(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Perera", again.Name)
}

func TestCachedHostDoesNotCacheErrors(t *testing.T) {
	src := new(MockSource)
	src.On("Host", mock.Anything, "h1").Return(nil, errors.New("not found")).Twice()

	dir, err := directory.NewCached(src, 8, time.Minute)
	require.NoError(t, err)

	_, err = dir.Host(context.Background(), "h1")
	assert.Error(t, err)
	_, err = dir.Host(context.Background(), "h1")
	assert.Error(t, err)
	src.AssertExpectations(t)
}

func TestInvalidateForcesReload(t *testing.T) {
	src := new(MockSource)
	src.On("Host", mock.Anything, "h1").Return(&model.Host{ID: "h1", Name: "Dr. Perera"}, nil).Twice()

	dir, err := directory.NewCached(src, 8, time.Minute)
	require.NoError(t, err)

	_, err = dir.Host(context.Background(), "h1")
	require.NoError(t, err)
	dir.Invalidate("h1")
	_, err = dir.Host(context.Background(), "h1")
	require.NoError(t, err)

	src.AssertNumberOfCalls(t, "Host", 2)
}

func TestVisitorReadsThrough(t *testing.T) {
	src := new(MockSource)
	src.On("Visitor", mock.Anything, "v1").Return(&model.Visitor{ID: "v1", Email: "a@b.lk"}, nil).Twice()

	dir, err := directory.NewCached(src, 8, time.Minute)
	require.NoError(t, err)

	_, _ = dir.Visitor(context.Background(), "v1")
	_, _ = dir.Visitor(context.Background(), "v1")
	src.AssertExpectations(t)
}

func TestCachedHostExpires(t *testing.T) {
	src := new(MockSource)
	src.On("Host", mock.Anything, "h1").Return(&model.Host{ID: "h1", Name: "Dr. Perera"}, nil).Twice()

	dir, err := directory.NewCached(src, 8, 20*time.Millisecond)
	require.NoError(t, err)

	_, err = dir.Host(context.Background(), "h1")
	require.NoError(t, err)
	time.Sleep(60 * time.Millisecond)
	_, err = dir.Host(context.Background(), "h1")
	require.NoError(t, err)

	src.AssertNumberOfCalls(t, "Host", 2)
}

func TestResolveHostDropsRemovedHost(t *testing.T) {
	src := new(MockSource)
	src.On("Host", mock.Anything, "h1").Return(&model.Host{ID: "h1", Name: "Dr. Perera"}, nil).Once()
	src.On("Host", mock.Anything, "h1").Return(nil, errors.New("not found")).Twice()

	dir, err := directory.NewCached(src, 8, time.Minute)
	require.NoError(t, err)

	_, err = dir.Host(context.Background(), "h1")
	require.NoError(t, err)

	_, err = dir.ResolveHost(context.Background(), "h1")
	assert.Error(t, err)
	_, err = dir.Host(context.Background(), "h1")
	assert.Error(t, err, "a host that failed to resolve is no longer cached")
	src.AssertNumberOfCalls(t, "Host", 3)
}

func TestNewCachedRejectsBadSettings(t *testing.T) {
	_, err := directory.NewCached(new(MockSource), 0, time.Minute)
	assert.Error(t, err)
	_, err = directory.NewCached(new(MockSource), 8, 0)
	assert.Error(t, err)
}
