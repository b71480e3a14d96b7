package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhub/backend/internal/repository/postgres"
	"github.com/streamhub/backend/internal/service"
	"github.com/streamhub/backend/internal/testutil"
)

func newUserService(t *testing.T) (*service.UserService, *testutil.TestDB) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	return service.NewUserService(repos.User, repos.Subscription, repos.WatchHistory), testDB
}

func TestUserService_ChannelProfile(t *testing.T) {
	svc, testDB := newUserService(t)
	ctx := context.Background()

	channel, _ := testutil.NewUserBuilder().WithUsername("thechannel").Build(t, testDB.DB)
	fanA, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	fanB, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	followed, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	testutil.Subscribe(t, testDB.DB, fanA.ID, channel.ID)
	testutil.Subscribe(t, testDB.DB, fanB.ID, channel.ID)
	testutil.Subscribe(t, testDB.DB, channel.ID, followed.ID)

	t.Run("counts both edge directions", func(t *testing.T) {
		profile, err := svc.ChannelProfile(ctx, "thechannel", fanA.ID)
		require.NoError(t, err)
		assert.Equal(t, channel.ID, profile.ID)
		assert.Equal(t, int64(2), profile.SubscribersCount)
		assert.Equal(t, int64(1), profile.ChannelsSubscribedToCount)
		assert.True(t, profile.IsSubscribed)
	})

	t.Run("not subscribed requester", func(t *testing.T) {
		profile, err := svc.ChannelProfile(ctx, "thechannel", followed.ID)
		require.NoError(t, err)
		assert.False(t, profile.IsSubscribed)
	})

	t.Run("username lookup is case insensitive", func(t *testing.T) {
		profile, err := svc.ChannelProfile(ctx, "TheChannel", fanA.ID)
		require.NoError(t, err)
		assert.Equal(t, channel.ID, profile.ID)
	})

	t.Run("unknown channel", func(t *testing.T) {
		_, err := svc.ChannelProfile(ctx, "nobody-here", fanA.ID)
		assert.ErrorIs(t, err, service.ErrChannelNotFound)
	})

	t.Run("missing username", func(t *testing.T) {
		_, err := svc.ChannelProfile(ctx, "  ", fanA.ID)
		require.Error(t, err)
	})
}

func TestUserService_WatchHistory(t *testing.T) {
	svc, testDB := newUserService(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	viewer, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	repos := postgres.NewRepositories(testDB.DB)

	first := testutil.NewVideoBuilder(owner.ID).WithTitle("Watched first").Build(t, testDB.DB)
	second := testutil.NewVideoBuilder(owner.ID).WithTitle("Watched second").Build(t, testDB.DB)

	require.NoError(t, repos.WatchHistory.Record(ctx, viewer.ID, first.ID))
	require.NoError(t, repos.WatchHistory.Record(ctx, viewer.ID, second.ID))

	t.Run("newest first with joined video and owner", func(t *testing.T) {
		items, err := svc.WatchHistory(ctx, viewer.ID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Watched second", items[0].Video.Title)
		assert.Equal(t, owner.Username, items[0].Owner.Username)
	})

	t.Run("rewatching moves a video to the front without duplicating it", func(t *testing.T) {
		require.NoError(t, repos.WatchHistory.Record(ctx, viewer.ID, first.ID))

		items, err := svc.WatchHistory(ctx, viewer.ID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Watched first", items[0].Video.Title)
	})

	t.Run("empty history", func(t *testing.T) {
		items, err := svc.WatchHistory(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
