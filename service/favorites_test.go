package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-truck-api/analytics"
	"food-truck-api/apperrors"
	"food-truck-api/models"
)

func TestAddFavorite_Twice(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	truck := env.openTruck(t, "driver-1", "Taco Loco", "Mexican")

	first, created, err := env.favorites.Add(ctx, "user-1", truck.ID)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := env.favorites.Add(ctx, "user-1", truck.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	favs, err := env.favorites.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestAddFavorite_Concurrent(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	truck := env.openTruck(t, "driver-1", "Taco Loco", "Mexican")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := env.favorites.Add(ctx, "user-1", truck.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := env.store.CountFavorites(ctx, "user-1", truck.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFavorites_UnknownTruckAndRemove(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	_, _, err := env.favorites.Add(ctx, "user-1", "missing")
	assert.True(t, apperrors.IsNotFound(err))

	truck := env.openTruck(t, "driver-1", "Taco Loco", "Mexican")
	_, _, err = env.favorites.Add(ctx, "user-1", truck.ID)
	require.NoError(t, err)

	removed, err := env.favorites.Remove(ctx, "user-1", truck.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = env.favorites.Remove(ctx, "user-1", truck.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	is, err := env.favorites.IsFavorite(ctx, "user-1", truck.ID)
	require.NoError(t, err)
	assert.False(t, is)
}

func TestDashboard(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	user := env.signUp(t, "eater", models.RoleCustomer)
	tacos := env.openTruck(t, "driver-1", "Taco Loco", "Mexican")
	env.openTruck(t, "driver-1", "Pasta Cart", "Italian")

	_, _, err := env.favorites.Add(ctx, user.ID, tacos.ID)
	require.NoError(t, err)

	dash, err := env.dashboard.Load(ctx, user.ID, analytics.TruckFilter{})
	require.NoError(t, err)
	assert.Len(t, dash.Trucks, 2)
	assert.Equal(t, []string{tacos.ID}, dash.FavoriteTrucks)
	require.Len(t, dash.Favorites, 1)
	require.NotNil(t, dash.Favorites[0].Truck)
	assert.Equal(t, "Taco Loco", dash.Favorites[0].Truck.Name)

	dash, err = env.dashboard.Load(ctx, user.ID, analytics.TruckFilter{Search: "pasta"})
	require.NoError(t, err)
	assert.Len(t, dash.Trucks, 1)
}

func TestReviews(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	user := env.signUp(t, "eater", models.RoleCustomer)
	truck := env.openTruck(t, "driver-1", "Taco Loco", "Mexican")

	_, err := env.reviews.Create(ctx, user.ID, truck.ID, ReviewInput{Rating: 6})
	assert.True(t, apperrors.IsValidation(err))

	review, err := env.reviews.Create(ctx, user.ID, truck.ID, ReviewInput{Rating: 5, Comment: " great "})
	require.NoError(t, err)
	assert.Equal(t, "eater", review.UserName)
	assert.Equal(t, "great", review.Comment)

	reviews, err := env.reviews.ListForTruck(ctx, truck.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	_, err = env.reviews.ListForTruck(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}
