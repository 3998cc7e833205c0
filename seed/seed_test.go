package seed

import (
	"context"
	"testing"

	"food-ordering-api/store"
	"food-ordering-api/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRunSeedsEveryCountryOnce(t *testing.T) {
	ctx := context.Background()
	st := store.New(storetest.NewDB(t))

	data, err := Run(ctx, st, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Len(t, data.Users, len(users))
	assert.Len(t, data.Restaurants, len(restaurants))

	all, err := st.ListRestaurants(ctx, store.RestaurantFilter{})
	require.NoError(t, err)
	countries := map[string]bool{}
	for _, r := range all {
		countries[r.Country] = true
	}
	assert.Equal(t, map[string]bool{"India": true, "USA": true, "UK": true}, countries)

	_, err = Run(ctx, st, bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrAlreadySeeded)
}
