package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmer_registry/internal/domain"
	"farmer_registry/internal/store"
	"farmer_registry/internal/store/storetest"
)

func seed(t *testing.T, s *store.Store, n int) []*domain.User {
	t.Helper()
	users := make([]*domain.User, 0, n)
	for i := 0; i < n; i++ {
		u := newUser(fmt.Sprintf("+2547000000%02d", i), strPtr(fmt.Sprintf("farmer%02d@example.com", i)))
		u.FirstName = fmt.Sprintf("Farmer%02d", i)
		u.Farm.Name = fmt.Sprintf("Farm %02d", i)
		if i%2 == 0 {
			u.Farm.County = "Nakuru"
		}
		created, err := s.CreateUserWithFarm(context.Background(), u, "h")
		require.NoError(t, err)
		users = append(users, created)
	}
	return users
}

func TestStore_ListUsersPaging(t *testing.T) {
	s := store.New(storetest.NewDB(t))
	seed(t, s, 7)

	page, err := s.ListUsers(context.Background(), domain.PageQuery{Page: 2, Limit: 3})
	require.NoError(t, err)

	assert.Len(t, page.Data, 3)
	assert.Equal(t, domain.PageMeta{Total: 7, Page: 2, Pages: 3, HasNextPage: true, HasPrevPage: true}, page.Meta)
	for _, u := range page.Data {
		assert.NotNil(t, u.Farm)
	}

	last, err := s.ListUsers(context.Background(), domain.PageQuery{Page: 3, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, last.Data, 1)
	assert.False(t, last.Meta.HasNextPage)
}

func TestStore_ListUsersDefaults(t *testing.T) {
	s := store.New(storetest.NewDB(t))
	seed(t, s, 12)

	page, err := s.ListUsers(context.Background(), domain.PageQuery{Page: -1, Limit: 1000})
	require.NoError(t, err)

	assert.Len(t, page.Data, domain.DefaultLimit)
	assert.Equal(t, 1, page.Meta.Page)
	assert.Equal(t, 2, page.Meta.Pages)
	assert.False(t, page.Meta.HasPrevPage)
}

func TestStore_ListUsersSearch(t *testing.T) {
	s := store.New(storetest.NewDB(t))
	seed(t, s, 5)

	tests := []struct {
		name   string
		search string
		want   int64
	}{
		{name: "first name any case", search: "FARMER03", want: 1},
		{name: "email fragment", search: "@example.com", want: 5},
		{name: "phone fragment", search: "+25470000000", want: 5},
		{name: "last name", search: "kariuki", want: 5},
		{name: "no match", search: "zzz", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.ListUsers(context.Background(), domain.PageQuery{Search: tt.search})
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Meta.Total)
			assert.Len(t, page.Data, int(tt.want))
		})
	}
}

func TestStore_ListFarms(t *testing.T) {
	s := store.New(storetest.NewDB(t))
	users := seed(t, s, 4)

	page, err := s.ListFarms(context.Background(), domain.PageQuery{Search: "nakuru"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.Meta.Total)
	owners := map[string]bool{users[0].ID: true, users[2].ID: true}
	for _, f := range page.Data {
		require.NotNil(t, f.Owner)
		assert.True(t, owners[f.Owner.ID])
		assert.Equal(t, f.UserID, f.Owner.ID)
		assert.NotEmpty(t, f.Owner.PhoneNumber)
	}
}

func TestStore_UpdateFarm(t *testing.T) {
	s := store.New(storetest.NewDB(t))
	users := seed(t, s, 1)
	farmID := users[0].Farm.ID

	size := 12.25
	leasehold := domain.OwnershipLeasehold
	farm, err := s.UpdateFarm(context.Background(), farmID, domain.FarmChanges{
		Size:         &size,
		Ownership:    &leasehold,
		FarmingTypes: []string{"Horticulture", "Apiculture"},
	})
	require.NoError(t, err)

	assert.Equal(t, 12.25, farm.Size)
	assert.Equal(t, domain.OwnershipLeasehold, farm.Ownership)
	assert.Equal(t, []string{"Horticulture", "Apiculture"}, farm.FarmingTypes)
	assert.Equal(t, "Farm 00", farm.Name)
	require.NotNil(t, farm.Owner)
	assert.Equal(t, users[0].ID, farm.Owner.ID)

	_, err = s.UpdateFarm(context.Background(), "missing", domain.FarmChanges{Size: &size})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
