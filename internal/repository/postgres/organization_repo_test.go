package postgres_test

import (
	"context"
	"testing"

	"github.com/dom/attendance-platform/internal/domain"
	"github.com/dom/attendance-platform/internal/repository/postgres"
	"github.com/dom/attendance-platform/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewOrganizationRepository(testDB.DB)
	ctx := context.Background()

	tests := []struct {
		name    string
		org     *domain.Organization
		wantErr bool
	}{
		{
			name:    "successful creation",
			org:     &domain.Organization{EntityID: "MSD10001", Name: "Cafe One", IsActive: true},
			wantErr: false,
		},
		{
			name:    "duplicate entity ID",
			org:     &domain.Organization{EntityID: "MSD10001", Name: "Cafe Two", IsActive: true},
			wantErr: true,
		},
		{
			name:    "duplicate name",
			org:     &domain.Organization{EntityID: "MSD10002", Name: "Cafe One", IsActive: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.org)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.NotZero(t, tt.org.ID)
			}
		})
	}
}

func TestOrganizationRepository_Lookups(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewOrganizationRepository(testDB.DB)
	ctx := context.Background()

	active := testutil.NewOrganizationBuilder().
		WithEntityID("MSD20001").
		WithName("Active Org").
		Build(t, testDB.DB)
	inactive := testutil.NewOrganizationBuilder().
		WithEntityID("MSD20002").
		WithName("Dormant Org").
		Inactive().
		Build(t, testDB.DB)

	tests := []struct {
		name       string
		lookup     func(activeOnly bool) (*domain.Organization, error)
		activeOnly bool
		wantID     uint
		wantAbsent bool
	}{
		{
			name:   "by id",
			lookup: func(a bool) (*domain.Organization, error) { return repo.GetByID(ctx, active.ID, a) },
			wantID: active.ID,
		},
		{
			name:       "inactive by id with active filter",
			lookup:     func(a bool) (*domain.Organization, error) { return repo.GetByID(ctx, inactive.ID, a) },
			activeOnly: true,
			wantAbsent: true,
		},
		{
			name:   "inactive by entity id without filter",
			lookup: func(a bool) (*domain.Organization, error) { return repo.GetByEntityID(ctx, "MSD20002", a) },
			wantID: inactive.ID,
		},
		{
			name:       "active by entity id with filter",
			lookup:     func(a bool) (*domain.Organization, error) { return repo.GetByEntityID(ctx, "MSD20001", a) },
			activeOnly: true,
			wantID:     active.ID,
		},
		{
			name:   "by name",
			lookup: func(a bool) (*domain.Organization, error) { return repo.GetByName(ctx, "Dormant Org", a) },
			wantID: inactive.ID,
		},
		{
			name:       "unknown name",
			lookup:     func(a bool) (*domain.Organization, error) { return repo.GetByName(ctx, "Nope", a) },
			wantAbsent: true,
		},
		{
			name:       "unknown id",
			lookup:     func(a bool) (*domain.Organization, error) { return repo.GetByID(ctx, 999999, a) },
			wantAbsent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup(tt.activeOnly)
			require.NoError(t, err)
			if tt.wantAbsent {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestOrganizationRepository_ExistsAgreesWithLookup(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewOrganizationRepository(testDB.DB)
	ctx := context.Background()

	testutil.NewOrganizationBuilder().WithName("Present").Build(t, testDB.DB)
	testutil.NewOrganizationBuilder().WithName("Sleeping").Inactive().Build(t, testDB.DB)

	for _, name := range []string{"Present", "Sleeping", "Absent"} {
		for _, activeOnly := range []bool{false, true} {
			found, err := repo.GetByName(ctx, name, activeOnly)
			require.NoError(t, err)
			exists, err := repo.ExistsByName(ctx, name, activeOnly)
			require.NoError(t, err)
			assert.Equal(t, found != nil, exists, "name=%s activeOnly=%v", name, activeOnly)
		}
	}
}

func TestOrganizationRepository_DeleteByEntityID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewOrganizationRepository(testDB.DB)
	ctx := context.Background()

	org := testutil.NewOrganizationBuilder().WithEntityID("MSD30001").Build(t, testDB.DB)

	got, err := repo.GetByEntityID(ctx, "MSD30001", false)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, org.ID, got.ID)

	require.NoError(t, repo.DeleteByEntityID(ctx, "MSD30001"))

	got, err = repo.GetByEntityID(ctx, "MSD30001", false)
	require.NoError(t, err)
	assert.Nil(t, got)

	exists, err := repo.ExistsByEntityID(ctx, "MSD30001", false)
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting again is a no-op
	assert.NoError(t, repo.DeleteByEntityID(ctx, "MSD30001"))
}

func TestOrganizationRepository_List(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewOrganizationRepository(testDB.DB)
	ctx := context.Background()

	testutil.NewOrganizationBuilder().WithName("Blue Cafe").Build(t, testDB.DB)
	testutil.NewOrganizationBuilder().WithName("BLUE Diner").Build(t, testDB.DB)
	testutil.NewOrganizationBuilder().WithName("Red Cafe").Build(t, testDB.DB)
	testutil.NewOrganizationBuilder().WithName("Bluebird Bar").Inactive().Build(t, testDB.DB)
	testutil.NewOrganizationBuilder().WithName("100% Juice").Build(t, testDB.DB)

	tests := []struct {
		name      string
		query     domain.OrganizationQuery
		wantNames []string
		wantTotal int64
	}{
		{
			name:      "all",
			query:     domain.OrganizationQuery{Size: 10},
			wantNames: []string{"Blue Cafe", "BLUE Diner", "Red Cafe", "Bluebird Bar", "100% Juice"},
			wantTotal: 5,
		},
		{
			name:      "active only",
			query:     domain.OrganizationQuery{ActiveOnly: true, Size: 10},
			wantNames: []string{"Blue Cafe", "BLUE Diner", "Red Cafe", "100% Juice"},
			wantTotal: 4,
		},
		{
			name:      "case-insensitive search",
			query:     domain.OrganizationQuery{NameContains: "blue", Size: 10},
			wantNames: []string{"Blue Cafe", "BLUE Diner", "Bluebird Bar"},
			wantTotal: 3,
		},
		{
			name:      "active search",
			query:     domain.OrganizationQuery{ActiveOnly: true, NameContains: "BLUE", Size: 10},
			wantNames: []string{"Blue Cafe", "BLUE Diner"},
			wantTotal: 2,
		},
		{
			name:      "wildcards are literal",
			query:     domain.OrganizationQuery{NameContains: "%", Size: 10},
			wantNames: []string{"100% Juice"},
			wantTotal: 1,
		},
		{
			name:      "second page",
			query:     domain.OrganizationQuery{Page: 1, Size: 2},
			wantNames: []string{"Red Cafe", "Bluebird Bar"},
			wantTotal: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.List(ctx, tt.query)
			require.NoError(t, err)

			names := make([]string, 0, len(page.Items))
			for _, org := range page.Items {
				names = append(names, org.Name)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantTotal, page.Total)
		})
	}

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 4)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestOrganizationRepository_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewOrganizationRepository(testDB.DB)
	ctx := context.Background()

	org := testutil.NewOrganizationBuilder().WithName("Before").Build(t, testDB.DB)

	org.Name = "After"
	org.IsActive = false
	require.NoError(t, repo.Update(ctx, org))

	got, err := repo.GetByID(ctx, org.ID, false)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "After", got.Name)
	assert.False(t, got.IsActive)
}
