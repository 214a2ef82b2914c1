package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planzo/planzo-api/internal/access"
	teamModel "github.com/planzo/planzo-api/internal/team/model"
	"github.com/planzo/planzo-api/internal/testutil"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := New(db, testutil.Logger())

	owner := testutil.CreateUser(t, db, "owner")
	member := testutil.CreateUser(t, db, "member")

	team := &teamModel.Team{Name: "Platform"}
	require.NoError(t, repo.Create(ctx, team))
	require.NotEmpty(t, team.ID)

	require.NoError(t, repo.AddMember(ctx, &teamModel.Member{
		TeamID: team.ID, UserID: owner.ID, Role: access.RoleOwner, JoinedAt: time.Now(),
	}))
	require.NoError(t, repo.AddMember(ctx, &teamModel.Member{
		TeamID: team.ID, UserID: member.ID, Role: access.RoleContributor, JoinedAt: time.Now().Add(time.Second),
	}))

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, "Platform", got.Name)
		assert.Equal(t, int64(1), got.Version)

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, teamModel.ErrTeamNotFound)
	})

	t.Run("GetMembers", func(t *testing.T) {
		members, err := repo.GetMembers(ctx, team.ID)
		require.NoError(t, err)
		assert.Len(t, members, 2)
		assert.True(t, access.IsOwner(members, owner.ID))
	})

	t.Run("ListMemberViews joins profiles", func(t *testing.T) {
		views, err := repo.ListMemberViews(ctx, team.ID)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, owner.ID, views[0].UserID)
		assert.Equal(t, "owner@example.com", views[0].Email)
		assert.Equal(t, "member", views[1].Name)
	})

	t.Run("duplicate membership", func(t *testing.T) {
		err := repo.AddMember(ctx, &teamModel.Member{
			TeamID: team.ID, UserID: member.ID, Role: access.RoleContributor, JoinedAt: time.Now(),
		})
		assert.ErrorIs(t, err, teamModel.ErrAlreadyMember)
	})

	t.Run("UpdateRole", func(t *testing.T) {
		require.NoError(t, repo.UpdateRole(ctx, team.ID, member.ID, access.RoleManager))
		members, err := repo.GetMembers(ctx, team.ID)
		require.NoError(t, err)
		role, _ := access.RoleOf(members, member.ID)
		assert.Equal(t, access.RoleManager, role)

		assert.ErrorIs(t, repo.UpdateRole(ctx, team.ID, "ghost", access.RoleManager), teamModel.ErrMemberNotFound)
	})

	t.Run("BumpVersion compare and swap", func(t *testing.T) {
		require.NoError(t, repo.BumpVersion(ctx, team.ID, 1))
		assert.ErrorIs(t, repo.BumpVersion(ctx, team.ID, 1), teamModel.ErrVersionConflict)

		got, err := repo.GetByID(ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("ListJoined", func(t *testing.T) {
		teams, err := repo.ListJoined(ctx, member.ID)
		require.NoError(t, err)
		require.Len(t, teams, 1)
		assert.Equal(t, team.ID, teams[0].ID)
		assert.Equal(t, int64(2), teams[0].MemberCount)
	})

	t.Run("ListProjectRefs empty", func(t *testing.T) {
		refs, err := repo.ListProjectRefs(ctx, team.ID)
		require.NoError(t, err)
		assert.Empty(t, refs)
	})

	t.Run("RemoveMember", func(t *testing.T) {
		require.NoError(t, repo.RemoveMember(ctx, team.ID, member.ID))
		assert.ErrorIs(t, repo.RemoveMember(ctx, team.ID, member.ID), teamModel.ErrMemberNotFound)

		teams, err := repo.ListJoined(ctx, member.ID)
		require.NoError(t, err)
		assert.Empty(t, teams)
	})
}
