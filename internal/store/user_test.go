package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"project-hub/internal/database"
	"project-hub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func userValues(u model.User) []any {
	return []any{u.ID, u.Name, u.Email, u.PasswordHash, u.Course, u.School, u.Department, u.Bio, u.AvatarPath, u.Role, u.CreatedAt}
}

func TestUserStore(t *testing.T) {
	now := time.Now().UTC()
	avatar := "default/profiles/a.png"
	sample := model.User{
		ID:           7,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash123",
		Course:       "CS",
		School:       model.ProfileDefault,
		Department:   model.ProfileDefault,
		AvatarPath:   &avatar,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
	}

	t.Run("GetUserByID success", func(t *testing.T) {
		var gotArgs []any
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				gotArgs = args
				return &fakeRow{values: userValues(sample)}
			},
		}
		u, err := GetUserByID(context.Background(), db, 7)
		require.NoError(t, err)
		require.Equal(t, []any{7}, gotArgs)
		require.Equal(t, sample.Email, u.Email)
		require.Equal(t, avatar, *u.AvatarPath)
		require.Nil(t, u.Bio)
		require.Equal(t, model.RoleAdmin, u.Role)
	})

	t.Run("GetUserByID not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := GetUserByID(context.Background(), db, 1)
		require.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("GetUserByEmail", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
				require.Contains(t, sql, "WHERE email = $1")
				require.Equal(t, "alice@example.com", args[0])
				return &fakeRow{values: userValues(sample)}
			},
		}
		u, err := GetUserByEmail(context.Background(), db, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, 7, u.ID)

		db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
			return &fakeRow{scanErr: errors.New("boom")}
		}
		_, err = GetUserByEmail(context.Background(), db, "x")
		require.Error(t, err)
	})

	t.Run("ListUsersByIDs", func(t *testing.T) {
		list, err := ListUsersByIDs(context.Background(), &database.FakeDB{}, nil)
		require.NoError(t, err)
		require.Empty(t, list)

		other := sample
		other.ID = 8
		rows := &fakeRows{data: [][]any{userValues(sample), userValues(other)}}
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
				require.Equal(t, []int{7, 8}, args[0])
				return rows, nil
			},
		}
		list, err = ListUsersByIDs(context.Background(), db, []int{7, 8})
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.True(t, rows.closed)

		db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) { return nil, errors.New("q") }
		_, err = ListUsersByIDs(context.Background(), db, []int{1})
		require.Error(t, err)

		db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
			return &fakeRows{data: [][]any{userValues(sample)}, scanErr: errors.New("scan")}, nil
		}
		_, err = ListUsersByIDs(context.Background(), db, []int{1})
		require.Error(t, err)

		db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
			return &fakeRows{err: errors.New("rows")}, nil
		}
		_, err = ListUsersByIDs(context.Background(), db, []int{1})
		require.Error(t, err)
	})

	t.Run("CreateUser", func(t *testing.T) {
		var gotArgs []any
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				gotArgs = args
				return &fakeRow{values: []any{11, now}}
			},
		}
		in := sample
		in.ID = 0
		u, err := CreateUser(context.Background(), db, &in)
		require.NoError(t, err)
		require.Equal(t, 11, u.ID)
		require.Equal(t, now, u.CreatedAt)
		require.Len(t, gotArgs, 9)
		require.Equal(t, "hash123", gotArgs[2])

		db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
			return &fakeRow{scanErr: errors.New("dup")}
		}
		_, err = CreateUser(context.Background(), db, &in)
		require.Error(t, err)
	})
}
