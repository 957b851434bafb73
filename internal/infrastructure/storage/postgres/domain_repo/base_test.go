package domain_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
)

type testRow struct {
	ID             id.ID     `db:"id"`
	OrganizationID id.ID     `db:"organization_id"`
	Name           string    `db:"name"`
	CreatedAt      time.Time `db:"created_at"`
}

func newTestRepo() *BaseRepo[*testRow] {
	return NewBaseRepo("test_rows", []string{"name"}, func() *testRow { return &testRow{} })
}

func TestNewBaseRepoSelectCols(t *testing.T) {
	repo := newTestRepo()

	assert.Equal(t, []string{"id", "organization_id", "name", "created_at"}, repo.selectCols)
	assert.Contains(t, repo.selectCols, "organization_id")
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{"default", "", "created_at DESC", false},
		{"ascending", "name", "name ASC", false},
		{"descending", "-name", "name DESC", false},
		{"tenant column allowed", "organization_id", "organization_id ASC", false},
		{"unknown column", "password_hash", "", true},
		{"injection attempt", "name; DROP TABLE test_rows", "", true},
		{"case sensitive", "Name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilderUsesDollarPlaceholders(t *testing.T) {
	repo := newTestRepo()

	sql, args, err := repo.Builder().
		Select("id").
		From("test_rows").
		Where("name = ?", "Riverside").
		ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM test_rows WHERE name = $1", sql)
	assert.Equal(t, []any{"Riverside"}, args)
}
