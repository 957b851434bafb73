package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hanibalsk/property-management-sub005/internal/core/id"
)

type testTenantEntity struct {
	ID             id.ID     `db:"id"`
	OrganizationID id.ID     `db:"organization_id"`
	CreatedAt      time.Time `db:"created_at"`
}

type testBuildingRow struct {
	testTenantEntity
	Name     string `db:"name"`
	City     string `db:"city"`
	Internal string `db:"-"`
	NoTag    string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[testBuildingRow]()

	assert.Equal(t, []string{"id", "organization_id", "created_at", "name", "city"}, cols)
}

func TestStructToMap(t *testing.T) {
	rowID := id.New()
	orgID := id.New()
	now := time.Now().UTC()

	row := testBuildingRow{
		testTenantEntity: testTenantEntity{
			ID:             rowID,
			OrganizationID: orgID,
			CreatedAt:      now,
		},
		Name:     "Riverside",
		City:     "Bratislava",
		Internal: "skipped",
		NoTag:    "skipped",
	}

	m := StructToMap(row)

	assert.Equal(t, rowID, m["id"])
	assert.Equal(t, orgID, m["organization_id"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "Riverside", m["name"])
	assert.Equal(t, "Bratislava", m["city"])
	assert.NotContains(t, m, "-")
	assert.Len(t, m, 5)
}

func TestStructToMapPointer(t *testing.T) {
	row := &testBuildingRow{Name: "Hillside"}

	m := StructToMap(row)

	assert.Equal(t, "Hillside", m["name"])
}

func TestStructToMapNonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}
