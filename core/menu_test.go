package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knownUUID = "0b9f4a2e-6a55-4c39-9a8e-3f3e7f0f1d2c"

func TestNormalizeIncomingMenu(t *testing.T) {
	in := []MenuCategory{
		{
			ID:   "temp-cat-1700000000",
			Name: "Noodles",
			Items: []MenuItem{
				{ID: "temp-1700000001", Name: "Laksa"},
				{ID: knownUUID, Name: "Char Kway Teow"},
				{ID: "item-3", Name: "Mee Goreng"},
				{ID: "{" + knownUUID + "}", Name: "Braced"},
			},
		},
		{
			ID:    "cat-rice",
			Name:  "Rice",
			Items: []MenuItem{{ID: "", Name: "Nasi Lemak"}},
		},
	}

	out := NormalizeIncomingMenu(in)
	require.Len(t, out, 2)

	assert.True(t, IsCanonicalUUID(out[0].ID), "placeholder category replaced")
	assert.Equal(t, "cat-rice", out[1].ID, "non-placeholder category kept even if not a UUID")

	items := out[0].Items
	require.Len(t, items, 4)
	assert.True(t, IsCanonicalUUID(items[0].ID))
	assert.Equal(t, knownUUID, items[1].ID, "valid client UUID trusted")
	assert.True(t, IsCanonicalUUID(items[2].ID))
	assert.NotEqual(t, "{"+knownUUID+"}", items[3].ID, "non-canonical form replaced")
	assert.True(t, IsCanonicalUUID(out[1].Items[0].ID))

	// names and order preserved
	assert.Equal(t, []string{"Laksa", "Char Kway Teow", "Mee Goreng", "Braced"},
		[]string{items[0].Name, items[1].Name, items[2].Name, items[3].Name})

	// input untouched
	assert.Equal(t, "temp-cat-1700000000", in[0].ID)
	assert.Equal(t, "temp-1700000001", in[0].Items[0].ID)
}

func TestNormalizeIncomingMenu_Idempotent(t *testing.T) {
	in := []MenuCategory{
		{ID: "temp-cat-a", Items: []MenuItem{{ID: "temp-b"}, {ID: "x"}}},
		{ID: "keep", Items: nil},
	}
	once := NormalizeIncomingMenu(in)
	twice := NormalizeIncomingMenu(once)
	assert.Equal(t, once, twice)
}

func TestNormalizeIncomingMenu_Nil(t *testing.T) {
	assert.Nil(t, NormalizeIncomingMenu(nil))
	assert.Empty(t, NormalizeIncomingMenu([]MenuCategory{}))
}

func TestIsCanonicalUUID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{knownUUID, true},
		{NewID(), true},
		{"urn:uuid:" + knownUUID, false},
		{"0b9f4a2e6a554c399a8e3f3e7f0f1d2c", false},
		{"not-a-uuid-not-a-uuid-not-a-uuid-xx", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCanonicalUUID(tt.id), tt.id)
	}
}
