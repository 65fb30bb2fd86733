package recipe

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sheetFixture = "\ufeffFood,Picture,Tag,Ingredients,Preparation,Notes\n" +
	"Gulyás,https://img.example/gulyas.jpg,Soup,\"LEVES\n1 kg beef\n\n2 onions\",\"Brown the onions.\nAdd beef.\",family\n" +
	"\n" +
	"Palacsinta,,Dessert,\"2 eggs\nflour\",Fry thin.\n" +
	"Lecsó,,Soup\n" +
	",,,,\n"

func TestDecodeReadsHeaderKeyedRows(t *testing.T) {
	t.Parallel()

	got, err := Decode(strings.NewReader(sheetFixture))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, Recipe{
		Name:        "Gulyás",
		ImageRef:    "https://img.example/gulyas.jpg",
		Tag:         "Soup",
		Ingredients: "LEVES\n1 kg beef\n\n2 onions",
		Preparation: "Brown the onions.\nAdd beef.",
	}, got[0])
	assert.Equal(t, "Palacsinta", got[1].Name)
	assert.Empty(t, got[1].ImageRef)

	// Short rows keep whatever columns they do have.
	assert.Equal(t, Recipe{Name: "Lecsó", Tag: "Soup"}, got[2])
}

func TestDecodeEmptyBody(t *testing.T) {
	t.Parallel()

	got, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Decode(strings.NewReader("Food,Tag\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeMissingNameColumn(t *testing.T) {
	t.Parallel()

	got, err := Decode(strings.NewReader("Tag,Ingredients\nSoup,water\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].Name)
	assert.Equal(t, "Soup", got[0].Tag)
}

func TestDecodeSurfacesReadErrors(t *testing.T) {
	t.Parallel()

	_, err := Decode(iotest.ErrReader(errors.New("connection reset")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestCollectionTagsFirstSeenOrder(t *testing.T) {
	t.Parallel()

	c := Collection{
		{Name: "a", Tag: "Soup"},
		{Name: "b"},
		{Name: "c", Tag: "Dessert"},
		{Name: "d", Tag: "Soup"},
		{Name: "e", Tag: "soup"},
	}
	assert.Equal(t, []string{"Soup", "Dessert", "soup"}, c.Tags())
	assert.True(t, c.HasTag("Dessert"))
	assert.False(t, c.HasTag(""))
	assert.False(t, c.HasTag("Main"))
	assert.Empty(t, Collection{}.Tags())
}

func TestCollectionFind(t *testing.T) {
	t.Parallel()

	c := Collection{{Name: "Gulyás"}, {Name: " Lecsó "}}
	got, ok := c.Find("lecsó")
	require.True(t, ok)
	assert.Equal(t, " Lecsó ", got.Name)

	_, ok = c.Find("pörkölt")
	assert.False(t, ok)
}
