package handlers

import (
	"testing"

	"plantgeek/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func searchPatterns(t *testing.T, filter bson.M) bson.A {
	t.Helper()
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok, "filter should carry an $or clause")
	require.Len(t, or, 2)

	primary, ok := or[0].(bson.M)
	require.True(t, ok)
	in, ok := primary["primaryName"].(bson.M)
	require.True(t, ok)
	patterns, ok := in["$in"].(bson.A)
	require.True(t, ok)
	return patterns
}

func TestBuildPlantFilter_SearchCleansTerms(t *testing.T) {
	filter := BuildPlantFilter(PlantQuery{Search: []string{"Mon$$$ster@a"}})

	patterns := searchPatterns(t, filter)
	require.Len(t, patterns, 1)

	regex, ok := patterns[0].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "Monstera", regex.Pattern)
	assert.Equal(t, "i", regex.Options)
}

func TestBuildPlantFilter_SearchMatchesBothNameFields(t *testing.T) {
	filter := BuildPlantFilter(PlantQuery{Search: []string{"pothos", "monstera"}})

	or := filter["$or"].(bson.A)
	require.Len(t, or, 2)
	_, hasPrimary := or[0].(bson.M)["primaryName"]
	_, hasSecondary := or[1].(bson.M)["secondaryName"]
	assert.True(t, hasPrimary)
	assert.True(t, hasSecondary)

	patterns := searchPatterns(t, filter)
	assert.Len(t, patterns, 2)
}

func TestBuildPlantFilter_AllSymbolSearchMatchesNothing(t *testing.T) {
	// Terms that clean to empty keep the clause with zero patterns, so
	// garbage input matches no plants instead of every plant.
	filter := BuildPlantFilter(PlantQuery{Search: []string{"$$$", "@@@"}})

	patterns := searchPatterns(t, filter)
	assert.Len(t, patterns, 0)
}

func TestBuildPlantFilter_NoSearchOmitsOrClause(t *testing.T) {
	filter := BuildPlantFilter(PlantQuery{})
	_, ok := filter["$or"]
	assert.False(t, ok)
}

func TestBuildPlantFilter_ToxicCoercion(t *testing.T) {
	filter := BuildPlantFilter(PlantQuery{Toxic: "true"})
	assert.Equal(t, true, filter["toxic"])

	filter = BuildPlantFilter(PlantQuery{Toxic: "false"})
	assert.Equal(t, false, filter["toxic"])

	filter = BuildPlantFilter(PlantQuery{Toxic: "maybe"})
	_, ok := filter["toxic"]
	assert.False(t, ok)
}

func TestBuildPlantFilter_ReviewVisibilityDefault(t *testing.T) {
	filter := BuildPlantFilter(PlantQuery{})

	review, ok := filter["review"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.A{"pending", "rejected"}, review["$nin"])
}

func TestBuildPlantFilter_ExplicitReview(t *testing.T) {
	filter := BuildPlantFilter(PlantQuery{Review: "pending"})
	assert.Equal(t, "pending", filter["review"])
}

func TestBuildPlantSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "primaryName", Value: 1}}, BuildPlantSort("name-asc"))
	assert.Equal(t, bson.D{{Key: "primaryName", Value: -1}}, BuildPlantSort("name-desc"))
	assert.Nil(t, BuildPlantSort(""))
	assert.Nil(t, BuildPlantSort("oldest"))
}

func TestPageSkip(t *testing.T) {
	assert.Equal(t, int64(0), pageSkip(1))
	assert.Equal(t, int64(24), pageSkip(2))
	assert.Equal(t, int64(48), pageSkip(3))
}

func TestNextCursor(t *testing.T) {
	cursor := nextCursor(25, 1)
	require.NotNil(t, cursor)
	assert.Equal(t, 2, *cursor)

	assert.Nil(t, nextCursor(24, 1))
	assert.Nil(t, nextCursor(0, 1))

	cursor = nextCursor(49, 2)
	require.NotNil(t, cursor)
	assert.Equal(t, 3, *cursor)

	assert.Nil(t, nextCursor(48, 2))
}

func TestCleanTerm(t *testing.T) {
	assert.Equal(t, "Monstera", cleanTerm("Mon$$$ster@a"))
	assert.Equal(t, "swiss cheese plant", cleanTerm("swiss cheese plant!!1"))
	assert.Equal(t, "", cleanTerm("123$%^"))
}

func TestBuildSimilarFilter_ExcludesSourcePlant(t *testing.T) {
	// "Pothos" is a token of the source plant's own name, so without the
	// $ne clause the plant would match its own similar query.
	plantID := primitive.NewObjectID()
	filter := BuildSimilarFilter(plantID, "Pothos", "Epipremnum aureum")

	exclusion, ok := filter["_id"].(bson.M)
	require.True(t, ok, "filter should constrain _id")
	assert.Equal(t, bson.M{"$ne": plantID}, exclusion)
}

func TestBuildSimilarFilter_TokensOnBothNameFields(t *testing.T) {
	filter := BuildSimilarFilter(primitive.NewObjectID(), "Monstera Deliciosa!", "Swiss Cheese Plant")

	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	for i, field := range []string{"primaryName", "secondaryName"} {
		clause, ok := or[i].(bson.M)[field].(bson.M)
		require.True(t, ok, "clause %d should match %s", i, field)
		patterns, ok := clause["$in"].(bson.A)
		require.True(t, ok)
		require.Len(t, patterns, 5)

		regex := patterns[1].(primitive.Regex)
		assert.Equal(t, "Deliciosa", regex.Pattern)
		assert.Equal(t, "i", regex.Options)
	}
}

func TestBuildCommentPush_AppendsToCommentList(t *testing.T) {
	comment := models.Comment{ID: "c1", Username: "jane", Comment: "nice!"}
	update := BuildCommentPush(comment)

	push, ok := update["$push"].(bson.M)
	require.True(t, ok, "update should be a $push, which appends at the end")
	assert.Equal(t, comment, push["comments"])
}

func TestSortSearchTerms_LocaleAware(t *testing.T) {
	// Codepoint order would put "Banana" before "apple".
	terms := []string{"Monstera", "Banana", "apple"}
	sortSearchTerms(terms)
	assert.Equal(t, []string{"apple", "Banana", "Monstera"}, terms)
}

func TestNameTokens(t *testing.T) {
	tokens := nameTokens("Pothos", "Epipremnum aureum")
	assert.Equal(t, []string{"Pothos", "Epipremnum", "aureum"}, tokens)
}

func TestNameTokens_DropsEmptyTokens(t *testing.T) {
	tokens := nameTokens("Monstera  Deliciosa!", "123 ***")
	assert.Equal(t, []string{"Monstera", "Deliciosa"}, tokens)
}
