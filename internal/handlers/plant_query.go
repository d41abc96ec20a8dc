package handlers

import (
	"regexp"
	"strings"

	"plantgeek/backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const resultsPerPage = 24

var nonLetters = regexp.MustCompile(`[^a-zA-Z ]`)

// PlantQuery holds the raw listing parameters as they arrive on the wire.
type PlantQuery struct {
	Search []string
	Toxic  string
	Review string
	Sort   string
}

// cleanTerm strips everything outside [a-zA-Z ] so user input can be
// embedded in a regex without escaping.
func cleanTerm(s string) string {
	return nonLetters.ReplaceAllString(s, "")
}

// BuildPlantFilter translates listing parameters into a Mongo filter.
//
// Search terms match either name field, case-insensitively, OR-ed across
// all terms. A search clause whose terms all clean to empty keeps the $or
// with zero patterns and therefore matches nothing; dropping the clause
// would silently turn garbage input into "list everything".
//
// Without an explicit review value the filter hides pending and rejected
// plants, which is the public-visibility default.
func BuildPlantFilter(q PlantQuery) bson.M {
	filter := bson.M{}

	if len(q.Search) > 0 {
		patterns := bson.A{}
		for _, term := range q.Search {
			cleaned := cleanTerm(term)
			if cleaned == "" {
				continue
			}
			patterns = append(patterns, primitive.Regex{Pattern: cleaned, Options: "i"})
		}
		filter["$or"] = bson.A{
			bson.M{"primaryName": bson.M{"$in": patterns}},
			bson.M{"secondaryName": bson.M{"$in": patterns}},
		}
	}

	if q.Toxic == "true" {
		filter["toxic"] = true
	} else if q.Toxic == "false" {
		filter["toxic"] = false
	}

	if q.Review != "" {
		filter["review"] = q.Review
	} else {
		filter["review"] = bson.M{"$nin": bson.A{models.ReviewPending, models.ReviewRejected}}
	}

	return filter
}

// BuildPlantSort returns the sort document for the listing, or nil for
// natural order. Callers pair it with a locale-en collation so ordering is
// locale-aware rather than by codepoint.
func BuildPlantSort(sort string) bson.D {
	switch sort {
	case "name-asc":
		return bson.D{{Key: "primaryName", Value: 1}}
	case "name-desc":
		return bson.D{{Key: "primaryName", Value: -1}}
	}
	return nil
}

func pageSkip(page int) int64 {
	return int64(resultsPerPage * (page - 1))
}

// nextCursor is page+1 while more results remain past the current page,
// nil (JSON null) otherwise.
func nextCursor(totalResults int64, page int) *int {
	if totalResults > int64(resultsPerPage*page) {
		next := page + 1
		return &next
	}
	return nil
}

// BuildSimilarFilter matches plants sharing a name token with the source
// plant, on either name field, while excluding the source plant itself —
// a plant always matches its own tokens, so without the $ne clause it
// would appear in its own similar list.
func BuildSimilarFilter(plantID primitive.ObjectID, primaryName, secondaryName string) bson.M {
	patterns := bson.A{}
	for _, token := range nameTokens(primaryName, secondaryName) {
		patterns = append(patterns, primitive.Regex{Pattern: token, Options: "i"})
	}
	return bson.M{
		"_id": bson.M{"$ne": plantID},
		"$or": bson.A{
			bson.M{"primaryName": bson.M{"$in": patterns}},
			bson.M{"secondaryName": bson.M{"$in": patterns}},
		},
	}
}

// BuildCommentPush appends the comment to the end of a plant's comment
// sequence; $push preserves insertion order.
func BuildCommentPush(comment models.Comment) bson.M {
	return bson.M{"$push": bson.M{"comments": comment}}
}

// sortSearchTerms orders terms with English collation, matching the
// locale-aware ordering the listing gets from its Mongo collation instead
// of sorting by codepoint.
func sortSearchTerms(terms []string) {
	collate.New(language.English).SortStrings(terms)
}

// nameTokens splits a plant's two name fields into cleaned search tokens
// for the similar-plants lookup. Tokens that clean to empty are dropped.
func nameTokens(primaryName, secondaryName string) []string {
	words := append(strings.Split(primaryName, " "), strings.Split(secondaryName, " ")...)
	var tokens []string
	for _, w := range words {
		cleaned := cleanTerm(w)
		if cleaned == "" {
			continue
		}
		tokens = append(tokens, cleaned)
	}
	return tokens
}
