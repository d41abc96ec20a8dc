package handlers

import (
	"log"
	"net/http"

	"plantgeek/backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetSimilarPlants finds up to 6 other plants sharing a name token with
// the source plant. Matches come back in store iteration order; there is
// no ranking by match count.
func (h *PlantHandler) GetSimilarPlants(c *gin.Context) {
	plantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Invalid plant ID"})
		return
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	var plant models.Plant
	if err := h.plants.FindOne(ctx, bson.M{"_id": plantID}).Decode(&plant); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "Plant not found"})
			return
		}
		log.Printf("[PlantHandler] similar lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to fetch plant"})
		return
	}

	filter := BuildSimilarFilter(plantID, plant.PrimaryName, plant.SecondaryName)

	cursor, err := h.plants.Find(ctx, filter, options.Find().SetLimit(6))
	if err != nil {
		log.Printf("[PlantHandler] similar search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to fetch similar plants"})
		return
	}
	defer cursor.Close(ctx)

	var similarPlants []models.Plant
	if err := cursor.All(ctx, &similarPlants); err != nil {
		log.Printf("[PlantHandler] decode failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to decode plants"})
		return
	}
	if similarPlants == nil {
		similarPlants = make([]models.Plant, 0)
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "similarPlants": similarPlants})
}

// GetUserPlants fetches plants by an explicit id list, used to render a
// user's collection, favorites and wishlist. Ids that no longer resolve
// are simply absent from the result; deletes do not cascade into lists.
func (h *PlantHandler) GetUserPlants(c *gin.Context) {
	ids := c.QueryArray("ids")
	if len(ids) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "No plants in list"})
		return
	}

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Invalid plant ID: " + id})
			return
		}
		objectIDs = append(objectIDs, oid)
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	cursor, err := h.plants.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		log.Printf("[PlantHandler] user plants failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to fetch plants"})
		return
	}
	defer cursor.Close(ctx)

	var plants []models.Plant
	if err := cursor.All(ctx, &plants); err != nil {
		log.Printf("[PlantHandler] decode failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to decode plants"})
		return
	}
	if plants == nil {
		plants = make([]models.Plant, 0)
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "plants": plants})
}

// GetContributions lists the plants a user has contributed.
func (h *PlantHandler) GetContributions(c *gin.Context) {
	userID := c.Param("userId")

	ctx, cancel := storeCtx(c)
	defer cancel()

	cursor, err := h.plants.Find(ctx, bson.M{"contributorId": userID})
	if err != nil {
		log.Printf("[PlantHandler] contributions failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to fetch contributions"})
		return
	}
	defer cursor.Close(ctx)

	var contributions []models.Plant
	if err := cursor.All(ctx, &contributions); err != nil {
		log.Printf("[PlantHandler] decode failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to decode plants"})
		return
	}
	if len(contributions) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "No contributions found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "contributions": contributions})
}

// GetPlantsToReview lists the pending moderation queue for admins.
func (h *PlantHandler) GetPlantsToReview(c *gin.Context) {
	ctx, cancel := storeCtx(c)
	defer cancel()

	cursor, err := h.plants.Find(ctx, bson.M{"review": models.ReviewPending})
	if err != nil {
		log.Printf("[PlantHandler] review queue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to fetch plants"})
		return
	}
	defer cursor.Close(ctx)

	var plants []models.Plant
	if err := cursor.All(ctx, &plants); err != nil {
		log.Printf("[PlantHandler] decode failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to decode plants"})
		return
	}
	if plants == nil {
		plants = make([]models.Plant, 0)
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "plants": plants})
}

// GetSearchTerms returns the unique words across all plant names, sorted
// alphabetically, for the search box autocomplete.
func (h *PlantHandler) GetSearchTerms(c *gin.Context) {
	ctx, cancel := storeCtx(c)
	defer cancel()

	cursor, err := h.plants.Find(ctx, bson.M{})
	if err != nil {
		log.Printf("[PlantHandler] search terms failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to fetch plants"})
		return
	}
	defer cursor.Close(ctx)

	var plants []models.Plant
	if err := cursor.All(ctx, &plants); err != nil {
		log.Printf("[PlantHandler] decode failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to decode plants"})
		return
	}

	seen := map[string]bool{}
	var words []string
	for _, plant := range plants {
		for _, word := range nameTokens(plant.PrimaryName, plant.SecondaryName) {
			if !seen[word] {
				seen[word] = true
				words = append(words, word)
			}
		}
	}
	sortSearchTerms(words)
	if words == nil {
		words = make([]string, 0)
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": words, "totalResults": len(words)})
}
