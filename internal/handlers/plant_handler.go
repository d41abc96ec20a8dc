package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"plantgeek/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlantHandler serves everything under the plants collection. The
// collection comes from the shared pooled client built at startup.
type PlantHandler struct {
	plants *mongo.Collection
}

func NewPlantHandler(db *mongo.Database) *PlantHandler {
	return &PlantHandler{plants: db.Collection("plants")}
}

// storeCtx bounds a store call by the request context plus a timeout, so a
// hung query cannot hold the handler forever.
func storeCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 10*time.Second)
}

var enCollation = &options.Collation{Locale: "en"}

// CreatePlantPayload defines the expected JSON for a new plant.
type CreatePlantPayload struct {
	PrimaryName   string `json:"primaryName" binding:"required"`
	SecondaryName string `json:"secondaryName" binding:"required"`
	Light         string `json:"light"`
	Water         string `json:"water"`
	Temperature   string `json:"temperature"`
	Humidity      string `json:"humidity"`
	Toxic         *bool  `json:"toxic"`
	ImageURL      string `json:"imageUrl"`
	Review        string `json:"review"`
	ContributorID string `json:"contributorId"`
}

func (p CreatePlantPayload) validate() error {
	fields := map[string]string{
		"light":       p.Light,
		"water":       p.Water,
		"temperature": p.Temperature,
		"humidity":    p.Humidity,
		"review":      p.Review,
	}
	for field, value := range fields {
		if err := models.ValidateCareLevel(field, value); err != nil {
			return err
		}
	}
	return nil
}

// CreatePlant inserts a new plant. Uniqueness of primaryName is enforced
// by the case-insensitive unique index, so a concurrent create with the
// same name surfaces as a duplicate-key error rather than racing past an
// application-level existence check.
func (h *PlantHandler) CreatePlant(c *gin.Context) {
	var payload CreatePlantPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Invalid payload: " + err.Error()})
		return
	}
	if err := payload.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": err.Error()})
		return
	}

	plant := models.Plant{
		ID:            primitive.NewObjectID(),
		PrimaryName:   payload.PrimaryName,
		SecondaryName: payload.SecondaryName,
		Light:         payload.Light,
		Water:         payload.Water,
		Temperature:   payload.Temperature,
		Humidity:      payload.Humidity,
		Toxic:         payload.Toxic,
		ImageURL:      payload.ImageURL,
		Review:        payload.Review,
		ContributorID: payload.ContributorID,
		CreatedAt:     time.Now(),
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if _, err := h.plants.InsertOne(ctx, plant); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"status": http.StatusConflict, "message": "Plant already exists"})
			return
		}
		log.Printf("[PlantHandler] insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to save plant"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "plant": plant})
}

// GetPlants lists plants filtered, sorted and paginated, 24 per page.
func (h *PlantHandler) GetPlants(c *gin.Context) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		page = 1
	}

	query := PlantQuery{
		Search: c.QueryArray("search"),
		Toxic:  c.Query("toxic"),
		Review: c.Query("review"),
		Sort:   c.Query("sort"),
	}
	filter := BuildPlantFilter(query)

	findOpts := options.Find().
		SetCollation(enCollation).
		SetSkip(pageSkip(page)).
		SetLimit(resultsPerPage)
	if sort := BuildPlantSort(query.Sort); sort != nil {
		findOpts.SetSort(sort)
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	cursor, err := h.plants.Find(ctx, filter, findOpts)
	if err != nil {
		log.Printf("[PlantHandler] list failed: %v", err)
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

	// Same filter, separate query; no snapshot isolation between the two.
	totalResults, err := h.plants.CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("[PlantHandler] count failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to count plants"})
		return
	}

	if len(plants) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "No plants found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plants":       plants,
		"page":         page,
		"totalResults": totalResults,
		"nextCursor":   nextCursor(totalResults, page),
	})
}

// GetPlant fetches a single plant by id.
func (h *PlantHandler) GetPlant(c *gin.Context) {
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
		log.Printf("[PlantHandler] get failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to fetch plant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "plant": plant})
}

// GetRandomPlants samples 12 plants for the featured section.
func (h *PlantHandler) GetRandomPlants(c *gin.Context) {
	ctx, cancel := storeCtx(c)
	defer cancel()

	cursor, err := h.plants.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$sample", Value: bson.M{"size": 12}}},
	})
	if err != nil {
		log.Printf("[PlantHandler] sample failed: %v", err)
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

	if len(plants) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "No plants found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "plants": plants})
}

// UpdatePlantPayload is the allow-list of mutable plant fields. Only
// fields present in the body are written; unknown fields are ignored by
// decoding and invalid enum values are rejected.
type UpdatePlantPayload struct {
	PrimaryName   *string `json:"primaryName"`
	SecondaryName *string `json:"secondaryName"`
	Light         *string `json:"light"`
	Water         *string `json:"water"`
	Temperature   *string `json:"temperature"`
	Humidity      *string `json:"humidity"`
	Toxic         *bool   `json:"toxic"`
	ImageURL      *string `json:"imageUrl"`
	Review        *string `json:"review"`
}

func (p UpdatePlantPayload) validate() error {
	fields := map[string]*string{
		"light":       p.Light,
		"water":       p.Water,
		"temperature": p.Temperature,
		"humidity":    p.Humidity,
		"review":      p.Review,
	}
	for field, value := range fields {
		if value == nil {
			continue
		}
		if err := models.ValidateCareLevel(field, *value); err != nil {
			return err
		}
	}
	return nil
}

// setDoc builds the $set document from the fields that were provided.
func (p UpdatePlantPayload) setDoc() bson.M {
	set := bson.M{}
	if p.PrimaryName != nil {
		set["primaryName"] = *p.PrimaryName
	}
	if p.SecondaryName != nil {
		set["secondaryName"] = *p.SecondaryName
	}
	if p.Light != nil {
		set["light"] = *p.Light
	}
	if p.Water != nil {
		set["water"] = *p.Water
	}
	if p.Temperature != nil {
		set["temperature"] = *p.Temperature
	}
	if p.Humidity != nil {
		set["humidity"] = *p.Humidity
	}
	if p.Toxic != nil {
		set["toxic"] = *p.Toxic
	}
	if p.ImageURL != nil {
		set["imageUrl"] = *p.ImageURL
	}
	if p.Review != nil {
		set["review"] = *p.Review
	}
	return set
}

// UpdatePlant patches the provided fields on a plant. Last write wins on
// concurrent updates; there is no version field.
func (h *PlantHandler) UpdatePlant(c *gin.Context) {
	plantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Invalid plant ID"})
		return
	}

	var payload UpdatePlantPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Invalid payload: " + err.Error()})
		return
	}
	if err := payload.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": err.Error()})
		return
	}

	set := payload.setDoc()
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "No updatable fields in payload"})
		return
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	result, err := h.plants.UpdateOne(ctx, bson.M{"_id": plantID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"status": http.StatusConflict, "message": "Plant already exists"})
			return
		}
		log.Printf("[PlantHandler] update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to update plant"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "Plant not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        http.StatusOK,
		"matchedCount":  result.MatchedCount,
		"modifiedCount": result.ModifiedCount,
	})
}

// DeletePlant removes a plant. User lists are not cascaded; readers of
// collection/favorites/wishlist must tolerate ids that no longer resolve.
func (h *PlantHandler) DeletePlant(c *gin.Context) {
	plantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Invalid plant ID"})
		return
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	result, err := h.plants.DeleteOne(ctx, bson.M{"_id": plantID})
	if err != nil {
		log.Printf("[PlantHandler] delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to delete plant"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "Plant not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "deletedCount": result.DeletedCount})
}

// CommentPayload is the comment object posted by the frontend.
type CommentPayload struct {
	Comment  string `json:"comment" binding:"required"`
	Username string `json:"username" binding:"required"`
}

// AddCommentPayload wraps the comment under the "comments" key the
// frontend sends.
type AddCommentPayload struct {
	Comments *CommentPayload `json:"comments"`
}

// AddComment appends a comment to a plant. A body without the comments
// field is rejected up front; forwarding it would mean running an update
// with an empty update document.
func (h *PlantHandler) AddComment(c *gin.Context) {
	plantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Invalid plant ID"})
		return
	}

	var payload AddCommentPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Comments == nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Request body must include comments"})
		return
	}

	comment := models.Comment{
		ID:       uuid.NewString(),
		Username: payload.Comments.Username,
		Comment:  payload.Comments.Comment,
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	result, err := h.plants.UpdateOne(ctx, bson.M{"_id": plantID}, BuildCommentPush(comment))
	if err != nil {
		log.Printf("[PlantHandler] add comment failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to add comment"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "Plant not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        http.StatusOK,
		"matchedCount":  result.MatchedCount,
		"modifiedCount": result.ModifiedCount,
		"comment":       comment,
	})
}
