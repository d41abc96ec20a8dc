package handlers

import (
	"log"
	"net/http"
	"time"

	"plantgeek/backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler serves user accounts and their plant lists.
type UserHandler struct {
	users *mongo.Collection
}

func NewUserHandler(db *mongo.Database) *UserHandler {
	return &UserHandler{users: db.Collection("users")}
}

// SignupPayload defines the expected JSON for a new account.
type SignupPayload struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// CreateUser registers a new account with empty lists. The username check
// is a lookup, not an index; usernames are unique by convention.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var payload SignupPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Invalid payload: " + err.Error()})
		return
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	err := h.users.FindOne(ctx, bson.M{"username": payload.Username}).Err()
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"status": http.StatusConflict, "message": "Username already taken"})
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("[UserHandler] username lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to create user"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[UserHandler] hash failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to create user"})
		return
	}

	user := models.User{
		ID:         primitive.NewObjectID(),
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
		Email:      payload.Email,
		Username:   payload.Username,
		Password:   string(hashed),
		Role:       models.RoleUser,
		Collection: []string{},
		Favorites:  []string{},
		Wishlist:   []string{},
		Joined:     time.Now(),
	}

	if _, err := h.users.InsertOne(ctx, user); err != nil {
		log.Printf("[UserHandler] insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "user": user})
}

// GetUsers lists all accounts.
func (h *UserHandler) GetUsers(c *gin.Context) {
	ctx, cancel := storeCtx(c)
	defer cancel()

	cursor, err := h.users.Find(ctx, bson.M{})
	if err != nil {
		log.Printf("[UserHandler] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to fetch users"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		log.Printf("[UserHandler] decode failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to decode users"})
		return
	}
	if users == nil {
		users = make([]models.User, 0)
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "users": users})
}

// GetUser fetches a single account by id.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Invalid user ID"})
		return
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	var user models.User
	if err := h.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "User not found"})
			return
		}
		log.Printf("[UserHandler] get failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "user": user})
}

// UpdateUserPayload is the allow-list of mutable profile fields.
type UpdateUserPayload struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Username  *string `json:"username"`
	ImageURL  *string `json:"imageUrl"`
}

// UpdateUser patches profile fields.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Invalid user ID"})
		return
	}

	var payload UpdateUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Invalid payload: " + err.Error()})
		return
	}

	set := bson.M{}
	if payload.FirstName != nil {
		set["firstName"] = *payload.FirstName
	}
	if payload.LastName != nil {
		set["lastName"] = *payload.LastName
	}
	if payload.Email != nil {
		set["email"] = *payload.Email
	}
	if payload.Username != nil {
		set["username"] = *payload.Username
	}
	if payload.ImageURL != nil {
		set["imageUrl"] = *payload.ImageURL
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "No updatable fields in payload"})
		return
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	result, err := h.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		log.Printf("[UserHandler] update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to update user"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        http.StatusOK,
		"matchedCount":  result.MatchedCount,
		"modifiedCount": result.ModifiedCount,
	})
}

// ListPayload names exactly one of the user's three lists and the plant id
// to toggle, mirroring the body the frontend sends:
// {"wishlist": "<plantId>"}.
type ListPayload struct {
	Collection string `json:"collection"`
	Favorites  string `json:"favorites"`
	Wishlist   string `json:"wishlist"`
}

// target returns the named list and plant id, or ok=false unless exactly
// one list was given.
func (p ListPayload) target() (list, plantID string, ok bool) {
	given := 0
	if p.Collection != "" {
		given, list, plantID = given+1, "collection", p.Collection
	}
	if p.Favorites != "" {
		given, list, plantID = given+1, "favorites", p.Favorites
	}
	if p.Wishlist != "" {
		given, list, plantID = given+1, "wishlist", p.Wishlist
	}
	return list, plantID, given == 1
}

// AddToList adds a plant id to one of the user's lists. $addToSet keeps
// set semantics, so repeating the request is a no-op.
func (h *UserHandler) AddToList(c *gin.Context) {
	h.toggleList(c, "$addToSet")
}

// RemoveFromList removes a plant id from one of the user's lists.
func (h *UserHandler) RemoveFromList(c *gin.Context) {
	h.toggleList(c, "$pull")
}

func (h *UserHandler) toggleList(c *gin.Context, op string) {
	username := c.Param("username")

	var payload ListPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Invalid payload: " + err.Error()})
		return
	}
	list, plantID, ok := payload.target()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Payload must name exactly one list"})
		return
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	result, err := h.users.UpdateOne(ctx, bson.M{"username": username}, bson.M{op: bson.M{list: plantID}})
	if err != nil {
		log.Printf("[UserHandler] list %s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to update list"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        http.StatusOK,
		"matchedCount":  result.MatchedCount,
		"modifiedCount": result.ModifiedCount,
	})
}

// DeleteUser removes an account. Plants the user contributed keep their
// contributorId as a dangling weak reference.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": "Invalid user ID"})
		return
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	result, err := h.users.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		log.Printf("[UserHandler] delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "message": "Failed to delete user"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "deletedCount": result.DeletedCount})
}
