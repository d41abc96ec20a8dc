package main

import (
	"context"
	"log"
	"os"
	"time"

	"plantgeek/backend/internal/database"
	"plantgeek/backend/internal/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI environment variable not set")
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "plantgeekdb"
	}

	client, err := database.Connect(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()
	log.Println("Successfully connected to MongoDB!")

	db := client.Database(dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		cancel()
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	plantHandler := handlers.NewPlantHandler(db)
	userHandler := handlers.NewUserHandler(db)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"OPTIONS", "HEAD", "GET", "PUT", "POST", "DELETE", "PATCH"},
		AllowHeaders:    []string{"Origin", "X-Requested-With", "Content-Type", "Accept"},
	}))

	router.GET("/health", handlers.HealthCheck)

	// PLANT ROUTES
	router.POST("/plants", plantHandler.CreatePlant)
	router.GET("/plants/:page", plantHandler.GetPlants)
	router.GET("/plant/:id", plantHandler.GetPlant)
	router.GET("/random-plants", plantHandler.GetRandomPlants)
	router.GET("/similar-plants/:id", plantHandler.GetSimilarPlants)
	router.GET("/user-plants", plantHandler.GetUserPlants)
	router.GET("/contributions/:userId", plantHandler.GetContributions)
	router.GET("/plants-to-review", plantHandler.GetPlantsToReview)
	router.GET("/search-terms", plantHandler.GetSearchTerms)
	router.PUT("/plants/:id", plantHandler.UpdatePlant)
	router.PUT("/plants/:id/comments", plantHandler.AddComment)
	router.DELETE("/plants/:id", plantHandler.DeletePlant)

	// USER ROUTES
	router.POST("/users", userHandler.CreateUser)
	router.GET("/users", userHandler.GetUsers)
	router.GET("/users/:id", userHandler.GetUser)
	router.PUT("/users/:id", userHandler.UpdateUser)
	router.PUT("/:username/add", userHandler.AddToList)
	router.PUT("/:username/remove", userHandler.RemoveFromList)
	router.DELETE("/users/:id", userHandler.DeleteUser)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
