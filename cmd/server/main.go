package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/wikaquest/backend/internal/auth"
	"github.com/wikaquest/backend/internal/database"
	"github.com/wikaquest/backend/internal/feedback"
	"github.com/wikaquest/backend/internal/middleware"
	"github.com/wikaquest/backend/internal/progression"
	"github.com/wikaquest/backend/internal/quiz"
	"github.com/wikaquest/backend/internal/shop"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize handlers
	authHandler := auth.NewHandler(db)

	quizStore := quiz.NewStore(db)
	quizHandler := quiz.NewHandler(quizStore)

	progressionStore := progression.NewStore(db)
	progressionService := progression.NewService(progressionStore, quizStore)
	progressionHandler := progression.NewHandler(progressionService)

	shopHandler := shop.NewHandler(shop.NewService(shop.NewStore(db)))

	feedbackHandler := feedback.NewHandler(feedback.NewStore(db), feedback.NewClient())

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/leaderboard", progressionHandler.Leaderboard).Methods("GET")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	// Progression
	protected.HandleFunc("/complete-level", progressionHandler.CompleteLevel).Methods("POST")
	protected.HandleFunc("/progress/{lesson}", progressionHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/select-lesson", progressionHandler.SelectLesson).Methods("POST")
	protected.HandleFunc("/reward", progressionHandler.LevelReward).Methods("POST")
	protected.HandleFunc("/boss-reward", progressionHandler.BossReward).Methods("POST")
	protected.HandleFunc("/boss-exp-reward", progressionHandler.BossExpReward).Methods("POST")
	protected.HandleFunc("/gain-exp", progressionHandler.GainExp).Methods("POST")
	protected.HandleFunc("/streak-reward", progressionHandler.StreakReward).Methods("POST")
	protected.HandleFunc("/lives", progressionHandler.GetLives).Methods("GET")
	protected.HandleFunc("/lose-life", progressionHandler.LoseLife).Methods("POST")
	protected.HandleFunc("/dashboard-stats", progressionHandler.Dashboard).Methods("GET")

	// Quiz content
	protected.HandleFunc("/questions/{level}", quizHandler.GetQuestions).Methods("GET")
	protected.HandleFunc("/my-words", quizHandler.GetMyWords).Methods("GET")
	protected.HandleFunc("/words-discovered", quizHandler.WordsDiscovered).Methods("POST")

	// Shop
	protected.HandleFunc("/shop", shopHandler.GetShop).Methods("GET")
	protected.HandleFunc("/inventory", shopHandler.GetInventory).Methods("GET")
	protected.HandleFunc("/items-by-level/{level}", shopHandler.GetItemsByLevel).Methods("GET")
	protected.HandleFunc("/avatars", shopHandler.GetOwnedAvatars).Methods("GET")
	protected.HandleFunc("/buy-lives", shopHandler.BuyLives).Methods("POST")
	protected.HandleFunc("/buy-full-health", shopHandler.BuyFullHealth).Methods("POST")
	protected.HandleFunc("/buy-avatar/{id}", shopHandler.BuyAvatar).Methods("POST")
	protected.HandleFunc("/buy-item/{id}", shopHandler.BuyItem).Methods("POST")
	protected.HandleFunc("/select-avatar", shopHandler.SelectAvatar).Methods("POST")
	protected.HandleFunc("/preferred-language", shopHandler.UpdatePreferredLanguage).Methods("POST")

	// AI tutor
	protected.HandleFunc("/feedback", feedbackHandler.GetFeedback).Methods("POST")
	protected.HandleFunc("/word-info", feedbackHandler.GetWordInfo).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
