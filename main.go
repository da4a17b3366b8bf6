package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"breizh-server/handlers"
	"breizh-server/middleware"
	"breizh-server/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	// Initialize services and handlers
	catalog := services.NewCatalogService()
	poiHandler := handlers.NewPOIHandler(catalog)

	userService := services.NewUserService(catalog.RedisClient, jwtSecret)
	authHandler := handlers.NewAuthHandler(userService)

	favoritesService := services.NewFavoritesService(catalog.RedisClient, userService.UsersCollection())
	favoritesHandler := handlers.NewFavoritesHandler(favoritesService)

	r := mux.NewRouter()

	// CORS + panic recovery middleware
	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.ErrorMiddleware())

	// Auth routes
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", authHandler.RegisterUser).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/login", authHandler.LoginUser).Methods("POST", "OPTIONS")

	// POI routes
	r.HandleFunc("/pois", poiHandler.ListPOIs).Methods("GET", "OPTIONS")
	r.HandleFunc("/pois/nearby", poiHandler.GetNearbyPOIs).Methods("GET", "OPTIONS")
	r.HandleFunc("/pois/{slug}", poiHandler.GetPOI).Methods("GET", "OPTIONS")
	r.HandleFunc("/pois/{slug}/nearby", poiHandler.GetNearbyOfPOI).Methods("GET", "OPTIONS")
	r.HandleFunc("/suggest", poiHandler.GetSuggestions).Methods("GET", "OPTIONS")
	r.HandleFunc("/categories", poiHandler.GetCategories).Methods("GET", "OPTIONS")

	// Favorites routes (per-user, JWT protected)
	favRouter := r.PathPrefix("/user/favorites").Subrouter()
	favRouter.Use(middleware.JWTMiddleware(jwtSecret))
	favRouter.HandleFunc("", favoritesHandler.ListFavorites).Methods("GET", "OPTIONS")
	favRouter.HandleFunc("/{id}", favoritesHandler.AddFavorite).Methods("PUT", "OPTIONS")
	favRouter.HandleFunc("/{id}", favoritesHandler.RemoveFavorite).Methods("DELETE", "OPTIONS")
	favRouter.HandleFunc("/{id}/toggle", favoritesHandler.ToggleFavorite).Methods("POST", "OPTIONS")

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("Server starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
