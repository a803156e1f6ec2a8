package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/Alvarofrk/teckperu/internal/auth"
	"github.com/Alvarofrk/teckperu/internal/certificate"
	"github.com/Alvarofrk/teckperu/internal/course"
	"github.com/Alvarofrk/teckperu/internal/dashboard"
	"github.com/Alvarofrk/teckperu/internal/models"
	"github.com/Alvarofrk/teckperu/internal/progress"
	"github.com/Alvarofrk/teckperu/internal/quiz"
	"github.com/Alvarofrk/teckperu/internal/sitting"
	"github.com/Alvarofrk/teckperu/pkg/cache"
	"github.com/Alvarofrk/teckperu/pkg/database"
	"github.com/Alvarofrk/teckperu/pkg/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	dbConfig := &database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Program{},
		&models.Course{},
		&models.CourseAllocation{},
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.Sitting{},
		&models.ProgressRecord{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// A missing REDIS_ADDR falls back to the in-process cache; the
	// service keeps working, dashboard entries just don't survive
	// restarts or get shared between instances.
	var store cache.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		store = cache.NewRedisCache(addr)
	} else {
		log.Printf("REDIS_ADDR not set, using in-memory cache")
		store = cache.NewMemoryCache()
	}

	hub := ws.NewHub()
	go hub.Run()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatalf("JWT_SECRET is required")
	}

	authService := auth.NewService(auth.NewRepository(db), jwtSecret)
	progressService := progress.NewService(progress.NewRepository(db))
	dashboardService := dashboard.NewService(dashboard.NewRepository(db), store)
	sittingService := sitting.NewService(sitting.NewRepository(db), progressService, dashboardService, hub)
	quizService := quiz.NewService(quiz.NewRepository(db), store)
	certificateService := certificate.NewService(certificate.NewRepository(db), os.Getenv("CERT_ASSETS_DIR"))

	authHandler := auth.NewHandler(authService)
	courseHandler := course.NewHandler(course.NewRepository(db))
	quizHandler := quiz.NewHandler(quizService)
	sittingHandler := sitting.NewHandler(sittingService)
	progressHandler := progress.NewHandler(progressService)
	certificateHandler := certificate.NewHandler(certificateService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	router := mux.NewRouter()

	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.JWTMiddleware(jwtSecret))

	api.HandleFunc("/profile", authHandler.UpdateStudentProfile).Methods("PUT", "OPTIONS")

	api.HandleFunc("/programs", courseHandler.ListPrograms).Methods("GET")
	api.HandleFunc("/programs", auth.RequireLecturer(courseHandler.CreateProgram)).Methods("POST", "OPTIONS")
	api.HandleFunc("/courses", courseHandler.ListCourses).Methods("GET")
	api.HandleFunc("/courses", auth.RequireLecturer(courseHandler.CreateCourse)).Methods("POST", "OPTIONS")
	api.HandleFunc("/courses/my", auth.RequireLecturer(courseHandler.MyCourses)).Methods("GET")
	api.HandleFunc("/courses/{courseID:[0-9]+}", auth.RequireLecturer(courseHandler.UpdateCourse)).Methods("PUT", "OPTIONS")
	api.HandleFunc("/courses/{slug}", courseHandler.GetCourse).Methods("GET")
	api.HandleFunc("/allocations", auth.RequireLecturer(courseHandler.Allocate)).Methods("POST", "OPTIONS")
	api.HandleFunc("/allocations", auth.RequireLecturer(courseHandler.Deallocate)).Methods("DELETE", "OPTIONS")

	api.HandleFunc("/courses/{courseID:[0-9]+}/quizzes", quizHandler.ListByCourse).Methods("GET")
	api.HandleFunc("/quizzes", auth.RequireLecturer(quizHandler.CreateQuiz)).Methods("POST", "OPTIONS")
	api.HandleFunc("/quizzes/{quizID:[0-9]+}", auth.RequireLecturer(quizHandler.UpdateQuiz)).Methods("PUT", "OPTIONS")
	api.HandleFunc("/quizzes/{quizID:[0-9]+}", auth.RequireLecturer(quizHandler.DeleteQuiz)).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/quizzes/{quizID:[0-9]+}/questions", auth.RequireLecturer(quizHandler.AddQuestion)).Methods("POST", "OPTIONS")
	api.HandleFunc("/questions/{questionID:[0-9]+}", auth.RequireLecturer(quizHandler.UpdateQuestion)).Methods("PUT", "OPTIONS")
	api.HandleFunc("/questions/{questionID:[0-9]+}", auth.RequireLecturer(quizHandler.DeleteQuestion)).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/quizzes/{slug}", quizHandler.GetQuiz).Methods("GET")

	api.HandleFunc("/quizzes/{quizID:[0-9]+}/sittings", sittingHandler.CreateSitting).Methods("POST", "OPTIONS")
	api.HandleFunc("/sittings/{sittingID:[0-9]+}/question", sittingHandler.CurrentQuestion).Methods("GET")
	api.HandleFunc("/sittings/{sittingID:[0-9]+}/answer", sittingHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	api.HandleFunc("/sittings/{sittingID:[0-9]+}/finalize", sittingHandler.Finalize).Methods("POST", "OPTIONS")
	api.HandleFunc("/sittings/{sittingID:[0-9]+}/detail", auth.RequireLecturer(sittingHandler.SittingDetail)).Methods("GET")

	api.HandleFunc("/sittings/{sittingID:[0-9]+}/certificate", certificateHandler.Certificate).Methods("GET")
	api.HandleFunc("/sittings/{sittingID:[0-9]+}/annex", certificateHandler.Annex).Methods("POST")
	api.HandleFunc("/transcript", certificateHandler.Transcript).Methods("GET")
	api.HandleFunc("/progress", progressHandler.GetProgress).Methods("GET")

	api.HandleFunc("/dashboard/certificates", auth.RequireLecturer(dashboardHandler.CertificatesOverview)).Methods("GET")
	api.HandleFunc("/dashboard/courses", auth.RequireLecturer(dashboardHandler.CoursePerformance)).Methods("GET")
	api.HandleFunc("/dashboard/temporal", auth.RequireLecturer(dashboardHandler.TemporalAnalysis)).Methods("GET")
	api.HandleFunc("/dashboard/reports", auth.RequireLecturer(dashboardHandler.Reports)).Methods("GET")

	router.HandleFunc("/ws/dashboard", hub.HandleWebSocket)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{frontendOrigin()},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:         ":" + port(),
		Handler:      corsMiddleware.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server shutdown gracefully")
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}

func frontendOrigin() string {
	if origin := os.Getenv("FRONTEND_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:3000"
}
