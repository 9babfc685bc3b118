package main

import (
	"context"
	"log"
	"os"
	"time"

	"exam-service/internal/corpus"
	"exam-service/internal/db"
	"exam-service/internal/department"
	"exam-service/internal/event"
	"exam-service/internal/handlers"
	"exam-service/internal/repository"
	"exam-service/internal/selection"
	"exam-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	corpusFile := os.Getenv("CORPUS_FILE")
	if corpusFile == "" {
		log.Fatal("CORPUS_FILE is required")
	}

	// Question corpus
	corpusRepo := corpus.NewRepository(corpus.NewCSVSource(corpusFile))
	if err := corpusRepo.Load(context.Background()); err != nil {
		log.Fatalf("corpus load: %v", err)
	}

	// Department table
	table := department.DefaultTable()
	if deptFile := os.Getenv("DEPARTMENT_FILE"); deptFile != "" {
		loaded, err := department.LoadTable(deptFile)
		if err != nil {
			log.Fatalf("department table: %v", err)
		}
		table = loaded
	}
	resolver := department.NewResolver(table)

	// The bidirectional mapping check runs here, before the first
	// request, never lazily.
	if err := resolver.ValidateMappingConsistency(corpusRepo); err != nil {
		log.Fatalf("startup self-test failed: %v", err)
	}

	// Session store: Mongo when configured, in-memory otherwise.
	var sessions repository.SessionStore
	if mongoURI := os.Getenv("MONGO_URI"); mongoURI != "" {
		db.InitMongo(mongoURI)
		sessions = repository.NewMongoSessionStore(db.Client.Database("exam_service"))
		log.Println("using MongoDB session store")
	} else {
		sessions = repository.NewMemoryStore()
		log.Println("MONGO_URI not set, using in-memory session store")
	}

	// RabbitMQ event publisher
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.EventPublisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(rabbitURL, eventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, exam events will not be published")
	}

	selector := selection.NewSelector(corpusRepo)
	examService := service.NewExamService(corpusRepo, resolver, selector, sessions)
	examHandler := handlers.NewExamHandler(examService)
	departmentHandler := handlers.NewDepartmentHandler(resolver, corpusRepo)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/departments", departmentHandler.ListDepartments)

		api.POST("/exam", func(c *gin.Context) {
			examHandler.StartExam(c)
			if publisher != nil {
				publisher.Publish("exam.session.started", gin.H{
					"status":    c.Writer.Status(),
					"timestamp": time.Now(),
				})
			}
		})
		api.GET("/exam/:id/question", examHandler.CurrentQuestion)
		api.POST("/exam/:id/answer", func(c *gin.Context) {
			examHandler.SubmitAnswer(c)
			if publisher != nil {
				publisher.Publish("exam.answer.recorded", gin.H{
					"session_id": c.Param("id"),
					"status":     c.Writer.Status(),
					"timestamp":  time.Now(),
				})
			}
		})
		api.GET("/exam/:id/result", func(c *gin.Context) {
			examHandler.Result(c)
			if publisher != nil {
				publisher.Publish("exam.session.completed", gin.H{
					"session_id": c.Param("id"),
					"status":     c.Writer.Status(),
					"timestamp":  time.Now(),
				})
			}
		})
	}

	admin := r.Group("/admin")
	{
		admin.POST("/corpus/refresh", func(c *gin.Context) {
			examHandler.RefreshCorpus(c)
			if publisher != nil {
				publisher.Publish("exam.corpus.refreshed", gin.H{
					"status":    c.Writer.Status(),
					"timestamp": time.Now(),
				})
			}
		})
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	r.Run(addr)
}
