package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/alpranjal28/mspaint-sub000/internal/repository"
	"github.com/alpranjal28/mspaint-sub000/internal/tasks"
)

// Server wraps the asynq worker that executes background tasks.
type Server struct {
	server   *asynq.Server
	log      *logrus.Entry
	chatRepo repository.ChatRepository
}

func NewServer(redisOpt asynq.RedisClientOpt, chatRepo repository.ChatRepository, logger *logrus.Logger) *Server {
	logEntry := logger.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
		},
	)

	return &Server{
		server:   server,
		log:      logEntry,
		chatRepo: chatRepo,
	}
}

// Start runs the worker. Call it from a dedicated goroutine.
func (s *Server) Start() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeChatRetention, NewChatRetentionHandler(s.chatRepo).ProcessTask)

	s.log.Info("Worker server starting...")
	if err := s.server.Run(mux); err != nil {
		if !errors.Is(err, asynq.ErrServerClosed) {
			s.log.Fatalf("Could not run worker server: %v", err)
		}
		s.log.Info("Worker server stopped.")
	}
}

// Shutdown stops the worker gracefully.
func (s *Server) Shutdown() {
	s.log.Info("Shutting down worker server...")
	s.server.Shutdown()
	s.log.Info("Worker server shut down complete.")
}
