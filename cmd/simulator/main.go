// Command simulator drives two sync clients against a running API instance
// and shows their board caches converging. Each participant mutates
// optimistically through the REST API while listening on the project's
// realtime channel; board events from the other participant trigger the
// invalidate-and-refetch cycle that pulls both caches onto server state.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-sync-api/internal/client"
	"project-sync-api/internal/dto"
	"project-sync-api/internal/realtime"
	"project-sync-api/internal/sync"
)

type participant struct {
	name    string
	client  *sync.MutationClient
	channel *sync.Channel
	cursors *sync.CursorBroadcaster
}

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:8080", "API base URL")
		projectID = flag.String("project", "", "project ID to simulate on")
		tokenA    = flag.String("token-a", "", "bearer token of the first participant")
		tokenB    = flag.String("token-b", "", "bearer token of the second participant")
	)
	flag.Parse()

	if *projectID == "" || *tokenA == "" || *tokenB == "" {
		fmt.Fprintln(os.Stderr, "usage: simulator -project <uuid> -token-a <jwt> -token-b <jwt> [-url <base>]")
		os.Exit(1)
	}

	pid, err := uuid.Parse(*projectID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid project ID: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	alice, err := join(ctx, "alice", *baseURL, *tokenA, pid, logger)
	if err != nil {
		logger.Fatal("alice failed to join", zap.Error(err))
	}
	defer alice.channel.Close()

	bob, err := join(ctx, "bob", *baseURL, *tokenB, pid, logger)
	if err != nil {
		logger.Fatal("bob failed to join", zap.Error(err))
	}
	defer bob.channel.Close()

	board := alice.client.Cache().Snapshot()
	if board == nil || len(board.Statuses) == 0 {
		logger.Fatal("project has no status columns to simulate on")
	}
	firstStatus := board.Statuses[0]

	// Alice creates a task; the task-created event reaches bob and his cache
	// refetches the board.
	title := fmt.Sprintf("Simulated task %04d", rand.Intn(10000))
	logger.Info("alice creates a task",
		zap.String("title", title),
		zap.String("status", firstStatus.Name))
	if _, err := alice.client.CreateTask(ctx, &dto.CreateTaskRequest{
		Title:    title,
		StatusID: firstStatus.ID,
	}); err != nil {
		logger.Fatal("create task failed", zap.Error(err))
	}

	settle(alice, bob)

	created := findByTitle(bob.client.Cache().Snapshot(), title)
	if created == nil {
		logger.Fatal("bob never observed alice's task")
	}
	logger.Info("bob observed the new task", zap.String("task_id", created.ID.String()))

	// Bob drags the task to the end of another column when one exists.
	if len(board.Statuses) > 1 {
		target := board.Statuses[1]
		logger.Info("bob moves the task",
			zap.String("from", firstStatus.Name),
			zap.String("to", target.Name))
		if err := bob.client.MoveTask(ctx, created.ID, &dto.MoveTaskRequest{
			StatusID: target.ID,
		}); err != nil {
			logger.Fatal("move task failed", zap.Error(err))
		}

		settle(alice, bob)

		moved := findByTitle(alice.client.Cache().Snapshot(), title)
		if moved == nil || moved.StatusID != target.ID {
			logger.Fatal("alice never observed bob's move")
		}
		logger.Info("alice observed the move", zap.String("status_id", moved.StatusID.String()))
	}

	// A short burst of pointer samples; the broadcaster throttles them to one
	// frame per interval on the wire.
	for i := 0; i < 50; i++ {
		alice.cursors.Track(float64(i)*7.5, float64(i)*4.2)
		time.Sleep(2 * time.Millisecond)
	}

	if converged(alice.client.Cache().Snapshot(), bob.client.Cache().Snapshot()) {
		logger.Info("caches converged")
	} else {
		logger.Fatal("caches diverged")
	}
}

// join builds a full sync client for one participant and subscribes it to the
// project channel
func join(ctx context.Context, name, baseURL, token string, projectID uuid.UUID, logger *zap.Logger) (*participant, error) {
	log := logger.With(zap.String("participant", name))

	store := client.NewAPIClient(baseURL, token, 10*time.Second, log, nil)
	cache := sync.NewBoardCache()
	mc := sync.NewMutationClient(projectID, store, cache, logNotifier{log}, log)

	if err := mc.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("initial board fetch: %w", err)
	}

	presence := sync.NewPresenceTracker(uuid.Nil)
	cursors := sync.NewCursorTracker(sync.DefaultCursorStaleAfter)
	dispatcher := sync.NewDispatcher(mc, presence, cursors, log)

	channel, err := sync.Subscribe(ctx, baseURL, token, projectID, dispatcher, log)
	if err != nil {
		return nil, fmt.Errorf("channel subscribe: %w", err)
	}

	broadcaster := sync.NewCursorBroadcaster(func(pos realtime.CursorPosition) {
		if err := channel.SendCursor(pos); err != nil {
			log.Warn("cursor send failed", zap.Error(err))
		}
	}, sync.DefaultCursorThrottle)
	broadcaster.SetSubscribed(true)

	return &participant{
		name:    name,
		client:  mc,
		channel: channel,
		cursors: broadcaster,
	}, nil
}

// settle waits for the event to propagate and for both background refetches
// to land
func settle(participants ...*participant) {
	time.Sleep(300 * time.Millisecond)
	for _, p := range participants {
		p.client.WaitSettled()
	}
}

func findByTitle(board *sync.Board, title string) *dto.TaskResponse {
	if board == nil {
		return nil
	}
	for i := range board.Tasks {
		if board.Tasks[i].Title == title {
			return &board.Tasks[i]
		}
	}
	return nil
}

// converged reports whether both caches hold the same tasks in the same
// columns at the same positions
func converged(a, b *sync.Board) bool {
	if a == nil || b == nil || len(a.Tasks) != len(b.Tasks) {
		return false
	}
	byID := make(map[uuid.UUID]dto.TaskResponse, len(b.Tasks))
	for _, t := range b.Tasks {
		byID[t.ID] = t
	}
	for _, t := range a.Tasks {
		other, ok := byID[t.ID]
		if !ok || other.StatusID != t.StatusID || other.Order != t.Order {
			return false
		}
	}
	return true
}

// logNotifier surfaces mutation failures through the participant's logger
type logNotifier struct {
	log *zap.Logger
}

func (n logNotifier) Notify(message string) {
	n.log.Warn(message)
}
