package app

import (
	"context"

	"tasklist/internal/persist"
	todoservice "tasklist/internal/services/todo"
	userservice "tasklist/internal/services/user"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Document store (durable snapshots)
	docs persist.DocumentStore

	// Service layer
	Todos todoservice.Service
	Users userservice.Service
}

// New creates a new App with all services initialized against docs.
// This is the single entry point for creating the application container.
func New(ctx context.Context, docs persist.DocumentStore) *App {
	return &App{
		docs:  docs,
		Todos: todoservice.NewService(ctx, docs),
		Users: userservice.NewService(ctx, docs),
	}
}

// Docs returns the underlying document store.
func (a *App) Docs() persist.DocumentStore {
	return a.docs
}

// Close releases the document store.
func (a *App) Close() error {
	return a.docs.Close()
}
