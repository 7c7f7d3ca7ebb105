package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/config"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/handlers"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/middleware"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/repository"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config, authService *services.AuthService) *Server {
	taskRepo := repository.NewTaskRepository(database)
	subtaskRepo := repository.NewSubtaskRepository(database)
	shoppingItemRepo := repository.NewShoppingItemRepository(database)
	recipeRepo := repository.NewRecipeRepository(database)
	ingredientRepo := repository.NewIngredientRepository(database)

	taskService := services.NewRecordService[models.Task](models.CollectionTasks, taskRepo, repository.TaskColumns, services.NewTaskPolicy(subtaskRepo))
	subtaskService := services.NewRecordService[models.Subtask](models.CollectionSubtasks, subtaskRepo, repository.SubtaskColumns, services.NewSubtaskPolicy(taskRepo))
	shoppingItemService := services.NewRecordService[models.ShoppingItem](models.CollectionShoppingItems, shoppingItemRepo, repository.ShoppingItemColumns, services.NewShoppingItemPolicy(recipeRepo))
	recipeService := services.NewRecordService[models.Recipe](models.CollectionRecipes, recipeRepo, repository.RecipeColumns, services.NewRecipePolicy(ingredientRepo))
	ingredientService := services.NewRecordService[models.Ingredient](models.CollectionIngredients, ingredientRepo, repository.IngredientColumns, services.NewIngredientPolicy(recipeRepo))

	authHandler := handlers.NewAuthHandler(authService)
	icalHandler := handlers.NewICalHandler(authService, taskService)

	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Post("/api/collections/users/auth-with-password", authHandler.AuthWithPassword)
	router.Get("/api/oauth2/login", authHandler.OAuthLogin)
	router.Get("/api/oauth2/callback", authHandler.OAuthCallback)
	router.Get("/api/calendar/tasks.ics", icalHandler.TaskFeed)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireToken(authService))

		r.Post("/api/collections/users/auth-refresh", authHandler.AuthRefresh)
		r.Get("/api/collections/users/records/{id}", authHandler.ViewUser)
		r.Patch("/api/collections/users/records/{id}", authHandler.UpdateUser)

		r.Route("/api/collections/"+models.CollectionTasks+"/records", handlers.NewRecordHandler(taskService).Routes)
		r.Route("/api/collections/"+models.CollectionSubtasks+"/records", handlers.NewRecordHandler(subtaskService).Routes)
		r.Route("/api/collections/"+models.CollectionShoppingItems+"/records", handlers.NewRecordHandler(shoppingItemService).Routes)
		r.Route("/api/collections/"+models.CollectionRecipes+"/records", handlers.NewRecordHandler(recipeService).Routes)
		r.Route("/api/collections/"+models.CollectionIngredients+"/records", handlers.NewRecordHandler(ingredientService).Routes)
	})

	server := &Server{
		router: router,
		config: cfg,
	}

	return server
}

// Handler exposes the router for tests and embedding.
func (server *Server) Handler() http.Handler {
	return server.router
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
