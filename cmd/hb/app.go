package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/collection"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/config"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/lists"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/session"
)

var errSignedOut = errors.New("not signed in, run hb login")

// app wires the client, the session and the list stores for one command run.
type app struct {
	out      io.Writer
	client   *collection.Client
	session  *session.Provider
	tasks    *lists.Tasks
	shopping *lists.Shopping
	recipes  *lists.Recipes
	undo     undoStore
}

func newApp(cfg config.ClientConfig, out io.Writer) *app {
	client := collection.NewClient(cfg.BackendURL, &http.Client{Timeout: cfg.HTTPTimeout})
	provider := session.NewProvider(client, session.NewFileStore(cfg.SessionFile))

	return &app{
		out:     out,
		client:  client,
		session: provider,
		tasks: lists.NewTasks(
			collection.For[models.Task](client, models.CollectionTasks, "subtasks"),
			collection.For[models.Subtask](client, models.CollectionSubtasks, ""),
			provider,
		),
		shopping: lists.NewShopping(
			collection.For[models.ShoppingItem](client, models.CollectionShoppingItems, "source_recipe"),
			provider,
		),
		recipes: lists.NewRecipes(
			collection.For[models.Recipe](client, models.CollectionRecipes, "ingredients"),
			collection.For[models.Ingredient](client, models.CollectionIngredients, ""),
			provider,
		),
		undo: undoStore{dir: filepath.Dir(cfg.SessionFile)},
	}
}

// signedIn resumes the saved session.
func (app *app) signedIn(ctx context.Context) (*models.User, error) {
	if user := app.session.Identity(); user != nil {
		return user, nil
	}
	result := app.session.Restore(ctx)
	if !result.Success {
		if result.Error == lists.MessageSignedOut {
			return nil, errSignedOut
		}
		return nil, errors.New(result.Error)
	}
	return app.session.Identity(), nil
}

// fetched resumes the session and loads one store.
func (app *app) fetched(ctx context.Context, fetch func(context.Context) lists.Result) (*models.User, error) {
	user, err := app.signedIn(ctx)
	if err != nil {
		return nil, err
	}
	if err := check(fetch(ctx)); err != nil {
		return nil, err
	}
	return user, nil
}

// find returns the entry with id from a loaded list.
func find[T any](items []T, id string, idOf func(T) string) (T, bool) {
	for _, item := range items {
		if idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (app *app) printf(format string, args ...any) {
	fmt.Fprintf(app.out, format, args...)
}

func check(result lists.Result) error {
	if result.Success {
		return nil
	}
	return errors.New(result.Error)
}

// resolve maps a 1-based list position or an id to an id.
func resolve[T any](items []T, ref string, idOf func(T) string) (string, error) {
	if position, err := strconv.Atoi(ref); err == nil {
		if position < 1 || position > len(items) {
			return "", fmt.Errorf("no entry %d, the list has %d", position, len(items))
		}
		return idOf(items[position-1]), nil
	}
	for _, item := range items {
		if idOf(item) == ref {
			return ref, nil
		}
	}
	return "", fmt.Errorf("no entry %q", ref)
}

func newRootCommand() *cobra.Command {
	var configPath string
	var current *app

	root := &cobra.Command{
		Use:           "hb",
		Short:         "Household board client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient(configPath)
			if err != nil {
				return err
			}
			slog.SetDefault(config.NewLogger(cfg.LogLevel))
			slog.Debug("loaded client config", "backend", cfg.BackendURL, "session_file", cfg.SessionFile)
			*current = *newApp(cfg, cmd.OutOrStdout())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultClientPath(), "path to the client config file")

	current = &app{}
	root.AddCommand(
		newLoginCommand(current),
		newLogoutCommand(current),
		newWhoamiCommand(current),
		newPasswdCommand(current),
		newPrefsCommand(current),
		newTasksCommand(current),
		newShopCommand(current),
		newRecipesCommand(current),
	)
	return root
}
