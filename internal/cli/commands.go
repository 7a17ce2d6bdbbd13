package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/httpapi"
	"github.com/Makepad-fr/tada/internal/mcpserver"
	"github.com/Makepad-fr/tada/internal/todos"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the todo API over HTTP",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  a.runServe,
	}
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.withService(func(svc *todos.Service) error {
		return httpapi.ListenAndServe(ctx, a.cfg.Server.Addr, httpapi.NewHandler(svc, a.logger), a.logger)
	})
}

func (a *app) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the todo tools over MCP on stdin/stdout",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(mcpserver.ServeStdio)
		},
	}
}

func (a *app) lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List todos",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(func(svc *todos.Service) error {
				items, err := svc.List()
				if err != nil {
					return err
				}
				lines := []string{ui.Header(items), ""}
				lines = append(lines, ui.TodoLines(items)...)
				lines = append(lines, "", ui.Current().Muted.Render("Tip: add with `todo add 1 \"Buy milk\"`"))
				ui.Panel(a.stdout, lines)
				return nil
			})
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <id> <todo...>",
		Short:   "Add a todo (the text can be multiple words)",
		Example: `  todo add 1 "Buy milk"`,
		Args:    usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := todos.NewCreateRequest(args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return a.withService(func(svc *todos.Service) error {
				if _, err := svc.Create(req); err != nil {
					return err
				}
				ui.OK(a.stdout, todos.MsgCreated)
				return nil
			})
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "edit <id> <todo...>",
		Short:   "Replace the text of a todo",
		Example: `  todo edit 1 "Buy oat milk"`,
		Args:    usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := todos.UpdateRequest{Todo: strings.Join(args[1:], " ")}
			return a.withService(func(svc *todos.Service) error {
				if _, err := svc.Update(todos.ParseKey(args[0]), req); err != nil {
					return err
				}
				ui.OK(a.stdout, todos.MsgUpdated)
				return nil
			})
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a todo",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *todos.Service) error {
				if err := svc.Delete(todos.ParseKey(args[0])); err != nil {
					return err
				}
				ui.OK(a.stdout, todos.MsgDeleted)
				return nil
			})
		},
	}
}

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and edit todos interactively",
		Long: `Browse todos in a full-screen list.

Keys: a add ("<id> <todo>"), e edit, d delete, u undo the last delete,
/ filter, q quit. Every change is saved immediately.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(tui.Run)
		},
	}
}

func (a *app) withService(fn func(*todos.Service) error) error {
	svc, closeStore, err := a.openService()
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(svc)
}
