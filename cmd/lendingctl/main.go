package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Astemirdum/lending-service/pkg/client"
)

const defaultAPI = "http://localhost:5000/api"

type cli struct {
	api       string
	tokenFile string
	client    *client.Client
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "lendingctl",
		Short:        "Terminal client for the library lending API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.tokenFile == "" {
				dir, err := os.UserConfigDir()
				if err != nil {
					return err
				}
				c.tokenFile = filepath.Join(dir, "lendingctl", "token")
			}
			c.client = client.New(c.api,
				client.WithTokenStore(client.NewFileStore(c.tokenFile)),
				client.WithOnUnauthorized(func() {
					fmt.Fprintln(cmd.ErrOrStderr(), "session expired, run `lendingctl login`")
				}),
			)
			return nil
		},
	}
	api := os.Getenv("LENDING_API_URL")
	if api == "" {
		api = defaultAPI
	}
	root.PersistentFlags().StringVar(&c.api, "api", api, "lending API base URL")
	root.PersistentFlags().StringVar(&c.tokenFile, "token-file", "", "where the session token is kept")

	root.AddCommand(
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.booksCmd(),
		c.bookCmd(),
		c.borrowCmd(),
		c.returnCmd(),
		c.profileCmd(),
	)
	return root
}

func timeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *cli) registerCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := timeout(cmd)
			defer cancel()
			resp, err := c.client.Register(ctx, client.RegisterRequest{Name: name, Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", resp.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "your email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := timeout(cmd)
			defer cancel()
			resp, err := c.client.Login(ctx, client.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", resp.Name, resp.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.client.Logout()
		},
	}
}

func (c *cli) booksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := timeout(cmd)
			defer cancel()
			books, err := c.client.ListBooks(ctx)
			if err != nil {
				return err
			}
			renderBooks(cmd.OutOrStdout(), books)
			return nil
		},
	}
}

func (c *cli) bookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "book <id>",
		Short: "Show a book with its borrow history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := timeout(cmd)
			defer cancel()
			book, err := c.client.GetBook(ctx, args[0])
			if err != nil {
				return err
			}
			renderBookDetails(cmd.OutOrStdout(), book)
			return nil
		},
	}
}

func (c *cli) borrowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <id>",
		Short: "Borrow a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := timeout(cmd)
			defer cancel()
			borrow, err := c.client.Borrow(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Borrowed, due %s\n", borrow.DueDate.Format(dateLayout))
			return nil
		},
	}
}

func (c *cli) returnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <id>",
		Short: "Return a borrowed book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := timeout(cmd)
			defer cancel()
			msg, err := c.client.Return(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func (c *cli) profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your account and borrows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := timeout(cmd)
			defer cancel()
			profile, err := c.client.Profile(ctx)
			if err != nil {
				return err
			}
			renderProfile(cmd.OutOrStdout(), profile)
			return nil
		},
	}
}
