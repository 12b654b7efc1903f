package main

import (
	"fmt"
	"io"
	"net/url"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/hiredesk/internal/config"
	"github.com/alfredjeanlab/hiredesk/internal/ui"
)

var remoteCmd = &cobra.Command{
	Use:     "remote",
	Short:   "Manage named API remotes",
	GroupID: "system",
	// Remote subcommands only edit the local remotes file.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var remoteAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Add or update a named remote",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, rawURL := args[0], args[1]
		if u, err := url.Parse(rawURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid remote URL %q", rawURL)
		}
		token, _ := cmd.Flags().GetString("token")
		natsURL, _ := cmd.Flags().GetString("nats")
		desc, _ := cmd.Flags().GetString("description")
		use, _ := cmd.Flags().GetBool("use")

		rs, err := config.LoadRemotes()
		if err != nil {
			return err
		}
		rs.Remotes[name] = config.Remote{URL: rawURL, Token: token, NATSURL: natsURL, Description: desc}
		if use || len(rs.Remotes) == 1 {
			rs.Active = name
		}
		if err := config.SaveRemotes(rs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "remote %q added (%s)\n", name, rawURL)
		return nil
	},
}

var remoteRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a named remote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		rs, err := config.LoadRemotes()
		if err != nil {
			return err
		}
		if _, ok := rs.Remotes[name]; !ok {
			return fmt.Errorf("remote %q not found", name)
		}
		delete(rs.Remotes, name)
		if rs.Active == name {
			rs.Active = ""
		}
		if err := config.SaveRemotes(rs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "remote %q removed\n", name)
		return nil
	},
}

var remoteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all remotes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := config.LoadRemotes()
		if err != nil {
			return err
		}
		return writeRemoteList(cmd.OutOrStdout(), rs)
	},
}

func writeRemoteList(out io.Writer, rs config.Remotes) error {
	if len(rs.Remotes) == 0 {
		fmt.Fprintln(out, "no remotes configured")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tURL\tTOKEN\tDESCRIPTION")
	for _, name := range rs.Names() {
		r := rs.Remotes[name]
		marker := "  "
		if name == rs.Active {
			marker = "* "
		}
		token := r.Token
		if len(token) > 8 {
			token = token[:8] + "..."
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n", marker, name, r.URL, token, r.Description)
	}
	return w.Flush()
}

var remoteUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Set the active remote (no args clears it)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := config.LoadRemotes()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			rs.Active = ""
			if err := config.SaveRemotes(rs); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "active remote cleared")
			return nil
		}
		name := args[0]
		if _, ok := rs.Remotes[name]; !ok {
			return fmt.Errorf("remote %q not found", name)
		}
		rs.Active = name
		if err := config.SaveRemotes(rs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "active remote set to %q\n", name)
		return nil
	},
}

var remoteShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show details for a remote (defaults to active)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := config.LoadRemotes()
		if err != nil {
			return err
		}
		name := rs.Active
		if len(args) == 1 {
			name = args[0]
		}
		if name == "" {
			return fmt.Errorf("no active remote; specify a name or run 'hd remote use <name>'")
		}
		r, ok := rs.Remotes[name]
		if !ok {
			return fmt.Errorf("remote %q not found", name)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		active := ""
		if name == rs.Active {
			active = " " + ui.RenderGood("(active)")
		}
		fmt.Fprintf(w, "name:\t%s%s\n", name, active)
		if r.Description != "" {
			fmt.Fprintf(w, "description:\t%s\n", r.Description)
		}
		fmt.Fprintf(w, "url:\t%s\n", r.URL)
		if r.Token != "" {
			fmt.Fprintf(w, "token:\t%s\n", config.MaskToken(r.Token))
		}
		if r.NATSURL != "" {
			fmt.Fprintf(w, "nats_url:\t%s\n", r.NATSURL)
		}
		return w.Flush()
	},
}

func init() {
	remoteAddCmd.Flags().String("token", "", "bearer token for the API")
	remoteAddCmd.Flags().String("nats", "", "NATS URL for activity events")
	remoteAddCmd.Flags().String("description", "", "human-readable description of the remote")
	remoteAddCmd.Flags().Bool("use", false, "make this the active remote")

	remoteCmd.AddCommand(remoteAddCmd)
	remoteCmd.AddCommand(remoteRemoveCmd)
	remoteCmd.AddCommand(remoteListCmd)
	remoteCmd.AddCommand(remoteUseCmd)
	remoteCmd.AddCommand(remoteShowCmd)
}
