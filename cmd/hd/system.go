package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/hiredesk/internal/dashboard"
	"github.com/alfredjeanlab/hiredesk/internal/ui"
)

var creditsCmd = &cobra.Command{
	Use:     "credits",
	Short:   "Show the reveal credit balance",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		credits, err := newDashboard().RefreshCredits(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(credits)
		}
		fmt.Fprintf(stdout, "Balance: %d credits\n", credits.Balance)
		if credits.RevealCost > 0 {
			fmt.Fprintf(stdout, "Reveal cost: %d credits (%d reveals left)\n", credits.RevealCost, credits.Balance/credits.RevealCost)
		}
		return nil
	},
}

// tokenInfo is what whoami can tell from the bearer token alone.
type tokenInfo struct {
	Subject   string     `json:"subject,omitempty"`
	Issuer    string     `json:"issuer,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
}

// inspectToken reads the registered claims of a JWT without verifying its
// signature. Opaque tokens yield an error.
func inspectToken(token string, now time.Time) (*tokenInfo, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("token is not a JWT: %w", err)
	}
	info := &tokenInfo{Subject: claims.Subject, Issuer: claims.Issuer}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		info.ExpiresAt = &t
		info.Expired = now.After(t)
	}
	return info, nil
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the signed-in user and token details",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Token == "" {
			return errors.New("not signed in: set HIREDESK_TOKEN or add a remote with --token")
		}
		info, tokErr := inspectToken(cfg.Token, time.Now())
		if tokErr != nil {
			logger.Debug("token inspection skipped", "err", tokErr)
		}
		if info != nil && info.Expired {
			fmt.Fprintln(os.Stderr, ui.RenderWarn("Warning: token expired at "+info.ExpiresAt.Format(time.RFC3339)))
		}

		sess, err := api.Session(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching session: %w", err)
		}
		if jsonOutput {
			return printJSON(map[string]any{"session": sess, "token": info, "api_url": cfg.APIURL})
		}
		w := newTable()
		fmt.Fprintf(w, "User:\t%s\n", sess.Email)
		if sess.Name != "" {
			fmt.Fprintf(w, "Name:\t%s\n", sess.Name)
		}
		if sess.Org != "" {
			fmt.Fprintf(w, "Org:\t%s\n", sess.Org)
		}
		fmt.Fprintf(w, "API:\t%s\n", cfg.APIURL)
		if info != nil && info.ExpiresAt != nil {
			fmt.Fprintf(w, "Token Expires:\t%s\n", info.ExpiresAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the API health endpoint",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := api.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		if jsonOutput {
			return printJSON(map[string]string{"status": status, "api_url": cfg.APIURL})
		}
		fmt.Fprintf(stdout, "%s %s\n", cfg.APIURL, ui.RenderGood(status))
		return nil
	},
}

// routePath accepts either a bare path or a full web URL and returns the path.
func routePath(arg string) string {
	if u, err := url.Parse(arg); err == nil && u.Scheme != "" {
		return u.Path
	}
	if !strings.HasPrefix(arg, "/") {
		return "/" + arg
	}
	return arg
}

var openCmd = &cobra.Command{
	Use:     "open <path-or-url>",
	Short:   "Open a web deep link (/pipelines/<job>, /candidate-profiles/<id>) in the terminal",
	GroupID: "system",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		route := dashboard.ParseRoute(routePath(args[0]))
		logger.Debug("route", "view", route.View, "id", route.ID)
		switch route.View {
		case dashboard.ViewPipeline:
			if err := boardCmd.Flags().Set("job", route.ID); err != nil {
				return err
			}
			boardCmd.SetContext(cmd.Context())
			return boardCmd.RunE(boardCmd, nil)
		case dashboard.ViewCandidateProfile:
			return showCmd.RunE(cmd, []string{route.ID})
		}
		listCmd.SetContext(cmd.Context())
		return listCmd.RunE(listCmd, nil)
	},
}
