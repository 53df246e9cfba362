package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// healthCheckCmd backs the container HEALTHCHECK.
var healthCheckCmd = &cobra.Command{
	Use:   "health-check",
	Short: "Check a running server and exit non-zero if it is unhealthy",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := os.Getenv("BELLBOARD_HTTP_ADDR")
		if addr == "" {
			addr = ":8099"
		}
		return runHealthCheck(addr)
	},
}

func init() {
	rootCmd.AddCommand(healthCheckCmd)
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	if !strings.HasPrefix(addr, ":") {
		url = "http://" + addr + "/api/health"
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %s", resp.Status)
	}
	return nil
}
