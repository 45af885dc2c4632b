package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	date     string
	lighting bool
	tier     string
)

func init() {
	slotsCmd.Flags().StringVar(&date, "date", "", "Day to list slots for (YYYY-MM-DD); empty prints the whole catalog")
	availabilityCmd.Flags().StringVar(&date, "date", "", "Day to check (YYYY-MM-DD); defaults to today on the server")
	quoteCmd.Flags().BoolVar(&lighting, "lighting", false, "Include lighting")
	quoteCmd.Flags().StringVar(&tier, "tier", "ORDINARY", "Price tier: ORDINARY or SPECIAL")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(spacesCmd)
	rootCmd.AddCommand(slotsCmd)
	rootCmd.AddCommand(availabilityCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health", nil)
	},
}

var spacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "List the bookable spaces and their prices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/spaces", nil)
	},
}

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Show the slot catalog, optionally for one day",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if date != "" {
			q.Set("date", date)
		}
		return performGetRequest("/api/slots", q)
	},
}

var availabilityCmd = &cobra.Command{
	Use:   "availability <space-id>",
	Short: "Show which slots of a space are free on a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if date != "" {
			q.Set("date", date)
		}
		return performGetRequest("/api/spaces/"+url.PathEscape(args[0])+"/availability", q)
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote <space-id>",
	Short: "Price a booking of a space",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("spaceId", args[0])
		q.Set("lighting", strconv.FormatBool(lighting))
		q.Set("tier", tier)
		return performGetRequest("/api/pricing/quote", q)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics", nil)
	},
}

func performGetRequest(endpoint string, query url.Values) error {
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Printf("Making request to %s\n", target)

	resp, err := http.Get(target)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server answered %s", resp.Status)
	}
	return nil
}
