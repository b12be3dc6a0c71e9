package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "backoffice-cli",
		Short: "Back-office CLI tool",
		Long:  `A command line interface for interacting with the back-office ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the back-office API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Transaction operations",
	}
	txCmd.AddCommand(processCmd(), reverseCmd())

	stockCmd := &cobra.Command{
		Use:   "stock",
		Short: "Currency stock operations",
	}
	stockCmd.AddCommand(stockListCmd())

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Daily journal operations",
	}
	journalCmd.AddCommand(journalListCmd())

	rootCmd.AddCommand(txCmd, stockCmd, journalCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func processCmd() *cobra.Command {
	var (
		movementType string
		currency     string
		amount       string
		client       string
		rate         string
		note         string
		date         string
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process a new transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"movement_type_id": movementType,
				"currency_id":      currency,
				"amount":           amount,
			}
			if client != "" {
				payload["client_id"] = client
			}
			if rate != "" {
				payload["rate"] = rate
			}
			if note != "" {
				payload["note"] = note
			}
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			payload["operation_date"] = date

			return doRequest(http.MethodPost, "/api/v1/transactions", payload)
		},
	}

	cmd.Flags().StringVar(&movementType, "type", "", "Movement type ID")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Requested amount")
	cmd.Flags().StringVar(&client, "client", "", "Client ID (optional)")
	cmd.Flags().StringVar(&rate, "rate", "", "Exchange rate (optional)")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	cmd.Flags().StringVar(&date, "date", "", "Operation date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("currency")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func reverseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reverse <entry-id>",
		Short: "Reverse a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodPost, "/api/v1/transactions/"+args[0]+"/reverse", nil)
		},
	}
}

func stockListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List currency stock balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/stocks", nil)
		},
	}
}

func journalListCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/transactions"
			if from != "" || to != "" {
				path += fmt.Sprintf("?from=%s&to=%s", from, to)
			}
			return doRequest(http.MethodGet, path, nil)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (YYYY-MM-DD)")

	return cmd
}

func doRequest(method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(raw), 500))
	}

	var decoded any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			fmt.Println(string(raw))
			return nil
		}
		printJSON(decoded)
	}

	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
