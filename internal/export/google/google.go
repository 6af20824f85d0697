// Package google exports generated alerts to a Google Sheets spreadsheet
// so they can be reviewed outside the application.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finviz/internal/engine"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	alertsSheet   string
}

// New creates a Sheets client for the given spreadsheet.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, alertsSheet string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(alertsSheet) == "" {
		alertsSheet = "Alerts"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		alertsSheet:   alertsSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// AppendAlerts appends one row per alert to the alerts sheet.
// Columns: timestamp, alert id, severity, category, month, percentage, message.
func (c *Client) AppendAlerts(ctx context.Context, alerts []engine.Alert) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if len(alerts) == 0 {
		return nil
	}

	exportedAt := time.Now().Format(time.RFC3339)
	rows := make([][]any, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []any{
			exportedAt,
			a.ID,
			string(a.Severity),
			a.Category,
			a.Month,
			fmt.Sprintf("%.1f", a.Percentage),
			describeAlert(a),
		})
	}

	dataRange := fmt.Sprintf("%s!A:G", c.alertsSheet)
	vr := &gsheet.ValueRange{Values: rows}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append alerts to sheet %s: %w", c.alertsSheet, err)
	}

	return nil
}

func describeAlert(a engine.Alert) string {
	if a.Severity == engine.SeverityCritical {
		return fmt.Sprintf("Spent $%.2f over the %s budget", a.OverAmount, a.Category)
	}
	return fmt.Sprintf("At %.0f%% of the %s budget", a.Percentage, a.Category)
}

