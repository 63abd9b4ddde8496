// Package export renders the portal's flat-file exports. Plain CSV with
// standard double-quote escaping so the files round-trip through any
// spreadsheet tool.
package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/stats"
)

var projectsHeader = []string{
	"id", "title", "client_name", "client_email", "status", "phase", "budget", "created_at",
}

func ProjectsCSV(projects []*repository.Project) ([]byte, error) {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		budget := ""
		if p.Budget.Valid {
			budget = p.Budget.Decimal.String()
		}
		rows = append(rows, []string{
			p.ID, p.Title, p.ClientName, p.ClientEmail, p.Status, p.Phase,
			budget, p.CreatedAt.Format(time.RFC3339),
		})
	}
	return write(projectsHeader, rows)
}

var messagesHeader = []string{
	"id", "thread_id", "name", "email", "message", "source", "page", "status", "read", "converted", "created_at",
}

func MessagesCSV(messages []*repository.Message) ([]byte, error) {
	rows := make([][]string, 0, len(messages))
	for _, m := range messages {
		rows = append(rows, []string{
			m.ID, m.ThreadID, m.Name, m.Email, m.Body, m.Source, m.Page,
			m.Status, strconv.FormatBool(m.Read),
			strconv.FormatBool(m.ConvertedToProject),
			m.CreatedAt.Format(time.RFC3339),
		})
	}
	return write(messagesHeader, rows)
}

var forecastHeader = []string{
	"window_days", "expected", "tight_low", "tight_high", "wide_low", "wide_high",
}

func ForecastCSV(f stats.Forecast) ([]byte, error) {
	rows := make([][]string, 0, len(f.Windows))
	for _, w := range f.Windows {
		rows = append(rows, []string{
			strconv.Itoa(w.Days), w.Expected.String(),
			w.TightLow.String(), w.TightHigh.String(),
			w.WideLow.String(), w.WideHigh.String(),
		})
	}
	return write(forecastHeader, rows)
}

func write(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
