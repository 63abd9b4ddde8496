package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/stats"
)

func TestProjectsCSVQuotingRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	projects := []*repository.Project{
		{
			ID:         "p1",
			Title:      `Jones, "Lead"`,
			ClientName: "Jones & Co",
			Status:     "active",
			Phase:      "build",
			Budget:     decimal.NewNullDecimal(decimal.NewFromInt(1500)),
			CreatedAt:  created,
		},
	}

	out, err := ProjectsCSV(projects)
	require.NoError(t, err)

	// a value with a comma and a quote is escaped per standard CSV quoting
	assert.Contains(t, string(out), `"Jones, ""Lead"""`)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, `Jones, "Lead"`, records[1][1])
	assert.Equal(t, "1500", records[1][6])
	assert.Equal(t, "2025-03-01T10:00:00Z", records[1][7])
}

func TestMessagesCSV(t *testing.T) {
	messages := []*repository.Message{
		{
			ID:       "m1",
			ThreadID: "m1",
			Name:     "Ada",
			Email:    "ada@example.com",
			Body:     "multi\nline body",
			Status:   "new",
			Read:     true,
		},
	}

	out, err := MessagesCSV(messages)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "multi\nline body", records[1][4])
	assert.Equal(t, "true", records[1][8])
	assert.Equal(t, "false", records[1][9])
}

func TestForecastCSV(t *testing.T) {
	f := stats.Forecast{
		Windows: []stats.ForecastWindow{
			{Days: 30, Expected: decimal.NewFromInt(6000), TightLow: decimal.NewFromInt(4500), TightHigh: decimal.NewFromInt(7500), WideLow: decimal.NewFromInt(3300), WideHigh: decimal.NewFromInt(8700)},
			{Days: 60, Expected: decimal.NewFromInt(12000), TightLow: decimal.NewFromInt(9000), TightHigh: decimal.NewFromInt(15000), WideLow: decimal.NewFromInt(6600), WideHigh: decimal.NewFromInt(17400)},
		},
	}

	out, err := ForecastCSV(f)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "window_days,expected,tight_low,tight_high,wide_low,wide_high", lines[0])
	assert.Equal(t, "30,6000,4500,7500,3300,8700", lines[1])
	assert.Equal(t, "60,12000,9000,15000,6600,17400", lines[2])
}
