package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReportService() *ReportService {
	return &ReportService{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC) },
	}
}

func reportCalls() []models.CallView {
	return []models.CallView{
		{
			ID:          "call-1",
			PhoneNumber: "+212 612-34-56-78",
			Date:        time.Date(2024, 3, 14, 14, 5, 0, 0, time.UTC),
			Duration:    200,
			AgentID:     &models.AgentRef{ID: "agent-1", Name: "Amine", Email: "amine@demo.com"},
			Status:      models.CallStatusCompleted,
			Reason:      `Billing "urgent", refund`,
			Notes:       "line one",
		},
		{
			ID:          "call-2",
			PhoneNumber: "+212 700-00-00-00",
			Date:        time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC),
			Duration:    0,
			Status:      models.CallStatusMissed,
			Reason:      "<script>alert(1)</script>",
		},
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m 0s", FormatDuration(0))
	assert.Equal(t, "0m 0s", FormatDuration(-4))
	assert.Equal(t, "45s", FormatDuration(45))
	assert.Equal(t, "3m 20s", FormatDuration(200))
	assert.Equal(t, "1h 5m", FormatDuration(3900))
}

func TestReportFileName(t *testing.T) {
	service := newTestReportService()
	assert.Equal(t, "calls-report-2024-03-15.csv", service.FileName("csv"))
	assert.Equal(t, "calls-report-2024-03-15.html", service.FileName("html"))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestReportService().WriteCSV(&buf, reportCalls()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, utf8BOM))

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, utf8BOM), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Call ID","Agent Name","Agent Email","Phone Number","Reason","Status","Call Date","Start Time","End Time","Duration","Notes"`, lines[0])
	assert.Equal(t, `"call-1","Amine","amine@demo.com","+212 612-34-56-78","Billing ""urgent"", refund","Completed","03/14/2024","02:05 PM","02:08 PM","3m 20s","line one"`, lines[1])
	assert.Equal(t, `"call-2","Unknown Agent","","+212 700-00-00-00","<script>alert(1)</script>","Missed","03/14/2024","09:00 AM","09:00 AM","0m 0s",""`, lines[2])
}

func TestWriteCSVNeutralizesFormulas(t *testing.T) {
	calls := []models.CallView{{
		ID:          "call-3",
		PhoneNumber: "=HYPERLINK(\"http://x\")",
		Date:        time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC),
		AgentID:     &models.AgentRef{Name: "@admin", Email: "a@demo.com"},
		Status:      models.CallStatusBusy,
		Reason:      "=1+2",
		Notes:       " -cmd",
	}}

	var buf bytes.Buffer
	require.NoError(t, newTestReportService().WriteCSV(&buf, calls))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"call-3","'@admin","a@demo.com","'=HYPERLINK(""http://x"")","'=1+2","Busy","03/14/2024","09:00 AM","09:00 AM","0m 0s","'-cmd"`, lines[1])
}

func TestSpreadsheetCells(t *testing.T) {
	assert.Equal(t, "Billing", spreadsheetText("Billing"))
	assert.Equal(t, "'+33 1", spreadsheetText("+33 1"))
	assert.Empty(t, spreadsheetText("  "))
	assert.Equal(t, "+212 612-34-56-78", spreadsheetPhone("+212 612-34-56-78"))
	assert.Equal(t, "-0612345678", spreadsheetPhone("-0612345678"))
	assert.Equal(t, "'+1 SUM(A1:A9)", spreadsheetPhone("+1 SUM(A1:A9)"))
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestReportService().WriteCSV(&buf, nil))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	filters := map[string]string{"Status": "completed", "Reason": "", "Agent": "agent-1"}
	require.NoError(t, newTestReportService().WriteHTML(&buf, reportCalls(), filters))

	out := buf.String()
	assert.Contains(t, out, "Generated on: 2024-03-15 09:30:00 UTC")
	assert.Contains(t, out, "Applied Filters:</strong> Agent: agent-1, Status: completed")
	assert.Contains(t, out, "<strong>Total Records:</strong> 2")
	assert.Contains(t, out, "<strong>Completed Calls:</strong> 1")
	assert.Contains(t, out, "<strong>Missed Calls:</strong> 1")
	assert.Contains(t, out, "<strong>Busy Calls:</strong> 0")
	assert.Contains(t, out, "<td>3:20</td>")
	assert.Contains(t, out, "<td>Amine</td>")
	assert.Contains(t, out, "background-color: #10b981")
	// 用户输入被转义
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestWriteHTMLWithoutFilters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestReportService().WriteHTML(&buf, nil, map[string]string{"Status": ""}))
	assert.NotContains(t, buf.String(), "Applied Filters")
	assert.Contains(t, buf.String(), "<strong>Total Records:</strong> 0")
}
