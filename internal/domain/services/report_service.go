package services

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/config"
)

// utf8BOM 让Excel正确识别UTF-8编码
const utf8BOM = "\ufeff"

var csvHeaders = []string{
	"Call ID",
	"Agent Name",
	"Agent Email",
	"Phone Number",
	"Reason",
	"Status",
	"Call Date",
	"Start Time",
	"End Time",
	"Duration",
	"Notes",
}

// InterfaceReportService 定义报表导出服务接口
type InterfaceReportService interface {
	WriteCSV(w io.Writer, calls []models.CallView) error
	WriteHTML(w io.Writer, calls []models.CallView, filters map[string]string) error
	FileName(ext string) string
}

// ReportService 通话报表导出
type ReportService struct {
	Location *time.Location
	Now      func() time.Time
}

// NewReportService 创建报表服务，时间按统计时区显示
func NewReportService(cfg *config.Config) InterfaceReportService {
	return &ReportService{
		Location: cfg.GetStatsLocation(),
		Now:      time.Now,
	}
}

// FileName 导出文件名，如 calls-report-2024-03-15.csv
func (s *ReportService) FileName(ext string) string {
	return fmt.Sprintf("calls-report-%s.%s", s.Now().In(s.Location).Format("2006-01-02"), ext)
}

// 1 WriteCSV 输出CSV，每个字段都加引号
func (s *ReportService) WriteCSV(w io.Writer, calls []models.CallView) error {
	var b strings.Builder
	b.WriteString(utf8BOM)
	writeCSVRow(&b, csvHeaders)

	for _, call := range calls {
		agentName, agentEmail := "Unknown Agent", ""
		if call.AgentID != nil {
			if call.AgentID.Name != "" {
				agentName = call.AgentID.Name
			}
			agentEmail = call.AgentID.Email
		}
		start := call.Date.In(s.Location)
		end := start.Add(time.Duration(call.Duration) * time.Second)

		writeCSVRow(&b, []string{
			call.ID,
			spreadsheetText(agentName),
			spreadsheetText(agentEmail),
			spreadsheetPhone(call.PhoneNumber),
			spreadsheetText(call.Reason),
			capitalize(string(call.Status)),
			start.Format("01/02/2006"),
			start.Format("03:04 PM"),
			end.Format("03:04 PM"),
			FormatDuration(call.Duration),
			spreadsheetText(call.Notes),
		})
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(strings.TrimSpace(field), `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// spreadsheetText 以公式字符开头的单元格前加单引号，Excel 按文本处理
func spreadsheetText(value string) string {
	value = strings.TrimSpace(value)
	if value != "" && strings.ContainsRune("=+-@", rune(value[0])) {
		return "'" + value
	}
	return value
}

// spreadsheetPhone 普通号码（+212 6xx-xx-xx-xx）保持原样
func spreadsheetPhone(value string) string {
	value = strings.TrimSpace(value)
	if strings.Trim(value, "0123456789 +-().") == "" {
		return value
	}
	return spreadsheetText(value)
}

// FormatDuration 以 1h 5m / 3m 20s / 45s 的形式显示时长
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0m 0s"
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

func capitalize(value string) string {
	if value == "" {
		return "N/A"
	}
	return strings.ToUpper(value[:1]) + strings.ToLower(value[1:])
}

type htmlReportRow struct {
	PhoneNumber string
	Reason      string
	Status      string
	StatusColor string
	Duration    string
	Agent       string
	Date        string
	Notes       string
}

type htmlReport struct {
	GeneratedAt string
	Filters     string
	Rows        []htmlReportRow
	Total       int
	Counts      map[string]int
}

var statusColors = map[models.CallStatus]string{
	models.CallStatusCompleted: "#10b981",
	models.CallStatusMissed:    "#ef4444",
	models.CallStatusAbandoned: "#f59e0b",
	models.CallStatusBusy:      "#6b7280",
}

// 2 WriteHTML 输出可打印的HTML报表
func (s *ReportService) WriteHTML(w io.Writer, calls []models.CallView, filters map[string]string) error {
	report := htmlReport{
		GeneratedAt: s.Now().In(s.Location).Format("2006-01-02 15:04:05 MST"),
		Filters:     formatFilters(filters),
		Rows:        make([]htmlReportRow, 0, len(calls)),
		Total:       len(calls),
		Counts:      make(map[string]int, len(models.CallStatuses)),
	}

	for _, call := range calls {
		report.Counts[string(call.Status)]++

		row := htmlReportRow{
			PhoneNumber: orNA(call.PhoneNumber),
			Reason:      orNA(call.Reason),
			Status:      orNA(string(call.Status)),
			StatusColor: "#6b7280",
			Duration:    "N/A",
			Agent:       "N/A",
			Date:        call.Date.In(s.Location).Format("2006-01-02"),
			Notes:       call.Notes,
		}
		if color, ok := statusColors[call.Status]; ok {
			row.StatusColor = color
		}
		if call.Duration > 0 {
			row.Duration = fmt.Sprintf("%d:%02d", call.Duration/60, call.Duration%60)
		}
		if call.AgentID != nil && call.AgentID.Name != "" {
			row.Agent = call.AgentID.Name
		}
		report.Rows = append(report.Rows, row)
	}

	return reportTemplate.Execute(w, report)
}

func formatFilters(filters map[string]string) string {
	keys := make([]string, 0, len(filters))
	for key, value := range filters {
		if value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+filters[key])
	}
	return strings.Join(parts, ", ")
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"css": func(value string) template.CSS { return template.CSS(value) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <title>Call Center Report</title>
  <meta charset="utf-8">
  <style>
    @media print { body { margin: 0; } .no-print { display: none; } }
    body { font-family: Arial, sans-serif; margin: 20px; font-size: 12px; line-height: 1.4; }
    table { width: 100%; border-collapse: collapse; margin-top: 20px; font-size: 11px; }
    th, td { border: 1px solid #ddd; padding: 6px; text-align: left; word-wrap: break-word; }
    th { background-color: #f2f2f2; font-weight: bold; }
    .header { text-align: center; margin-bottom: 20px; border-bottom: 2px solid #007cba; padding-bottom: 15px; }
    .filters { margin-bottom: 20px; padding: 10px; background-color: #f9f9f9; border-radius: 5px; }
    .summary { margin-top: 20px; padding: 10px; background-color: #f0f8ff; border-radius: 5px; }
    .status { padding: 2px 6px; border-radius: 3px; color: white; font-size: 10px; }
    button { background-color: #007cba; color: white; border: none; padding: 10px 20px; cursor: pointer; border-radius: 5px; }
  </style>
</head>
<body>
  <div class="header">
    <h1>Call Center Report</h1>
    <p>Generated on: {{.GeneratedAt}}</p>
  </div>
  <div class="no-print"><button onclick="window.print()">Print Report</button></div>
  {{if .Filters}}<div class="filters"><strong>Applied Filters:</strong> {{.Filters}}</div>{{end}}
  <table>
    <thead>
      <tr>
        <th>Phone Number</th><th>Reason</th><th>Status</th><th>Duration</th><th>Agent</th><th>Date</th><th>Notes</th>
      </tr>
    </thead>
    <tbody>
      {{- range .Rows}}
      <tr>
        <td>{{.PhoneNumber}}</td>
        <td>{{.Reason}}</td>
        <td><span class="status" style="background-color: {{css .StatusColor}}">{{.Status}}</span></td>
        <td>{{.Duration}}</td>
        <td>{{.Agent}}</td>
        <td>{{.Date}}</td>
        <td>{{.Notes}}</td>
      </tr>
      {{- end}}
    </tbody>
  </table>
  <div class="summary">
    <h3>Summary</h3>
    <p><strong>Total Records:</strong> {{.Total}}</p>
    <p><strong>Completed Calls:</strong> {{index .Counts "completed"}}</p>
    <p><strong>Missed Calls:</strong> {{index .Counts "missed"}}</p>
    <p><strong>Abandoned Calls:</strong> {{index .Counts "abandoned"}}</p>
    <p><strong>Busy Calls:</strong> {{index .Counts "busy"}}</p>
  </div>
</body>
</html>
`))
