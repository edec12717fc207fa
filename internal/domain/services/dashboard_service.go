package services

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/config"
	Logger "github.com/Anouar-Rezrazi/Konecta-Project/pkg/logger"

	"gorm.io/gorm"
)

const (
	// DefaultStatsDays 默认统计最近30天
	DefaultStatsDays = 30
	// TopAgentsLimit 排行榜最多返回的坐席数
	TopAgentsLimit = 5
)

// InterfaceDashboardService 定义仪表盘统计服务接口
type InterfaceDashboardService interface {
	GetDashboardStats(caller models.Caller, agentID string, days int) (*DashboardStats, error)
}

// Overview 统计窗口内的汇总数据
type Overview struct {
	TotalCalls     int64   `json:"totalCalls"`
	CompletedCalls int64   `json:"completedCalls"`
	MissedCalls    int64   `json:"missedCalls"`
	AbandonedCalls int64   `json:"abandonedCalls"`
	BusyCalls      int64   `json:"busyCalls"`
	AvgDuration    float64 `json:"avgDuration"`
	CompletionRate float64 `json:"completionRate"`
}

// ChartDataPoint 单日的分状态统计
type ChartDataPoint struct {
	Date      string `json:"date"`
	Completed int64  `json:"completed"`
	Missed    int64  `json:"missed"`
	Abandoned int64  `json:"abandoned"`
	Busy      int64  `json:"busy"`
	Total     int64  `json:"total"`
}

// TopAgent 排行榜中的坐席
type TopAgent struct {
	AgentID        string          `json:"agentId"`
	TotalCalls     int64           `json:"totalCalls"`
	CompletedCalls int64           `json:"completedCalls"`
	AvgDuration    float64         `json:"avgDuration"`
	Agent          models.AgentRef `json:"agent"`
}

// DashboardStats 仪表盘统计结果
type DashboardStats struct {
	Overview  Overview         `json:"overview"`
	ChartData []ChartDataPoint `json:"chartData"`
	TopAgents []TopAgent       `json:"topAgents"`
}

// DashboardService 仪表盘统计服务
type DashboardService struct {
	DB       *gorm.DB
	Cache    InterfaceRedisService
	Location *time.Location
	Now      func() time.Time
}

// NewDashboardService 创建仪表盘统计服务，cache 可以为空
func NewDashboardService(db *gorm.DB, cfg *config.Config, cache InterfaceRedisService) InterfaceDashboardService {
	return &DashboardService{
		DB:       db,
		Cache:    cache,
		Location: cfg.GetStatsLocation(),
		Now:      time.Now,
	}
}

// ParseDays 解析统计天数，缺失、非数字或负数时使用默认值
func ParseDays(value string) int {
	days, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || days < 0 {
		return DefaultStatsDays
	}
	return days
}

// StatsWindow 返回 [startOfDay(now-days), endOfDay(now)]
func StatsWindow(now time.Time, days int, loc *time.Location) (time.Time, time.Time) {
	now = now.In(loc)
	start := startOfDay(now.AddDate(0, 0, -days))
	end := startOfDay(now).AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// 1 GetDashboardStats 计算调用者可见范围内的统计数据
func (s *DashboardService) GetDashboardStats(caller models.Caller, agentID string, days int) (*DashboardStats, error) {
	if days < 0 {
		days = DefaultStatsDays
	}

	cacheKey := StatsCacheKey{CallerID: caller.ID, CallerRole: string(caller.Role), AgentID: agentID, Days: days}
	if s.Cache != nil {
		stats, err := s.Cache.GetDashboardStats(cacheKey)
		if err == nil {
			return stats, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			Logger.Warning("读取仪表盘缓存失败: %v", err)
		}
	}

	filter := ScopeCallFilter(caller, CallFilter{AgentID: agentID})
	start, end := StatsWindow(s.Now(), days, s.Location)
	filter.StartDate = &start
	filter.EndDate = &end

	overview, err := s.overview(filter)
	if err != nil {
		return nil, err
	}

	chartData, err := s.chartData(filter)
	if err != nil {
		return nil, err
	}

	topAgents := []TopAgent{}
	if caller.IsSupervisor() {
		if topAgents, err = s.topAgents(filter); err != nil {
			return nil, err
		}
	}

	stats := &DashboardStats{
		Overview:  overview,
		ChartData: chartData,
		TopAgents: topAgents,
	}

	if s.Cache != nil {
		if err := s.Cache.CacheDashboardStats(cacheKey, stats); err != nil {
			Logger.Warning("写入仪表盘缓存失败: %v", err)
		}
	}
	return stats, nil
}

type statusCountRow struct {
	Status      models.CallStatus
	Count       int64
	DurationSum int64
}

// overview 按状态分组统计数量与时长
func (s *DashboardService) overview(filter CallFilter) (Overview, error) {
	var rows []statusCountRow
	err := s.DB.Model(&models.Call{}).
		Scopes(filter.Apply).
		Select("calls.status AS status, COUNT(*) AS count, COALESCE(SUM(calls.duration), 0) AS duration_sum").
		Group("calls.status").
		Scan(&rows).Error
	if err != nil {
		return Overview{}, code.Wrap(code.ErrDatabase, err)
	}

	var overview Overview
	var completedDuration int64
	for _, row := range rows {
		overview.TotalCalls += row.Count
		switch row.Status {
		case models.CallStatusCompleted:
			overview.CompletedCalls = row.Count
			completedDuration = row.DurationSum
		case models.CallStatusMissed:
			overview.MissedCalls = row.Count
		case models.CallStatusAbandoned:
			overview.AbandonedCalls = row.Count
		case models.CallStatusBusy:
			overview.BusyCalls = row.Count
		}
	}

	overview.AvgDuration = ratio(completedDuration, overview.CompletedCalls)
	overview.CompletionRate = ratio(overview.CompletedCalls, overview.TotalCalls) * 100
	return overview, nil
}

// chartData 按统计时区的自然日分桶，只输出有通话的日期
func (s *DashboardService) chartData(filter CallFilter) ([]ChartDataPoint, error) {
	var calls []models.Call
	err := s.DB.Model(&models.Call{}).
		Scopes(filter.Apply).
		Select("calls.date, calls.status").
		Find(&calls).Error
	if err != nil {
		return nil, code.Wrap(code.ErrDatabase, err)
	}

	buckets := make(map[string]*ChartDataPoint)
	for _, call := range calls {
		day := call.Date.In(s.Location).Format("2006-01-02")
		point, ok := buckets[day]
		if !ok {
			point = &ChartDataPoint{Date: day}
			buckets[day] = point
		}
		switch call.Status {
		case models.CallStatusCompleted:
			point.Completed++
		case models.CallStatusMissed:
			point.Missed++
		case models.CallStatusAbandoned:
			point.Abandoned++
		case models.CallStatusBusy:
			point.Busy++
		}
		point.Total++
	}

	chartData := make([]ChartDataPoint, 0, len(buckets))
	for _, point := range buckets {
		chartData = append(chartData, *point)
	}
	sort.Slice(chartData, func(i, j int) bool {
		return chartData[i].Date < chartData[j].Date
	})
	return chartData, nil
}

type topAgentRow struct {
	AgentID           string
	Name              string
	Email             string
	TotalCalls        int64
	CompletedCalls    int64
	CompletedDuration int64
}

// topAgents 按通话总数排序的前五名坐席，已删除的用户不参与排名
func (s *DashboardService) topAgents(filter CallFilter) ([]TopAgent, error) {
	var rows []topAgentRow
	err := s.DB.Model(&models.Call{}).
		Scopes(filter.Apply).
		Select("calls.agent_id AS agent_id, users.name AS name, users.email AS email, COUNT(*) AS total_calls, "+
			"COALESCE(SUM(CASE WHEN calls.status = ? THEN 1 ELSE 0 END), 0) AS completed_calls, "+
			"COALESCE(SUM(CASE WHEN calls.status = ? THEN calls.duration ELSE 0 END), 0) AS completed_duration",
			models.CallStatusCompleted, models.CallStatusCompleted).
		Joins("INNER JOIN users ON users.id = calls.agent_id").
		Group("calls.agent_id, users.name, users.email").
		Order("total_calls DESC, calls.agent_id ASC").
		Limit(TopAgentsLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, code.Wrap(code.ErrDatabase, err)
	}

	agents := make([]TopAgent, 0, len(rows))
	for _, row := range rows {
		agents = append(agents, TopAgent{
			AgentID:        row.AgentID,
			TotalCalls:     row.TotalCalls,
			CompletedCalls: row.CompletedCalls,
			AvgDuration:    ratio(row.CompletedDuration, row.CompletedCalls),
			Agent:          models.AgentRef{ID: row.AgentID, Name: row.Name, Email: row.Email},
		})
	}
	return agents, nil
}

// ratio 分母为0时返回0
func ratio(numerator, denominator int64) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}
