package services

import (
	"sort"
	"testing"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeCallFilter(t *testing.T) {
	agent := models.Caller{ID: "agent-1", Role: models.RoleAgent}
	supervisor := models.Caller{ID: "sup-1", Role: models.RoleSupervisor}

	// 坐席请求其他坐席的数据时被强制改为自己
	scoped := ScopeCallFilter(agent, CallFilter{AgentID: "agent-2", Status: models.CallStatusMissed})
	assert.Equal(t, "agent-1", scoped.AgentID)
	assert.Equal(t, models.CallStatusMissed, scoped.Status)

	scoped = ScopeCallFilter(agent, CallFilter{})
	assert.Equal(t, "agent-1", scoped.AgentID)

	scoped = ScopeCallFilter(supervisor, CallFilter{AgentID: "agent-2"})
	assert.Equal(t, "agent-2", scoped.AgentID)

	scoped = ScopeCallFilter(supervisor, CallFilter{})
	assert.Empty(t, scoped.AgentID)

	// 未知角色按坐席处理
	scoped = ScopeCallFilter(models.Caller{ID: "x", Role: "guest"}, CallFilter{})
	assert.Equal(t, "x", scoped.AgentID)
}

func TestCanAccessCall(t *testing.T) {
	call := &models.Call{AgentID: "agent-1"}

	assert.True(t, CanAccessCall(models.Caller{ID: "agent-1", Role: models.RoleAgent}, call))
	assert.False(t, CanAccessCall(models.Caller{ID: "agent-2", Role: models.RoleAgent}, call))
	assert.True(t, CanAccessCall(models.Caller{ID: "sup", Role: models.RoleSupervisor}, call))
	assert.False(t, CanAccessCall(models.Caller{ID: "agent-1", Role: models.RoleAgent}, nil))
}

func TestCallQueryFilter(t *testing.T) {
	filter, err := CallQuery{
		Agent:     " agent-1 ",
		Status:    "completed",
		Reason:    " Billing ",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-15",
	}.Filter()
	require.NoError(t, err)

	assert.Equal(t, "agent-1", filter.AgentID)
	assert.Equal(t, models.CallStatusCompleted, filter.Status)
	assert.Equal(t, "Billing", filter.Reason)
	require.NotNil(t, filter.StartDate)
	require.NotNil(t, filter.EndDate)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *filter.StartDate)
	// 只有日期的结束时间覆盖当天全部
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999999999, time.UTC), *filter.EndDate)

	filter, err = CallQuery{EndDate: "2024-03-15T10:00:00Z"}.Filter()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), *filter.EndDate)
	assert.Nil(t, filter.StartDate)

	filter, err = CallQuery{}.Filter()
	require.NoError(t, err)
	assert.Equal(t, CallFilter{}, filter)
}

func TestCallQueryFilterInvalidDates(t *testing.T) {
	_, err := CallQuery{StartDate: "yesterday", EndDate: "2024-13-45"}.Filter()
	require.Error(t, err)

	appErr, ok := code.As(err)
	require.True(t, ok)
	assert.Equal(t, code.ErrValidation, appErr.Code)
	assert.True(t, appErr.HasField("startDate"))
	assert.True(t, appErr.HasField("endDate"))
	assert.Equal(t, 400, appErr.Status())
}

func TestCallQueryPagination(t *testing.T) {
	tests := []struct {
		name      string
		query     CallQuery
		wantPage  int
		wantLimit int
	}{
		{"defaults", CallQuery{}, 1, 10},
		{"explicit", CallQuery{Page: "3", Limit: "25"}, 3, 25},
		{"not a number", CallQuery{Page: "abc", Limit: "x"}, 1, 10},
		{"zero and negative", CallQuery{Page: "0", Limit: "-5"}, 1, 10},
		{"large limit kept", CallQuery{Limit: "500"}, 1, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := tt.query.Pagination()
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantLimit, page.Limit)
		})
	}
}

// Apply 与 Matches 对同一批数据必须给出相同结果
func TestCallFilterApplyMatchesAgree(t *testing.T) {
	db := openTestDB(t)
	agentA := createTestUser(t, db, "Agent A", "a@demo.com", models.RoleAgent)
	agentB := createTestUser(t, db, "Agent B", "b@demo.com", models.RoleAgent)

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	reasons := []string{"Billing", "Support", "billing"}
	for i := 0; i < 24; i++ {
		agent := agentA
		if i%2 == 1 {
			agent = agentB
		}
		createTestCall(t, db, agent.ID, base.Add(time.Duration(i)*6*time.Hour),
			models.CallStatuses[i%len(models.CallStatuses)], 60+i, reasons[i%len(reasons)])
	}

	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 13, 23, 59, 59, 999999999, time.UTC)
	exact := base.Add(12 * time.Hour)

	filters := map[string]CallFilter{
		"empty":       {},
		"agent":       {AgentID: agentA.ID},
		"status":      {Status: models.CallStatusMissed},
		"reason":      {Reason: "Billing"},
		"range":       {StartDate: &start, EndDate: &end},
		"start only":  {StartDate: &start},
		"end only":    {EndDate: &end},
		"exact bound": {StartDate: &exact, EndDate: &exact},
		"combined":    {AgentID: agentB.ID, Status: models.CallStatusMissed, StartDate: &start},
	}

	var all []models.Call
	require.NoError(t, db.Find(&all).Error)
	require.Len(t, all, 24)

	for name, filter := range filters {
		t.Run(name, func(t *testing.T) {
			var queried []models.Call
			require.NoError(t, db.Model(&models.Call{}).Scopes(filter.Apply).Find(&queried).Error)

			var matched []string
			for i := range all {
				if filter.Matches(&all[i]) {
					matched = append(matched, all[i].ID)
				}
			}

			assert.ElementsMatch(t, matched, callIDs(queried))
		})
	}

	// 原因过滤区分大小写，精确匹配
	var billing []models.Call
	require.NoError(t, db.Model(&models.Call{}).Scopes(CallFilter{Reason: "Billing"}.Apply).Find(&billing).Error)
	assert.Len(t, billing, 8)

	var bound []models.Call
	require.NoError(t, db.Model(&models.Call{}).Scopes(CallFilter{StartDate: &exact, EndDate: &exact}.Apply).Find(&bound).Error)
	assert.Len(t, bound, 1)
}

func callIDs(calls []models.Call) []string {
	ids := make([]string, 0, len(calls))
	for _, call := range calls {
		ids = append(ids, call.ID)
	}
	sort.Strings(ids)
	return ids
}
