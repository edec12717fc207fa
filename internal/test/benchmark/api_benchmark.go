//go:build benchmark

package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"
)

// APIBenchmark 对运行中的服务并发压测
type APIBenchmark struct {
	BaseURL     string
	Concurrency int
	Requests    int
	AuthToken   string
	Client      *http.Client
}

// Scenario 一个压测场景，Expect 为视为成功的状态码
type Scenario struct {
	Name    string
	Method  string
	Path    string
	Payload interface{}
	Expect  []int
}

// BenchmarkResult 按结果类别统计
type BenchmarkResult struct {
	Name           string        `json:"name"`
	Method         string        `json:"method"`
	Path           string        `json:"path"`
	Concurrency    int           `json:"concurrency"`
	TotalRequests  int           `json:"total_requests"`
	Expected       int           `json:"expected"`
	Denied         int           `json:"denied"`
	RateLimited    int           `json:"rate_limited"`
	Failed         int           `json:"failed"`
	TotalTime      time.Duration `json:"total_time"`
	P50            time.Duration `json:"p50"`
	P95            time.Duration `json:"p95"`
	MaxTime        time.Duration `json:"max_time"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	StatusCodes    map[int]int   `json:"status_codes"`
	Errors         []string      `json:"errors"`
}

type requestResult struct {
	duration time.Duration
	status   int
	err      error
}

// NewAPIBenchmark 创建压测实例
func NewAPIBenchmark(baseURL string, concurrency, requests int, authToken string) *APIBenchmark {
	return &APIBenchmark{
		BaseURL:     baseURL,
		Concurrency: concurrency,
		Requests:    requests,
		AuthToken:   authToken,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Do 发送单个请求并把响应解析到out中
func (b *APIBenchmark) Do(method, path string, payload, out interface{}) (int, error) {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return 0, fmt.Errorf("JSON编码错误: %w", err)
		}
	}

	req, err := http.NewRequest(method, b.BaseURL+path, &body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+b.AuthToken)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("解析响应失败: %w", err)
		}
		return resp.StatusCode, nil
	}
	// 读完响应体以复用连接
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// Run 并发执行场景
func (b *APIBenchmark) Run(s Scenario) *BenchmarkResult {
	if len(s.Expect) == 0 {
		s.Expect = []int{http.StatusOK}
	}

	results := make(chan requestResult, b.Requests)
	limiter := make(chan struct{}, b.Concurrency)
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < b.Requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter <- struct{}{}
			defer func() { <-limiter }()

			begin := time.Now()
			status, err := b.Do(s.Method, s.Path, s.Payload, nil)
			results <- requestResult{duration: time.Since(begin), status: status, err: err}
		}()
	}
	wg.Wait()
	close(results)

	result := &BenchmarkResult{
		Name:          s.Name,
		Method:        s.Method,
		Path:          s.Path,
		Concurrency:   b.Concurrency,
		TotalRequests: b.Requests,
		TotalTime:     time.Since(start),
		StatusCodes:   make(map[int]int),
	}

	durations := make([]time.Duration, 0, b.Requests)
	for r := range results {
		if r.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, r.err.Error())
			continue
		}
		durations = append(durations, r.duration)
		result.StatusCodes[r.status]++
		result.classify(r.status, s.Expect)
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	result.P50 = percentile(durations, 50)
	result.P95 = percentile(durations, 95)
	if len(durations) > 0 {
		result.MaxTime = durations[len(durations)-1]
	}
	if secs := result.TotalTime.Seconds(); secs > 0 {
		result.RequestsPerSec = float64(b.Requests) / secs
	}
	return result
}

// classify 预期内的401/403算作Expected，其余分别计入拒绝、限流和失败
func (r *BenchmarkResult) classify(status int, expect []int) {
	for _, want := range expect {
		if status == want {
			r.Expected++
			return
		}
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		r.Denied++
	case http.StatusTooManyRequests:
		r.RateLimited++
	default:
		r.Failed++
	}
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := (len(sorted)*p+99)/100 - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// PrintResult 打印压测结果
func (r *BenchmarkResult) PrintResult() {
	fmt.Printf("== %s (%s %s) ==\n", r.Name, r.Method, r.Path)
	fmt.Printf("并发数: %d  总请求数: %d  总耗时: %s  每秒请求数: %.2f\n",
		r.Concurrency, r.TotalRequests, r.TotalTime, r.RequestsPerSec)
	fmt.Printf("符合预期: %d  权限拒绝: %d  被限流: %d  失败: %d\n",
		r.Expected, r.Denied, r.RateLimited, r.Failed)
	fmt.Printf("P50: %s  P95: %s  最大耗时: %s\n", r.P50, r.P95, r.MaxTime)

	codes := make([]int, 0, len(r.StatusCodes))
	for status := range r.StatusCodes {
		codes = append(codes, status)
	}
	sort.Ints(codes)
	for _, status := range codes {
		fmt.Printf("  %d: %d\n", status, r.StatusCodes[status])
	}

	for i, err := range r.Errors {
		if i >= 5 {
			fmt.Printf("  ... 还有 %d 个错误\n", len(r.Errors)-5)
			break
		}
		fmt.Printf("  %s\n", err)
	}
}
