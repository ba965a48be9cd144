// README: Smoke cases: environment reachability, validation paths, and an optional live analysis.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusPending Status = "PENDING"
	StatusSkip    Status = "SKIP"
)

type Runner struct {
	cfg      Config
	httpc    *http.Client
	db       *pgxpool.Pool
	redis    *redis.Client
	clientID string
}

type Result struct {
	Status  Status
	Latency time.Duration
	Note    string
}

type Case struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:      cfg,
		httpc:    &http.Client{Timeout: 2 * time.Minute},
		clientID: "smoke_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
			defer r.db.Close()
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
		defer func() { _ = r.redis.Close() }()
	}

	cases := r.cases()
	results := make([]Result, 0, len(cases))
	for _, tc := range cases {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func validTrip() map[string]any {
	return map[string]any{
		"startCity": "São Paulo, SP",
		"endCity":   "Campinas, SP",
		"vehicle":   map[string]any{"model": "Fiat Argo", "year": "2021", "fuelType": "Flex"},
	}
}

func (r *Runner) cases() []Case {
	base := r.cfg.BaseURL
	invalidFuel := validTrip()
	invalidFuel["vehicle"] = map[string]any{"model": "Fiat Argo", "year": "2021", "fuelType": "GNV"}

	cases := []Case{
		{Name: "Env: Postgres connect", Run: pingPostgres},
		{Name: "Env: schema applied", Run: checkSchema},
		{Name: "Env: Redis ping", Run: pingRedis},
		httpCase("HTTP: health", http.MethodGet, base+"/health", nil, r.clientID, []int{200}, nil),
		httpCase("HTTP: invalid fuel rejected", http.MethodPost, base+"/api/analyses", invalidFuel, r.clientID, []int{400}, nil),
		httpCase("HTTP: malformed client id rejected", http.MethodGet, base+"/api/analyses/latest", nil, "bad id!", []int{400}, nil),
		httpCase("HTTP: latest empty for new client", http.MethodGet, base+"/api/analyses/latest", nil, r.clientID, []int{404}, nil),
		httpCase("HTTP: history", http.MethodGet, base+"/api/analyses?limit=1", nil, r.clientID, []int{200}, []int{503}),
		httpCase("HTTP: quota", http.MethodGet, base+"/api/quota", nil, r.clientID, []int{200}, []int{503}),
		httpCase("HTTP: city suggestions", http.MethodGet, base+"/api/places/cities?q=Campi", nil, r.clientID, []int{200}, []int{503}),
		{
			Name: "HTTP: concurrent invalid submissions",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentRejects(ctx, r, base+"/api/analyses", invalidFuel)
			},
		},
	}

	if !r.cfg.Live {
		return append(cases, Case{
			Name: "HTTP: live analysis",
			Run: func(context.Context, *Runner) Result {
				return Result{Status: StatusSkip, Note: "pass -live to spend one provider call"}
			},
		})
	}
	return append(cases,
		httpCase("HTTP: live analysis", http.MethodPost, base+"/api/analyses", validTrip(), r.clientID, []int{201}, []int{429}),
		httpCase("HTTP: latest after analysis", http.MethodGet, base+"/api/analyses/latest", nil, r.clientID, []int{200}, nil),
	)
}

func pingPostgres(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusSkip, Note: "db not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	start := time.Now()
	if err := r.db.Ping(ctx); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass, Latency: time.Since(start)}
}

func checkSchema(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusSkip, Note: "db not configured"}
	}
	var missing []string
	for _, table := range []string{"analyses", "ai_usage"} {
		var exists bool
		err := r.db.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, "public."+table).Scan(&exists)
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return Result{Status: StatusFail, Note: "missing tables: " + strings.Join(missing, ", ")}
	}
	return Result{Status: StatusPass}
}

func pingRedis(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: StatusSkip, Note: "redis not configured"}
	}
	start := time.Now()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass, Latency: time.Since(start)}
}

func httpCase(name, method, url string, body any, clientID string, okStatuses, pendingStatuses []int) Case {
	return Case{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			status, err := r.do(ctx, method, url, body, clientID)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			latency := time.Since(start)
			note := fmt.Sprintf("status=%d", status)
			switch {
			case contains(okStatuses, status):
				return Result{Status: StatusPass, Latency: latency, Note: note}
			case contains(pendingStatuses, status):
				return Result{Status: StatusPending, Latency: latency, Note: note}
			default:
				return Result{Status: StatusFail, Latency: latency, Note: note}
			}
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any, clientID string) (int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", clientID)
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// concurrentRejects fires invalid submissions in parallel; every one must be a 400 and none
// may reach the provider.
func concurrentRejects(ctx context.Context, r *Runner, url string, body any) Result {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		rejected int
		other    []int
	)
	start := time.Now()
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := r.do(ctx, http.MethodPost, url, body, r.clientID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil && status == http.StatusBadRequest {
				rejected++
				return
			}
			other = append(other, status)
		}()
	}
	wg.Wait()

	note := fmt.Sprintf("rejected=%d/%d", rejected, r.cfg.Concurrency)
	if len(other) > 0 {
		return Result{Status: StatusFail, Latency: time.Since(start), Note: fmt.Sprintf("%s other=%v", note, other)}
	}
	return Result{Status: StatusPass, Latency: time.Since(start), Note: note}
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
