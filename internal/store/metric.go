package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"strings"
	"time"

	"github.com/ngrok/sqlmw"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	statementVerb = regexp.MustCompile(`^\s*(\w+)`)

	dbOpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: "job_tracker",
		Name:      "db_op_duration_seconds",
		Help:      "Time spent on a database driver operation",
		Buckets:   []float64{.001, .005, .025, .1, .5, 1, 5},
	}, []string{"op", "statement"})

	dbOpTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "job_tracker",
		Name:      "db_op_total",
		Help:      "Number of database driver operations",
	}, []string{"op", "result"})
)

func init() {
	prometheus.MustRegister(dbOpLatency, dbOpTotal)
}

// metricInterceptor records latency and outcome of the pgx driver calls issued by gorm.
type metricInterceptor struct {
	sqlmw.NullInterceptor
}

func (mi *metricInterceptor) ConnBeginTx(ctx context.Context, conn driver.ConnBeginTx, opts driver.TxOptions) (context.Context, driver.Tx, error) {
	done := observe("begin", "")
	tx, err := conn.BeginTx(ctx, opts)
	done(err)
	return ctx, tx, err
}

func (mi *metricInterceptor) ConnPrepareContext(ctx context.Context, conn driver.ConnPrepareContext, query string) (context.Context, driver.Stmt, error) {
	done := observe("prepare", query)
	stmt, err := conn.PrepareContext(ctx, query)
	done(err)
	return ctx, stmt, err
}

func (mi *metricInterceptor) ConnExecContext(ctx context.Context, conn driver.ExecerContext, query string, args []driver.NamedValue) (driver.Result, error) {
	done := observe("exec", query)
	res, err := conn.ExecContext(ctx, query, args)
	done(err)
	return res, err
}

func (mi *metricInterceptor) ConnQueryContext(ctx context.Context, conn driver.QueryerContext, query string, args []driver.NamedValue) (context.Context, driver.Rows, error) {
	done := observe("query", query)
	rows, err := conn.QueryContext(ctx, query, args)
	done(err)
	return ctx, rows, err
}

func (mi *metricInterceptor) StmtExecContext(ctx context.Context, stmt driver.StmtExecContext, query string, args []driver.NamedValue) (driver.Result, error) {
	done := observe("stmt-exec", query)
	res, err := stmt.ExecContext(ctx, args)
	done(err)
	return res, err
}

func (mi *metricInterceptor) StmtQueryContext(ctx context.Context, stmt driver.StmtQueryContext, query string, args []driver.NamedValue) (context.Context, driver.Rows, error) {
	done := observe("stmt-query", query)
	rows, err := stmt.QueryContext(ctx, args)
	done(err)
	return ctx, rows, err
}

func (mi *metricInterceptor) TxCommit(ctx context.Context, tx driver.Tx) error {
	done := observe("commit", "")
	err := tx.Commit()
	done(err)
	return err
}

func (mi *metricInterceptor) TxRollback(ctx context.Context, tx driver.Tx) error {
	done := observe("rollback", "")
	err := tx.Rollback()
	done(err)
	return err
}

// observe starts timing op and returns the function that records it.
func observe(op, query string) func(error) {
	start := time.Now()
	return func(err error) {
		result := "ok"
		if err != nil {
			result = "error"
		}
		dbOpTotal.WithLabelValues(op, result).Inc()
		dbOpLatency.WithLabelValues(op, statementOf(query)).Observe(time.Since(start).Seconds())
	}
}

// statementOf returns the lowercased leading SQL verb of query.
func statementOf(query string) string {
	m := statementVerb.FindStringSubmatch(query)
	if len(m) < 2 {
		return "none"
	}
	return strings.ToLower(m[1])
}
