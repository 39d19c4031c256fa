package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	examsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "examhall_exams_created_total",
		Help: "Number of exams created.",
	})
	answerSubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "examhall_answer_submissions_total",
		Help: "Number of accepted answer submissions.",
	})
	roundAdvancesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "examhall_round_advances_total",
		Help: "Number of successful round advances, including the completing one.",
	})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// counted increments the counter when the wrapped handler responds 2xx.
func counted(counter prometheus.Counter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		if rec.status < 300 {
			counter.Inc()
		}
	}
}
