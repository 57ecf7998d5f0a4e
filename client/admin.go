package client

import (
	"encoding/json"
	"net/http"
)

// NewDebugMux 调试接口：
// GET /metrics  输出同步指标与当前帧序号
// GET /healthz  存活探针
func NewDebugMux(l *Loop) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		HandleMetrics(w, r, l)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// HandleMetrics 输出帧循环的运行指标
func HandleMetrics(w http.ResponseWriter, r *http.Request, l *Loop) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	payload := map[string]any{
		"tick":    l.Seq(),
		"metrics": l.Engine.Metrics().Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
