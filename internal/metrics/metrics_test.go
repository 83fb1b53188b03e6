package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// counterValue sums the samples of a gathered counter whose labels include want.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			matched := true
			for k, v := range want {
				if labels[k] != v {
					matched = false
					break
				}
			}
			if matched {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

func TestCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin("code", ResultSuccess)
	c.RecordLogin("code", ResultSuccess)
	c.RecordLogin("id_token", ResultFailure)
	c.RecordSessionCheck(ResultFailure)
	c.RecordHTTPStatus(http.StatusUnauthorized)

	require.Equal(t, 2.0, counterValue(t, reg, "gateway_logins_total", map[string]string{"flow": "code", "result": ResultSuccess}))
	require.Equal(t, 1.0, counterValue(t, reg, "gateway_logins_total", map[string]string{"flow": "id_token", "result": ResultFailure}))
	require.Equal(t, 1.0, counterValue(t, reg, "gateway_session_checks_total", map[string]string{"result": ResultFailure}))
	require.Equal(t, 1.0, counterValue(t, reg, "gateway_http_responses_total", map[string]string{"status_code": "401"}))
}

func TestNewCollector_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewCollector(reg)
	require.Panics(t, func() { _ = NewCollector(reg) })
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLogin("id_token", ResultSuccess)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.True(t, strings.Contains(string(body), "gateway_logins_total"))
}
