package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/events"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/pipeline"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/stage"
)

type staticParser struct{}

func (staticParser) Parse(ctx context.Context, input string, kind core.InputKind) (*core.PaperDocument, error) {
	return &core.PaperDocument{
		Source:   "text_input",
		Metadata: core.PaperMetadata{Title: "Sparse Attention for Long Documents"},
		Sections: []core.PaperSection{
			{Heading: "Introduction", Kind: core.SectionIntroduction, Content: "We propose a novel sparse attention model."},
			{Heading: "Methodology", Kind: core.SectionMethodology, Content: "Sparse attention layers over document graphs."},
			{Heading: "Experiments", Kind: core.SectionExperiment, Content: "Accuracy improves to 94.2%."},
			{Heading: "Conclusion", Kind: core.SectionConclusion, Content: "Future work will explore streaming."},
		},
		FullText: input,
	}, nil
}

func newTestServer(t *testing.T, bus *events.Bus) *Server {
	t.Helper()
	orch := pipeline.New(
		stage.NewResourceExecutor(staticParser{}, nil, nil),
		stage.NewMethodologyExecutor(nil, nil),
		stage.NewExperimentExecutor(nil, nil),
		stage.NewInsightExecutor(nil, nil),
		stage.NewSynthesisExecutor(nil, nil),
		pipeline.Options{Notifier: busOrNil(bus)},
	)
	return New(DefaultConfig(), orch, bus, nil)
}

func busOrNil(bus *events.Bus) core.Notifier {
	if bus == nil {
		return nil
	}
	return bus
}

func TestHandleAnalyze(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{"input": "Some paper text about attention.", "type": "text", "save_report": false}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope core.RunEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.RunID)
	assert.Len(t, envelope.Stages, 5)
	for _, s := range core.Stages {
		assert.Contains(t, envelope.Stages, string(s))
	}
	require.NotNil(t, envelope.Outputs.Report)
	assert.Equal(t, "Analysis of: Sparse Attention for Long Documents", envelope.Outputs.Report.Title)
}

func TestHandleAnalyzeInvalidBody(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON body")
}

func TestHandleAnalyzeRejectedRequest(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"input": ""}`))
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var envelope core.RunEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Contains(t, envelope.Error, "invalid request")
	assert.Empty(t, envelope.Stages)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{"input": "Some paper text.", "type": "text", "save_report": false}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	srv.Router().ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Total       int      `json:"total_runs"`
		Successful  int      `json:"successful_runs"`
		SuccessRate float64  `json:"success_rate"`
		Stages      []string `json:"stages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 1, status.Total)
	assert.Equal(t, 1, status.Successful)
	assert.InDelta(t, 1.0, status.SuccessRate, 0.001)
	assert.Len(t, status.Stages, len(core.Stages))
}

func TestHandleEventsStreams(t *testing.T) {
	bus := events.NewBus(64)
	defer bus.Close()
	srv := newTestServer(t, bus)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	go func() {
		// Give the handler time to subscribe before publishing.
		time.Sleep(100 * time.Millisecond)
		bus.Publish(events.NewStageStartedEvent("run-1", "methodology"))
	}()

	scanner := bufio.NewScanner(resp.Body)
	var sawConnected, sawStage bool
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "event: connected") {
			sawConnected = true
		}
		if strings.Contains(line, "event: "+events.TypeStageStarted) {
			sawStage = true
			break
		}
	}
	assert.True(t, sawConnected, "connected event not received")
	assert.True(t, sawStage, "stage event not received")
}

func TestHandleEventsFiltersByRun(t *testing.T) {
	bus := events.NewBus(64)
	defer bus.Close()
	srv := newTestServer(t, bus)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events?run=run-2", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	go func() {
		time.Sleep(100 * time.Millisecond)
		bus.Publish(events.NewStageStartedEvent("run-1", "methodology"))
		bus.Publish(events.NewStageStartedEvent("run-2", "methodology"))
	}()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") && strings.Contains(line, "run-1") {
			t.Fatalf("event for filtered run leaked: %s", line)
		}
		if strings.Contains(line, `"run_id":"run-2"`) {
			return
		}
	}
	t.Fatal("filtered event never arrived")
}
