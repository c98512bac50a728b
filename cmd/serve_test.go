package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/venue-lead-cli/internal/cost"
	"github.com/sells-group/venue-lead-cli/internal/enrich"
	"github.com/sells-group/venue-lead-cli/internal/model"
	"github.com/sells-group/venue-lead-cli/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	env := &pipelineEnv{
		Store:    st,
		Pipeline: enrich.NewPipeline(nil, nil, enrich.WithStore(st)),
	}
	srv := httptest.NewServer(newRouter(context.Background(), env))
	t.Cleanup(srv.Close)
	return srv, st
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_Costs(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/costs")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decodeBody[cost.Summary](t, resp)
	assert.Zero(t, sum.CompletionCalls)
}

func TestServer_WebhookRejectsBadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/webhook/enrich", "not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/webhook/enrich", `{"website":"grandoakbarn.com"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "name is required", body["error"])
}

func TestServer_WebhookAcceptsAndEnriches(t *testing.T) {
	srv, st := newTestServer(t)

	resp := postJSON(t, srv.URL+"/webhook/enrich",
		`{"id":"lead-1","name":"The Grand Oak Barn","website":"grandoakbarn.com","city":"Austin","state":"TX"}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "accepted", body["status"])
	assert.Equal(t, "lead-1", body["lead_id"])

	// Enrichment runs async; wait for the record to land.
	require.Eventually(t, func() bool {
		sl, err := st.GetLead(context.Background(), "lead-1")
		return err == nil && sl.Status == model.LeadStatusEnriched
	}, 5*time.Second, 20*time.Millisecond)
}

func TestServer_WebhookGeneratesID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/webhook/enrich", `{"name":"Hill Top Hall"}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.NotEmpty(t, body["lead_id"])
}

func TestServer_BatchEnrich(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/enrich/batch", `{"leads":[
		{"id":"lead-1","name":"The Grand Oak Barn","website":"grandoakbarn.com"},
		{"id":"lead-2","name":"No Website Venue"}
	]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decodeBody[model.BatchSummary](t, resp)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
}

func TestServer_BatchEnrich_EmptyLeads(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/enrich/batch", `{"leads":[]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ListLeads(t *testing.T) {
	srv, st := newTestServer(t)

	require.NoError(t, st.SaveLead(context.Background(), model.Lead{ID: "lead-1", Name: "Venue A"}))
	require.NoError(t, st.SaveLead(context.Background(), model.Lead{ID: "lead-2", Name: "Venue B"}))

	resp, err := http.Get(srv.URL + "/leads?status=saved")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored := decodeBody[[]store.StoredLead](t, resp)
	assert.Len(t, stored, 2)
}

func TestServer_GetLead(t *testing.T) {
	srv, st := newTestServer(t)
	require.NoError(t, st.SaveLead(context.Background(), model.Lead{ID: "lead-1", Name: "Venue A"}))

	resp, err := http.Get(srv.URL + "/leads/lead-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sl := decodeBody[store.StoredLead](t, resp)
	assert.Equal(t, "Venue A", sl.Lead.Name)
	assert.Equal(t, model.LeadStatusSaved, sl.Status)

	resp, err = http.Get(srv.URL + "/leads/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
