package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aquarius/internal/api"
	"aquarius/internal/config"
	"aquarius/internal/logging"
	"aquarius/internal/packages"
	"aquarius/internal/pipeline"
	"aquarius/internal/testsupport"
)

// stubRunner records stage invocations without running anything.
type stubRunner struct {
	stages []string
	err    error
}

func (s *stubRunner) RunStage(_ context.Context, name string) (*pipeline.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.stages = append(s.stages, name)
	return &pipeline.Report{Stage: name, Message: name + ": 0 processed, 0 failed"}, nil
}

func (s *stubRunner) RunAll(ctx context.Context) ([]*pipeline.Report, error) {
	var reports []*pipeline.Report
	for _, name := range pipeline.StageNames() {
		report, err := s.RunStage(ctx, name)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func newTestServer(t *testing.T, cfg *config.Config) (*httptest.Server, *packages.Store, *stubRunner) {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)
	runner := &stubRunner{}
	server := httptest.NewServer(api.NewServer(cfg, store, runner, logging.NewNop()).Handler())
	t.Cleanup(server.Close)
	return server, store, runner
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreatePackage(t *testing.T) {
	server, store, _ := newTestServer(t, testsupport.NewConfig(t))

	resp := postJSON(t, server.URL+"/api/packages",
		`{"identifier":"bag-1","package_type":"aip","fedora_uri":"http://fedora.test/rest/prod/ab"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		ID            int64  `json:"id"`
		ProcessStatus int    `json:"process_status"`
		Origin        string `json:"origin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ProcessStatus != int(packages.StatusSaved) {
		t.Fatalf("aurora package should start saved, got %d", created.ProcessStatus)
	}
	if created.Origin != packages.OriginAurora {
		t.Fatalf("expected default origin, got %q", created.Origin)
	}

	pkg, err := store.GetByID(context.Background(), created.ID)
	if err != nil || pkg == nil {
		t.Fatalf("package not persisted: %v", err)
	}
}

func TestCreateDigitizationPackageSkipsEarlyStages(t *testing.T) {
	server, store, _ := newTestServer(t, testsupport.NewConfig(t))

	resp := postJSON(t, server.URL+"/api/packages",
		`{"identifier":"dig-1","package_type":"dip","origin":"digitization",`+
			`"archivesspace_identifier":"/repositories/2/archival_objects/77"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		ID            int64 `json:"id"`
		ProcessStatus int   `json:"process_status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ProcessStatus != int(packages.StatusTransferComponentCreated) {
		t.Fatalf("digitization package should join at status 40, got %d", created.ProcessStatus)
	}

	pkg, err := store.GetByID(context.Background(), created.ID)
	if err != nil || pkg == nil {
		t.Fatalf("package not persisted: %v", err)
	}
	if pkg.Data == nil || pkg.Data.ArchivesSpaceIdentifier != "/repositories/2/archival_objects/77" {
		t.Fatalf("component reference not stored: %+v", pkg.Data)
	}

	// Without the component reference the origin is rejected.
	resp = postJSON(t, server.URL+"/api/packages",
		`{"identifier":"dig-2","package_type":"dip","origin":"digitization"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without component reference, got %d", resp.StatusCode)
	}
}

func TestCreatePackageValidation(t *testing.T) {
	server, _, _ := newTestServer(t, testsupport.NewConfig(t))

	cases := []string{
		`{"package_type":"aip"}`,
		`{"identifier":"bag-1","package_type":"tarball"}`,
		`{"identifier":"bag-1","package_type":"aip","origin":"unknown"}`,
	}
	for _, body := range cases {
		if resp := postJSON(t, server.URL+"/api/packages", body); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestListAndGetPackages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	server, store, _ := newTestServer(t, cfg)

	pkg := &packages.Package{BagIdentifier: "bag-1", Type: "aip", ProcessStatus: packages.StatusUpdateSent}
	if err := store.Create(context.Background(), pkg); err != nil {
		t.Fatalf("seed package: %v", err)
	}

	resp, err := http.Get(server.URL + "/api/packages?status=60")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer resp.Body.Close()
	var listing struct {
		Count   int `json:"count"`
		Results []struct {
			ID int64 `json:"id"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if listing.Count != 1 || listing.Results[0].ID != pkg.ID {
		t.Fatalf("unexpected listing %+v", listing)
	}

	resp, err = http.Get(server.URL + "/api/packages/" + "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/api/packages/999")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRunStageEndpoint(t *testing.T) {
	server, _, runner := newTestServer(t, testsupport.NewConfig(t))

	resp := postJSON(t, server.URL+"/api/run/accession", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var report pipeline.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Stage != "accession" {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(runner.stages) != 1 || runner.stages[0] != "accession" {
		t.Fatalf("runner saw %v", runner.stages)
	}

	resp = postJSON(t, server.URL+"/api/run", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for run-all, got %d", resp.StatusCode)
	}
	if len(runner.stages) != 1+len(pipeline.StageNames()) {
		t.Fatalf("run-all should trigger every stage, saw %v", runner.stages)
	}
}

func TestStatusEndpoint(t *testing.T) {
	server, store, _ := newTestServer(t, testsupport.NewConfig(t))
	if err := store.Create(context.Background(), &packages.Package{BagIdentifier: "bag-1", Type: "aip"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, err := http.Get(server.URL + "/api/status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	defer resp.Body.Close()
	var status struct {
		Packages map[string]int `json:"packages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Packages["10"] != 1 {
		t.Fatalf("unexpected summary %v", status.Packages)
	}
}

func TestBearerTokenAuth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIToken = "sesame"
	server, _, _ := newTestServer(t, cfg)

	resp, err := http.Get(server.URL + "/api/status")
	if err != nil {
		t.Fatalf("unauthenticated request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/status", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer sesame")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("authenticated request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}
}
