package aurora_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"aquarius/internal/aurora"
	"aquarius/internal/logging"
	"aquarius/internal/testsupport"
)

func newTestClient(t *testing.T, mux *http.ServeMux) (*aurora.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t)
	cfg.Aurora.BaseURL = server.URL
	return aurora.NewClient(cfg, logging.NewNop()), server
}

func tokenHandler(tokens *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		atomic.AddInt32(tokens, 1)
		json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	}
}

func TestRetrieveUsesBearerToken(t *testing.T) {
	var tokens int32
	mux := http.NewServeMux()
	mux.HandleFunc("/get-token/", tokenHandler(&tokens))
	mux.HandleFunc("/transfers/1/", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected authorization header %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"url": "/transfers/1/"})
	})

	client, _ := newTestClient(t, mux)
	var record map[string]string
	if err := client.Retrieve(context.Background(), "/transfers/1/", &record); err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if record["url"] != "/transfers/1/" {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestRetrieveNotFound(t *testing.T) {
	var tokens int32
	mux := http.NewServeMux()
	mux.HandleFunc("/get-token/", tokenHandler(&tokens))
	mux.HandleFunc("/transfers/404/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client, _ := newTestClient(t, mux)
	var record map[string]string
	err := client.Retrieve(context.Background(), "/transfers/404/", &record)
	if !errors.Is(err, aurora.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestTokenRefreshOnUnauthorized(t *testing.T) {
	var tokens, attempts int32
	mux := http.NewServeMux()
	mux.HandleFunc("/get-token/", tokenHandler(&tokens))
	mux.HandleFunc("/transfers/2/", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"url": "/transfers/2/"})
	})

	client, _ := newTestClient(t, mux)
	var record map[string]string
	if err := client.Retrieve(context.Background(), "/transfers/2/", &record); err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if atomic.LoadInt32(&tokens) != 2 {
		t.Fatalf("expected token refresh, got %d token requests", tokens)
	}
}

func TestFindBagByID(t *testing.T) {
	var tokens int32
	mux := http.NewServeMux()
	mux.HandleFunc("/get-token/", tokenHandler(&tokens))
	mux.HandleFunc("/bags/", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "bag-1" {
			t.Errorf("unexpected id filter %q", got)
		}
		json.NewEncoder(w).Encode([]map[string]string{{"url": "/bags/17/"}})
	})
	mux.HandleFunc("/bags/17/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"url": "/bags/17/", "accession": "/accessions/3/"})
	})

	client, _ := newTestClient(t, mux)
	var record map[string]string
	if err := client.FindBagByID(context.Background(), "bag-1", &record); err != nil {
		t.Fatalf("find bag: %v", err)
	}
	if record["accession"] != "/accessions/3/" {
		t.Fatalf("unexpected bag record %v", record)
	}
}

func TestFindBagByIDRequiresSingleMatch(t *testing.T) {
	var tokens int32
	mux := http.NewServeMux()
	mux.HandleFunc("/get-token/", tokenHandler(&tokens))
	mux.HandleFunc("/bags/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{{"url": "/bags/1/"}, {"url": "/bags/2/"}})
	})

	client, _ := newTestClient(t, mux)
	var record map[string]string
	err := client.FindBagByID(context.Background(), "bag-dup", &record)
	if !errors.Is(err, aurora.ErrNotFound) {
		t.Fatalf("expected not-found error for ambiguous listing, got %v", err)
	}
}

func TestRetrievePagedWalksNextLinks(t *testing.T) {
	var tokens int32
	mux := http.NewServeMux()
	mux.HandleFunc("/get-token/", tokenHandler(&tokens))
	mux.HandleFunc("/transfers/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			json.NewEncoder(w).Encode(map[string]any{
				"next":    "",
				"results": []map[string]string{{"url": "/transfers/2/"}},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"next":    "/transfers/?page=2",
			"results": []map[string]string{{"url": "/transfers/1/"}},
		})
	})

	client, _ := newTestClient(t, mux)
	results, err := client.RetrievePaged(context.Background(), "/transfers/", url.Values{})
	if err != nil {
		t.Fatalf("retrieve paged: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results across pages, got %d", len(results))
	}
}

func TestUpdateSendsPut(t *testing.T) {
	var tokens int32
	mux := http.NewServeMux()
	mux.HandleFunc("/get-token/", tokenHandler(&tokens))
	mux.HandleFunc("/transfers/5/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["process_status"] != float64(90) {
			t.Errorf("unexpected process status %v", body["process_status"])
		}
		json.NewEncoder(w).Encode(body)
	})

	client, _ := newTestClient(t, mux)
	err := client.Update(context.Background(), "/transfers/5/", map[string]any{"process_status": 90})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
}
