package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	psvmerrors "github.com/paritytech/psvm/pkg/errors"
	"github.com/paritytech/psvm/pkg/integrations"
	"github.com/paritytech/psvm/pkg/versions"
)

type fakeResolver struct {
	got versions.Request
	m   versions.Mapping
	err error
}

func (f *fakeResolver) Resolve(_ context.Context, req versions.Request) (versions.Mapping, error) {
	f.got = req
	return f.m, f.err
}

type fakeReleases struct {
	sdk      []string
	families map[string][]string
	refresh  bool
	err      error
}

func (f *fakeReleases) Releases(_ context.Context, refresh bool) ([]string, error) {
	f.refresh = refresh
	return f.sdk, f.err
}

func (f *fakeReleases) FamilyReleases(_ context.Context, family string, refresh bool) ([]string, error) {
	f.refresh = refresh
	list, ok := f.families[family]
	if !ok {
		return nil, psvmerrors.New(psvmerrors.ErrCodeUnknownFamily, "unknown family %q", family)
	}
	return list, nil
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s response: %v (%s)", target, err, rec.Body.String())
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	h := New(&fakeResolver{}, &fakeReleases{}, quietLogger()).Handler()
	rec, body := get(t, h, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestReleases(t *testing.T) {
	rel := &fakeReleases{
		sdk:      []string{"1.5.0", "1.6.0", "stable2407"},
		families: map[string][]string{"orml": {"1.6.0"}},
	}
	h := New(&fakeResolver{}, rel, quietLogger()).Handler()

	rec, body := get(t, h, "/v1/releases?refresh=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if diff := cmp.Diff([]any{"1.5.0", "1.6.0", "stable2407"}, body["releases"]); diff != "" {
		t.Errorf("releases mismatch (-want +got):\n%s", diff)
	}
	if !rel.refresh {
		t.Error("refresh=true was not passed to the lister")
	}

	rec, body = get(t, h, "/v1/releases?family=orml")
	if rec.Code != http.StatusOK || body["family"] != "orml" {
		t.Errorf("family releases = %d %v", rec.Code, body)
	}

	rec, body = get(t, h, "/v1/releases?family=acala")
	if rec.Code != http.StatusNotFound || body["code"] != string(psvmerrors.ErrCodeUnknownFamily) {
		t.Errorf("unknown family = %d %v", rec.Code, body)
	}
}

func TestReleases_Empty(t *testing.T) {
	h := New(&fakeResolver{}, &fakeReleases{}, quietLogger()).Handler()
	_, body := get(t, h, "/v1/releases")
	if list, ok := body["releases"].([]any); !ok || len(list) != 0 {
		t.Errorf("releases = %#v, want empty list", body["releases"])
	}
}

func TestCrates(t *testing.T) {
	res := &fakeResolver{m: versions.Mapping{"sp-core": "28.0.0", "orml-tokens": "0.7.0"}}
	h := New(res, &fakeReleases{}, quietLogger()).Handler()

	rec, body := get(t, h, "/v1/releases/1.6.0/crates?source=lockfile&family=orml&family=extra,more")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	want := versions.Request{
		Release:  "1.6.0",
		Source:   versions.SourceLockfile,
		Families: []string{"orml", "extra", "more"},
	}
	if diff := cmp.Diff(want, res.got); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
	crates := body["crates"].(map[string]any)
	if crates["sp-core"] != "28.0.0" || len(crates) != 2 {
		t.Errorf("crates = %v", crates)
	}
	if body["source"] != versions.SourceLockfile.String() {
		t.Errorf("source = %v", body["source"])
	}
}

func TestCrates_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
		code   psvmerrors.Code
	}{
		{
			name:   "bad source",
			target: "/v1/releases/1.6.0/crates?source=yaml",
			status: http.StatusBadRequest,
			code:   psvmerrors.ErrCodeInvalidInput,
		},
		{
			name:   "not found",
			target: "/v1/releases/9.9.9/crates",
			err:    &versions.ResolutionError{Release: "9.9.9", Code: psvmerrors.ErrCodeNotFound, Err: integrations.ErrNotFound},
			status: http.StatusNotFound,
			code:   psvmerrors.ErrCodeNotFound,
		},
		{
			name:   "network",
			target: "/v1/releases/1.6.0/crates",
			err:    &versions.ResolutionError{Release: "1.6.0", Code: psvmerrors.ErrCodeNetwork, Err: integrations.ErrNetwork},
			status: http.StatusBadGateway,
			code:   psvmerrors.ErrCodeNetwork,
		},
		{
			name:   "malformed document",
			target: "/v1/releases/1.6.0/crates",
			err:    &versions.ResolutionError{Release: "1.6.0", Code: psvmerrors.ErrCodeInvalidFormat, Err: fmt.Errorf("bad toml")},
			status: http.StatusUnprocessableEntity,
			code:   psvmerrors.ErrCodeInvalidFormat,
		},
		{
			name:   "unknown family",
			target: "/v1/releases/1.6.0/crates?family=acala",
			err:    &versions.ResolutionError{Release: "1.6.0", Code: psvmerrors.ErrCodeUnknownFamily, Err: fmt.Errorf("unknown family")},
			status: http.StatusNotFound,
			code:   psvmerrors.ErrCodeUnknownFamily,
		},
		{
			name:   "invalid release",
			target: "/v1/releases/1.6.0%20x/crates",
			err:    psvmerrors.New(psvmerrors.ErrCodeInvalidRelease, "release contains invalid characters"),
			status: http.StatusBadRequest,
			code:   psvmerrors.ErrCodeInvalidRelease,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(&fakeResolver{err: tt.err}, &fakeReleases{}, quietLogger()).Handler()
			rec, body := get(t, h, tt.target)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if body["code"] != string(tt.code) {
				t.Errorf("code = %v, want %s", body["code"], tt.code)
			}
			if msg, _ := body["error"].(string); msg == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestStatusFor_Sentinels(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("list: %w", integrations.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("list: %w", integrations.ErrNetwork), http.StatusBadGateway},
		{&psvmerrors.RateLimitedError{RetryAfter: 10}, http.StatusTooManyRequests},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestCrates_WithResolver(t *testing.T) {
	raw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/paritytech/polkadot-sdk/release-crates-io-v1.6.0/Plan.toml":
			fmt.Fprint(w, "[[crate]]\nname = \"sp-core\"\nto = \"28.0.0\"\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer raw.Close()

	resolver := versions.NewResolver(integrations.NewClient(nil), versions.Options{
		BaseURL: raw.URL,
		Logger:  quietLogger(),
	})
	h := New(resolver, &fakeReleases{}, quietLogger()).Handler()

	rec, body := get(t, h, "/v1/releases/1.6.0/crates")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	if diff := cmp.Diff(map[string]any{"sp-core": "28.0.0"}, body["crates"]); diff != "" {
		t.Errorf("crates mismatch (-want +got):\n%s", diff)
	}
}

func TestServe_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := New(&fakeResolver{}, &fakeReleases{}, quietLogger())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("body = %s", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
