package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() model.Roster {
	return model.Roster{
		model.NewRecord(map[string]string{"BIL": "1", "NAMA": "Ali, bin Abu", "NO_KAD_PENGENALAN": "840110-07-5583"}),
		model.NewRecord(map[string]string{"BIL": "2", "NAMA": "Siti", "NO_KAD_PENGENALAN": "900202-02-1234"}),
	}
}

func newTestServer(t *testing.T, load LoadFunc) *Server {
	t.Helper()
	srv, err := NewServer(context.Background(), ServerConfig{
		Addr: "127.0.0.1:0",
		Load: load,
		Now:  func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return srv
}

func staticLoad(ro model.Roster) LoadFunc {
	return func(context.Context) (Snapshot, error) {
		return Snapshot{Roster: ro, Source: "fallback"}, nil
	}
}

func TestNewServer_Validates(t *testing.T) {
	_, err := NewServer(context.Background(), ServerConfig{Load: staticLoad(nil)})
	assert.Error(t, err)

	_, err = NewServer(context.Background(), ServerConfig{Addr: ":0"})
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = NewServer(context.Background(), ServerConfig{Addr: ":0", Load: func(context.Context) (Snapshot, error) {
		return Snapshot{}, boom
	}})
	assert.ErrorIs(t, err, boom)
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, staticLoad(testRoster())).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok\n", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestServer(t, staticLoad(nil)).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
}

func TestExportCSV(t *testing.T) {
	ro := testRoster()
	h := newTestServer(t, staticLoad(ro)).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/export.csv", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv;charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="sk_sri_aman_staff_updated.csv"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, tabular.Encode(ro), rr.Body.String())

	back := tabular.DecodeString(rr.Body.String())
	require.Len(t, back.Records, 2)
	assert.Equal(t, "Ali, bin Abu", back.Records[0].Name())
}

func TestRosterJSON(t *testing.T) {
	h := newTestServer(t, staticLoad(testRoster())).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/roster.json", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got struct {
		Source  string              `json:"source"`
		Count   int                 `json:"count"`
		Records []map[string]string `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "fallback", got.Source)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, "Siti", got.Records[1]["NAMA"])
}

func TestSlip(t *testing.T) {
	h := newTestServer(t, staticLoad(testRoster())).Handler()

	t.Run("pdf", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/slip/900202021234.pdf", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rr.Body.String(), "%PDF"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "maklumat_2_900202021234.pdf")
	})

	t.Run("markdown", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/slip/900202-02-1234.md", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "# Siti")
	})

	t.Run("miss", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/slip/999999999999.pdf", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestReload(t *testing.T) {
	calls := 0
	var fail error
	load := func(context.Context) (Snapshot, error) {
		calls++
		if fail != nil {
			return Snapshot{}, fail
		}
		ro := testRoster()
		if calls > 1 {
			ro = ro[:1]
		}
		return Snapshot{Roster: ro, Source: "remote", Endpoint: "https://example.test/exec"}, nil
	}
	srv := newTestServer(t, load)
	h := srv.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/reload", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	snap, _ := srv.snapshot()
	assert.Len(t, snap.Roster, 1)

	fail = errors.New("sheet unreachable")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/reload", nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "sheet unreachable")

	snap, _ = srv.snapshot()
	assert.Len(t, snap.Roster, 1, "failed reload keeps the previous snapshot")
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, staticLoad(nil)).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/reload", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestSlip_UnknownFormat(t *testing.T) {
	h := newTestServer(t, staticLoad(testRoster())).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/slip/900202021234.docx", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
