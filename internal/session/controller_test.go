package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/remote"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/store"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "https://sheet.example.test/exec"

type fakeSyncer struct {
	mu      sync.Mutex
	roster  model.Roster
	fetchFn func(url string) (model.Roster, error)
	saveErr error
	saved   []model.Record
	fetches int
}

func (f *fakeSyncer) FetchAll(_ context.Context, url string) (model.Roster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchFn != nil {
		return f.fetchFn(url)
	}
	return f.roster.Clone(), nil
}

func (f *fakeSyncer) SaveOne(_ context.Context, _ string, rec model.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, rec)
	f.roster.Replace(rec)
	return nil
}

func rec(bil, name, ic string) model.Record {
	return model.NewRecord(map[string]string{"BIL": bil, "NAMA": name, "NO_KAD_PENGENALAN": ic})
}

func fallbackCSV() []byte {
	return []byte(tabular.Encode(model.Roster{
		rec("1", "Ali", "840110-07-5583"),
		rec("2", "Siti", "900202-02-1234"),
	}))
}

func remoteRoster() model.Roster {
	return model.Roster{
		rec("1", "Ali (sheet)", "840110-07-5583"),
		rec("2", "Siti (sheet)", "900202-02-1234"),
		rec("3", "Abu (sheet)", "770707-07-7777"),
	}
}

func offline(t *testing.T) *Controller {
	t.Helper()
	c := New(Options{Fallback: fallbackCSV()})
	rep := c.Start(context.Background())
	require.NoError(t, rep.Err)
	require.Equal(t, SourceFallback, rep.Source)
	return c
}

func online(t *testing.T, sy *fakeSyncer) *Controller {
	t.Helper()
	c := New(Options{Syncer: sy, Fallback: fallbackCSV(), DefaultEndpoint: testURL})
	rep := c.Start(context.Background())
	require.NoError(t, rep.Err)
	require.Equal(t, SourceRemote, rep.Source)
	require.True(t, c.Connected())
	return c
}

func TestStart_WithoutEndpointUsesFallback(t *testing.T) {
	c := offline(t)
	assert.False(t, c.Connected())
	assert.Equal(t, "", c.Endpoint())
	assert.Len(t, c.Roster(), 2)
	assert.False(t, c.LoggedIn())
}

func TestStart_PrefersStoredURL(t *testing.T) {
	var got string
	sy := &fakeSyncer{fetchFn: func(url string) (model.Roster, error) {
		got = url
		return remoteRoster(), nil
	}}
	settings := store.NewMemorySettings(map[string]string{store.SheetURLKey: " https://stored.example.test "})

	c := New(Options{Syncer: sy, Settings: settings, Fallback: fallbackCSV(), DefaultEndpoint: testURL})
	rep := c.Start(context.Background())

	require.NoError(t, rep.Err)
	assert.Equal(t, "https://stored.example.test", got)
	assert.Equal(t, 3, rep.Records)
	assert.Equal(t, "Abu (sheet)", c.Roster()[2].Name())
}

func TestStart_ConnectivityFailureKeepsFallback(t *testing.T) {
	failure := &remote.ConnectivityError{Kind: remote.KindTransport, Op: "fetch roster", Status: 500}
	sy := &fakeSyncer{fetchFn: func(string) (model.Roster, error) { return nil, failure }}

	c := New(Options{Syncer: sy, Fallback: fallbackCSV(), DefaultEndpoint: testURL})
	rep := c.Start(context.Background())

	require.Error(t, rep.Err)
	assert.True(t, IsConnectivity(rep.Err))
	assert.Equal(t, SourceFallback, rep.Source)
	assert.False(t, c.Connected())
	assert.Equal(t, testURL, c.Endpoint(), "endpoint is kept for a retry")
	assert.Equal(t, "Ali", c.Roster()[0].Name())
}

func TestStart_EmptyRemoteRosterIsFailure(t *testing.T) {
	sy := &fakeSyncer{roster: model.Roster{}}
	c := New(Options{Syncer: sy, Fallback: fallbackCSV(), DefaultEndpoint: testURL})
	rep := c.Start(context.Background())

	require.Error(t, rep.Err)
	assert.ErrorIs(t, rep.Err, ErrEmptyRoster)
	assert.ErrorIs(t, rep.Err, remote.ErrConnectivity)
	assert.False(t, c.Connected())
	assert.Len(t, c.Roster(), 2)
}

func TestReload_FailureLeavesRosterUntouched(t *testing.T) {
	sy := &fakeSyncer{roster: remoteRoster()}
	c := online(t, sy)
	before := c.Roster()

	sy.fetchFn = func(string) (model.Roster, error) {
		return nil, &remote.ConnectivityError{Kind: remote.KindFormat, Op: "fetch roster"}
	}
	rep := c.Reload(context.Background())

	require.Error(t, rep.Err)
	assert.Equal(t, before, c.Roster())
	assert.Equal(t, SourceRemote, c.Source())
	assert.False(t, c.Connected())
}

func TestLogin_NormalizesIdentity(t *testing.T) {
	for _, in := range []string{"840110-07-5583", "840110075583", "8401100 75583"} {
		t.Run(in, func(t *testing.T) {
			c := offline(t)
			require.NoError(t, c.Login(in))
			got, ok := c.Active()
			require.True(t, ok)
			assert.Equal(t, "Ali", got.Name())
			assert.False(t, c.Dirty())
		})
	}
}

func TestLogin_Miss(t *testing.T) {
	c := offline(t)
	require.NoError(t, c.Login("900202021234"))

	err := c.Login("999999999999")
	assert.ErrorIs(t, err, ErrLookupMiss)
	got, ok := c.Active()
	require.True(t, ok, "a miss leaves the open record alone")
	assert.Equal(t, "Siti", got.Name())

	assert.ErrorIs(t, c.Login("abc"), ErrLookupMiss)
}

func TestLogin_RefusesWhileDirty(t *testing.T) {
	c := offline(t)
	require.NoError(t, c.Login("840110075583"))
	require.NoError(t, c.Login("900202021234"), "a clean record can be replaced")

	require.NoError(t, c.Edit(schema.NO_TEL, "013-1111111"))
	assert.ErrorIs(t, c.Login("840110075583"), ErrUnsavedChanges)

	got, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, "Siti", got.Name())
	assert.Equal(t, "013-1111111", got.Get(schema.NO_TEL))
	assert.True(t, c.Dirty())

	require.NoError(t, c.Logout(true))
	require.NoError(t, c.Login("840110075583"))
	got, _ = c.Active()
	assert.Equal(t, "Ali", got.Name())
}

func TestEdit_DirtyFlagAndCopySemantics(t *testing.T) {
	c := offline(t)

	assert.ErrorIs(t, c.Edit(schema.GRED, "DG44"), ErrNotLoggedIn)

	require.NoError(t, c.Login("840110075583"))
	require.NoError(t, c.Edit(schema.GRED, "DG44"))
	assert.True(t, c.Dirty())
	assert.Equal(t, SaveIdle, c.SaveState())

	got, _ := c.Active()
	assert.Equal(t, "DG44", got.Get(schema.GRED))
	assert.Equal(t, "", c.Roster()[0].Get(schema.GRED), "roster changes only on save")

	got.Set(schema.GRED, "mutated")
	again, _ := c.Active()
	assert.Equal(t, "DG44", again.Get(schema.GRED), "Active returns a copy")
}

func TestEdit_LockedAndUnknownFields(t *testing.T) {
	c := offline(t)
	require.NoError(t, c.Login("840110075583"))

	for _, f := range []schema.Field{schema.BIL, schema.NAMA, schema.NO_KAD_PENGENALAN, schema.TARIKH_KELUAR} {
		assert.ErrorIs(t, c.Edit(f, "x"), ErrFieldLocked, f.ID())
	}
	assert.ErrorIs(t, c.Edit(schema.Field(99), "x"), ErrUnknownField)
	assert.ErrorIs(t, c.EditByID("NOPE", "x"), ErrUnknownField)
	assert.False(t, c.Dirty())

	require.NoError(t, c.EditByID("no_tel", "012-0000000"))
	assert.True(t, c.Dirty())
}

func TestSave_WithoutEndpointIsLocalOnly(t *testing.T) {
	c := offline(t)
	require.NoError(t, c.Login("900202021234"))
	require.NoError(t, c.Edit(schema.NO_TEL, "013-1111111"))

	outcome, err := c.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SavedLocally, outcome)
	assert.False(t, c.Dirty())
	assert.Equal(t, SaveIdle, c.SaveState())
	assert.Equal(t, "013-1111111", c.Roster()[1].Get(schema.NO_TEL))
	assert.Contains(t, c.ExportCSV(), "013-1111111")

	// a reload from the fallback drops the local-only change
	c.Reload(context.Background())
	assert.Equal(t, "", c.Roster()[1].Get(schema.NO_TEL))
}

func TestSave_Persisted(t *testing.T) {
	sy := &fakeSyncer{roster: remoteRoster()}
	c := online(t, sy)
	require.NoError(t, c.Login("770707077777"))
	require.NoError(t, c.Edit(schema.GRED, "N19"))

	outcome, err := c.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Persisted, outcome)
	assert.False(t, c.Dirty())
	assert.Equal(t, SaveSaved, c.SaveState())
	require.Len(t, sy.saved, 1)
	assert.Equal(t, "3", sy.saved[0].Key())
	assert.Equal(t, "N19", c.Roster()[2].Get(schema.GRED))

	c.ClearSaveNotice()
	assert.Equal(t, SaveIdle, c.SaveState())
}

func TestSave_FailureKeepsDirtyAndRoster(t *testing.T) {
	sy := &fakeSyncer{roster: remoteRoster()}
	c := online(t, sy)
	require.NoError(t, c.Login("840110075583"))
	require.NoError(t, c.Edit(schema.GRED, "DG48"))

	sy.saveErr = &remote.RejectedError{Status: "error", Message: "locked"}
	outcome, err := c.Save(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrSaveRejected)
	assert.Equal(t, SaveFailed, outcome)
	assert.Equal(t, "failed", outcome.String())
	assert.True(t, c.Dirty())
	assert.Equal(t, SaveError, c.SaveState())
	assert.Equal(t, "", c.Roster()[0].Get(schema.GRED))

	// editing after an error resets the indicator
	require.NoError(t, c.Edit(schema.GRED, "DG52"))
	assert.Equal(t, SaveIdle, c.SaveState())
}

func TestSave_SingleFlight(t *testing.T) {
	sy := &fakeSyncer{roster: remoteRoster()}
	c := online(t, sy)
	require.NoError(t, c.Login("840110075583"))
	require.NoError(t, c.Edit(schema.GRED, "DG44"))

	req, err := c.BeginSave()
	require.NoError(t, err)
	assert.Equal(t, SaveSaving, c.SaveState())
	assert.Equal(t, testURL, req.Endpoint)

	_, err = c.BeginSave()
	assert.ErrorIs(t, err, ErrSaveInProgress)

	// an edit made while the request is in flight survives the save
	require.NoError(t, c.Edit(schema.NO_TEL, "011-2223333"))
	assert.Equal(t, SaveSaving, c.SaveState())

	outcome, err := c.FinishSave(req, c.Push(context.Background(), req))
	require.NoError(t, err)
	assert.Equal(t, Persisted, outcome)
	assert.True(t, c.Dirty())
	assert.Equal(t, "DG44", c.Roster()[0].Get(schema.GRED))
	assert.Equal(t, "", c.Roster()[0].Get(schema.NO_TEL))
}

func TestSave_NotLoggedIn(t *testing.T) {
	c := offline(t)
	outcome, err := c.Save(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Equal(t, SaveFailed, outcome)
}

func TestFinishSave_FailureIsNeverReportedAsPersisted(t *testing.T) {
	sy := &fakeSyncer{roster: remoteRoster()}
	c := online(t, sy)
	require.NoError(t, c.Login("840110075583"))
	require.NoError(t, c.Edit(schema.GRED, "DG44"))

	req, err := c.BeginSave()
	require.NoError(t, err)
	outcome, err := c.FinishSave(req, &remote.ConnectivityError{Kind: remote.KindTransport, Op: "save record", Err: context.DeadlineExceeded})
	require.Error(t, err)
	assert.NotEqual(t, Persisted, outcome)
	assert.Equal(t, SaveFailed, outcome)
	assert.Equal(t, SaveError, c.SaveState())
}

func TestLogout_RequiresConfirmationWhenDirty(t *testing.T) {
	c := offline(t)
	require.NoError(t, c.Login("840110075583"))
	require.NoError(t, c.Logout(false), "clean sessions log out directly")

	require.NoError(t, c.Login("840110075583"))
	require.NoError(t, c.Edit(schema.GRED, "DG44"))

	assert.ErrorIs(t, c.Logout(false), ErrUnsavedChanges)
	assert.True(t, c.LoggedIn())
	assert.True(t, c.Dirty())

	require.NoError(t, c.Logout(true))
	assert.False(t, c.LoggedIn())
	assert.False(t, c.Dirty())
	assert.Equal(t, "", c.Roster()[0].Get(schema.GRED), "confirmed logout discards the edit")
}

func TestDiscard_ReopensFromFreshRoster(t *testing.T) {
	sy := &fakeSyncer{roster: remoteRoster()}
	c := online(t, sy)
	require.NoError(t, c.Login("900202021234"))
	require.NoError(t, c.Edit(schema.GRED, "DG41"))

	// someone else updated the sheet meanwhile
	sy.roster[1].Set(schema.AGAMA, "ISLAM")

	rep := c.Discard(context.Background())
	require.NoError(t, rep.Err)
	assert.False(t, rep.LoggedOut)
	assert.True(t, c.LoggedIn())
	assert.False(t, c.Dirty())

	got, _ := c.Active()
	assert.Equal(t, "", got.Get(schema.GRED))
	assert.Equal(t, "ISLAM", got.Get(schema.AGAMA))
}

func TestDiscard_LogsOutWhenRecordDisappears(t *testing.T) {
	sy := &fakeSyncer{roster: remoteRoster()}
	c := online(t, sy)
	require.NoError(t, c.Login("770707077777"))
	require.NoError(t, c.Edit(schema.GRED, "N22"))

	sy.roster = sy.roster[:2]
	rep := c.Discard(context.Background())
	assert.True(t, rep.LoggedOut)
	assert.False(t, c.LoggedIn())
	assert.False(t, c.Dirty())
}

func TestDiscard_OfflineReloadsFallback(t *testing.T) {
	c := offline(t)
	require.NoError(t, c.Login("840110075583"))
	require.NoError(t, c.Edit(schema.GRED, "DG44"))
	_, err := c.Save(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.Edit(schema.NO_TEL, "012"))
	rep := c.Discard(context.Background())
	require.NoError(t, rep.Err)
	assert.Equal(t, SourceFallback, rep.Source)

	got, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, "", got.Get(schema.GRED))
	assert.Equal(t, "", got.Get(schema.NO_TEL))
}

func TestConnectAndDisconnect(t *testing.T) {
	ctx := context.Background()
	settings := store.NewMemorySettings(nil)
	sy := &fakeSyncer{roster: remoteRoster()}
	c := New(Options{Syncer: sy, Settings: settings, Fallback: fallbackCSV()})
	c.Start(ctx)
	require.False(t, c.Connected())

	_, err := c.Connect(ctx, "   ")
	assert.ErrorIs(t, err, ErrNoEndpoint)

	rep, err := c.Connect(ctx, testURL)
	require.NoError(t, err)
	require.NoError(t, rep.Err)
	assert.True(t, c.Connected())
	assert.Len(t, c.Roster(), 3)
	v, ok, _ := settings.Get(ctx, store.SheetURLKey)
	assert.True(t, ok)
	assert.Equal(t, testURL, v)

	require.NoError(t, c.Disconnect(ctx))
	assert.False(t, c.Connected())
	assert.Equal(t, "", c.Endpoint())
	assert.Len(t, c.Roster(), 2)
	_, ok, _ = settings.Get(ctx, store.SheetURLKey)
	assert.False(t, ok)
}

func TestApplyLoad_DropsStaleResults(t *testing.T) {
	ctx := context.Background()
	sy := &fakeSyncer{roster: remoteRoster()}
	c := online(t, sy)

	req := c.BeginLoad()
	res := c.Fetch(ctx, req)
	require.NoError(t, c.Disconnect(ctx))

	rep := c.ApplyLoad(res)
	assert.True(t, rep.Stale)
	assert.False(t, c.Connected())
	assert.Equal(t, SourceFallback, c.Source())
	assert.Len(t, c.Roster(), 2)
}

func TestExportCSV_RoundTrips(t *testing.T) {
	c := offline(t)
	out := c.ExportCSV()
	assert.True(t, strings.HasPrefix(out, "SK SRI AMAN,"))
	res := tabular.DecodeString(out)
	assert.Equal(t, c.Roster(), res.Records)
}

func TestFetch_WithoutSyncer(t *testing.T) {
	c := New(Options{Fallback: fallbackCSV(), DefaultEndpoint: testURL})
	rep := c.Start(context.Background())
	require.Error(t, rep.Err)
	assert.True(t, errors.Is(rep.Err, remote.ErrConnectivity))
}

func TestPrepare_DoesNotTouchTheNetwork(t *testing.T) {
	sy := &fakeSyncer{roster: remoteRoster()}
	c := New(Options{Syncer: sy, Fallback: fallbackCSV(), DefaultEndpoint: testURL})

	warnings := c.Prepare(context.Background())
	assert.Empty(t, warnings)
	assert.Equal(t, 0, sy.fetches)
	assert.Equal(t, testURL, c.Endpoint())
	assert.Equal(t, SourceFallback, c.Source())
	assert.False(t, c.Connected())
	assert.Len(t, c.Roster(), 2)

	rep := c.ApplyLoad(c.Fetch(context.Background(), c.BeginLoad()))
	require.NoError(t, rep.Err)
	assert.Equal(t, SourceRemote, rep.Source)
	assert.Equal(t, 3, rep.Records)
}
