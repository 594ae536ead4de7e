package android

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cgast/droidsh/internal/sandbox"
	"github.com/cgast/droidsh/pkg/events"
	"github.com/cgast/droidsh/pkg/geo"
	"github.com/cgast/droidsh/pkg/loot"
	"github.com/cgast/droidsh/pkg/platform"
	"github.com/cgast/droidsh/pkg/render"
	"github.com/cgast/droidsh/pkg/session/sessiontest"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)

type harness struct {
	env    *platform.Env
	fake   *sessiontest.Fake
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newHarness(t *testing.T, caps ...string) *harness {
	t.Helper()
	fake := sessiontest.New(caps...)
	var out, errOut bytes.Buffer
	return &harness{
		fake:   fake,
		out:    &out,
		errOut: &errOut,
		env: &platform.Env{
			Session: fake,
			Out:     render.NewPrinter(&out, &errOut, false),
			Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
			Links:   geo.DefaultLinks(),
			LootDir: t.TempDir(),
			Now:     func() time.Time { return fixedNow },
		},
	}
}

func (h *harness) run(t *testing.T, cmd platform.Command, argv ...string) error {
	t.Helper()
	return cmd.Run(context.Background(), h.env, argv)
}

type recordingOpener struct{ urls []string }

func (o *recordingOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

type stubResolver struct {
	loc geo.Location
	err error
	got []geo.AccessPoint
}

func (r *stubResolver) Resolve(_ context.Context, aps []geo.AccessPoint) (geo.Location, error) {
	r.got = aps
	return r.loc, r.err
}

func TestRegisterCatalogOrder(t *testing.T) {
	reg := platform.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	want := []struct{ name, capability string }{
		{"dump-sms", "dump_sms"},
		{"dump-contacts", "dump_contacts"},
		{"geolocate", "geolocate"},
		{"dump-calllog", "dump_calllog"},
		{"check-root", "check_root"},
		{"device-shutdown", "device_shutdown"},
		{"send-message", "send_sms"},
		{"wlan-geolocate", "wlan_geolocate"},
		{"interval-collect", "interval_collect"},
		{"activity-start", "activity_start"},
		{"set-audio-mode", "set_audio_mode"},
	}
	catalog := reg.Catalog()
	if len(catalog) != len(want) {
		t.Fatalf("catalog has %d commands, want %d", len(catalog), len(want))
	}
	for i, w := range want {
		d := catalog[i]
		if d.Name != w.name || len(d.Requires) != 1 || d.Requires[0] != w.capability {
			t.Errorf("catalog[%d] = %+v, want %s requiring %s", i, d, w.name, w.capability)
		}
		if d.Description == "" {
			t.Errorf("%s has no description", d.Name)
		}
	}
	if err := Register(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestHelpPrintsUsageWithoutInvoking(t *testing.T) {
	for _, cmd := range Commands() {
		t.Run(cmd.Name(), func(t *testing.T) {
			h := newHarness(t, cmd.RequiredCapabilities()...)
			err := h.run(t, cmd, "-h")
			if !errors.Is(err, platform.ErrHelp) {
				t.Fatalf("err = %v, want ErrHelp", err)
			}
			if !strings.HasPrefix(h.out.String(), "Usage: ") || !strings.Contains(h.out.String(), "OPTIONS:") {
				t.Errorf("usage output = %q", h.out.String())
			}
			if len(h.fake.Calls) != 0 {
				t.Errorf("agent was invoked: %+v", h.fake.Calls)
			}
		})
	}
}

func TestDumpContactsEmpty(t *testing.T) {
	h := newHarness(t, "dump_contacts")
	h.fake.Results["dump_contacts"] = []any{}

	if err := h.run(t, NewDumpContacts()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := h.out.String(); got != "[*] No contacts were found!\n" {
		t.Errorf("output = %q", got)
	}
	entries, _ := os.ReadDir(h.env.LootDir)
	if len(entries) != 0 {
		t.Errorf("expected no report file, found %d entries", len(entries))
	}
}

func TestDumpSMSReport(t *testing.T) {
	h := newHarness(t, "dump_sms")
	h.fake.Results["dump_sms"] = []map[string]any{
		{"type": "1", "date": "1700000000000", "address": "+15551234", "status": "0", "body": "hi there"},
		{"type": 2, "date": 1700000060000, "address": "+15559876", "status": 64, "body": "line one\nline two"},
		{"type": "9", "date": "", "address": "", "status": "77", "body": ""},
	}

	if err := h.run(t, NewDumpSMS()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	path := filepath.Join(h.env.LootDir, "sms_dump_20240309140506.txt")
	wantOut := "[*] Fetching 3 sms messages\n[*] SMS messages saved to: " + path + "\n"
	if got := h.out.String(); got != wantOut {
		t.Errorf("output = %q, want %q", got, wantOut)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	want := "\n=====================\n" +
		"[+] SMS messages dump\n" +
		"=====================\n\n" +
		"Date: 2024-03-09 14:05:06 UTC\n" +
		"OS: Android 14 (SDK 34)\n" +
		"Remote IP: 10.0.0.2\n" +
		"Remote Port: 4444\n\n" +
		"#1\nType\t: Incoming\nDate\t: 2023-11-14 22:13:20\nAddress\t: +15551234\nStatus\t: SUCCESS\nMessage\t: hi there\n\n" +
		"#2\nType\t: Outgoing\nDate\t: 2023-11-14 22:14:20\nAddress\t: +15559876\nStatus\t: MASK_PERMANENT_ERROR\nMessage\t: line one\\nline two\n\n" +
		"#3\nType\t: Unknown\nDate\t: Unknown\nAddress\t: \nStatus\t: Unknown\nMessage\t: \n\n"
	if string(data) != want {
		t.Errorf("report mismatch\ngot:\n%s\nwant:\n%s", data, want)
	}
}

func TestDumpCallLogToPathWithLoot(t *testing.T) {
	h := newHarness(t, "dump_calllog")
	store, err := loot.NewFileStore(filepath.Join(t.TempDir(), "loot"))
	if err != nil {
		t.Fatal(err)
	}
	bus := events.NewMemoryBus(0)
	h.env.Loot = store
	h.env.Events = bus
	h.fake.Results["dump_calllog"] = []map[string]any{
		{"number": "+15550001", "name": "Alice", "date": "1700000000000", "type": "3", "duration": "0"},
	}

	out := filepath.Join(t.TempDir(), "reports", "calls.txt")
	if err := h.run(t, NewDumpCallLog(), "-o", out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "[+] Call log dump\n") ||
		!strings.Contains(string(data), "Type\t: MISSED\n") ||
		!strings.Contains(string(data), "Name\t: Alice\n") {
		t.Errorf("report = %q", data)
	}
	if !strings.Contains(h.out.String(), "[*] Fetching 1 call log entry\n") ||
		!strings.Contains(h.out.String(), "[*] Call log saved to: "+out+"\n") {
		t.Errorf("output = %q", h.out.String())
	}

	recs, err := store.List(context.Background())
	if err != nil || len(recs) != 1 {
		t.Fatalf("loot records = %v, %v", recs, err)
	}
	if recs[0].Kind != "android.calllog" || recs[0].Label != "Call log dump" || recs[0].Size != len(data) {
		t.Errorf("loot record = %+v", recs[0])
	}
	if !strings.Contains(h.out.String(), "[*] Loot stored: "+recs[0].Location) {
		t.Errorf("output missing loot location: %q", h.out.String())
	}
	if evs := bus.Last(1, events.EventLootStored); len(evs) != 1 || evs[0].Detail != recs[0].Location {
		t.Errorf("loot event = %+v", evs)
	}
}

func TestDumpContactsRepeatsFields(t *testing.T) {
	h := newHarness(t, "dump_contacts")
	h.fake.Results["dump_contacts"] = []map[string]any{
		{"name": "Bob", "number": []string{"+1", "+2"}, "email": []string{"bob@example.com"}},
	}
	out := filepath.Join(t.TempDir(), "c.txt")
	if err := h.run(t, NewDumpContacts(), "-o", out); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(out)
	if !strings.Contains(string(data), "#1\nName\t: Bob\nNumber\t: +1\nNumber\t: +2\nEmail\t: bob@example.com\n\n") {
		t.Errorf("report = %q", data)
	}
	if !strings.HasPrefix(h.out.String(), "[*] Fetching 1 contact\n") {
		t.Errorf("output = %q", h.out.String())
	}
}

func TestDumpSandboxDenied(t *testing.T) {
	h := newHarness(t, "dump_sms")
	allowed := t.TempDir()
	sb, err := sandbox.New(sandbox.Config{AllowedPaths: []string{allowed}})
	if err != nil {
		t.Fatal(err)
	}
	h.env.Sandbox = sb
	h.fake.Results["dump_sms"] = []map[string]any{{"type": "1", "body": "x"}}

	outside := filepath.Join(t.TempDir(), "sms.txt")
	err = h.run(t, NewDumpSMS(), "-o", outside)
	var perr *render.PersistenceError
	if !errors.As(err, &perr) || !errors.Is(err, sandbox.ErrDenied) {
		t.Fatalf("err = %v, want PersistenceError wrapping ErrDenied", err)
	}
	if _, statErr := os.Stat(outside); !os.IsNotExist(statErr) {
		t.Error("report should not have been written")
	}
	if !strings.Contains(h.out.String(), "[+] SMS messages dump\n") {
		t.Errorf("denied report not printed: %q", h.out.String())
	}
}

func TestDumpUnwritablePathKeepsReport(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(blocker, "sms.txt")

	tests := []struct {
		name      string
		withStore bool
	}{
		{"printed", false},
		{"looted", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "dump_sms")
			var store *loot.FileStore
			if tt.withStore {
				var err error
				store, err = loot.NewFileStore(filepath.Join(t.TempDir(), "loot"))
				if err != nil {
					t.Fatal(err)
				}
				h.env.Loot = store
			}
			h.fake.Results["dump_sms"] = []map[string]any{{"type": "1", "address": "+15551234", "body": "keep me"}}

			err := h.run(t, NewDumpSMS(), "-o", out)
			var perr *render.PersistenceError
			if !errors.As(err, &perr) || perr.Path != out {
				t.Fatalf("err = %v, want PersistenceError for %s", err, out)
			}
			if strings.Contains(h.out.String(), "saved to:") {
				t.Errorf("output claims a save: %q", h.out.String())
			}

			if !tt.withStore {
				if !strings.Contains(h.out.String(), "Message\t: keep me\n") {
					t.Errorf("report not printed: %q", h.out.String())
				}
				return
			}
			recs, err := store.List(context.Background())
			if err != nil || len(recs) != 1 {
				t.Fatalf("loot records = %v, %v", recs, err)
			}
			if strings.Contains(h.out.String(), "Message\t: keep me") {
				t.Errorf("report printed although looted: %q", h.out.String())
			}
			if !strings.Contains(h.out.String(), "[*] Loot stored: "+recs[0].Location) {
				t.Errorf("output missing loot location: %q", h.out.String())
			}
		})
	}
}

func TestDumpMissingOutputValue(t *testing.T) {
	h := newHarness(t, "dump_sms")
	err := h.run(t, NewDumpSMS(), "-o")
	if !errors.Is(err, platform.ErrUsage) {
		t.Fatalf("err = %v, want ErrUsage", err)
	}
	if h.fake.CallCount("dump_sms") != 0 {
		t.Error("agent invoked despite usage error")
	}
}

func TestDumpInvocationError(t *testing.T) {
	h := newHarness(t, "dump_sms")
	h.fake.Errors["dump_sms"] = errors.New("permission denied")
	err := h.run(t, NewDumpSMS())
	var ierr *platform.InvocationError
	if !errors.As(err, &ierr) || ierr.Capability != "dump_sms" {
		t.Fatalf("err = %v", err)
	}
}

func TestSendMessageDeliveryReport(t *testing.T) {
	h := newHarness(t, "send_sms")
	h.fake.Results["send_sms"] = []string{TransmissionOK, TransmissionOK}

	if err := h.run(t, &SendMessage{}, "-d", "+351961234567", "-t", "hello there", "-dr"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "[+] SMS sent - Transmission successful\n[+] SMS delivered - Transmission successful\n"
	if got := h.out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	call, _ := h.fake.LastCall()
	if call.Params["destination"] != "+351961234567" || call.Params["body"] != "hello there" || call.Params["delivery_report"] != true {
		t.Errorf("params = %+v", call.Params)
	}
}

func TestSendMessageFailures(t *testing.T) {
	h := newHarness(t, "send_sms")
	h.fake.Results["send_sms"] = []string{TransmissionOK, "Generic failure"}

	err := h.run(t, &SendMessage{}, "-d", "123", "-t", "x", "-dr")
	if !errors.Is(err, platform.ErrReported) {
		t.Fatalf("err = %v, want ErrReported", err)
	}
	if h.out.String() != "[+] SMS sent - Transmission successful\n" {
		t.Errorf("output = %q", h.out.String())
	}
	if h.errOut.String() != "[-] SMS delivery failed - Generic failure\n" {
		t.Errorf("error output = %q", h.errOut.String())
	}

	h2 := newHarness(t, "send_sms")
	h2.fake.Results["send_sms"] = "Radio off"
	if err := h2.run(t, &SendMessage{}, "-d", "123", "-t", "x"); !errors.Is(err, platform.ErrReported) {
		t.Fatalf("err = %v", err)
	}
	if h2.errOut.String() != "[-] SMS send failed - Radio off\n" {
		t.Errorf("error output = %q", h2.errOut.String())
	}
}

func TestSendMessageRequiresDestinationAndBody(t *testing.T) {
	h := newHarness(t, "send_sms")
	err := h.run(t, &SendMessage{}, "-d", "123")
	if !errors.Is(err, platform.ErrUsage) {
		t.Fatalf("err = %v, want ErrUsage", err)
	}
	if !strings.Contains(h.errOut.String(), "You must enter both a destination address -d and the SMS text body -t") {
		t.Errorf("error output = %q", h.errOut.String())
	}
	if !strings.Contains(h.out.String(), "OPTIONS:") {
		t.Errorf("usage missing: %q", h.out.String())
	}
	if len(h.fake.Calls) != 0 {
		t.Error("agent invoked")
	}
}

func TestGeolocate(t *testing.T) {
	h := newHarness(t, "geolocate")
	opener := &recordingOpener{}
	h.env.Opener = opener
	h.fake.Results["geolocate"] = []map[string]any{{"lat": "51.5007", "long": "-0.1246"}}

	if err := h.run(t, &Geolocate{}, "-g"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "[*] Current Location:\n" +
		"\tLatitude:  51.5007\n" +
		"\tLongitude: -0.1246\n\n" +
		"To get the address: https://maps.googleapis.com/maps/api/geocode/json?latlng=51.5007%2C-0.1246&sensor=true\n\n" +
		"[*] Generated map on google-maps:\n" +
		"[*] https://maps.google.com/maps?q=51.5007,-0.1246\n"
	if got := h.out.String(); got != want {
		t.Errorf("output = %q\nwant %q", got, want)
	}
	if len(opener.urls) != 1 || opener.urls[0] != "https://maps.google.com/maps?q=51.5007,-0.1246" {
		t.Errorf("opened = %v", opener.urls)
	}
}

func TestGeolocateNoFix(t *testing.T) {
	h := newHarness(t, "geolocate")
	h.fake.Results["geolocate"] = []any{}
	var ierr *platform.InvocationError
	if err := h.run(t, &Geolocate{}); !errors.As(err, &ierr) {
		t.Fatalf("err = %v", err)
	}
}

func TestWLANGeolocate(t *testing.T) {
	h := newHarness(t, "wlan_geolocate")
	res := &stubResolver{loc: geo.Location{Lat: 48.8584, Lng: 2.2945, Accuracy: 25}}
	h.env.Geo = res
	h.fake.Results["wlan_geolocate"] = []map[string]any{
		{"bssid": "00:11:22:33:44:55", "ssid": "home", "level": -40},
		{"bssid": "66:77:88:99:aa:bb", "ssid": "cafe", "level": -71},
	}

	if err := h.run(t, &WLANGeolocate{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "[*] Latitude: 48.8584, Longitude: 2.2945, Accuracy: 25m\n" +
		"[*] Google Maps URL:  https://maps.google.com/maps?q=48.8584,2.2945\n"
	if got := h.out.String(); got != want {
		t.Errorf("output = %q", got)
	}
	if len(res.got) != 2 || res.got[1].Level != -71 || res.got[0].BSSID != "00:11:22:33:44:55" {
		t.Errorf("resolver got %+v", res.got)
	}
}

func TestWLANGeolocateMixedLevelTypes(t *testing.T) {
	h := newHarness(t, "wlan_geolocate")
	res := &stubResolver{loc: geo.Location{Lat: 1, Lng: 2, Accuracy: 3}}
	h.env.Geo = res
	h.fake.Results["wlan_geolocate"] = []map[string]any{
		{"bssid": "00:11:22:33:44:55", "ssid": "home", "level": "-45"},
		{"bssid": "66:77:88:99:aa:bb", "level": -60},
		{"bssid": 42, "ssid": nil, "level": "n/a"},
	}

	if err := h.run(t, &WLANGeolocate{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []geo.AccessPoint{
		{BSSID: "00:11:22:33:44:55", SSID: "home", Level: -45},
		{BSSID: "66:77:88:99:aa:bb", Level: -60},
		{BSSID: "42", Level: 0},
	}
	if len(res.got) != len(want) {
		t.Fatalf("resolver got %+v", res.got)
	}
	for i := range want {
		if res.got[i] != want[i] {
			t.Errorf("access point %d = %+v, want %+v", i, res.got[i], want[i])
		}
	}
}

func TestWLANGeolocateEmptyScan(t *testing.T) {
	h := newHarness(t, "wlan_geolocate")
	h.env.Geo = &stubResolver{}
	h.fake.Results["wlan_geolocate"] = []any{}

	err := h.run(t, &WLANGeolocate{})
	if !errors.Is(err, platform.ErrReported) {
		t.Fatalf("err = %v", err)
	}
	want := "[-] Unable to enumerate wireless networks from the target.  Wireless may not be present or enabled.\n"
	if h.errOut.String() != want {
		t.Errorf("error output = %q", h.errOut.String())
	}
}

func TestWLANGeolocateResolverError(t *testing.T) {
	h := newHarness(t, "wlan_geolocate")
	h.env.Geo = &stubResolver{err: geo.ErrInsufficientData}
	h.fake.Results["wlan_geolocate"] = []map[string]any{{"bssid": "a", "level": -1}}

	err := h.run(t, &WLANGeolocate{})
	if !errors.Is(err, platform.ErrReported) || !errors.Is(err, geo.ErrInsufficientData) {
		t.Fatalf("err = %v", err)
	}
	if !strings.HasPrefix(h.errOut.String(), "[-] Error: insufficient scan data") {
		t.Errorf("error output = %q", h.errOut.String())
	}
}

func TestCheckRoot(t *testing.T) {
	tests := []struct {
		rooted bool
		want   string
	}{
		{true, "[+] Device is rooted\n"},
		{false, "[*] Device is not rooted\n"},
	}
	for _, tt := range tests {
		h := newHarness(t, "check_root")
		h.fake.Results["check_root"] = tt.rooted
		if err := h.run(t, &CheckRoot{}); err != nil {
			t.Fatal(err)
		}
		if h.out.String() != tt.want {
			t.Errorf("rooted=%v output = %q", tt.rooted, h.out.String())
		}
	}
}

func TestDeviceShutdown(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
		secs float64
	}{
		{"now", nil, "[*] Device will shutdown now\n", 0},
		{"delay", []string{"-t", "30"}, "[*] Device will shutdown after 30 seconds\n", 30},
		{"negative", []string{"-t", "-5"}, "[*] Device will shutdown now\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "device_shutdown")
			h.fake.Results["device_shutdown"] = true
			if err := h.run(t, &DeviceShutdown{}, tt.argv...); err != nil {
				t.Fatal(err)
			}
			if h.out.String() != tt.want {
				t.Errorf("output = %q", h.out.String())
			}
			call, _ := h.fake.LastCall()
			if call.Params["seconds"] != tt.secs {
				t.Errorf("seconds = %v", call.Params["seconds"])
			}
		})
	}

	h := newHarness(t, "device_shutdown")
	h.fake.Results["device_shutdown"] = false
	if err := h.run(t, &DeviceShutdown{}); !errors.Is(err, platform.ErrReported) {
		t.Fatalf("err = %v", err)
	}
	if h.errOut.String() != "[-] Device shutdown failed\n" {
		t.Errorf("error output = %q", h.errOut.String())
	}
}

func TestSetAudioMode(t *testing.T) {
	h := newHarness(t, "set_audio_mode")
	if err := h.run(t, &SetAudioMode{}); err != nil {
		t.Fatal(err)
	}
	if h.out.String() != "[*] Ringer mode was changed to 1!\n" {
		t.Errorf("output = %q", h.out.String())
	}

	for _, argv := range [][]string{{"-m", "3"}, {"-m", "-1"}, {"-x"}} {
		h := newHarness(t, "set_audio_mode")
		err := h.run(t, &SetAudioMode{}, argv...)
		if !errors.Is(err, platform.ErrUsage) {
			t.Errorf("%v: err = %v, want ErrUsage", argv, err)
		}
		if len(h.fake.Calls) != 0 {
			t.Errorf("%v: agent invoked", argv)
		}
		if !strings.HasPrefix(h.out.String(), "Usage: set-audio-mode [options]\n") {
			t.Errorf("%v: output = %q", argv, h.out.String())
		}
	}

	h = newHarness(t, "set_audio_mode")
	if err := h.run(t, &SetAudioMode{}, "-m", "0"); err != nil {
		t.Fatal(err)
	}
	if call, _ := h.fake.LastCall(); call.Params["mode"] != float64(0) {
		t.Errorf("mode = %v", call.Params["mode"])
	}
}

func TestActivityStart(t *testing.T) {
	h := newHarness(t, "activity_start")
	if err := h.run(t, &ActivityStart{}, "tel:+15551234"); err != nil {
		t.Fatal(err)
	}
	if h.out.String() != "[*] Intent started\n" {
		t.Errorf("output = %q", h.out.String())
	}
	if call, _ := h.fake.LastCall(); call.Params["uri"] != "tel:+15551234" {
		t.Errorf("params = %+v", call.Params)
	}

	h = newHarness(t, "activity_start")
	h.fake.Results["activity_start"] = "No Activity found to handle Intent"
	if err := h.run(t, &ActivityStart{}, "bogus:x"); !errors.Is(err, platform.ErrReported) {
		t.Fatalf("err = %v", err)
	}
	if h.errOut.String() != "[-] Error: No Activity found to handle Intent\n" {
		t.Errorf("error output = %q", h.errOut.String())
	}

	h = newHarness(t, "activity_start")
	if err := h.run(t, &ActivityStart{}); !errors.Is(err, platform.ErrUsage) {
		t.Fatalf("err = %v", err)
	}
	if !strings.HasPrefix(h.out.String(), "Usage: activity-start <uri>\n") || len(h.fake.Calls) != 0 {
		t.Errorf("output = %q calls = %d", h.out.String(), len(h.fake.Calls))
	}
}

func TestIntervalCollectLocation(t *testing.T) {
	h := newHarness(t, "interval_collect")
	h.fake.Actions = []string{"start", "pause", "resume", "stop", "dump"}
	h.fake.Types = []string{"wifi", "geo", "cell", "location"}
	h.fake.Results["interval_collect"] = map[string]any{
		"headers":   []string{"Timestamp", "Lat", "Long"},
		"entries":   [][]string{{"2", "51.5", "-0.12"}, {"1", "51.4", "-0.11"}},
		"timestamp": 1700000000,
	}

	if err := h.run(t, &IntervalCollect{}, "-a", "DUMP", "-c", "Location", "-t", "0"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	call, _ := h.fake.LastCall()
	if call.Params["action"] != "dump" || call.Params["type"] != "location" || call.Params["timeout"] != float64(30) {
		t.Errorf("params = %+v", call.Params)
	}
	out := h.out.String()
	if !strings.Contains(out, "Captured location data at 2023-11-14 22:13:20") {
		t.Errorf("output = %q", out)
	}
	if strings.Index(out, "51.4") > strings.Index(out, "51.5") {
		t.Errorf("rows not sorted by first column: %q", out)
	}
}

func TestIntervalCollectRejectsUnknownAction(t *testing.T) {
	h := newHarness(t, "interval_collect")
	h.fake.Actions = []string{"start", "stop"}
	h.fake.Types = []string{"wifi"}

	err := h.run(t, &IntervalCollect{}, "-a", "explode", "-c", "wifi")
	if !errors.Is(err, platform.ErrUsage) {
		t.Fatalf("err = %v", err)
	}
	if len(h.fake.Calls) != 0 {
		t.Error("agent invoked")
	}
	if !strings.Contains(h.out.String(), "Action (required, one of: start, stop)") {
		t.Errorf("usage should list advertised actions: %q", h.out.String())
	}
}

func TestIntervalCollectEmptyResult(t *testing.T) {
	h := newHarness(t, "interval_collect")
	h.fake.Actions = []string{"start"}
	h.fake.Types = []string{"wifi"}
	h.fake.Results["interval_collect"] = map[string]any{"headers": []string{}, "entries": [][]string{}}

	if err := h.run(t, &IntervalCollect{}, "-a", "start", "-c", "wifi"); err != nil {
		t.Fatal(err)
	}
	if h.out.String() != "[+] Interval action completed successfully\n" {
		t.Errorf("output = %q", h.out.String())
	}
}

func TestTextUnmarshal(t *testing.T) {
	tests := map[string]string{
		`"abc"`: "abc",
		`12`:    "12",
		`-1`:    "-1",
		`1.5`:   "1.5",
		`true`:  "true",
		`null`:  "",
	}
	for in, want := range tests {
		var got Text
		if err := json.Unmarshal([]byte(in), &got); err != nil {
			t.Errorf("Unmarshal(%s): %v", in, err)
			continue
		}
		if string(got) != want {
			t.Errorf("Unmarshal(%s) = %q, want %q", in, got, want)
		}
	}
	var bad Text
	if err := json.Unmarshal([]byte(`{"a":1}`), &bad); err == nil {
		t.Error("expected error for object")
	}
}

func TestLeadingFloat(t *testing.T) {
	tests := map[string]float64{
		"51.5":    51.5,
		"-0.12":   -0.12,
		" 3.25xy": 3.25,
		"1.2.3":   1.2,
		"7.":      7,
		"abc":     0,
		"-":       0,
		"":        0,
	}
	for in, want := range tests {
		if got := leadingFloat(in); got != want {
			t.Errorf("leadingFloat(%q) = %v, want %v", in, got, want)
		}
	}
}
