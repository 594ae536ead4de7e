// Package agentsim is a simulated Android agent. It answers the console's
// JSON-RPC calls from an in-memory device so the console can be driven
// without a phone attached.
package agentsim

import (
	"strconv"
	"time"

	"github.com/cgast/droidsh/pkg/geo"
)

// Capabilities is every capability the simulated agent implements, in the
// order it advertises them.
var Capabilities = []string{
	"dump_sms",
	"dump_contacts",
	"geolocate",
	"dump_calllog",
	"check_root",
	"device_shutdown",
	"send_sms",
	"wlan_geolocate",
	"interval_collect",
	"activity_start",
	"set_audio_mode",
}

// SMS is a message as the device reports it. Every field is a string.
type SMS struct {
	Type    string `json:"type"`
	Date    string `json:"date"`
	Address string `json:"address"`
	Status  string `json:"status"`
	Body    string `json:"body"`
}

// Contact is an address-book entry.
type Contact struct {
	Name    string   `json:"name"`
	Numbers []string `json:"number"`
	Emails  []string `json:"email"`
}

// Call is a call log entry.
type Call struct {
	Number   string `json:"number"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Type     string `json:"type"`
	Duration string `json:"duration"`
}

// Position is a location fix.
type Position struct {
	Lat  string `json:"lat"`
	Long string `json:"long"`
}

// Cell is a visible cell tower.
type Cell struct {
	CID  string
	LAC  string
	Type string
}

// Device is the data the simulated agent serves.
type Device struct {
	OS       string
	Rooted   bool
	SMS      []SMS
	Contacts []Contact
	Calls    []Call
	// Position is nil when the device has no location fix.
	Position *Position
	Networks []geo.AccessPoint
	Cells    []Cell

	// Disabled capabilities are left out of the session description.
	Disabled []string
	// DeliveryFails makes send_sms report a failed delivery report.
	DeliveryFails bool
	// Resolved is what the geolocation endpoint answers for a scan.
	Resolved geo.Location
}

// DemoDevice returns a device populated with sample data dated relative to
// now.
func DemoDevice(now time.Time) *Device {
	ms := func(ago time.Duration) string {
		return strconv.FormatInt(now.Add(-ago).UnixMilli(), 10)
	}
	return &Device{
		OS:     "Android 14 (SDK 34)",
		Rooted: false,
		SMS: []SMS{
			{Type: "1", Date: ms(3 * time.Hour), Address: "+351961234567", Status: "-1", Body: "Shall we play a game?"},
			{Type: "2", Date: ms(2 * time.Hour), Address: "+351961234567", Status: "0", Body: "How about Global Thermonuclear War?"},
			{Type: "1", Date: ms(time.Hour), Address: "+15555550100", Status: "-1", Body: "Wouldn't you prefer a good game of chess?"},
		},
		Contacts: []Contact{
			{Name: "David Lightman", Numbers: []string{"+15555550100"}, Emails: []string{"david@example.com"}},
			{Name: "Jennifer Mack", Numbers: []string{"+15555550101", "+15555550102"}},
			{Name: "Stephen Falken", Emails: []string{"falken@example.org", "joshua@example.org"}},
		},
		Calls: []Call{
			{Number: "+15555550100", Name: "David Lightman", Date: ms(26 * time.Hour), Type: "1", Duration: "125"},
			{Number: "+15555550101", Name: "Jennifer Mack", Date: ms(5 * time.Hour), Type: "2", Duration: "42"},
			{Number: "+15555550199", Name: "", Date: ms(30 * time.Minute), Type: "3", Duration: "0"},
		},
		Position: &Position{Lat: "38.7223", Long: "-9.1393"},
		Networks: []geo.AccessPoint{
			{BSSID: "00:25:9c:cf:1c:ac", SSID: "NORAD-Guest", Level: -43},
			{BSSID: "00:25:9c:cf:1c:ad", SSID: "WOPR", Level: -55},
			{BSSID: "5c:96:9d:13:22:01", SSID: "cafe-lisboa", Level: -71},
		},
		Cells: []Cell{
			{CID: "20911", LAC: "6071", Type: "lte"},
			{CID: "20935", LAC: "6071", Type: "lte"},
		},
		Resolved: geo.Location{Lat: 38.7223, Lng: -9.1393, Accuracy: 30},
	}
}
