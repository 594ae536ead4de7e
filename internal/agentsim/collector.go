package agentsim

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cgast/droidsh/pkg/collect"
)

// Collector actions and types the simulated agent advertises.
var (
	CollectActions = []string{"start", "pause", "resume", "stop", "dump"}
	CollectTypes   = []string{"wifi", "geo", "cell"}
)

type collectorState int

const (
	stopped collectorState = iota
	running
	paused
)

func (s collectorState) String() string {
	switch s {
	case running:
		return "running"
	case paused:
		return "paused"
	}
	return "stopped"
}

// collectors tracks the state of each interval collector.
type collectors struct {
	mu    sync.Mutex
	state map[string]collectorState
	now   func() time.Time
}

func newCollectors(now func() time.Time) *collectors {
	return &collectors{state: make(map[string]collectorState), now: now}
}

// apply performs action on the typ collector. Only dump returns data.
func (c *collectors) apply(dev *Device, action, typ string) (collect.Envelope, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.state[typ]
	next := cur
	switch action {
	case "start":
		if cur != stopped {
			return collect.Envelope{}, fmt.Errorf("%s collector is already %s", typ, cur)
		}
		next = running
	case "pause":
		if cur != running {
			return collect.Envelope{}, fmt.Errorf("%s collector is %s", typ, cur)
		}
		next = paused
	case "resume":
		if cur != paused {
			return collect.Envelope{}, fmt.Errorf("%s collector is %s", typ, cur)
		}
		next = running
	case "stop":
		if cur == stopped {
			return collect.Envelope{}, fmt.Errorf("%s collector is not running", typ)
		}
		next = stopped
	case "dump":
		if cur == stopped {
			return collect.Envelope{}, fmt.Errorf("%s collector is not running", typ)
		}
		return c.sample(dev, typ), nil
	default:
		return collect.Envelope{}, fmt.Errorf("unknown action %q", action)
	}
	c.state[typ] = next
	return collect.Envelope{}, nil
}

func (c *collectors) sample(dev *Device, typ string) collect.Envelope {
	ts := c.now().Unix()
	env := collect.Envelope{Timestamp: &ts}
	switch typ {
	case "wifi":
		env.Headers = []string{"bssid", "ssid", "level"}
		for _, ap := range dev.Networks {
			env.Entries = append(env.Entries, []string{ap.BSSID, ap.SSID, strconv.Itoa(ap.Level)})
		}
	case "geo":
		env.Headers = []string{"lat", "long"}
		if dev.Position != nil {
			env.Entries = append(env.Entries, []string{dev.Position.Lat, dev.Position.Long})
		}
	case "cell":
		env.Headers = []string{"cid", "lac", "type"}
		for _, cell := range dev.Cells {
			env.Entries = append(env.Entries, []string{cell.CID, cell.LAC, cell.Type})
		}
	}
	return env
}
