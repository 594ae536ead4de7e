package android

import (
	"context"
	"errors"
	"fmt"

	"github.com/cgast/droidsh/pkg/args"
	"github.com/cgast/droidsh/pkg/geo"
	"github.com/cgast/droidsh/pkg/platform"
)

// Position is a fix reported by the device's location service.
type Position struct {
	Lat  Text `json:"lat"`
	Long Text `json:"long"`
}

// ScanEntry is one access point of a wireless scan. Level may arrive as a
// number or a string.
type ScanEntry struct {
	BSSID Text `json:"bssid"`
	SSID  Text `json:"ssid"`
	Level Text `json:"level"`
}

// AccessPoint converts e for the resolver. An unreadable level becomes 0.
func (e ScanEntry) AccessPoint() geo.AccessPoint {
	return geo.AccessPoint{
		BSSID: e.BSSID.String(),
		SSID:  e.SSID.String(),
		Level: int(leadingFloat(e.Level.String())),
	}
}

// Geolocate prints the device's current position.
type Geolocate struct{}

func (*Geolocate) Name() string                   { return "geolocate" }
func (*Geolocate) Description() string            { return "Get current lat-long using geolocation" }
func (*Geolocate) RequiredCapabilities() []string { return []string{"geolocate"} }

func (g *Geolocate) Run(ctx context.Context, env *platform.Env, argv []string) error {
	a := args.New(helpFlag, args.Flag{Name: "-g", Help: "Generate map using google-maps"})
	opts, err := parse(env, usage{line: "geolocate [options]", summary: "Get current location using geolocation."}, a, argv)
	if err != nil {
		return err
	}

	var fixes []Position
	if err := env.Invoke(ctx, "geolocate", nil, &fixes); err != nil {
		return err
	}
	if len(fixes) == 0 {
		return &platform.InvocationError{Capability: "geolocate", Err: errors.New("agent returned no position")}
	}
	fix := fixes[0]
	lat, lng := leadingFloat(fix.Lat.String()), leadingFloat(fix.Long.String())

	env.Out.Status("Current Location:")
	env.Out.Line("\tLatitude:  %s", fix.Lat)
	env.Out.Line("\tLongitude: %s", fix.Long)
	env.Out.Blank()
	env.Out.Line("To get the address: %s", env.Links.Geocode(lat, lng))
	env.Out.Blank()

	if opts.Has("-g") {
		showMap(env, "Generated map on google-maps:", env.Links.Map(lat, lng))
	}
	return nil
}

// WLANGeolocate resolves the device's position from a wireless scan.
type WLANGeolocate struct{}

func (*WLANGeolocate) Name() string                   { return "wlan-geolocate" }
func (*WLANGeolocate) Description() string            { return "Get current lat-long using WLAN information" }
func (*WLANGeolocate) RequiredCapabilities() []string { return []string{"wlan_geolocate"} }

func (w *WLANGeolocate) Run(ctx context.Context, env *platform.Env, argv []string) error {
	a := args.New(helpFlag, args.Flag{Name: "-g", Help: "Open the resolved position in a map"})
	opts, err := parse(env, usage{
		line:    "wlan-geolocate [options]",
		summary: "Tries to get device geolocation from WLAN information and a geolocation API.",
	}, a, argv)
	if err != nil {
		return err
	}

	var entries []ScanEntry
	if err := env.Invoke(ctx, "wlan_geolocate", nil, &entries); err != nil {
		return err
	}
	scan := make([]geo.AccessPoint, len(entries))
	for i, e := range entries {
		scan[i] = e.AccessPoint()
	}
	if len(scan) == 0 {
		env.Out.Error("Unable to enumerate wireless networks from the target.  Wireless may not be present or enabled.")
		return platform.ErrReported
	}
	if env.Geo == nil {
		env.Out.Error("No geolocation resolver is configured")
		return platform.ErrReported
	}

	loc, err := env.Geo.Resolve(ctx, scan)
	if err != nil {
		env.Out.Error("Error: %v", err)
		return fmt.Errorf("%w: %w", platform.ErrReported, err)
	}

	link := env.Links.Map(loc.Lat, loc.Lng)
	env.Out.Status("%s", loc)
	env.Out.Status("Google Maps URL:  %s", link)
	if opts.Has("-g") {
		showMap(env, "Opening map:", link)
	}
	return nil
}

func showMap(env *platform.Env, heading, link string) {
	env.Out.Status("%s", heading)
	env.Out.Status("%s", link)
	if env.Opener == nil {
		return
	}
	if err := env.Opener.Open(link); err != nil {
		env.Logger.Warn("open map", "url", link, "error", err)
		env.Out.Error("Unable to open a browser: %v", err)
	}
}
