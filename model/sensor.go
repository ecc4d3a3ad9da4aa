package model

import "fmt"

// Band is a Wi-Fi frequency band.
type Band string

const (
	Band2_4GHz Band = "2.4GHz"
	Band5GHz   Band = "5GHz"
	Band6GHz   Band = "6GHz"
)

// Bands lists the supported bands in ascending frequency order.
var Bands = []Band{Band2_4GHz, Band5GHz, Band6GHz}

// ParseBand validates a band name.
func ParseBand(s string) (Band, error) {
	switch Band(s) {
	case Band2_4GHz, Band5GHz, Band6GHz:
		return Band(s), nil
	default:
		return "", fmt.Errorf("unknown band %q", s)
	}
}

// ChannelAssignment binds one radio of an access point to a channel.
type ChannelAssignment struct {
	Band    Band `json:"band"`
	Channel int  `json:"channel"`
}

// SensorKind tags the Sensor variants.
type SensorKind string

const (
	SensorCamera        SensorKind = "camera"
	SensorAccessPoint   SensorKind = "access_point"
	SensorNetworkDevice SensorKind = "network_device"
)

// Sensor is the closed set of placeable devices. The unexported method keeps
// the set sealed to this package so type switches over it stay exhaustive.
type Sensor interface {
	SensorID() string
	Kind() SensorKind
	Location() Point
	sensor()
}

// Camera is a fixed camera with a horizontal field of view.
type Camera struct {
	ID               string  `json:"id"`
	Name             string  `json:"name,omitempty"`
	Position         Point   `json:"position"`
	DirectionDegrees float64 `json:"directionDegrees"`
	FOVDegrees       float64 `json:"fovDegrees"`
	RangeUnits       float64 `json:"rangeUnits"`
	WiFiCapable      bool    `json:"wifiCapable,omitempty"`
}

func (c *Camera) SensorID() string { return c.ID }
func (c *Camera) Kind() SensorKind { return SensorCamera }
func (c *Camera) Location() Point  { return c.Position }
func (*Camera) sensor()            {}

// AccessPoint is a wireless access point. BandRanges holds the usable range
// per band; a band with no (or non-positive) range is not radiated.
type AccessPoint struct {
	ID               string              `json:"id"`
	Name             string              `json:"name,omitempty"`
	Position         Point               `json:"position"`
	TransmitPowerDBm float64             `json:"transmitPowerDbm"`
	BandRanges       map[Band]float64    `json:"bandRanges"`
	Channels         []ChannelAssignment `json:"channels,omitempty"`
}

func (a *AccessPoint) SensorID() string { return a.ID }
func (a *AccessPoint) Kind() SensorKind { return SensorAccessPoint }
func (a *AccessPoint) Location() Point  { return a.Position }
func (*AccessPoint) sensor()            {}

// Range returns the configured range for band, or 0 when unsupported.
func (a *AccessPoint) Range(band Band) float64 {
	if a.BandRanges == nil {
		return 0
	}
	return a.BandRanges[band]
}

// NetworkDevice is any other placed device: switches, recorders, wireless
// clients. It takes part in the topology graph and, when WiFi capable, in
// per-device signal checks.
type NetworkDevice struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	DeviceType  string `json:"deviceType,omitempty"`
	Position    Point  `json:"position"`
	WiFiCapable bool   `json:"wifiCapable,omitempty"`
}

func (d *NetworkDevice) SensorID() string { return d.ID }
func (d *NetworkDevice) Kind() SensorKind { return SensorNetworkDevice }
func (d *NetworkDevice) Location() Point  { return d.Position }
func (*NetworkDevice) sensor()            {}

// IsWiFiCapable reports whether s carries a Wi-Fi client radio.
func IsWiFiCapable(s Sensor) bool {
	switch v := s.(type) {
	case *Camera:
		return v.WiFiCapable
	case *NetworkDevice:
		return v.WiFiCapable
	case *AccessPoint:
		return false
	default:
		return false
	}
}

// Cameras filters the camera variants out of a mixed sensor list.
func Cameras(sensors []Sensor) []*Camera {
	var out []*Camera
	for _, s := range sensors {
		if c, ok := s.(*Camera); ok && c != nil {
			out = append(out, c)
		}
	}
	return out
}

// AccessPoints filters the access point variants out of a mixed sensor list.
func AccessPoints(sensors []Sensor) []*AccessPoint {
	var out []*AccessPoint
	for _, s := range sensors {
		if ap, ok := s.(*AccessPoint); ok && ap != nil {
			out = append(out, ap)
		}
	}
	return out
}
