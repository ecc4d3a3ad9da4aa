package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/signalsfoundry/sensorplan/model"
)

// Scenario is a complete planning input: geometry, placed devices and the
// cabling between them.
type Scenario struct {
	FloorPlan   model.FloorPlan
	Sensors     []model.Sensor
	Connections []model.Connection
}

// Wire shapes stay unexported; sensors are decoded per variant.
type scenarioJSON struct {
	FloorPlan   model.FloorPlan    `json:"floorPlan"`
	Sensors     []json.RawMessage  `json:"sensors"`
	Connections []model.Connection `json:"connections"`
}

type sensorTagJSON struct {
	Type model.SensorKind `json:"type"`
}

// LoadScenario decodes a JSON scenario. Each sensor object carries a "type"
// of camera, access_point or network_device that selects its variant.
//
// It fails only on JSON or structural errors; geometry and sensor
// validation happen when an analysis runs.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	sc := &Scenario{
		FloorPlan:   payload.FloorPlan,
		Sensors:     make([]model.Sensor, 0, len(payload.Sensors)),
		Connections: payload.Connections,
	}
	for i, raw := range payload.Sensors {
		s, err := decodeSensor(raw)
		if err != nil {
			return nil, fmt.Errorf("LoadScenario: sensor %d: %w", i, err)
		}
		sc.Sensors = append(sc.Sensors, s)
	}
	return sc, nil
}

func decodeSensor(raw json.RawMessage) (model.Sensor, error) {
	var tag sensorTagJSON
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}

	var s model.Sensor
	switch tag.Type {
	case model.SensorCamera:
		s = &model.Camera{}
	case model.SensorAccessPoint:
		s = &model.AccessPoint{}
	case model.SensorNetworkDevice:
		s = &model.NetworkDevice{}
	default:
		return nil, fmt.Errorf("%w: unknown sensor type %q", ErrInvalidSensor, tag.Type)
	}
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, err
	}
	return s, nil
}
