package arm

import (
	"encoding/json"
	"os"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/urtrobotics/armkit/dh"
)

// ModelConfig represents all supported fields in an arm model JSON file.
// Joint limits are given in degrees, matching the units convention at
// user-facing boundaries.
type ModelConfig struct {
	Name        string          `json:"name"`
	Topology    string          `json:"topology"`
	LinkLengths []float64       `json:"link_lengths"`
	JointLimits []JointLimitCfg `json:"joint_limits,omitempty"`
	Damping     float64         `json:"damping,omitempty"`
}

// JointLimitCfg is one joint's allowed range in degrees.
type JointLimitCfg struct {
	MinDeg float64 `json:"min_deg"`
	MaxDeg float64 `json:"max_deg"`
}

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// UnmarshalModelJSON parses JSON data into an arm model. modelName overrides
// the name from the JSON when non-empty.
func UnmarshalModelJSON(jsonData []byte, modelName string, logger golog.Logger) (*Arm, error) {
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}
	var cfg ModelConfig
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal model json")
	}
	return cfg.ParseConfig(modelName, logger)
}

// ParseConfig converts the config into a full Arm with the name modelName.
func (cfg *ModelConfig) ParseConfig(modelName string, logger golog.Logger) (*Arm, error) {
	if modelName == "" {
		modelName = cfg.Name
	}
	topo, err := dh.TopologyByName(cfg.Topology)
	if err != nil {
		return nil, err
	}
	var limits []Limit
	if len(cfg.JointLimits) > 0 {
		if len(cfg.JointLimits) != topo.DoF() {
			return nil, errors.Errorf("model %s: %d joint limits for %d joints", modelName, len(cfg.JointLimits), topo.DoF())
		}
		for _, lim := range cfg.JointLimits {
			jt := NewJointDegrees(lim.MinDeg, lim.MaxDeg)
			limits = append(limits, jt.Limit())
		}
	}
	return New(modelName, topo, cfg.LinkLengths, limits, cfg.Damping, logger)
}

// ParseModelJSONFile reads a given file and then parses the contained JSON
// data.
func ParseModelJSONFile(filename, modelName string, logger golog.Logger) (*Arm, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read model json file")
	}
	return UnmarshalModelJSON(jsonData, modelName, logger)
}
