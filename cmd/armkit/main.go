// armkit is a command-line front end for the kinematics engine: forward and
// inverse kinematics for an arm model JSON, and brute-force workspace
// coverage search over link-length grids.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/urtrobotics/armkit/arm"
	"github.com/urtrobotics/armkit/kinematics"
	"github.com/urtrobotics/armkit/spatialmath"
	"github.com/urtrobotics/armkit/utils"
	"github.com/urtrobotics/armkit/workspace"
)

var logger = golog.NewDevelopmentLogger("armkit")

func main() {
	app := &cli.App{
		Name:  "armkit",
		Usage: "kinematic analysis for DH-parameterized serial arms",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "model",
				Usage:    "path to an arm model JSON file",
				Required: true,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "fk",
				Usage: "forward kinematics: joint angles (degrees) to end-effector pose",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "joints",
						Usage:    "comma-separated joint angles in degrees",
						Required: true,
					},
				},
				Action: runFK,
			},
			{
				Name:  "ik",
				Usage: "inverse kinematics: target pose to joint angles (degrees)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "target",
						Usage:    "x,y,z,yaw,pitch,roll with angles in degrees",
						Required: true,
					},
				},
				Action: runIK,
			},
			{
				Name:  "search",
				Usage: "workspace coverage search over a link-length grid",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "targets",
						Usage:    "path to a JSON file of target poses",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "ranges",
						Usage:    "per-link min:max:step ranges, comma separated",
						Required: true,
					},
				},
				Action: runSearch,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

func loadModel(c *cli.Context) (*arm.Arm, error) {
	return arm.ParseModelJSONFile(c.String("model"), "", logger)
}

func runFK(c *cli.Context) error {
	model, err := loadModel(c)
	if err != nil {
		return err
	}
	jointsDeg, err := parseFloats(c.String("joints"))
	if err != nil {
		return err
	}
	if err := model.SetJointPositionsDegrees(jointsDeg); err != nil {
		return err
	}
	pose, err := model.EndEffectorPose()
	if err != nil {
		return err
	}
	point := pose.Point()
	ea := pose.Orientation().Degrees()
	fmt.Printf("position: (%.4f, %.4f, %.4f)\n", point.X, point.Y, point.Z)
	fmt.Printf("orientation (deg): yaw %.4f pitch %.4f roll %.4f\n", ea.Yaw, ea.Pitch, ea.Roll)
	return nil
}

func runIK(c *cli.Context) error {
	model, err := loadModel(c)
	if err != nil {
		return err
	}
	fields, err := parseFloats(c.String("target"))
	if err != nil {
		return err
	}
	if len(fields) != 6 {
		return errors.Errorf("target needs 6 values, got %d", len(fields))
	}
	ea := (&spatialmath.EulerAnglesDegrees{Yaw: fields[3], Pitch: fields[4], Roll: fields[5]}).Radians()
	target := spatialmath.NewPose(r3.Vector{X: fields[0], Y: fields[1], Z: fields[2]}, ea.RotationMatrix())

	thetas, err := model.MoveToPose(target)
	if errors.Is(err, kinematics.ErrUnreachable) || errors.Is(err, kinematics.ErrDegenerateOrientation) || errors.Is(err, kinematics.ErrBaseSingularity) {
		fmt.Printf("target not reachable: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}
	degs := make([]string, 0, len(thetas))
	for _, theta := range thetas {
		degs = append(degs, fmt.Sprintf("%.4f", utils.RadToDeg(theta)))
	}
	fmt.Printf("joint angles (deg): %s\n", strings.Join(degs, ", "))
	return nil
}

type targetCfg struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	YawDeg   float64 `json:"yaw_deg"`
	PitchDeg float64 `json:"pitch_deg"`
	RollDeg  float64 `json:"roll_deg"`
}

func runSearch(c *cli.Context) error {
	model, err := loadModel(c)
	if err != nil {
		return err
	}
	//nolint:gosec
	data, err := os.ReadFile(c.String("targets"))
	if err != nil {
		return err
	}
	var cfgs []targetCfg
	if err := json.Unmarshal(data, &cfgs); err != nil {
		return errors.Wrap(err, "failed to unmarshal targets")
	}
	targets := make([]workspace.Target, 0, len(cfgs))
	for _, cfg := range cfgs {
		ead := &spatialmath.EulerAnglesDegrees{Yaw: cfg.YawDeg, Pitch: cfg.PitchDeg, Roll: cfg.RollDeg}
		targets = append(targets, workspace.Target{
			Point:       r3.Vector{X: cfg.X, Y: cfg.Y, Z: cfg.Z},
			Orientation: ead.Radians(),
		})
	}

	ranges, err := parseRanges(c.String("ranges"))
	if err != nil {
		return err
	}
	candidates := workspace.Grid(ranges)
	logger.Infof("searching %d candidates against %d targets", len(candidates), len(targets))

	results, err := workspace.Search(context.Background(), model.Topology(), candidates, targets, logger)
	if err != nil {
		return err
	}
	covering := workspace.Covering(results)
	if len(covering) == 0 {
		fmt.Println("no candidate covers every target")
		return nil
	}
	for _, result := range covering {
		fmt.Printf("covers: %v\n", result.Links)
	}
	return nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad numeric field %q", part)
		}
		values = append(values, v)
	}
	return values, nil
}

func parseRanges(s string) ([]workspace.LengthRange, error) {
	parts := strings.Split(s, ",")
	ranges := make([]workspace.LengthRange, 0, len(parts))
	for _, part := range parts {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) != 3 {
			return nil, errors.Errorf("range %q must be min:max:step", part)
		}
		var vals [3]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "bad range field %q", f)
			}
			vals[i] = v
		}
		ranges = append(ranges, workspace.LengthRange{Min: vals[0], Max: vals[1], Step: vals[2]})
	}
	return ranges, nil
}
