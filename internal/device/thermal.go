package device

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/errors"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
)

const (
	defaultThermalRoot = "/sys/class/thermal"
	milliDegreesPerC   = 1000.0
)

// sysfsThermalProbe reads the device temperature from a sysfs thermal zone.
type sysfsThermalProbe struct {
	tempPath string
}

// NewThermalProbe discovers the first readable thermal zone under the
// default sysfs root.
func NewThermalProbe() (ThermalProbe, error) {
	return NewThermalProbeAt(defaultThermalRoot)
}

// NewThermalProbeAt discovers a thermal zone under the given root. Zones
// whose type suggests the SoC/CPU sensor are preferred over the first match.
func NewThermalProbeAt(root string) (ThermalProbe, error) {
	errFactory := errors.New()

	zones, err := filepath.Glob(filepath.Join(root, "thermal_zone*"))
	if err != nil || len(zones) == 0 {
		return nil, errFactory.WithData(ErrNoThermalZone, root)
	}

	var fallback string
	for _, zone := range zones {
		tempPath := filepath.Join(zone, "temp")
		if _, err := os.Stat(tempPath); err != nil {
			continue
		}
		if fallback == "" {
			fallback = tempPath
		}

		zoneType, err := os.ReadFile(filepath.Join(zone, "type"))
		if err != nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(string(zoneType)))
		if strings.Contains(name, "cpu") || strings.Contains(name, "soc") || strings.Contains(name, "pkg") {
			logger.Debug().Str("zone", zone).Str("type", name).Msg("Selected thermal zone")
			return &sysfsThermalProbe{tempPath: tempPath}, nil
		}
	}

	if fallback == "" {
		return nil, errFactory.WithData(ErrNoThermalZone, root)
	}

	logger.Debug().Str("path", fallback).Msg("Selected first readable thermal zone")

	return &sysfsThermalProbe{tempPath: fallback}, nil
}

func (p *sysfsThermalProbe) ReadTemperature() (float64, error) {
	errFactory := errors.New()

	raw, err := os.ReadFile(p.tempPath)
	if err != nil {
		return 0, errFactory.Wrap(ErrThermalReadFailed, err)
	}

	milli, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, errFactory.Wrap(ErrThermalReadFailed, err)
	}

	return milli / milliDegreesPerC, nil
}

func (*sysfsThermalProbe) Close() error {
	return nil
}
