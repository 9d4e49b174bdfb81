package device

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/errors"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
)

const defaultPowerSupplyRoot = "/sys/class/power_supply"

// sysfsBatteryProbe reads battery capacity and charging status from sysfs.
type sysfsBatteryProbe struct {
	capacityPath string
	statusPath   string
}

// NewBatteryProbe discovers the first power supply exposing a capacity file.
func NewBatteryProbe() (BatteryProbe, error) {
	return NewBatteryProbeAt(defaultPowerSupplyRoot)
}

func NewBatteryProbeAt(root string) (BatteryProbe, error) {
	errFactory := errors.New()

	supplies, err := filepath.Glob(filepath.Join(root, "*"))
	if err != nil || len(supplies) == 0 {
		return nil, errFactory.WithData(ErrNoBattery, root)
	}

	for _, supply := range supplies {
		capacityPath := filepath.Join(supply, "capacity")
		if _, err := os.Stat(capacityPath); err != nil {
			continue
		}

		logger.Debug().Str("supply", supply).Msg("Selected battery supply")

		return &sysfsBatteryProbe{
			capacityPath: capacityPath,
			statusPath:   filepath.Join(supply, "status"),
		}, nil
	}

	return nil, errFactory.WithData(ErrNoBattery, root)
}

func (p *sysfsBatteryProbe) ReadBattery() (BatteryReading, error) {
	errFactory := errors.New()

	raw, err := os.ReadFile(p.capacityPath)
	if err != nil {
		return BatteryReading{}, errFactory.Wrap(ErrBatteryReadFailed, err)
	}

	capacity, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return BatteryReading{}, errFactory.Wrap(ErrBatteryReadFailed, err)
	}

	reading := BatteryReading{Level: float64(capacity) / 100.0}

	// Status is optional; a missing file means the charging flag stays false.
	if status, err := os.ReadFile(p.statusPath); err == nil {
		state := strings.TrimSpace(string(status))
		reading.Charging = state == "Charging" || state == "Full"
	}

	return reading, nil
}

func (*sysfsBatteryProbe) Close() error {
	return nil
}
