package settings

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
	"github.com/velutils/climb/cerror"
	"github.com/velutils/climb/locomotion"
	"github.com/velutils/climb/simulation"
)

// Settings contains everything that can be configured in the settings file.
type Settings struct {
	Locomotion struct {
		VelocityHistorySize    int
		MaxArmLength           float64
		UnStickDistance        float64
		VelocityLimit          float64
		MaxJumpSpeed           float64
		JumpMultiplier         float64
		MinimumRaycastDistance float64
		DefaultSlideFactor     float64
		SingleHandSlideFactor  float64
		Precision              float64
		HeadRadius             float64
		Gravity                float64
		TouchDebounce          float64
		// LayerMask selects the collider layers the hands and head collide with.
		LayerMask       int64
		LeftHandOffset  []float64
		RightHandOffset []float64
		DisableMovement bool
		// DebugModes holds the names of the stages logged at debug level, or "all".
		DebugModes []string
	}
	Log struct {
		// Level is a logrus level name.
		Level string
	}
	Sentry struct {
		// DSN enables reporting of worker panics to sentry if set.
		DSN         string
		Environment string
		Debug       bool
	}
	Recording struct {
		Enabled bool
		// Directory is where recordings are saved.
		Directory string
	}
	Simulation struct {
		TickRate           int
		BodyRadius         float64
		BodyColliderOffset []float64
		BodyFriction       float64
	}
}

// DefaultSettings returns the default settings, which hold the default locomotion.Config.
func DefaultSettings() Settings {
	s := Settings{}
	conf := locomotion.DefaultConfig()
	s.Locomotion.VelocityHistorySize = conf.VelocityHistorySize
	s.Locomotion.MaxArmLength = f64(conf.MaxArmLength)
	s.Locomotion.UnStickDistance = f64(conf.UnStickDistance)
	s.Locomotion.VelocityLimit = f64(conf.VelocityLimit)
	s.Locomotion.MaxJumpSpeed = f64(conf.MaxJumpSpeed)
	s.Locomotion.JumpMultiplier = f64(conf.JumpMultiplier)
	s.Locomotion.MinimumRaycastDistance = f64(conf.MinimumRaycastDistance)
	s.Locomotion.DefaultSlideFactor = f64(conf.DefaultSlideFactor)
	s.Locomotion.SingleHandSlideFactor = f64(conf.SingleHandSlideFactor)
	s.Locomotion.Precision = f64(conf.Precision)
	s.Locomotion.HeadRadius = f64(conf.HeadRadius)
	s.Locomotion.Gravity = f64(conf.Gravity)
	s.Locomotion.TouchDebounce = f64(conf.TouchDebounce)
	s.Locomotion.LayerMask = int64(conf.LayerMask)
	s.Locomotion.LeftHandOffset = vec(conf.LeftHandOffset)
	s.Locomotion.RightHandOffset = vec(conf.RightHandOffset)
	s.Locomotion.DebugModes = []string{}

	s.Log.Level = logrus.InfoLevel.String()
	s.Sentry.Environment = "development"
	s.Recording.Directory = "recordings"

	body := simulation.DefaultBodyConfig()
	s.Simulation.TickRate = 60
	s.Simulation.BodyRadius = f64(body.Radius)
	s.Simulation.BodyColliderOffset = vec(body.ColliderOffset)
	s.Simulation.BodyFriction = f64(body.Friction)
	return s
}

// Load loads the settings from the file at path, or creates the file with the default settings
// if it does not yet exist.
func Load(path string) (Settings, error) {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		data, err := toml.Marshal(s)
		if err != nil {
			return s, fmt.Errorf("encode default settings: %v", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return s, fmt.Errorf("create default settings: %v", err)
		}
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %v", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode settings: %v", err)
	}
	return s, nil
}

// LocomotionConfig returns the locomotion.Config described by the settings, logging debug output
// to log. The config is validated.
func (s Settings) LocomotionConfig(log logrus.FieldLogger) (locomotion.Config, error) {
	l := s.Locomotion
	modes, unknown := locomotion.ParseDebugModes(l.DebugModes)
	if len(unknown) > 0 {
		return locomotion.Config{}, cerror.Kind(cerror.ErrInvalidConfig, "unknown debug modes %v", unknown)
	}
	left, err := toVec3("LeftHandOffset", l.LeftHandOffset)
	if err != nil {
		return locomotion.Config{}, err
	}
	right, err := toVec3("RightHandOffset", l.RightHandOffset)
	if err != nil {
		return locomotion.Config{}, err
	}
	if l.LayerMask < 0 || l.LayerMask > int64(^uint32(0)) {
		return locomotion.Config{}, cerror.Kind(cerror.ErrInvalidConfig, "LayerMask %d does not fit 32 bits", l.LayerMask)
	}

	conf := locomotion.Config{
		VelocityHistorySize:    l.VelocityHistorySize,
		MaxArmLength:           float32(l.MaxArmLength),
		UnStickDistance:        float32(l.UnStickDistance),
		VelocityLimit:          float32(l.VelocityLimit),
		MaxJumpSpeed:           float32(l.MaxJumpSpeed),
		JumpMultiplier:         float32(l.JumpMultiplier),
		MinimumRaycastDistance: float32(l.MinimumRaycastDistance),
		DefaultSlideFactor:     float32(l.DefaultSlideFactor),
		SingleHandSlideFactor:  float32(l.SingleHandSlideFactor),
		Precision:              float32(l.Precision),
		HeadRadius:             float32(l.HeadRadius),
		Gravity:                float32(l.Gravity),
		TouchDebounce:          float32(l.TouchDebounce),
		LayerMask:              uint32(l.LayerMask),
		LeftHandOffset:         left,
		RightHandOffset:        right,
		DisableMovement:        l.DisableMovement,
		DebugModes:             modes,
		Log:                    log,
	}
	if err := conf.Validate(); err != nil {
		return locomotion.Config{}, err
	}
	return conf, nil
}

// BodyConfig returns the simulation.BodyConfig described by the settings.
func (s Settings) BodyConfig() (simulation.BodyConfig, error) {
	offset, err := toVec3("BodyColliderOffset", s.Simulation.BodyColliderOffset)
	if err != nil {
		return simulation.BodyConfig{}, err
	}
	if !(s.Simulation.BodyRadius > 0) {
		return simulation.BodyConfig{}, cerror.Kind(cerror.ErrInvalidConfig, "BodyRadius must be positive, got %v", s.Simulation.BodyRadius)
	}
	return simulation.BodyConfig{
		Gravity:        float32(s.Locomotion.Gravity),
		ColliderOffset: offset,
		Radius:         float32(s.Simulation.BodyRadius),
		Precision:      float32(s.Locomotion.Precision),
		Friction:       float32(s.Simulation.BodyFriction),
	}, nil
}

// TickDuration returns the fixed step the simulation runs at.
func (s Settings) TickDuration() (time.Duration, error) {
	if s.Simulation.TickRate <= 0 {
		return 0, cerror.Kind(cerror.ErrInvalidConfig, "TickRate must be positive, got %d", s.Simulation.TickRate)
	}
	return time.Second / time.Duration(s.Simulation.TickRate), nil
}

// LogLevel returns the configured logrus level.
func (s Settings) LogLevel() (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(s.Log.Level)
	if err != nil {
		return logrus.InfoLevel, cerror.Kind(cerror.ErrInvalidConfig, "%v", err)
	}
	return lvl, nil
}

// f64 converts f to the float64 with the shortest decimal representation that converts back to f,
// so that the settings file holds 0.98 rather than 0.9800000190734863.
func f64(f float32) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	return v
}

func vec(v mgl32.Vec3) []float64 {
	return []float64{f64(v[0]), f64(v[1]), f64(v[2])}
}

func toVec3(name string, v []float64) (mgl32.Vec3, error) {
	if len(v) != 3 {
		return mgl32.Vec3{}, cerror.Kind(cerror.ErrInvalidConfig, "%s must have 3 components, got %d", name, len(v))
	}
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}, nil
}
