package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/MobRulesGames/boardscene/camera"
	"github.com/MobRulesGames/boardscene/logging"
	"github.com/MobRulesGames/boardscene/placement"
	"github.com/MobRulesGames/mathgl"
	"github.com/spf13/viper"
)

const FileName = "boardscene.cfg.json"

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("stepInterval", "200ms")
	viper.SetDefault("frameRate", 60)

	viper.SetDefault("models.dir", "")

	viper.SetDefault("journal.path", "")
	viper.SetDefault("journal.session", "default")

	viper.SetDefault("script.path", "")
	viper.SetDefault("script.instructionLimit", 1000000)
	viper.SetDefault("script.trace", false)

	viper.SetDefault("sound.enabled", true)
	viper.SetDefault("sound.sampleRate", 44100)

	layout := placement.DefaultLayout()
	viper.SetDefault("layout.tileSize", layout.TileSize)
	viper.SetDefault("layout.playerOffset", layout.PlayerOffset)
	viper.SetDefault("layout.playerMargin", layout.PlayerMargin)
	viper.SetDefault("layout.propertyTopMargin", layout.PropertyTopMargin)
	viper.SetDefault("layout.propertyLeftMargin", layout.PropertyLeftMargin)
	viper.SetDefault("layout.propertySpacing", layout.PropertySpacing)
	viper.SetDefault("layout.propertyLeftOffset", layout.PropertyLeftOffset)

	opts := camera.DefaultOptions()
	viper.SetDefault("camera.enabled", opts.Enabled)
	viper.SetDefault("camera.userRotate", opts.UserRotate)
	viper.SetDefault("camera.rotateSpeed", opts.RotateSpeed)
	viper.SetDefault("camera.userZoom", opts.UserZoom)
	viper.SetDefault("camera.zoomSpeed", opts.ZoomSpeed)
	viper.SetDefault("camera.userPan", opts.UserPan)
	viper.SetDefault("camera.panSpeed", opts.PanSpeed)
	viper.SetDefault("camera.autoRotate", opts.AutoRotate)
	viper.SetDefault("camera.autoRotateSpeed", opts.AutoRotateSpeed)
	viper.SetDefault("camera.minPolarAngle", opts.MinPolarAngle)
	viper.SetDefault("camera.maxPolarAngle", opts.MaxPolarAngle)
	viper.SetDefault("camera.minDistance", opts.MinDistance)
	// Matches the far plane of the renderer's perspective.
	viper.SetDefault("camera.maxDistance", 1000)

	// The board spans [0, 11*tileSize] on X and Z.
	middle := layout.TileSize * 11 / 2
	viper.SetDefault("camera.position", []float64{float64(middle), 100, 160})
	viper.SetDefault("camera.center", []float64{float64(middle), -6, float64(middle)})
}

// Load sets defaults and reads FileName from configDir. A missing file is
// not an error; the defaults are used instead.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logging.Info("no config file, using defaults", "dir", configDir)
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	logging.Info("config loaded", "file", viper.ConfigFileUsed())
	return nil
}

func float32At(key string) float32 {
	return float32(viper.GetFloat64(key))
}

// Layout reads the layout.* keys. Keys are read one at a time so values
// missing from the file fall back to their defaults.
func Layout() (placement.Layout, error) {
	layout := placement.Layout{
		TileSize:           float32At("layout.tileSize"),
		PlayerOffset:       float32At("layout.playerOffset"),
		PlayerMargin:       float32At("layout.playerMargin"),
		PropertyTopMargin:  float32At("layout.propertyTopMargin"),
		PropertyLeftMargin: float32At("layout.propertyLeftMargin"),
		PropertySpacing:    float32At("layout.propertySpacing"),
		PropertyLeftOffset: float32At("layout.propertyLeftOffset"),
	}
	return layout, layout.Validate()
}

func CameraOptions() (camera.Options, error) {
	opts := camera.Options{
		Enabled:         viper.GetBool("camera.enabled"),
		UserRotate:      viper.GetBool("camera.userRotate"),
		RotateSpeed:     viper.GetFloat64("camera.rotateSpeed"),
		UserZoom:        viper.GetBool("camera.userZoom"),
		ZoomSpeed:       viper.GetFloat64("camera.zoomSpeed"),
		UserPan:         viper.GetBool("camera.userPan"),
		PanSpeed:        viper.GetFloat64("camera.panSpeed"),
		AutoRotate:      viper.GetBool("camera.autoRotate"),
		AutoRotateSpeed: viper.GetFloat64("camera.autoRotateSpeed"),
		MinPolarAngle:   viper.GetFloat64("camera.minPolarAngle"),
		MaxPolarAngle:   viper.GetFloat64("camera.maxPolarAngle"),
		MinDistance:     viper.GetFloat64("camera.minDistance"),
		MaxDistance:     viper.GetFloat64("camera.maxDistance"),
	}
	return opts, opts.Validate()
}

func vec3(key string) (mathgl.Vec3, error) {
	var xyz []float32
	if err := viper.UnmarshalKey(key, &xyz); err != nil {
		return mathgl.Vec3{}, fmt.Errorf("%s: %w", key, err)
	}
	if len(xyz) != 3 {
		return mathgl.Vec3{}, fmt.Errorf("%s: want 3 coordinates, got %d", key, len(xyz))
	}
	return mathgl.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// CameraPlacement is the initial camera position and look-at centre.
func CameraPlacement() (position, center mathgl.Vec3, err error) {
	if position, err = vec3("camera.position"); err != nil {
		return
	}
	center, err = vec3("camera.center")
	return
}

func StepInterval() time.Duration {
	return viper.GetDuration("stepInterval")
}

// FrameInterval is the time between camera updates.
func FrameInterval() time.Duration {
	rate := viper.GetInt("frameRate")
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

func LogLevel() (slog.Level, error) {
	return logging.ParseLevel(viper.GetString("logLevel"))
}

func ModelsDir() string {
	return viper.GetString("models.dir")
}

// JournalPath is the sqlite file events are recorded to. Empty means an
// in-memory journal.
func JournalPath() string {
	return viper.GetString("journal.path")
}

func JournalSession() string {
	return viper.GetString("journal.session")
}

func ScriptPath() string {
	return viper.GetString("script.path")
}

func ScriptInstructionLimit() int {
	return viper.GetInt("script.instructionLimit")
}

// ScriptTrace turns on trace logging while the script runs.
func ScriptTrace() bool {
	return viper.GetBool("script.trace")
}

func SoundEnabled() bool {
	return viper.GetBool("sound.enabled")
}

func SoundSampleRate() int {
	return viper.GetInt("sound.sampleRate")
}
