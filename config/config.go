// Package config assembles the run configuration from defaults and an
// optional scene file.
//
// The file format is a small TOML subset:
//
//	backend = "tcell"
//
//	[sphere]
//	center = [0, 30, 0]
//	radius = 20
//
//	[camera]
//	position = [0, -5, 0]
//	distance = 5
//
//	[light]
//	direction = [-0.588348, 0.196116, -0.78446]
//
//	[render]
//	aspect = 0.5
//	threshold = 1e-6
//	lit = "#"
//	shadow = "'"
//
//	[loop]
//	step = 0.25
//	interval_ms = 500
//	frames = 0
//
// Every key is optional. Unknown tables or keys are rejected.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/lixenwraith/vt-sphere/engine"
	"github.com/lixenwraith/vt-sphere/render"
	"github.com/lixenwraith/vt-sphere/scene"
	"github.com/lixenwraith/vt-sphere/terminal"
	"github.com/lixenwraith/vt-sphere/vmath"
)

var ErrSyntax = errors.New("config syntax error")

type Config struct {
	Scene   scene.Scene
	Render  render.Options
	Loop    engine.Options
	Backend terminal.Kind
}

func Default() Config {
	return Config{
		Scene:   scene.Default(),
		Render:  render.DefaultOptions(),
		Loop:    engine.DefaultOptions(),
		Backend: terminal.KindANSI,
	}
}

// Load reads and parses the file at path on top of Default
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse applies data on top of Default and validates the result
func Parse(data []byte) (Config, error) {
	cfg := Default()

	entries, err := parse(data)
	if err != nil {
		return Config{}, err
	}

	for _, e := range entries {
		keys, ok := fields[e.section]
		if !ok {
			return Config{}, syntaxError(e.val.line, "unknown table [%s]", e.section)
		}
		if e.key == "" {
			continue
		}
		set, ok := keys[e.key]
		if !ok {
			if e.section == "" {
				return Config{}, syntaxError(e.val.line, "unknown key %s", e.key)
			}
			return Config{}, syntaxError(e.val.line, "unknown key %s in [%s]", e.key, e.section)
		}
		if err := set(&cfg, e.val); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Scene.Validate(); err != nil {
		return err
	}
	if err := c.Render.Validate(); err != nil {
		return err
	}
	if err := c.Loop.Validate(); err != nil {
		return err
	}
	if _, err := terminal.ParseKind(string(c.Backend)); err != nil {
		return err
	}
	return nil
}

type setter func(c *Config, v value) error

var fields = map[string]map[string]setter{
	"": {
		"backend": func(c *Config, v value) error {
			s, err := v.str()
			if err != nil {
				return err
			}
			k, err := terminal.ParseKind(s)
			if err != nil {
				return syntaxError(v.line, "%v", err)
			}
			c.Backend = k
			return nil
		},
	},
	"sphere": {
		"center": vecField(func(c *Config) *vmath.Vec3 { return &c.Scene.Sphere.Center }),
		"radius": floatField(func(c *Config) *float64 { return &c.Scene.Sphere.Radius }),
	},
	"camera": {
		"position": vecField(func(c *Config) *vmath.Vec3 { return &c.Scene.Camera.Position }),
		"distance": floatField(func(c *Config) *float64 { return &c.Scene.Camera.Distance }),
	},
	"light": {
		"direction": vecField(func(c *Config) *vmath.Vec3 { return &c.Scene.Light.Direction }),
	},
	"render": {
		"aspect":    floatField(func(c *Config) *float64 { return &c.Render.Aspect }),
		"threshold": floatField(func(c *Config) *float64 { return &c.Render.Threshold }),
		"lit":       glyphField(func(c *Config) *byte { return &c.Render.LitGlyph }),
		"shadow":    glyphField(func(c *Config) *byte { return &c.Render.ShadowGlyph }),
	},
	"loop": {
		"step": floatField(func(c *Config) *float64 { return &c.Loop.Step }),
		"interval_ms": func(c *Config, v value) error {
			n, err := v.integer()
			if err != nil {
				return err
			}
			c.Loop.Interval = time.Duration(n) * time.Millisecond
			return nil
		},
		"frames": func(c *Config, v value) error {
			n, err := v.integer()
			if err != nil {
				return err
			}
			if n < 0 || n > math.MaxInt32 {
				return syntaxError(v.line, "frames out of range: %d", n)
			}
			c.Loop.MaxFrames = int(n)
			return nil
		},
	},
}

func floatField(ref func(*Config) *float64) setter {
	return func(c *Config, v value) error {
		f, err := v.number()
		if err != nil {
			return err
		}
		*ref(c) = f
		return nil
	}
}

func vecField(ref func(*Config) *vmath.Vec3) setter {
	return func(c *Config, v value) error {
		vec, err := v.vec3()
		if err != nil {
			return err
		}
		*ref(c) = vec
		return nil
	}
}

func glyphField(ref func(*Config) *byte) setter {
	return func(c *Config, v value) error {
		s, err := v.str()
		if err != nil {
			return err
		}
		if len(s) != 1 {
			return syntaxError(v.line, "glyph must be a single character, got %q", s)
		}
		*ref(c) = s[0]
		return nil
	}
}

func (v value) number() (float64, error) {
	switch n := v.v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	}
	return 0, syntaxError(v.line, "expected number, got %s", v.kind())
}

func (v value) integer() (int64, error) {
	if n, ok := v.v.(int64); ok {
		return n, nil
	}
	return 0, syntaxError(v.line, "expected integer, got %s", v.kind())
}

func (v value) str() (string, error) {
	if s, ok := v.v.(string); ok {
		return s, nil
	}
	return "", syntaxError(v.line, "expected string, got %s", v.kind())
}

func (v value) vec3() (vmath.Vec3, error) {
	arr, ok := v.v.([]any)
	if !ok || len(arr) != 3 {
		return vmath.Vec3{}, syntaxError(v.line, "expected [x, y, z], got %s", v.kind())
	}
	var out [3]float64
	for i, elem := range arr {
		f, err := value{v: elem, line: v.line}.number()
		if err != nil {
			return vmath.Vec3{}, err
		}
		out[i] = f
	}
	return vmath.V3(out[0], out[1], out[2]), nil
}

func (v value) kind() string {
	switch a := v.v.(type) {
	case int64:
		return "integer"
	case float64:
		return "float"
	case string:
		return "string"
	case []any:
		return fmt.Sprintf("array of %d", len(a))
	}
	return fmt.Sprintf("%T", v.v)
}
