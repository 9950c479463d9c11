package config

import (
	"encoding/json"
	"os"
)

// Config holds runtime configuration for recognition and app behavior.
// Fields may be loaded from a JSON file and overridden by command-line flags.
//
// The thresholds below are empirically tuned policy values. Changing one is a
// policy change and should come with its own fixtures.
type Config struct {
	Debug     bool   `json:"debug"`
	DebugAddr string `json:"debug_addr"`
	DarkUI    bool   `json:"dark_ui"`

	// Data sources
	CatalogPath   string `json:"catalog_path"`
	IconDir       string `json:"icon_dir"`
	HashCachePath string `json:"hash_cache_path"`
	OCRLanguage   string `json:"ocr_language"`

	// CaptureBackend is "screenshot" or "gdi" (Windows only).
	CaptureBackend string `json:"capture_backend"`

	// Scheduling
	GameWindow        string `json:"game_window"` // ticks only while this window is focused; empty ticks always
	TickMillis        int    `json:"tick_millis"`
	StateRepeat       bool   `json:"state_repeat"`
	FrameGate         bool   `json:"frame_gate"`
	FrameGateDistance int    `json:"frame_gate_distance"`

	// Per-extraction cooldowns
	WorkbenchCooldownSeconds float64 `json:"workbench_cooldown_seconds"`
	BlueprintCooldownSeconds float64 `json:"blueprint_cooldown_seconds"`
	TrackedCooldownSeconds   float64 `json:"tracked_cooldown_seconds"`
	MapCooldownSeconds       float64 `json:"map_cooldown_seconds"`

	// Capture windows around the pointer
	IconCaptureSize    int `json:"icon_capture_size"`
	TooltipCaptureLeft int `json:"tooltip_capture_left"`
	TooltipCaptureW    int `json:"tooltip_capture_w"`
	TooltipCaptureH    int `json:"tooltip_capture_h"`
	NameCaptureW       int `json:"name_capture_w"`
	NameCaptureH       int `json:"name_capture_h"`

	// Region segmentation
	TooltipMinPixels int     `json:"tooltip_min_pixels"`
	TooltipMinW      int     `json:"tooltip_min_w"`
	TooltipMaxW      int     `json:"tooltip_max_w"`
	TooltipMinH      int     `json:"tooltip_min_h"`
	TooltipMaxH      int     `json:"tooltip_max_h"`
	TooltipMaxAspect float64 `json:"tooltip_max_aspect"`
	TooltipMinFill   float64 `json:"tooltip_min_fill"`
	InflateMargin    int     `json:"inflate_margin"`
	ExtendDensity    float64 `json:"extend_density"`
	ExtendMaxPixels  int     `json:"extend_max_pixels"`
	HighlightMinPix  int     `json:"highlight_min_pixels"`

	// Icon hashing
	TooltipIconMaxDistance int     `json:"tooltip_icon_max_distance"`
	CursorIconMaxDistance  int     `json:"cursor_icon_max_distance"`
	CursorIconMinScore     float64 `json:"cursor_icon_min_score"`
	RectIconMaxDistance    int     `json:"rect_icon_max_distance"`
	IconContrastMin        float64 `json:"icon_contrast_min"`
	IconWindowMin          int     `json:"icon_window_min"`
	IconWindowMax          int     `json:"icon_window_max"`
	IconWindowStep         int     `json:"icon_window_step"`
	IconWindowStride       int     `json:"icon_window_stride"`
	IconMaxCandidates      int     `json:"icon_max_candidates"`

	// Text matching
	MinMatchConfidence float64 `json:"min_match_confidence"`
	MatchCacheSize     int     `json:"match_cache_size"`

	// Map marker localization
	MarkerMinPixels     int     `json:"marker_min_pixels"`
	ClusterRadius       float64 `json:"cluster_radius"`
	ClusterMinMembers   int     `json:"cluster_min_members"`
	TemplateMinScale    float64 `json:"template_min_scale"`
	TemplateMaxScale    float64 `json:"template_max_scale"`
	TemplateScaleStep   float64 `json:"template_scale_step"`
	TemplateStride      int     `json:"template_stride"`
	TemplateSearch      int     `json:"template_search"`
	TemplateMinScore    float64 `json:"template_min_score"`
	LocationMinScore    float64 `json:"location_min_score"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:         false,
		DebugAddr:     "",
		DarkUI:        false,
		CatalogPath:   "",
		IconDir:       "",
		HashCachePath: "",
		OCRLanguage:   "eng",

		CaptureBackend: "screenshot",

		GameWindow:        "",
		TickMillis:        750,
		StateRepeat:       true,
		FrameGate:         true,
		FrameGateDistance: 2,

		WorkbenchCooldownSeconds: 3,
		BlueprintCooldownSeconds: 5,
		TrackedCooldownSeconds:   4,
		MapCooldownSeconds:       2,

		IconCaptureSize:    160,
		TooltipCaptureLeft: 200,
		TooltipCaptureW:    1200,
		TooltipCaptureH:    1000,
		NameCaptureW:       700,
		NameCaptureH:       500,

		TooltipMinPixels: 1500,
		TooltipMinW:      120,
		TooltipMaxW:      1400,
		TooltipMinH:      70,
		TooltipMaxH:      1200,
		TooltipMaxAspect: 3.2,
		TooltipMinFill:   0.45,
		InflateMargin:    6,
		ExtendDensity:    0.55,
		ExtendMaxPixels:  400,
		HighlightMinPix:  40,

		TooltipIconMaxDistance: 20,
		CursorIconMaxDistance:  12,
		CursorIconMinScore:     0.80,
		RectIconMaxDistance:    14,
		IconContrastMin:        20,
		IconWindowMin:          40,
		IconWindowMax:          96,
		IconWindowStep:         8,
		IconWindowStride:       6,
		IconMaxCandidates:      24,

		MinMatchConfidence: 0.5,
		MatchCacheSize:     512,

		MarkerMinPixels:   15,
		ClusterRadius:     25,
		ClusterMinMembers: 10,
		TemplateMinScale:  0.7,
		TemplateMaxScale:  1.3,
		TemplateScaleStep: 0.1,
		TemplateStride:    2,
		TemplateSearch:    60,
		TemplateMinScore:  0.35,
		LocationMinScore:  2,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.OCRLanguage == "" {
		c.OCRLanguage = d.OCRLanguage
	}
	switch c.CaptureBackend {
	case "screenshot", "gdi":
	default:
		c.CaptureBackend = d.CaptureBackend
	}
	if c.TickMillis < 50 {
		c.TickMillis = d.TickMillis
	}
	if c.FrameGateDistance < 0 {
		c.FrameGateDistance = 0
	}
	clampSeconds(&c.WorkbenchCooldownSeconds, d.WorkbenchCooldownSeconds)
	clampSeconds(&c.BlueprintCooldownSeconds, d.BlueprintCooldownSeconds)
	clampSeconds(&c.TrackedCooldownSeconds, d.TrackedCooldownSeconds)
	clampSeconds(&c.MapCooldownSeconds, d.MapCooldownSeconds)
	positive(&c.IconCaptureSize, d.IconCaptureSize)
	positive(&c.TooltipCaptureW, d.TooltipCaptureW)
	positive(&c.TooltipCaptureH, d.TooltipCaptureH)
	positive(&c.NameCaptureW, d.NameCaptureW)
	positive(&c.NameCaptureH, d.NameCaptureH)
	if c.TooltipCaptureLeft < 0 {
		c.TooltipCaptureLeft = d.TooltipCaptureLeft
	}

	positive(&c.TooltipMinPixels, d.TooltipMinPixels)
	positive(&c.TooltipMinW, d.TooltipMinW)
	positive(&c.TooltipMinH, d.TooltipMinH)
	if c.TooltipMaxW < c.TooltipMinW {
		c.TooltipMaxW = d.TooltipMaxW
	}
	if c.TooltipMaxH < c.TooltipMinH {
		c.TooltipMaxH = d.TooltipMaxH
	}
	if c.TooltipMaxAspect < 1 {
		c.TooltipMaxAspect = d.TooltipMaxAspect
	}
	unit(&c.TooltipMinFill, d.TooltipMinFill)
	if c.InflateMargin < 0 {
		c.InflateMargin = d.InflateMargin
	}
	unit(&c.ExtendDensity, d.ExtendDensity)
	if c.ExtendMaxPixels < 0 {
		c.ExtendMaxPixels = d.ExtendMaxPixels
	}
	positive(&c.HighlightMinPix, d.HighlightMinPix)

	hashDistance(&c.TooltipIconMaxDistance, d.TooltipIconMaxDistance)
	hashDistance(&c.CursorIconMaxDistance, d.CursorIconMaxDistance)
	hashDistance(&c.RectIconMaxDistance, d.RectIconMaxDistance)
	unit(&c.CursorIconMinScore, d.CursorIconMinScore)
	if c.IconContrastMin < 0 {
		c.IconContrastMin = d.IconContrastMin
	}
	positive(&c.IconWindowMin, d.IconWindowMin)
	if c.IconWindowMax < c.IconWindowMin {
		c.IconWindowMax = c.IconWindowMin
	}
	positive(&c.IconWindowStep, d.IconWindowStep)
	positive(&c.IconWindowStride, d.IconWindowStride)
	positive(&c.IconMaxCandidates, d.IconMaxCandidates)

	unit(&c.MinMatchConfidence, d.MinMatchConfidence)
	positive(&c.MatchCacheSize, d.MatchCacheSize)

	positive(&c.MarkerMinPixels, d.MarkerMinPixels)
	if c.ClusterRadius <= 0 {
		c.ClusterRadius = d.ClusterRadius
	}
	positive(&c.ClusterMinMembers, d.ClusterMinMembers)
	if c.TemplateMinScale <= 0 {
		c.TemplateMinScale = d.TemplateMinScale
	}
	if c.TemplateMaxScale < c.TemplateMinScale {
		c.TemplateMaxScale = c.TemplateMinScale
	}
	if c.TemplateScaleStep <= 0 {
		c.TemplateScaleStep = d.TemplateScaleStep
	}
	positive(&c.TemplateStride, d.TemplateStride)
	positive(&c.TemplateSearch, d.TemplateSearch)
	unit(&c.TemplateMinScore, d.TemplateMinScore)
	if c.LocationMinScore <= 0 {
		c.LocationMinScore = d.LocationMinScore
	}
	return nil
}

func clampSeconds(v *float64, def float64) {
	if *v < 0 || *v > 600 {
		*v = def
	}
}

func positive(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func unit(v *float64, def float64) {
	if *v <= 0 || *v > 1 {
		*v = def
	}
}

func hashDistance(v *int, def int) {
	if *v < 0 || *v > 64 {
		*v = def
	}
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
