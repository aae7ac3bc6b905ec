package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Compositor CompositorConfig `mapstructure:"compositor"`
	Controls   ControlsConfig   `mapstructure:"controls"`
	Apply      ApplyConfig      `mapstructure:"apply"`
	Preview    PreviewConfig    `mapstructure:"preview"`
	Camera     CameraConfig     `mapstructure:"camera"`
	Export     ExportConfig     `mapstructure:"export"`
	Share      ShareConfig      `mapstructure:"share"`
	Session    SessionConfig    `mapstructure:"session"`
}

type ServerConfig struct {
	Port        string        `mapstructure:"port"`
	Mode        string        `mapstructure:"mode"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	StaticDir   string        `mapstructure:"static_dir"`

	// AllowedOrigins 允许跨域携带会话 cookie 的来源，页面同源访问时留空
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UploadConfig 上传限制，MaxPixels 按图片头中的宽高计算，解码前检查
type UploadConfig struct {
	MaxSize     int64  `mapstructure:"max_size"`
	MaxPixels   int64  `mapstructure:"max_pixels"`
	ImagePrefix string `mapstructure:"image_prefix"`
}

// CompositorConfig 合成参数，默认值对应 800x600 画布
type CompositorConfig struct {
	MaxWidth    int     `mapstructure:"max_width"`
	MaxHeight   int     `mapstructure:"max_height"`
	WidthRatio  float64 `mapstructure:"width_ratio"`
	AnchorRatio float64 `mapstructure:"anchor_ratio"`
}

type RangeConfig struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// ControlsConfig 滑块取值范围
type ControlsConfig struct {
	Size     RangeConfig `mapstructure:"size"`
	Opacity  RangeConfig `mapstructure:"opacity"`
	Position RangeConfig `mapstructure:"position"`
}

type ApplyConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

type PreviewConfig struct {
	MaxWidth  int `mapstructure:"max_width"`
	MaxHeight int `mapstructure:"max_height"`
}

type CameraConfig struct {
	Device        string        `mapstructure:"device"`
	IdealWidth    int           `mapstructure:"ideal_width"`
	IdealHeight   int           `mapstructure:"ideal_height"`
	FrameInterval time.Duration `mapstructure:"frame_interval"`
	JPEGQuality   int           `mapstructure:"jpeg_quality"`
}

type ExportConfig struct {
	DownloadFilename string `mapstructure:"download_filename"`
	ShareFilename    string `mapstructure:"share_filename"`
	ShareTitle       string `mapstructure:"share_title"`
	ShareText        string `mapstructure:"share_text"`
}

// ShareConfig 系统分享命令，为空表示不支持分享
type ShareConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	IdleTTL    time.Duration `mapstructure:"idle_ttl"`
}

// Load 从 YAML 文件加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TRYON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// New 使用默认配置路径加载配置
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		// 如果加载失败，返回默认配置
		return Default()
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.static_dir", d.Server.StaticDir)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)

	v.SetDefault("upload.max_size", d.Upload.MaxSize)
	v.SetDefault("upload.max_pixels", d.Upload.MaxPixels)
	v.SetDefault("upload.image_prefix", d.Upload.ImagePrefix)

	v.SetDefault("compositor.max_width", d.Compositor.MaxWidth)
	v.SetDefault("compositor.max_height", d.Compositor.MaxHeight)
	v.SetDefault("compositor.width_ratio", d.Compositor.WidthRatio)
	v.SetDefault("compositor.anchor_ratio", d.Compositor.AnchorRatio)

	v.SetDefault("controls.size.min", d.Controls.Size.Min)
	v.SetDefault("controls.size.max", d.Controls.Size.Max)
	v.SetDefault("controls.opacity.min", d.Controls.Opacity.Min)
	v.SetDefault("controls.opacity.max", d.Controls.Opacity.Max)
	v.SetDefault("controls.position.min", d.Controls.Position.Min)
	v.SetDefault("controls.position.max", d.Controls.Position.Max)

	v.SetDefault("apply.delay", d.Apply.Delay)

	v.SetDefault("preview.max_width", d.Preview.MaxWidth)
	v.SetDefault("preview.max_height", d.Preview.MaxHeight)

	v.SetDefault("camera.device", d.Camera.Device)
	v.SetDefault("camera.ideal_width", d.Camera.IdealWidth)
	v.SetDefault("camera.ideal_height", d.Camera.IdealHeight)
	v.SetDefault("camera.frame_interval", d.Camera.FrameInterval)
	v.SetDefault("camera.jpeg_quality", d.Camera.JPEGQuality)

	v.SetDefault("export.download_filename", d.Export.DownloadFilename)
	v.SetDefault("export.share_filename", d.Export.ShareFilename)
	v.SetDefault("export.share_title", d.Export.ShareTitle)
	v.SetDefault("export.share_text", d.Export.ShareText)

	v.SetDefault("share.command", d.Share.Command)
	v.SetDefault("share.args", d.Share.Args)

	v.SetDefault("session.cookie_name", d.Session.CookieName)
	v.SetDefault("session.idle_ttl", d.Session.IdleTTL)
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        ":8080",
			Mode:        "debug",
			ReadTimeout: 10 * time.Second,
			StaticDir:   "./static",
		},
		Upload: UploadConfig{
			MaxSize:     10 * 1024 * 1024,
			MaxPixels:   40_000_000,
			ImagePrefix: "image/",
		},
		Compositor: CompositorConfig{
			MaxWidth:    800,
			MaxHeight:   600,
			WidthRatio:  0.6,
			AnchorRatio: 0.15,
		},
		Controls: ControlsConfig{
			Size:     RangeConfig{Min: 50, Max: 150},
			Opacity:  RangeConfig{Min: 0, Max: 100},
			Position: RangeConfig{Min: -100, Max: 100},
		},
		Apply: ApplyConfig{
			Delay: 1500 * time.Millisecond,
		},
		Preview: PreviewConfig{
			MaxWidth:  320,
			MaxHeight: 320,
		},
		Camera: CameraConfig{
			Device:        "0",
			IdealWidth:    1280,
			IdealHeight:   720,
			FrameInterval: 66 * time.Millisecond,
			JPEGQuality:   80,
		},
		Export: ExportConfig{
			DownloadFilename: "tryon-genie-result.png",
			ShareFilename:    "tryon-result.png",
			ShareTitle:       "My Virtual Try-On",
			ShareText:        "Check out my virtual try-on result from TryOn Genie!",
		},
		Session: SessionConfig{
			CookieName: "tryon_session",
			IdleTTL:    30 * time.Minute,
		},
	}
}
