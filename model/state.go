package model

// PreviewState 预览槽位状态
type PreviewState struct {
	Slot        Slot   `json:"slot"`
	HasImage    bool   `json:"has_image"`
	Placeholder string `json:"placeholder,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Readouts 滑块数值显示
type Readouts struct {
	Size     int `json:"size"`
	Opacity  int `json:"opacity"`
	Position int `json:"position"`
}

// UIState 页面控件状态快照
type UIState struct {
	ApplyEnabled  bool                  `json:"apply_enabled"`
	ExportEnabled bool                  `json:"export_enabled"`
	ResultVisible bool                  `json:"result_visible"`
	Loading       bool                  `json:"loading"`
	CameraOpen    bool                  `json:"camera_open"`
	SurfaceWidth  int                   `json:"surface_width"`
	SurfaceHeight int                   `json:"surface_height"`
	Params        CompositeParams       `json:"params"`
	Readouts      Readouts              `json:"readouts"`
	Previews      map[Slot]PreviewState `json:"previews"`
}
