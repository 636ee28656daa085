package config

// ConfigFile represents the raw portablesource.yaml as written by users.
// All fields are pointers/omitempty to distinguish "not set" from "set to zero value".
type ConfigFile struct {
	Hardware   *string    `json:"hardware,omitempty" yaml:"hardware,omitempty"`
	Language   *string    `json:"language,omitempty" yaml:"language,omitempty"`
	UseUV      *bool      `json:"use_uv,omitempty" yaml:"use_uv,omitempty"`
	SourcesDir *string    `json:"sources_dir,omitempty" yaml:"sources_dir,omitempty"`
	Catalog    *string    `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Tools      *ToolsFile `json:"tools,omitempty" yaml:"tools,omitempty"`
}

// ToolsFile overrides the bundled tool locations. Relative paths are relative to the install root.
type ToolsFile struct {
	Git    *string `json:"git,omitempty" yaml:"git,omitempty"`
	Python *string `json:"python,omitempty" yaml:"python,omitempty"`
	FFmpeg *string `json:"ffmpeg,omitempty" yaml:"ffmpeg,omitempty"`
	CUDA   *string `json:"cuda,omitempty" yaml:"cuda,omitempty"`
}
