package config

// ArtifactsConfig locates the exported model artifact bundle.
type ArtifactsConfig struct {
	Dir string `json:"dir"`
}

// SetDefaults applies sane defaults.
func (c *ArtifactsConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "artifacts"
	}
}
