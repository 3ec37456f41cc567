package config

// StorageConfig locates the SQLite database backing fleet seeding and
// prediction history.
type StorageConfig struct {
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *StorageConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "locopredict.db"
	}
}
