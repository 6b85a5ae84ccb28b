package config

// StorageConfig selects where uploaded recipe images are written.
// Driver is "s3" or "local".
type StorageConfig struct {
	Driver string       `mapstructure:"driver"`
	Local  LocalStorage `mapstructure:"local"`
	S3     S3Storage    `mapstructure:"s3"`
}

type LocalStorage struct {
	BasePath string `mapstructure:"base_path"`
	BaseURL  string `mapstructure:"base_url"`
}

// S3Storage holds S3 (or MinIO) settings. Credentials fall back to the
// default AWS chain when AccessKeyID is empty.
type S3Storage struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
	PublicURL       string `mapstructure:"public_url"`
}
