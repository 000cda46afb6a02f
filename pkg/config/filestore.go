package config

const (
	FileStoreLocal = "local"
	FileStoreS3    = "s3"
)

// FileStoreConfig selects where image files live. Only the section of the chosen driver is read.
type FileStoreConfig struct {
	Driver string           `koanf:"driver"`
	Local  LocalStoreConfig `koanf:"local"`
	S3     S3Config         `koanf:"s3"`
}

type LocalStoreConfig struct {
	Root string `koanf:"root"`
}

type S3Config struct {
	Bucket       string `koanf:"bucket"`
	Region       string `koanf:"region"`
	Endpoint     string `koanf:"endpoint"`
	Prefix       string `koanf:"prefix"`
	UsePathStyle bool   `koanf:"usepathstyle"`
}

func (c *FileStoreConfig) String() string {
	if c.Driver == FileStoreS3 {
		return section("File Store",
			field{"driver", c.Driver},
			field{"s3.bucket", c.S3.Bucket},
			field{"s3.region", c.S3.Region},
			field{"s3.endpoint", c.S3.Endpoint},
			field{"s3.prefix", c.S3.Prefix},
			field{"s3.usepathstyle", c.S3.UsePathStyle},
		)
	}
	return section("File Store", field{"driver", c.Driver}, field{"local.root", c.Local.Root})
}

// Validate defaults the driver to local.
func (c *FileStoreConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = FileStoreLocal
	}
	switch c.Driver {
	case FileStoreLocal:
		if c.Local.Root == "" {
			return invalid("filestore.local.root is required for the local driver")
		}
	case FileStoreS3:
		if c.S3.Bucket == "" || c.S3.Region == "" {
			return invalid("filestore.s3.bucket and filestore.s3.region are required for the s3 driver")
		}
	default:
		return invalid("filestore.driver %q is not supported", c.Driver)
	}
	return nil
}
