package tweakdb

// Config holds configuration for the tunable store backend.
type Config struct {
	// Driver selects the backend (memory, sqlite, mysql).
	Driver string `mapstructure:"driver" default:"memory"`
	// Host is the database host (mysql only).
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port (mysql only).
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user (mysql only).
	User string `mapstructure:"user" default:"root"`
	// Password is the database password (mysql only).
	Password string `mapstructure:"password" default:""`
	// Name is the database name, or the SQLite file path.
	Name string `mapstructure:"name" default:"camkit.db"`
	// TimeoutSeconds is the connection and I/O timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// IsValidDriver checks if the configured driver is supported.
func (c Config) IsValidDriver() bool {
	switch c.Driver {
	case DriverMemory, DriverSQLite, DriverMySQL:
		return true
	default:
		return false
	}
}
