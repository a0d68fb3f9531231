package logging

const (
	BaseDataDir   = "data"
	LogsDir       = "logs"
	LogFileFormat = "2006-01-02.log" // daily files
	TimeFormat    = "2006-01-02 15:04:05"
)

type LogLevel string

const (
	Development LogLevel = "development"
	Production  LogLevel = "production"
)

type ProcessName string

const (
	InstallerProcess ProcessName = "installer"
)

type LoggerConfig struct {
	LogDir      string
	ProcessName ProcessName
	Environment LogLevel
	UseColors   bool
}

func NewDefaultConfig(processName ProcessName) LoggerConfig {
	return LoggerConfig{
		LogDir:      BaseDataDir,
		ProcessName: processName,
		Environment: Development,
		UseColors:   true,
	}
}
