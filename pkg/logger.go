package setup

type Logger interface {
	Info(message string, module string)
	Error(string)
}

type silentLogger struct{}

func (silentLogger) Info(string, string) {}
func (silentLogger) Error(string)        {}

var logger Logger = silentLogger{}

// Verbosity from the configuration; gates the Info messages of the package.
var verbosity int

func SetLogger(l Logger) {
	if l == nil {
		l = silentLogger{}
	}
	logger = l
}

func SetVerbosity(level int) {
	verbosity = level
}
