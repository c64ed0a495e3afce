package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	CollectError    = 3
	WriteError      = 4
	SaveError       = 5
)
