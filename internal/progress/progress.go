package progress

import (
	"fmt"
	"os"

	"gdpetl/internal/chrono"
	"gdpetl/internal/etlerr"
)

// TimestampFormat renders as YYYY-MM-DD-HH:MM:SS.
const TimestampFormat = "2006-01-02-15:04:05"

// Separator is written after the final milestone of a run.
const Separator = "-------------------------------------------"

const (
	JobStarted       = "ETL Job started"
	ExtractStarted   = "Extract phase Started"
	ExtractEnded     = "Extract phase Ended"
	TransformStarted = "Transform phase Started"
	TransformEnded   = "Transform phase Ended"
	LoadStarted      = "Load phase Started"
	LoadEnded        = "Load phase Ended"
	JobFailed        = "ETL Job failed"
)

// Log appends timestamped milestone lines to a plain text file. The file is
// opened and closed on every write, there is no rotation.
type Log struct {
	path string
	time chrono.API
}

func NewLog(path string, time chrono.API) Log {
	return Log{path: path, time: time}
}

func (l Log) Path() string {
	return l.path
}

// Line formats message the way Write appends it, without the newline.
func (l Log) Line(message string) string {
	return fmt.Sprintf("%s, %s", l.time.Now().Format(TimestampFormat), message)
}

func (l Log) Write(message string) (err error) {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return etlerr.New(etlerr.StageProgress, etlerr.KindIO, err)
	}
	defer func() {
		closeErr := f.Close()
		if err == nil {
			err = etlerr.New(etlerr.StageProgress, etlerr.KindIO, closeErr)
		}
	}()

	_, err = fmt.Fprintln(f, l.Line(message))
	return etlerr.New(etlerr.StageProgress, etlerr.KindIO, err)
}
