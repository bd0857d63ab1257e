// Package version хранит сведения о сборке, заполняемые через -ldflags.
package version

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ServiceName: имя сервиса в логах, health-ответах и заголовках Kafka.
const ServiceName = "pharmacy-oms"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

func GetVersion() string { return version }

func GetCommit() string { return commit }

func GetDate() string { return date }

func String() string {
	return fmt.Sprintf("%s version=%s commit=%s date=%s", ServiceName, version, commit, date)
}

// Fields возвращает сведения о сборке для стартовой записи в лог.
func Fields() log.Fields {
	return log.Fields{
		"service": ServiceName,
		"version": version,
		"commit":  commit,
		"built":   date,
	}
}
